// @title           Finance Management API
// @version         1.0
// @host            localhost
// @schemes         http https
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/api"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/config"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/database"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/grants"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/storage"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/Yenhi6886/finance-management-be-sub000/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Cannot load configuration: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Cannot connect to the database: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(context.Background()); err != nil {
		log.Fatalf("Cannot ping the database: %v", err)
	}
	log.Println("Connected to the database")

	receipts, err := storage.NewReceiptStore(cfg.Storage.Path)
	if err != nil {
		log.Fatalf("Cannot initialize receipt storage: %v", err)
	}
	log.Printf("Receipts will be stored in: %s", cfg.Storage.Path)

	wsHub := websocket.NewHub()
	go wsHub.Run()

	store := database.NewStore(dbpool)
	grantManager := grants.NewManager(store)
	server := api.NewServer(cfg, store, grantManager, receipts, wsHub)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(api.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("https://localhost/swagger/doc.json"),
	))

	r.Get("/ws", server.ServeWsHandler)

	r.Get("/health", server.HealthCheckHandler)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/v1/auth/register", server.RegisterHandler)
	r.Post("/api/v1/auth/login", server.LoginHandler)
	r.Post("/api/v1/auth/refresh", server.RefreshTokenHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(server.AuthMiddleware)

		r.Post("/auth/logout", server.LogoutHandler)
		r.Get("/me", server.GetCurrentUserHandler)
		r.Get("/me/sessions", server.ListSessionsHandler)
		r.Delete("/me/sessions/{sessionId}", server.DeleteSessionHandler)

		r.Get("/wallets", server.ListWalletsHandler)
		r.Post("/wallets", server.CreateWalletHandler)

		walletID := api.WalletIDFromPath("walletId")

		r.With(server.RequireCapability(permission.ViewWallet, walletID)).
			Get("/wallets/{walletId}", server.GetWalletHandler)
		r.With(server.RequireCapability(permission.ViewBalance, walletID)).
			Get("/wallets/{walletId}/balance", server.GetWalletBalanceHandler)
		r.With(server.RequireCapability(permission.EditWallet, walletID)).
			Patch("/wallets/{walletId}", server.UpdateWalletHandler)
		r.With(server.RequireOwnership(walletID)).
			Delete("/wallets/{walletId}", server.DeleteWalletHandler)
		r.With(server.RequireOwnership(walletID)).
			Post("/wallets/{walletId}/share", server.ShareWalletHandler)
		r.With(server.RequireCapability(permission.ViewReports, walletID)).
			Get("/wallets/{walletId}/reports/summary", server.WalletReportHandler)

		r.With(server.RequireCapability(permission.ViewTransactions, walletID)).
			Get("/wallets/{walletId}/transactions", server.ListTransactionsHandler)
		r.With(server.RequireCapability(permission.AddTransaction, walletID)).
			Post("/wallets/{walletId}/transactions", server.CreateTransactionHandler)
		r.With(server.RequireCapability(permission.EditTransaction, walletID)).
			Patch("/wallets/{walletId}/transactions/{txId}", server.UpdateTransactionHandler)
		r.With(server.RequireCapability(permission.DeleteTransaction, walletID)).
			Delete("/wallets/{walletId}/transactions/{txId}", server.DeleteTransactionHandler)
		r.With(server.RequireCapability(permission.EditTransaction, walletID)).
			Post("/wallets/{walletId}/transactions/{txId}/receipt", server.UploadReceiptHandler)
		r.With(server.RequireCapability(permission.ViewTransactions, walletID)).
			Get("/wallets/{walletId}/transactions/{txId}/receipt", server.DownloadReceiptHandler)

		r.Get("/shares/outgoing", server.ListOutgoingSharesHandler)
		r.Delete("/shares/{shareId}", server.RevokeShareHandler)

		r.Get("/wallet-permissions/my-permissions", server.MyPermissionsHandler)
		r.Post("/wallet-permissions/{walletId}/users/{granteeId}", server.AssignPermissionsHandler)
		r.Get("/wallet-permissions/{walletId}/users/{granteeId}", server.ListGranteePermissionsHandler)
		r.Delete("/wallet-permissions/{walletId}/users/{granteeId}/permissions/{capability}", server.RevokeCapabilityHandler)
		r.Get("/wallet-permissions/{walletId}/users/{granteeId}/has-permission/{capability}", server.HasPermissionHandler)

		r.Get("/events", server.GetEventsHandler)
	})

	log.Println("Starting server on port :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatalf("Cannot start server: %v", err)
	}
}
