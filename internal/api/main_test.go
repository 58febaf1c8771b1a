package api

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/auth"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/config"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/database"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/grants"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/storage"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/websocket"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var testServer *Server
var testUserToken string
var testUserClaims *auth.AppClaims

func TestMain(m *testing.M) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:14-alpine",
		postgres.WithDatabase("test_api_db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		log.Fatalf("Could not start postgres: %s", err)
	}
	defer pgContainer.Terminate(ctx)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Fatalf("Could not get connection string: %s", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("Could not connect to database: %s", err)
	}

	schema, err := os.ReadFile("../../db/init.sql")
	if err != nil {
		log.Fatalf("Could not read schema file: %s", err)
	}
	if _, err := pool.Exec(ctx, string(schema)); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	tempDir, err := os.MkdirTemp("", "api-receipts-test")
	if err != nil {
		log.Fatalf("Could not create temp dir: %s", err)
	}
	defer os.RemoveAll(tempDir)

	receipts, err := storage.NewReceiptStore(tempDir)
	if err != nil {
		log.Fatalf("Could not create receipt store: %s", err)
	}

	wsHub := websocket.NewHub()
	store := database.NewStore(pool)
	grantManager := grants.NewManager(store)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "api_test_secret"}}
	testServer = NewServer(cfg, store, grantManager, receipts, wsHub)

	hashedPassword, _ := auth.HashPassword("password")
	var userID int64
	var email = "api_test_user@example.com"
	pool.QueryRow(ctx, `INSERT INTO users (email, password_hash) VALUES ($1, $2) RETURNING id`, email, hashedPassword).Scan(&userID)

	testUser := &models.User{ID: userID, Email: email}
	testUserToken, err = auth.GenerateJWT(testUser, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not generate token: %s", err)
	}

	testUserClaims, err = auth.VerifyJWT(testUserToken, cfg.JWT.Secret)
	if err != nil {
		log.Fatalf("Could not verify token: %s", err)
	}

	os.Exit(m.Run())
}
