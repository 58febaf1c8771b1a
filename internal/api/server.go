package api

import (
	"github.com/Yenhi6886/finance-management-be-sub000/internal/config"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/database"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/grants"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/storage"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/websocket"
)

type Server struct {
	config   *config.Config
	store    *database.Store
	grants   *grants.Manager
	receipts *storage.ReceiptStore
	wsHub    *websocket.Hub
}

func NewServer(cfg *config.Config, store *database.Store, grantManager *grants.Manager, receipts *storage.ReceiptStore, wsHub *websocket.Hub) *Server {
	return &Server{
		config:   cfg,
		store:    store,
		grants:   grantManager,
		receipts: receipts,
		wsHub:    wsHub,
	}
}
