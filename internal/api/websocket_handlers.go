package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/auth"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/websocket"
)

func (s *Server) ServeWsHandler(w http.ResponseWriter, r *http.Request) {
	tokenString := r.URL.Query().Get("token")
	if tokenString == "" {
		log.Println("WS connection attempt without token")
		return
	}

	claims, err := auth.VerifyJWT(tokenString, s.config.JWT.Secret)
	if err != nil {
		log.Printf("WS connection attempt with invalid token: %v", err)
		return
	}

	conn, err := websocket.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	client := websocket.NewClient(s.wsHub, conn, claims.UserID)
	s.wsHub.Register <- client

	go client.ReadPump()
	go client.WritePump()
}

// notifyUser journals the event and pushes it over any open websocket
// connections. The journal write rides along with whatever request
// context the caller holds; push failures only drop the realtime copy.
func (s *Server) notifyUser(r *http.Request, userID int64, eventType string, payload interface{}) {
	if err := s.store.LogEvent(r.Context(), userID, eventType, payload); err != nil {
		log.Printf("ERROR: Failed to journal %s event for user %d: %v", eventType, userID, err)
	}

	eventMsg := map[string]interface{}{"event_type": eventType, "payload": payload}
	eventBytes, _ := json.Marshal(eventMsg)
	s.wsHub.PublishEvent(userID, eventBytes)
}
