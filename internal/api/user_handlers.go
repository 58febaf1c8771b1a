package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/go-chi/chi/v5"
)

// @Summary      Get current user info
// @Description  Retrieves information about the currently authenticated user from their JWT token.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Failure      401  {object}  Envelope
// @Router       /me [get]
func (s *Server) GetCurrentUserHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	if claims == nil {
		respondError(w, http.StatusInternalServerError, "Could not retrieve user from token")
		return
	}

	respond(w, http.StatusOK, "", claims)
}

// @Summary      List active sessions
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /me/sessions [get]
func (s *Server) ListSessionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sessions, err := s.store.ListSessionsForUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list sessions")
		return
	}

	respond(w, http.StatusOK, "", sessions)
}

// @Summary      Revoke a session
// @Tags         users
// @Security     BearerAuth
// @Param        sessionId  path  string  true  "Session ID"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Router       /me/sessions/{sessionId} [delete]
func (s *Server) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	sessionID, err := uuid.Parse(chi.URLParam(r, "sessionId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if err := s.store.DeleteSessionByID(r.Context(), sessionID, claims.UserID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	respond(w, http.StatusOK, "Session revoked", nil)
}
