package api

import "net/http"

// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /health [get]
func (s *Server) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.store.GetPool().Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	respond(w, http.StatusOK, "ok", nil)
}
