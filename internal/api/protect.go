package api

import (
	"log"
	"net/http"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"

	"github.com/go-chi/chi/v5"
)

// WalletIDExtractor locates the target wallet id among a request's
// arguments. Handlers that keep the id under the conventional "walletId"
// path parameter use WalletIDFromPath("walletId"); anything else passes
// an explicit override.
type WalletIDExtractor func(r *http.Request) string

func WalletIDFromPath(param string) WalletIDExtractor {
	return func(r *http.Request) string {
		return chi.URLParam(r, param)
	}
}

// RequireCapability wraps a wallet-protected handler with the capability
// check: resolve the caller, locate the wallet id, ask the grant manager,
// then proceed or deny. It adds nothing beyond an audit log line and never
// swallows the wrapped handler's behavior.
func (s *Server) RequireCapability(capability permission.Capability, extract WalletIDExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			walletID := extract(r)
			if walletID == "" {
				respondError(w, http.StatusBadRequest, "wallet id missing")
				return
			}

			allowed, err := s.grants.HasCapability(r.Context(), walletID, claims.UserID, capability)
			if err != nil {
				log.Printf("ERROR: capability check failed for user %d on wallet %s: %v", claims.UserID, walletID, err)
				respondError(w, http.StatusInternalServerError, "Failed to check permissions")
				return
			}
			if !allowed {
				log.Printf("AUDIT: user %d denied %s on wallet %s", claims.UserID, capability, walletID)
				respondError(w, http.StatusForbidden, "missing capability: "+capability.Label())
				return
			}

			log.Printf("AUDIT: user %d allowed %s on wallet %s", claims.UserID, capability, walletID)
			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwnership is the ownership-only variant used for operations that
// no grant can delegate, such as deleting the wallet or managing shares.
func (s *Server) RequireOwnership(extract WalletIDExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				respondError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			walletID := extract(r)
			if walletID == "" {
				respondError(w, http.StatusBadRequest, "wallet id missing")
				return
			}

			isOwner, err := s.store.IsWalletOwner(r.Context(), walletID, claims.UserID)
			if err != nil {
				log.Printf("ERROR: ownership check failed for user %d on wallet %s: %v", claims.UserID, walletID, err)
				respondError(w, http.StatusInternalServerError, "Failed to check permissions")
				return
			}
			if !isOwner {
				log.Printf("AUDIT: user %d denied owner access on wallet %s", claims.UserID, walletID)
				respondError(w, http.StatusForbidden, "Only the wallet owner can perform this operation")
				return
			}

			log.Printf("AUDIT: user %d allowed owner access on wallet %s", claims.UserID, walletID)
			next.ServeHTTP(w, r)
		})
	}
}
