package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/grants"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"

	"github.com/go-chi/chi/v5"
)

type AssignPermissionsRequest struct {
	Capabilities []string `json:"capabilities" example:"VIEW_WALLET,VIEW_BALANCE"`
	Reason       *string  `json:"reason,omitempty" example:"limit access to read-only"`
}

// WalletAccessResponse is one wallet in the caller's "shared with me"
// summary.
type WalletAccessResponse struct {
	WalletID         string    `json:"wallet_id"`
	WalletName       string    `json:"wallet_name"`
	OwnerEmail       string    `json:"owner_email"`
	OwnerDisplayName *string   `json:"owner_display_name"`
	Tier             string    `json:"tier"`
	Capabilities     []string  `json:"capabilities"`
	SharedAt         time.Time `json:"shared_at"`
	Active           bool      `json:"active"`
}

func granteeIDFromPath(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "granteeId"), 10, 64)
}

// mapGrantError translates the grant manager's typed errors to statuses.
// ShareNotFound and friends are client errors, not 404s: the caller may
// simply have guessed a wrong wallet/user pairing.
func mapGrantError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, grants.ErrNotAuthorized):
		respondError(w, http.StatusForbidden, "Only the wallet owner can manage permissions")
	case errors.Is(err, grants.ErrShareNotFound),
		errors.Is(err, grants.ErrShareInactive),
		errors.Is(err, grants.ErrCapabilityNotGranted):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: grant operation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to process permissions")
	}
}

// @Summary      Assign capabilities
// @Description  Replaces the grantee's capability set on the wallet with exactly the listed capabilities. Capabilities omitted from the list are no longer granted.
// @Tags         wallet-permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        walletId                  path      string                    true  "Wallet ID"
// @Param        granteeId                 path      int                       true  "Grantee user ID"
// @Param        assignPermissionsRequest  body      AssignPermissionsRequest  true  "New capability set"
// @Success      200                       {object}  Envelope
// @Failure      400                       {object}  Envelope
// @Failure      403                       {object}  Envelope
// @Router       /wallet-permissions/{walletId}/users/{granteeId} [post]
func (s *Server) AssignPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	granteeID, err := granteeIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid grantee ID format")
		return
	}

	var req AssignPermissionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	caps := make([]permission.Capability, 0, len(req.Capabilities))
	for _, id := range req.Capabilities {
		c, err := permission.Parse(id)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		caps = append(caps, c)
	}

	grantList, err := s.grants.AssignPermissions(r.Context(), walletID, granteeID, caps, claims.UserID)
	if err != nil {
		mapGrantError(w, err)
		return
	}

	s.notifyUser(r, granteeID, "wallet_permissions_changed", map[string]interface{}{
		"wallet_id": walletID,
		"grants":    grantList,
	})

	respond(w, http.StatusOK, "Permissions assigned", grantList)
}

// @Summary      List a grantee's capabilities on a wallet
// @Description  Returns the in-effect grants on the active share, or an empty list when none exists.
// @Tags         wallet-permissions
// @Produce      json
// @Security     BearerAuth
// @Param        walletId   path      string  true  "Wallet ID"
// @Param        granteeId  path      int     true  "Grantee user ID"
// @Success      200        {object}  Envelope
// @Failure      400        {object}  Envelope
// @Router       /wallet-permissions/{walletId}/users/{granteeId} [get]
func (s *Server) ListGranteePermissionsHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")

	granteeID, err := granteeIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid grantee ID format")
		return
	}

	grantList, err := s.grants.GetGrantsForShareAndGrantee(r.Context(), walletID, granteeID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve grants")
		return
	}

	respond(w, http.StatusOK, "", grantList)
}

// @Summary      List the caller's received wallet access
// @Description  For every wallet currently shared to the caller: the owner's display info, the share tier, and the in-effect capability list.
// @Tags         wallet-permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=[]WalletAccessResponse}
// @Router       /wallet-permissions/my-permissions [get]
func (s *Server) MyPermissionsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	access, err := s.grants.GetAllGrantsForGrantee(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve permissions")
		return
	}

	response := make([]WalletAccessResponse, 0, len(access))
	for _, entry := range access {
		caps := make([]string, 0, len(entry.Grants))
		for _, grant := range entry.Grants {
			caps = append(caps, string(grant.Capability))
		}
		response = append(response, WalletAccessResponse{
			WalletID:         entry.Share.WalletID,
			WalletName:       entry.Share.WalletName,
			OwnerEmail:       entry.Share.OwnerEmail,
			OwnerDisplayName: entry.Share.OwnerDisplayName,
			Tier:             string(entry.Share.Tier),
			Capabilities:     caps,
			SharedAt:         entry.Share.CreatedAt,
			Active:           entry.Share.Active,
		})
	}

	respond(w, http.StatusOK, "", response)
}

// @Summary      Revoke one capability
// @Description  Flips a single capability off on the grantee's share. Other capabilities on the same share are untouched.
// @Tags         wallet-permissions
// @Produce      json
// @Security     BearerAuth
// @Param        walletId    path      string  true  "Wallet ID"
// @Param        granteeId   path      int     true  "Grantee user ID"
// @Param        capability  path      string  true  "Capability machine id"
// @Success      200         {object}  Envelope
// @Failure      400         {object}  Envelope
// @Failure      403         {object}  Envelope
// @Router       /wallet-permissions/{walletId}/users/{granteeId}/permissions/{capability} [delete]
func (s *Server) RevokeCapabilityHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	granteeID, err := granteeIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid grantee ID format")
		return
	}

	capability, err := permission.Parse(chi.URLParam(r, "capability"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.grants.RevokeCapability(r.Context(), walletID, granteeID, capability, claims.UserID); err != nil {
		mapGrantError(w, err)
		return
	}

	s.notifyUser(r, granteeID, "wallet_permissions_changed", map[string]interface{}{
		"wallet_id": walletID,
		"revoked":   capability,
	})

	respond(w, http.StatusOK, "Permission revoked", nil)
}

// @Summary      Check one capability
// @Description  Answers whether the user currently holds the capability on the wallet. The wallet's owner holds every capability implicitly.
// @Tags         wallet-permissions
// @Produce      json
// @Security     BearerAuth
// @Param        walletId    path      string  true  "Wallet ID"
// @Param        granteeId   path      int     true  "User ID to check"
// @Param        capability  path      string  true  "Capability machine id"
// @Success      200         {object}  Envelope{data=bool}
// @Failure      400         {object}  Envelope
// @Router       /wallet-permissions/{walletId}/users/{granteeId}/has-permission/{capability} [get]
func (s *Server) HasPermissionHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")

	granteeID, err := granteeIDFromPath(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid grantee ID format")
		return
	}

	capability, err := permission.Parse(chi.URLParam(r, "capability"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	has, err := s.grants.HasCapability(r.Context(), walletID, granteeID, capability)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check permission")
		return
	}

	respond(w, http.StatusOK, "", has)
}
