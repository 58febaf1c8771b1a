package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/database"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/grants"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/permission"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
)

type CreateWalletRequest struct {
	Name         string  `json:"name" example:"Household"`
	Currency     string  `json:"currency" example:"VND"`
	BalanceMinor int64   `json:"balance_minor" example:"150000"`
	Description  *string `json:"description,omitempty"`
}

// @Summary      Create a wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        createWalletRequest  body      CreateWalletRequest  true  "Wallet details"
// @Success      201                  {object}  Envelope
// @Failure      400                  {object}  Envelope
// @Router       /wallets [post]
func (s *Server) CreateWalletHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	var req CreateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Wallet name is required")
		return
	}
	if req.Currency == "" {
		req.Currency = "VND"
	}

	generateID, err := nanoid.Standard(20)
	if err != nil {
		log.Printf("CRITICAL: Failed to initialize nanoid generator: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	wallet, err := s.store.CreateWallet(r.Context(), database.CreateWalletParams{
		ID:           generateID(),
		OwnerID:      claims.UserID,
		Name:         req.Name,
		Currency:     req.Currency,
		BalanceMinor: req.BalanceMinor,
		Description:  req.Description,
	})
	if err != nil {
		log.Printf("ERROR: Failed to create wallet for user %d: %v", claims.UserID, err)
		respondError(w, http.StatusInternalServerError, "Failed to create wallet")
		return
	}

	respond(w, http.StatusCreated, "Wallet created", wallet)
}

type WalletListResponse struct {
	Owned  interface{} `json:"owned"`
	Shared interface{} `json:"shared"`
}

// @Summary      List wallets
// @Description  Lists the caller's own wallets and those currently shared to them.
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=WalletListResponse}
// @Router       /wallets [get]
func (s *Server) ListWalletsHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	owned, err := s.store.ListWalletsForOwner(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list wallets")
		return
	}

	shared, err := s.store.ListSharedWallets(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list shared wallets")
		return
	}

	respond(w, http.StatusOK, "", WalletListResponse{Owned: owned, Shared: shared})
}

// @Summary      Get a wallet
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        walletId  path      string  true  "Wallet ID"
// @Success      200       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Failure      404       {object}  Envelope
// @Router       /wallets/{walletId} [get]
func (s *Server) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")

	wallet, err := s.store.GetWalletByID(r.Context(), walletID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve wallet")
		return
	}
	if wallet == nil {
		respondError(w, http.StatusNotFound, "Wallet not found")
		return
	}

	respond(w, http.StatusOK, "", wallet)
}

type BalanceResponse struct {
	WalletID     string `json:"wallet_id"`
	Currency     string `json:"currency"`
	BalanceMinor int64  `json:"balance_minor"`
}

// @Summary      Get wallet balance
// @Tags         wallets
// @Produce      json
// @Security     BearerAuth
// @Param        walletId  path      string  true  "Wallet ID"
// @Success      200       {object}  Envelope{data=BalanceResponse}
// @Failure      403       {object}  Envelope
// @Router       /wallets/{walletId}/balance [get]
func (s *Server) GetWalletBalanceHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")

	wallet, err := s.store.GetWalletByID(r.Context(), walletID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve wallet")
		return
	}
	if wallet == nil {
		respondError(w, http.StatusNotFound, "Wallet not found")
		return
	}

	respond(w, http.StatusOK, "", BalanceResponse{
		WalletID:     wallet.ID,
		Currency:     wallet.Currency,
		BalanceMinor: wallet.BalanceMinor,
	})
}

type UpdateWalletRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// @Summary      Update a wallet
// @Tags         wallets
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        walletId             path      string               true  "Wallet ID"
// @Param        updateWalletRequest  body      UpdateWalletRequest  true  "Fields to change"
// @Success      200                  {object}  Envelope
// @Failure      403                  {object}  Envelope
// @Failure      404                  {object}  Envelope
// @Router       /wallets/{walletId} [patch]
func (s *Server) UpdateWalletHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")

	var req UpdateWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := s.store.UpdateWallet(r.Context(), walletID, database.UpdateWalletParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update wallet")
		return
	}
	if !updated {
		respondError(w, http.StatusNotFound, "Wallet not found")
		return
	}

	wallet, err := s.store.GetWalletByID(r.Context(), walletID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve wallet")
		return
	}

	respond(w, http.StatusOK, "Wallet updated", wallet)
}

// @Summary      Delete a wallet
// @Description  Deletes a wallet with all its transactions, shares, and grants. Owner only.
// @Tags         wallets
// @Security     BearerAuth
// @Param        walletId  path      string  true  "Wallet ID"
// @Success      200       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Failure      404       {object}  Envelope
// @Router       /wallets/{walletId} [delete]
func (s *Server) DeleteWalletHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	grantees, err := s.store.ListActiveSharesForOwner(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve wallet shares")
		return
	}

	deleted, err := s.store.DeleteWallet(r.Context(), walletID)
	if err != nil {
		log.Printf("ERROR: Failed to delete wallet %s: %v", walletID, err)
		respondError(w, http.StatusInternalServerError, "Failed to delete wallet")
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Wallet not found")
		return
	}

	// Grantees of the deleted wallet lose access immediately via the
	// cascade; tell them why their share disappeared.
	for _, share := range grantees {
		if share.WalletID != walletID {
			continue
		}
		s.notifyUser(r, share.GranteeID, "wallet_deleted", map[string]string{"wallet_id": walletID})
	}

	respond(w, http.StatusOK, "Wallet deleted", nil)
}

type ShareWalletRequest struct {
	GranteeEmail string `json:"grantee_email" example:"friend@example.com"`
	Tier         string `json:"tier" example:"EDIT" enums:"VIEW,EDIT,ADMIN"`
}

// @Summary      Share a wallet
// @Description  Shares a wallet with another user at a coarse tier. The tier's default capabilities are granted immediately and can be customized afterwards.
// @Tags         shares
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        walletId            path      string              true  "Wallet ID"
// @Param        shareWalletRequest  body      ShareWalletRequest  true  "Share details"
// @Success      201                 {object}  Envelope
// @Failure      400                 {object}  Envelope
// @Failure      403                 {object}  Envelope
// @Failure      404                 {object}  Envelope
// @Failure      409                 {object}  Envelope
// @Router       /wallets/{walletId}/share [post]
func (s *Server) ShareWalletHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	var req ShareWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tier, err := permission.ParseTier(req.Tier)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid tier. Must be VIEW, EDIT or ADMIN")
		return
	}

	grantee, err := s.store.GetUserByEmail(r.Context(), req.GranteeEmail)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error while finding grantee")
		return
	}
	if grantee == nil {
		respondError(w, http.StatusNotFound, "Grantee user not found")
		return
	}

	share, seeded, err := s.grants.ShareWallet(r.Context(), walletID, grantee.ID, tier, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, grants.ErrNotAuthorized):
			respondError(w, http.StatusForbidden, "Only the wallet owner can share it")
		case errors.Is(err, grants.ErrCannotShareWithSelf):
			respondError(w, http.StatusBadRequest, "Cannot share a wallet with yourself")
		case errors.Is(err, database.ErrShareAlreadyExists):
			respondError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("ERROR: Failed to share wallet %s: %v", walletID, err)
			respondError(w, http.StatusInternalServerError, "Failed to share wallet")
		}
		return
	}

	s.notifyUser(r, grantee.ID, "wallet_shared_with_you", map[string]interface{}{
		"share":  share,
		"grants": seeded,
	})

	respond(w, http.StatusCreated, "Wallet shared", map[string]interface{}{
		"share":  share,
		"grants": seeded,
	})
}

// @Summary      List wallets I have shared
// @Tags         shares
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope
// @Router       /shares/outgoing [get]
func (s *Server) ListOutgoingSharesHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	shares, err := s.store.ListActiveSharesForOwner(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve outgoing shares")
		return
	}

	respond(w, http.StatusOK, "", shares)
}

// @Summary      Revoke a share
// @Description  Deactivates a share and removes its grants. Only the wallet owner can do this; the share row stays behind, inactive.
// @Tags         shares
// @Security     BearerAuth
// @Param        shareId  path      int  true  "ID of the share to revoke"
// @Success      200      {object}  Envelope
// @Failure      400      {object}  Envelope
// @Failure      403      {object}  Envelope
// @Router       /shares/{shareId} [delete]
func (s *Server) RevokeShareHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())

	shareID, err := strconv.ParseInt(chi.URLParam(r, "shareId"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid share ID format")
		return
	}

	share, err := s.grants.RevokeShare(r.Context(), shareID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, grants.ErrShareNotFound), errors.Is(err, grants.ErrShareInactive):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, grants.ErrNotAuthorized):
			respondError(w, http.StatusForbidden, "Only the wallet owner can revoke this share")
		default:
			log.Printf("ERROR: Failed to revoke share %d: %v", shareID, err)
			respondError(w, http.StatusInternalServerError, "Failed to revoke share")
		}
		return
	}

	s.notifyUser(r, share.GranteeID, "share_revoked_for_you", map[string]string{"wallet_id": share.WalletID})

	respond(w, http.StatusOK, "Share revoked", nil)
}

// @Summary      Wallet spending report
// @Description  Aggregates the wallet's transactions by category and direction in a date range.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        walletId  path      string  true   "Wallet ID"
// @Param        from      query     string  false  "Range start (RFC 3339), defaults to 30 days ago"
// @Param        to        query     string  false  "Range end (RFC 3339), defaults to now"
// @Success      200       {object}  Envelope
// @Failure      400       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Router       /wallets/{walletId}/reports/summary [get]
func (s *Server) WalletReportHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")

	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := r.URL.Query().Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'from' parameter, must be RFC 3339")
			return
		}
		from = parsed
	}
	if v := r.URL.Query().Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'to' parameter, must be RFC 3339")
			return
		}
		to = parsed
	}

	summary, err := s.store.SummarizeByCategory(r.Context(), walletID, from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	respond(w, http.StatusOK, "", summary)
}
