package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Yenhi6886/finance-management-be-sub000/internal/database"
	"github.com/Yenhi6886/finance-management-be-sub000/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/jaevor/go-nanoid"
)

const maxReceiptBytes = 10 << 20

// signedAmount converts a transaction's amount into the delta it applies
// to the wallet balance.
func signedAmount(txType string, amountMinor int64) int64 {
	if txType == "expense" {
		return -amountMinor
	}
	return amountMinor
}

type CreateTransactionRequest struct {
	AmountMinor int64      `json:"amount_minor" example:"25000"`
	TxType      string     `json:"tx_type" example:"expense" enums:"income,expense"`
	Category    *string    `json:"category,omitempty" example:"groceries"`
	Note        *string    `json:"note,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// @Summary      Add a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        walletId                  path      string                    true  "Wallet ID"
// @Param        createTransactionRequest  body      CreateTransactionRequest  true  "Transaction details"
// @Success      201                       {object}  Envelope
// @Failure      400                       {object}  Envelope
// @Failure      403                       {object}  Envelope
// @Router       /wallets/{walletId}/transactions [post]
func (s *Server) CreateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	claims := GetUserFromContext(r.Context())
	walletID := chi.URLParam(r, "walletId")

	var req CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TxType != "income" && req.TxType != "expense" {
		respondError(w, http.StatusBadRequest, "tx_type must be 'income' or 'expense'")
		return
	}
	if req.AmountMinor <= 0 {
		respondError(w, http.StatusBadRequest, "amount_minor must be positive")
		return
	}

	occurredAt := time.Now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	generateID, err := nanoid.Standard(20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	var txn *models.Transaction
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		var err error
		txn, err = q.CreateTransaction(r.Context(), database.CreateTransactionParams{
			ID:          generateID(),
			WalletID:    walletID,
			CreatedBy:   claims.UserID,
			AmountMinor: req.AmountMinor,
			TxType:      req.TxType,
			Category:    req.Category,
			Note:        req.Note,
			OccurredAt:  occurredAt,
		})
		if err != nil {
			return err
		}
		return q.AdjustWalletBalance(r.Context(), walletID, signedAmount(req.TxType, req.AmountMinor))
	})
	if txErr != nil {
		log.Printf("ERROR: Failed to create transaction in wallet %s: %v", walletID, txErr)
		respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	respond(w, http.StatusCreated, "Transaction created", txn)
}

// @Summary      List a wallet's transactions
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        walletId  path      string  true   "Wallet ID"
// @Param        limit     query     int     false  "Number of items to return" default(100)
// @Param        offset    query     int     false  "Offset for pagination" default(0)
// @Success      200       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Router       /wallets/{walletId}/transactions [get]
func (s *Server) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")
	limit, offset := parsePagination(r)

	txns, err := s.store.ListTransactions(r.Context(), walletID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to list transactions")
		return
	}

	respond(w, http.StatusOK, "", txns)
}

type UpdateTransactionRequest struct {
	AmountMinor *int64     `json:"amount_minor,omitempty"`
	TxType      *string    `json:"tx_type,omitempty" enums:"income,expense"`
	Category    *string    `json:"category,omitempty"`
	Note        *string    `json:"note,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
}

// @Summary      Edit a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        walletId                  path      string                    true  "Wallet ID"
// @Param        txId                      path      string                    true  "Transaction ID"
// @Param        updateTransactionRequest  body      UpdateTransactionRequest  true  "Fields to change"
// @Success      200                       {object}  Envelope
// @Failure      400                       {object}  Envelope
// @Failure      403                       {object}  Envelope
// @Failure      404                       {object}  Envelope
// @Router       /wallets/{walletId}/transactions/{txId} [patch]
func (s *Server) UpdateTransactionHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")
	txID := chi.URLParam(r, "txId")

	var req UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TxType != nil && *req.TxType != "income" && *req.TxType != "expense" {
		respondError(w, http.StatusBadRequest, "tx_type must be 'income' or 'expense'")
		return
	}
	if req.AmountMinor != nil && *req.AmountMinor <= 0 {
		respondError(w, http.StatusBadRequest, "amount_minor must be positive")
		return
	}

	var updated *models.Transaction
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		before, err := q.GetTransactionByID(r.Context(), txID, walletID)
		if err != nil {
			return err
		}
		if before == nil {
			return nil
		}

		ok, err := q.UpdateTransaction(r.Context(), txID, walletID, database.UpdateTransactionParams{
			AmountMinor: req.AmountMinor,
			TxType:      req.TxType,
			Category:    req.Category,
			Note:        req.Note,
			OccurredAt:  req.OccurredAt,
		})
		if err != nil || !ok {
			return err
		}

		updated, err = q.GetTransactionByID(r.Context(), txID, walletID)
		if err != nil {
			return err
		}

		delta := signedAmount(updated.TxType, updated.AmountMinor) - signedAmount(before.TxType, before.AmountMinor)
		if delta == 0 {
			return nil
		}
		return q.AdjustWalletBalance(r.Context(), walletID, delta)
	})
	if txErr != nil {
		log.Printf("ERROR: Failed to update transaction %s: %v", txID, txErr)
		respondError(w, http.StatusInternalServerError, "Failed to update transaction")
		return
	}
	if updated == nil {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	respond(w, http.StatusOK, "Transaction updated", updated)
}

// @Summary      Delete a transaction
// @Tags         transactions
// @Security     BearerAuth
// @Param        walletId  path      string  true  "Wallet ID"
// @Param        txId      path      string  true  "Transaction ID"
// @Success      200       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Failure      404       {object}  Envelope
// @Router       /wallets/{walletId}/transactions/{txId} [delete]
func (s *Server) DeleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")
	txID := chi.URLParam(r, "txId")

	var deleted *models.Transaction
	txErr := s.store.ExecTx(r.Context(), func(q *database.Queries) error {
		txn, err := q.GetTransactionByID(r.Context(), txID, walletID)
		if err != nil {
			return err
		}
		if txn == nil {
			return nil
		}

		ok, err := q.DeleteTransaction(r.Context(), txID, walletID)
		if err != nil || !ok {
			return err
		}
		deleted = txn

		return q.AdjustWalletBalance(r.Context(), walletID, -signedAmount(txn.TxType, txn.AmountMinor))
	})
	if txErr != nil {
		log.Printf("ERROR: Failed to delete transaction %s: %v", txID, txErr)
		respondError(w, http.StatusInternalServerError, "Failed to delete transaction")
		return
	}
	if deleted == nil {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	if deleted.ReceiptID != nil {
		if err := s.receipts.Delete(*deleted.ReceiptID); err != nil {
			log.Printf("WARN: Failed to delete receipt %s: %v", *deleted.ReceiptID, err)
		}
	}

	respond(w, http.StatusOK, "Transaction deleted", nil)
}

// @Summary      Upload a receipt
// @Description  Attaches a receipt file to a transaction, replacing any previous one.
// @Tags         transactions
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        walletId  path      string  true  "Wallet ID"
// @Param        txId      path      string  true  "Transaction ID"
// @Param        receipt   formData  file    true  "Receipt file"
// @Success      200       {object}  Envelope
// @Failure      400       {object}  Envelope
// @Failure      403       {object}  Envelope
// @Failure      404       {object}  Envelope
// @Router       /wallets/{walletId}/transactions/{txId}/receipt [post]
func (s *Server) UploadReceiptHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")
	txID := chi.URLParam(r, "txId")

	txn, err := s.store.GetTransactionByID(r.Context(), txID, walletID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve transaction")
		return
	}
	if txn == nil {
		respondError(w, http.StatusNotFound, "Transaction not found")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}
	file, _, err := r.FormFile("receipt")
	if err != nil {
		respondError(w, http.StatusBadRequest, "receipt file is required")
		return
	}
	defer file.Close()

	generateID, err := nanoid.Standard(20)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	receiptID := generateID()

	if err := s.receipts.Save(receiptID, io.LimitReader(file, maxReceiptBytes)); err != nil {
		log.Printf("ERROR: Failed to store receipt for transaction %s: %v", txID, err)
		respondError(w, http.StatusInternalServerError, "Failed to store receipt")
		return
	}

	if _, err := s.store.SetTransactionReceipt(r.Context(), txID, walletID, &receiptID); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to attach receipt")
		return
	}

	if txn.ReceiptID != nil {
		if err := s.receipts.Delete(*txn.ReceiptID); err != nil {
			log.Printf("WARN: Failed to delete replaced receipt %s: %v", *txn.ReceiptID, err)
		}
	}

	respond(w, http.StatusOK, "Receipt uploaded", map[string]string{"receipt_id": receiptID})
}

// @Summary      Download a receipt
// @Tags         transactions
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        walletId  path  string  true  "Wallet ID"
// @Param        txId      path  string  true  "Transaction ID"
// @Success      200       {file}    file
// @Failure      403       {object}  Envelope
// @Failure      404       {object}  Envelope
// @Router       /wallets/{walletId}/transactions/{txId}/receipt [get]
func (s *Server) DownloadReceiptHandler(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "walletId")
	txID := chi.URLParam(r, "txId")

	txn, err := s.store.GetTransactionByID(r.Context(), txID, walletID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve transaction")
		return
	}
	if txn == nil || txn.ReceiptID == nil {
		respondError(w, http.StatusNotFound, "Receipt not found")
		return
	}

	reader, err := s.receipts.Get(*txn.ReceiptID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Receipt not found")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	io.Copy(w, reader)
}
