package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/internal/middleware"
	"github.com/snapsplit/snapsplit/internal/scan"
	"github.com/snapsplit/snapsplit/internal/service"
)

// Scanner extracts structured receipt data from an image.
type Scanner interface {
	ScanReceipt(ctx context.Context, imageBase64, mimeType string) (*scan.Result, error)
}

// ScanFailurePublisher reports scan failures to the notification queue.
type ScanFailurePublisher interface {
	PublishScanFailed(ctx context.Context, userID, detail string) error
}

// ReceiptHandler serves receipt CRUD, split computation and scanning.
// scanner and scanFailures may be nil when the features are not configured.
type ReceiptHandler struct {
	receipts     *service.ReceiptService
	scanner      Scanner
	scanFailures ScanFailurePublisher
}

func NewReceiptHandler(receipts *service.ReceiptService, scanner Scanner, scanFailures ScanFailurePublisher) *ReceiptHandler {
	return &ReceiptHandler{receipts: receipts, scanner: scanner, scanFailures: scanFailures}
}

func (h *ReceiptHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateReceiptInput
	if err := decodeJSON(r, &input); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	receipt, err := h.receipts.Create(r.Context(), middleware.GetUserID(r.Context()), &input)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, receipt)
}

func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.receipts.List(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summaries)
}

func (h *ReceiptHandler) Get(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.receipts.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

func (h *ReceiptHandler) Split(w http.ResponseWriter, r *http.Request) {
	report, err := h.receipts.Split(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func (h *ReceiptHandler) AssignItem(w http.ResponseWriter, r *http.Request) {
	var ref service.ParticipantRef
	if err := decodeJSON(r, &ref); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	assignment, err := h.receipts.AssignItem(r.Context(), chi.URLParam(r, "itemID"), ref)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, assignment)
}

func (h *ReceiptHandler) UnassignItem(w http.ResponseWriter, r *http.Request) {
	if err := h.receipts.UnassignItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type addPaymentRequest struct {
	Amount float64 `json:"amount"`
	service.ParticipantRef
}

func (h *ReceiptHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req addPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payment, err := h.receipts.AddPayment(r.Context(), chi.URLParam(r, "id"), req.Amount, req.ParticipantRef)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, payment)
}

type scanRequest struct {
	Image    string `json:"image"`
	MimeType string `json:"mimeType"`
}

// Scan runs the uploaded image through the inference service and returns
// the extracted draft. Nothing is persisted; the client reviews the draft
// and submits it through Create.
func (h *ReceiptHandler) Scan(w http.ResponseWriter, r *http.Request) {
	if h.scanner == nil {
		respondError(w, http.StatusServiceUnavailable, "receipt scanning is not configured")
		return
	}

	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Image == "" {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}
	if req.MimeType == "" {
		req.MimeType = "image/jpeg"
	}

	result, err := h.scanner.ScanReceipt(r.Context(), req.Image, req.MimeType)
	if err != nil {
		if h.scanFailures != nil {
			// Best effort, the HTTP error is the authoritative signal.
			_ = h.scanFailures.PublishScanFailed(r.Context(), middleware.GetUserID(r.Context()), err.Error())
		}
		respondError(w, http.StatusBadGateway, "scan failed: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, result)
}
