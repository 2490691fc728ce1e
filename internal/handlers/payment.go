package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/chemist-edu/apiserver/internal/services"
	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
	"github.com/go-chi/chi/v5"
)

const (
	maxReceiptMemory = 16 << 20
	maxReceiptBytes  = 32 << 20
	formFieldReceipt = "receipt"
)

// PaymentHandler provides HTTP handlers for tuition payments.
type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// PaymentRouter registers payment routes on the given router.
func PaymentRouter(r chi.Router, paymentService *services.PaymentService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewPaymentHandler(paymentService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListPayments)
	r.Post("/", handler.RecordPayment)
	r.Route("/{paymentID}", func(r chi.Router) {
		r.Get("/", handler.GetPayment)
		r.Delete("/", handler.DeletePayment)
		r.Post("/receipt", handler.UploadReceipt)
		r.Get("/receipt", handler.DownloadReceipt)
	})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	studentID, err := parseQueryID(r, "student_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.paymentService.List(r.Context(), studentID, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list payments")
		return
	}

	writeJSON(w, http.StatusOK, PaymentListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "paymentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, err := h.paymentService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch payment")
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// RecordPayment persists a new payment. A payment equal to one already
// on file is rejected with 409 unless force is set in the body.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req PaymentRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.StudentID < 1 || req.GroupID < 1 {
		writeError(w, http.StatusBadRequest, "student_id and group_id are required")
		return
	}
	if req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	created, err := h.paymentService.Record(r.Context(), types.Payment{
		StudentID: req.StudentID,
		GroupID:   req.GroupID,
		Amount:    req.Amount,
		Currency:  strings.TrimSpace(req.Currency),
		Period:    strings.TrimSpace(req.Period),
		Method:    req.Method,
		Comment:   req.Comment,
	}, req.Force)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPeriod):
			writeError(w, http.StatusBadRequest, "invalid billing period")
		case errors.Is(err, services.ErrDuplicatePayment):
			writeError(w, http.StatusConflict, "equal payment already recorded")
		default:
			writeError(w, http.StatusInternalServerError, "failed to record payment")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// UploadReceipt attaches a receipt file to the payment.
func (h *PaymentHandler) UploadReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "paymentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := r.ParseMultipartForm(maxReceiptMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	files := r.MultipartForm.File[formFieldReceipt]
	if len(files) != 1 {
		writeError(w, http.StatusBadRequest, "exactly one receipt file is required")
		return
	}

	fileHeader := files[0]
	if fileHeader.Size > maxReceiptBytes {
		writeError(w, http.StatusBadRequest, "receipt file too large")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read receipt file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	payment, err := h.paymentService.AttachReceipt(r.Context(), id, file, fileHeader.Size, contentType)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "payment not found")
		case errors.Is(err, services.ErrReceiptsDisabled):
			writeError(w, http.StatusNotImplemented, "receipt storage is not configured")
		default:
			writeError(w, http.StatusInternalServerError, "failed to store receipt")
		}
		return
	}

	writeJSON(w, http.StatusOK, payment)
}

// DownloadReceipt streams the stored receipt back to the caller.
func (h *PaymentHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "paymentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	reader, err := h.paymentService.OpenReceipt(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "payment not found")
		case errors.Is(err, services.ErrNoReceipt):
			writeError(w, http.StatusNotFound, "payment has no receipt")
		case errors.Is(err, services.ErrReceiptsDisabled):
			writeError(w, http.StatusNotImplemented, "receipt storage is not configured")
		default:
			writeError(w, http.StatusInternalServerError, "failed to fetch receipt")
		}
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, reader)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "paymentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.paymentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "payment not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete payment")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type PaymentRecordRequest struct {
	StudentID int    `json:"student_id"`
	GroupID   int    `json:"group_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Period    string `json:"period"`
	Method    string `json:"method"`
	Comment   string `json:"comment"`
	Force     bool   `json:"force"`
}

type PaymentListResponse struct {
	Items []types.Payment `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}
