package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chemist-edu/apiserver/internal/services"
	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// FeeHandler provides HTTP handlers for tuition fees.
type FeeHandler struct {
	feeService *services.FeeService
}

func NewFeeHandler(feeService *services.FeeService) *FeeHandler {
	return &FeeHandler{feeService: feeService}
}

// FeeRouter registers fee routes. Writes are admin-only; reads require
// authentication.
func FeeRouter(
	r chi.Router,
	feeService *services.FeeService,
	authMiddleware, adminMiddleware func(http.Handler) http.Handler,
) {
	handler := NewFeeHandler(feeService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListFees)
	r.With(adminMiddleware).Post("/", handler.CreateFee)
	r.Route("/{feeID}", func(r chi.Router) {
		r.Get("/", handler.GetFee)
		r.With(adminMiddleware).Put("/", handler.UpdateFee)
		r.With(adminMiddleware).Delete("/", handler.DeleteFee)
	})
}

func (h *FeeHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	groupID, err := parseQueryID(r, "group_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.feeService.List(r.Context(), groupID, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list fees")
		return
	}

	writeJSON(w, http.StatusOK, FeeListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *FeeHandler) GetFee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "feeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fee, err := h.feeService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch fee")
		return
	}

	writeJSON(w, http.StatusOK, fee)
}

func (h *FeeHandler) CreateFee(w http.ResponseWriter, r *http.Request) {
	fee, err := decodeFee(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.feeService.Create(r.Context(), fee)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create fee")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *FeeHandler) UpdateFee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "feeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fee, err := decodeFee(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fee.ID = id

	updated, err := h.feeService.Update(r.Context(), fee)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update fee")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *FeeHandler) DeleteFee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "feeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.feeService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "fee not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete fee")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeFee(r *http.Request) (types.Fee, error) {
	var fee types.Fee
	if err := json.NewDecoder(r.Body).Decode(&fee); err != nil {
		return types.Fee{}, errors.New("invalid request")
	}
	if fee.GroupID < 1 {
		return types.Fee{}, errors.New("group_id is required")
	}
	if fee.Amount <= 0 {
		return types.Fee{}, errors.New("amount must be positive")
	}
	return fee, nil
}

type FeeListResponse struct {
	Items []types.Fee `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int         `json:"total"`
}
