package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/chemist-edu/apiserver/internal/services"
	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AccountHandler provides HTTP handlers for staff accounts.
type AccountHandler struct {
	accountService *services.AccountService
}

func NewAccountHandler(accountService *services.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// AccountRouter registers account management routes. All routes are
// admin-only.
func AccountRouter(
	r chi.Router,
	accountService *services.AccountService,
	authMiddleware, adminMiddleware func(http.Handler) http.Handler,
) {
	handler := NewAccountHandler(accountService)

	r.Use(authMiddleware, adminMiddleware)
	r.Get("/", handler.ListAccounts)
	r.Post("/", handler.CreateAccount)
	r.Route("/{accountID}", func(r chi.Router) {
		r.Get("/", handler.GetAccount)
		r.Put("/", handler.UpdateAccount)
		r.Post("/deactivate", handler.DeactivateAccount)
		r.Delete("/", handler.DeleteAccount)
	})
}

func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.accountService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	writeJSON(w, http.StatusOK, AccountListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accountService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req AccountUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Email == "" || req.Name == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	created, err := h.accountService.Create(r.Context(), types.Account{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Phone:    req.Phone,
		RoleName: req.RoleName,
		Roles:    req.Roles,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingRole):
			writeError(w, http.StatusBadRequest, "account role is required")
		case errors.Is(err, store.ErrDuplicate):
			writeError(w, http.StatusConflict, "username already exists")
		default:
			writeError(w, http.StatusInternalServerError, "failed to create account")
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req AccountUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.accountService.Update(r.Context(), types.Account{
		ID:       id,
		Username: strings.TrimSpace(req.Username),
		Email:    strings.TrimSpace(req.Email),
		Name:     strings.TrimSpace(req.Name),
		Phone:    req.Phone,
		RoleName: req.RoleName,
		Roles:    req.Roles,
	}, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrMissingRole):
			writeError(w, http.StatusBadRequest, "account role is required")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "account not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update account")
		}
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *AccountHandler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.accountService.Deactivate(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to deactivate account")
		return
	}

	writeJSON(w, http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "accountID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.accountService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete account")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type AccountUpsertRequest struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Phone    string   `json:"phone"`
	RoleName string   `json:"role_name"`
	Roles    []string `json:"roles"`
	Password string   `json:"password"`
}

type AccountListResponse struct {
	Items []types.Account `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}
