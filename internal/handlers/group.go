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

// GroupHandler provides HTTP handlers for study groups.
type GroupHandler struct {
	groupService *services.GroupService
	feeService   *services.FeeService
}

func NewGroupHandler(groupService *services.GroupService, feeService *services.FeeService) *GroupHandler {
	return &GroupHandler{groupService: groupService, feeService: feeService}
}

// GroupRouter registers group routes on the given router.
func GroupRouter(
	r chi.Router,
	groupService *services.GroupService,
	feeService *services.FeeService,
	authMiddleware func(http.Handler) http.Handler,
) {
	handler := NewGroupHandler(groupService, feeService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListGroups)
	r.Post("/", handler.CreateGroup)
	r.Route("/{groupID}", func(r chi.Router) {
		r.Get("/", handler.GetGroup)
		r.Put("/", handler.UpdateGroup)
		r.Delete("/", handler.DeleteGroup)
		r.Get("/fee", handler.CurrentFee)
	})
}

func (h *GroupHandler) ListGroups(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.groupService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list groups")
		return
	}

	writeJSON(w, http.StatusOK, GroupListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := h.groupService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch group")
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// CurrentFee returns the tuition fee currently in force for the group.
func (h *GroupHandler) CurrentFee(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fee, err := h.feeService.Current(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group has no fee")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch fee")
		return
	}

	writeJSON(w, http.StatusOK, fee)
}

func (h *GroupHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	group, err := decodeGroup(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.groupService.Create(r.Context(), group)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create group")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *GroupHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	group, err := decodeGroup(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	group.ID = id

	updated, err := h.groupService.Update(r.Context(), group)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update group")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *GroupHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "groupID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.groupService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "group not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete group")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeGroup(r *http.Request) (types.Group, error) {
	var group types.Group
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		return types.Group{}, errors.New("invalid request")
	}
	group.Name = strings.TrimSpace(group.Name)
	if group.Name == "" {
		return types.Group{}, errors.New("name is required")
	}
	return group, nil
}

type GroupListResponse struct {
	Items []types.Group `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}
