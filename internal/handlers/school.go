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

// SchoolHandler provides HTTP handlers for schools.
type SchoolHandler struct {
	schoolService *services.SchoolService
}

func NewSchoolHandler(schoolService *services.SchoolService) *SchoolHandler {
	return &SchoolHandler{schoolService: schoolService}
}

// SchoolRouter registers school routes on the given router.
func SchoolRouter(r chi.Router, schoolService *services.SchoolService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewSchoolHandler(schoolService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListSchools)
	r.Post("/", handler.CreateSchool)
	r.Route("/{schoolID}", func(r chi.Router) {
		r.Get("/", handler.GetSchool)
		r.Put("/", handler.UpdateSchool)
		r.Delete("/", handler.DeleteSchool)
	})
}

func (h *SchoolHandler) ListSchools(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.schoolService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list schools")
		return
	}

	writeJSON(w, http.StatusOK, SchoolListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *SchoolHandler) GetSchool(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "schoolID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	school, err := h.schoolService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "school not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch school")
		return
	}

	writeJSON(w, http.StatusOK, school)
}

func (h *SchoolHandler) CreateSchool(w http.ResponseWriter, r *http.Request) {
	school, err := decodeSchool(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.schoolService.Create(r.Context(), school)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create school")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *SchoolHandler) UpdateSchool(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "schoolID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	school, err := decodeSchool(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	school.ID = id

	updated, err := h.schoolService.Update(r.Context(), school)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "school not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update school")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *SchoolHandler) DeleteSchool(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "schoolID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.schoolService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "school not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete school")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeSchool(r *http.Request) (types.School, error) {
	var school types.School
	if err := json.NewDecoder(r.Body).Decode(&school); err != nil {
		return types.School{}, errors.New("invalid request")
	}
	school.Name = strings.TrimSpace(school.Name)
	if school.Name == "" {
		return types.School{}, errors.New("name is required")
	}
	return school, nil
}

type SchoolListResponse struct {
	Items []types.School `json:"items"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
	Total int            `json:"total"`
}
