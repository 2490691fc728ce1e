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

// GradeHandler provides HTTP handlers for grades.
type GradeHandler struct {
	gradeService *services.GradeService
}

func NewGradeHandler(gradeService *services.GradeService) *GradeHandler {
	return &GradeHandler{gradeService: gradeService}
}

// GradeRouter registers grade routes on the given router.
func GradeRouter(r chi.Router, gradeService *services.GradeService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewGradeHandler(gradeService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListGrades)
	r.Post("/", handler.CreateGrade)
	r.Route("/{gradeID}", func(r chi.Router) {
		r.Get("/", handler.GetGrade)
		r.Put("/", handler.UpdateGrade)
		r.Delete("/", handler.DeleteGrade)
	})
}

func (h *GradeHandler) ListGrades(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.gradeService.List(r.Context(), studentID, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list grades")
		return
	}

	writeJSON(w, http.StatusOK, GradeListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *GradeHandler) GetGrade(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gradeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grade, err := h.gradeService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "grade not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch grade")
		return
	}

	writeJSON(w, http.StatusOK, grade)
}

func (h *GradeHandler) CreateGrade(w http.ResponseWriter, r *http.Request) {
	grade, err := decodeGrade(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.gradeService.Create(r.Context(), grade)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create grade")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *GradeHandler) UpdateGrade(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gradeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	grade, err := decodeGrade(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	grade.ID = id

	updated, err := h.gradeService.Update(r.Context(), grade)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "grade not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update grade")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *GradeHandler) DeleteGrade(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "gradeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.gradeService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "grade not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete grade")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeGrade(r *http.Request) (types.Grade, error) {
	var grade types.Grade
	if err := json.NewDecoder(r.Body).Decode(&grade); err != nil {
		return types.Grade{}, errors.New("invalid request")
	}
	if grade.StudentID < 1 {
		return types.Grade{}, errors.New("student_id is required")
	}
	if grade.GroupID < 1 {
		return types.Grade{}, errors.New("group_id is required")
	}
	return grade, nil
}

type GradeListResponse struct {
	Items []types.Grade `json:"items"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int           `json:"total"`
}
