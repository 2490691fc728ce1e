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

// TeacherHandler provides HTTP handlers for teachers.
type TeacherHandler struct {
	teacherService *services.TeacherService
}

func NewTeacherHandler(teacherService *services.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// TeacherRouter registers teacher routes on the given router.
func TeacherRouter(r chi.Router, teacherService *services.TeacherService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewTeacherHandler(teacherService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListTeachers)
	r.Post("/", handler.CreateTeacher)
	r.Route("/{teacherID}", func(r chi.Router) {
		r.Get("/", handler.GetTeacher)
		r.Put("/", handler.UpdateTeacher)
		r.Delete("/", handler.DeleteTeacher)
	})
}

func (h *TeacherHandler) ListTeachers(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.teacherService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list teachers")
		return
	}

	writeJSON(w, http.StatusOK, TeacherListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *TeacherHandler) GetTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher, err := h.teacherService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "teacher not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch teacher")
		return
	}

	writeJSON(w, http.StatusOK, teacher)
}

func (h *TeacherHandler) CreateTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, err := decodeTeacher(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.teacherService.Create(r.Context(), teacher)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create teacher")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *TeacherHandler) UpdateTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher, err := decodeTeacher(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	teacher.ID = id

	updated, err := h.teacherService.Update(r.Context(), teacher)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "teacher not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update teacher")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *TeacherHandler) DeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "teacherID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.teacherService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "teacher not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete teacher")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeTeacher(r *http.Request) (types.Teacher, error) {
	var teacher types.Teacher
	if err := json.NewDecoder(r.Body).Decode(&teacher); err != nil {
		return types.Teacher{}, errors.New("invalid request")
	}
	teacher.FirstName = strings.TrimSpace(teacher.FirstName)
	teacher.LastName = strings.TrimSpace(teacher.LastName)
	if teacher.FirstName == "" || teacher.LastName == "" {
		return types.Teacher{}, errors.New("first and last name are required")
	}
	return teacher, nil
}

type TeacherListResponse struct {
	Items []types.Teacher `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}
