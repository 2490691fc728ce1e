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

// StudentHandler provides HTTP handlers for students.
type StudentHandler struct {
	studentService *services.StudentService
}

func NewStudentHandler(studentService *services.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// StudentRouter registers student routes on the given router.
func StudentRouter(r chi.Router, studentService *services.StudentService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewStudentHandler(studentService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListStudents)
	r.Post("/", handler.CreateStudent)
	r.Route("/{studentID}", func(r chi.Router) {
		r.Get("/", handler.GetStudent)
		r.Put("/", handler.UpdateStudent)
		r.Delete("/", handler.DeleteStudent)
	})
}

func (h *StudentHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.studentService.List(r.Context(), groupID, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list students")
		return
	}

	writeJSON(w, http.StatusOK, StudentListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := h.studentService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "student not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch student")
		return
	}

	writeJSON(w, http.StatusOK, student)
}

func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	student, err := decodeStudent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.studentService.Create(r.Context(), student)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create student")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	student, err := decodeStudent(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	student.ID = id

	updated, err := h.studentService.Update(r.Context(), student)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "student not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update student")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "studentID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.studentService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "student not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete student")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeStudent(r *http.Request) (types.Student, error) {
	var student types.Student
	if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
		return types.Student{}, errors.New("invalid request")
	}
	student.FirstName = strings.TrimSpace(student.FirstName)
	student.LastName = strings.TrimSpace(student.LastName)
	if student.FirstName == "" || student.LastName == "" {
		return types.Student{}, errors.New("first and last name are required")
	}
	return student, nil
}

type StudentListResponse struct {
	Items []types.Student `json:"items"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
	Total int             `json:"total"`
}
