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

// ScheduleHandler provides HTTP handlers for weekly lesson slots.
type ScheduleHandler struct {
	scheduleService *services.ScheduleService
}

func NewScheduleHandler(scheduleService *services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

// ScheduleRouter registers schedule routes on the given router.
func ScheduleRouter(r chi.Router, scheduleService *services.ScheduleService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewScheduleHandler(scheduleService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListSchedules)
	r.Post("/", handler.CreateSchedule)
	r.Route("/{scheduleID}", func(r chi.Router) {
		r.Get("/", handler.GetSchedule)
		r.Put("/", handler.UpdateSchedule)
		r.Delete("/", handler.DeleteSchedule)
	})
}

func (h *ScheduleHandler) ListSchedules(w http.ResponseWriter, r *http.Request) {
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

	items, total, err := h.scheduleService.List(r.Context(), groupID, offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list schedules")
		return
	}

	writeJSON(w, http.StatusOK, ScheduleListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "scheduleID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := h.scheduleService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch schedule")
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

func (h *ScheduleHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := decodeSchedule(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.scheduleService.Create(r.Context(), schedule)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create schedule")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *ScheduleHandler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "scheduleID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	schedule, err := decodeSchedule(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	schedule.ID = id

	updated, err := h.scheduleService.Update(r.Context(), schedule)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update schedule")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *ScheduleHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "scheduleID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.scheduleService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "schedule not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete schedule")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeSchedule(r *http.Request) (types.Schedule, error) {
	var schedule types.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		return types.Schedule{}, errors.New("invalid request")
	}
	if schedule.GroupID < 1 {
		return types.Schedule{}, errors.New("group_id is required")
	}
	if schedule.Weekday < 0 || schedule.Weekday > 6 {
		return types.Schedule{}, errors.New("invalid weekday")
	}
	if schedule.StartTime == "" || schedule.EndTime == "" {
		return types.Schedule{}, errors.New("start and end time are required")
	}
	return schedule, nil
}

type ScheduleListResponse struct {
	Items []types.Schedule `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int              `json:"total"`
}
