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

// RoomHandler provides HTTP handlers for classrooms.
type RoomHandler struct {
	roomService *services.RoomService
}

func NewRoomHandler(roomService *services.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// RoomRouter registers room routes on the given router.
func RoomRouter(r chi.Router, roomService *services.RoomService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewRoomHandler(roomService)

	r.Use(authMiddleware)
	r.Get("/", handler.ListRooms)
	r.Post("/", handler.CreateRoom)
	r.Route("/{roomID}", func(r chi.Router) {
		r.Get("/", handler.GetRoom)
		r.Put("/", handler.UpdateRoom)
		r.Delete("/", handler.DeleteRoom)
	})
}

func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	page, limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := h.roomService.List(r.Context(), offset, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list rooms")
		return
	}

	writeJSON(w, http.StatusOK, RoomListResponse{
		Items: items,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "roomID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := h.roomService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch room")
		return
	}

	writeJSON(w, http.StatusOK, room)
}

func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	room, err := decodeRoom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := h.roomService.Create(r.Context(), room)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create room")
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (h *RoomHandler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "roomID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	room, err := decodeRoom(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	room.ID = id

	updated, err := h.roomService.Update(r.Context(), room)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update room")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r, "roomID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.roomService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "room not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete room")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeRoom(r *http.Request) (types.Room, error) {
	var room types.Room
	if err := json.NewDecoder(r.Body).Decode(&room); err != nil {
		return types.Room{}, errors.New("invalid request")
	}
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return types.Room{}, errors.New("name is required")
	}
	if room.Capacity < 0 {
		return types.Room{}, errors.New("invalid capacity")
	}
	return room, nil
}

type RoomListResponse struct {
	Items []types.Room `json:"items"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
	Total int          `json:"total"`
}
