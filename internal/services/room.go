package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// RoomRepository defines persistence operations for rooms.
type RoomRepository interface {
	Get(ctx context.Context, id int) (types.Room, error)
	List(ctx context.Context, offset, limit int) ([]types.Room, int, error)
	Create(ctx context.Context, room types.Room) (types.Room, error)
	Update(ctx context.Context, room types.Room) (types.Room, error)
	Delete(ctx context.Context, id int) error
}

// RoomService encapsulates classroom use-cases.
type RoomService struct {
	repo RoomRepository
}

func NewRoomService(repo RoomRepository) *RoomService {
	return &RoomService{repo: repo}
}

func (s *RoomService) Get(ctx context.Context, id int) (types.Room, error) {
	return s.repo.Get(ctx, id)
}

func (s *RoomService) List(ctx context.Context, offset, limit int) ([]types.Room, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *RoomService) Create(ctx context.Context, room types.Room) (types.Room, error) {
	return s.repo.Create(ctx, room)
}

func (s *RoomService) Update(ctx context.Context, room types.Room) (types.Room, error) {
	return s.repo.Update(ctx, room)
}

func (s *RoomService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
