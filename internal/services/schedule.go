package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// ScheduleRepository defines persistence operations for lesson slots.
type ScheduleRepository interface {
	Get(ctx context.Context, id int) (types.Schedule, error)
	List(ctx context.Context, groupID, offset, limit int) ([]types.Schedule, int, error)
	Create(ctx context.Context, schedule types.Schedule) (types.Schedule, error)
	Update(ctx context.Context, schedule types.Schedule) (types.Schedule, error)
	Delete(ctx context.Context, id int) error
}

// ScheduleService encapsulates weekly schedule use-cases.
type ScheduleService struct {
	repo ScheduleRepository
}

func NewScheduleService(repo ScheduleRepository) *ScheduleService {
	return &ScheduleService{repo: repo}
}

func (s *ScheduleService) Get(ctx context.Context, id int) (types.Schedule, error) {
	return s.repo.Get(ctx, id)
}

func (s *ScheduleService) List(ctx context.Context, groupID, offset, limit int) ([]types.Schedule, int, error) {
	return s.repo.List(ctx, groupID, offset, limit)
}

func (s *ScheduleService) Create(ctx context.Context, schedule types.Schedule) (types.Schedule, error) {
	return s.repo.Create(ctx, schedule)
}

func (s *ScheduleService) Update(ctx context.Context, schedule types.Schedule) (types.Schedule, error) {
	return s.repo.Update(ctx, schedule)
}

func (s *ScheduleService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
