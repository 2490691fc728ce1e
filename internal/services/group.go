package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	Get(ctx context.Context, id int) (types.Group, error)
	List(ctx context.Context, offset, limit int) ([]types.Group, int, error)
	Create(ctx context.Context, group types.Group) (types.Group, error)
	Update(ctx context.Context, group types.Group) (types.Group, error)
	Delete(ctx context.Context, id int) error
}

// GroupService encapsulates study-group use-cases.
type GroupService struct {
	repo GroupRepository
}

func NewGroupService(repo GroupRepository) *GroupService {
	return &GroupService{repo: repo}
}

func (s *GroupService) Get(ctx context.Context, id int) (types.Group, error) {
	return s.repo.Get(ctx, id)
}

func (s *GroupService) List(ctx context.Context, offset, limit int) ([]types.Group, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *GroupService) Create(ctx context.Context, group types.Group) (types.Group, error) {
	return s.repo.Create(ctx, group)
}

func (s *GroupService) Update(ctx context.Context, group types.Group) (types.Group, error) {
	return s.repo.Update(ctx, group)
}

func (s *GroupService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
