package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// SchoolRepository defines persistence operations for schools.
type SchoolRepository interface {
	Get(ctx context.Context, id int) (types.School, error)
	List(ctx context.Context, offset, limit int) ([]types.School, int, error)
	Create(ctx context.Context, school types.School) (types.School, error)
	Update(ctx context.Context, school types.School) (types.School, error)
	Delete(ctx context.Context, id int) error
}

// SchoolService encapsulates school use-cases.
type SchoolService struct {
	repo SchoolRepository
}

func NewSchoolService(repo SchoolRepository) *SchoolService {
	return &SchoolService{repo: repo}
}

func (s *SchoolService) Get(ctx context.Context, id int) (types.School, error) {
	return s.repo.Get(ctx, id)
}

func (s *SchoolService) List(ctx context.Context, offset, limit int) ([]types.School, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *SchoolService) Create(ctx context.Context, school types.School) (types.School, error) {
	return s.repo.Create(ctx, school)
}

func (s *SchoolService) Update(ctx context.Context, school types.School) (types.School, error) {
	return s.repo.Update(ctx, school)
}

func (s *SchoolService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
