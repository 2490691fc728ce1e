package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// GradeRepository defines persistence operations for grades.
type GradeRepository interface {
	Get(ctx context.Context, id int) (types.Grade, error)
	List(ctx context.Context, studentID, offset, limit int) ([]types.Grade, int, error)
	Create(ctx context.Context, grade types.Grade) (types.Grade, error)
	Update(ctx context.Context, grade types.Grade) (types.Grade, error)
	Delete(ctx context.Context, id int) error
}

// GradeService encapsulates grading use-cases.
type GradeService struct {
	repo GradeRepository
}

func NewGradeService(repo GradeRepository) *GradeService {
	return &GradeService{repo: repo}
}

func (s *GradeService) Get(ctx context.Context, id int) (types.Grade, error) {
	return s.repo.Get(ctx, id)
}

func (s *GradeService) List(ctx context.Context, studentID, offset, limit int) ([]types.Grade, int, error) {
	return s.repo.List(ctx, studentID, offset, limit)
}

func (s *GradeService) Create(ctx context.Context, grade types.Grade) (types.Grade, error) {
	return s.repo.Create(ctx, grade)
}

func (s *GradeService) Update(ctx context.Context, grade types.Grade) (types.Grade, error) {
	return s.repo.Update(ctx, grade)
}

func (s *GradeService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
