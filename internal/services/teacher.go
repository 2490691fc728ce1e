package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// TeacherRepository defines persistence operations for teachers.
type TeacherRepository interface {
	Get(ctx context.Context, id int) (types.Teacher, error)
	List(ctx context.Context, offset, limit int) ([]types.Teacher, int, error)
	Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error)
	Update(ctx context.Context, teacher types.Teacher) (types.Teacher, error)
	Delete(ctx context.Context, id int) error
}

// TeacherService encapsulates teacher use-cases.
type TeacherService struct {
	repo TeacherRepository
}

func NewTeacherService(repo TeacherRepository) *TeacherService {
	return &TeacherService{repo: repo}
}

func (s *TeacherService) Get(ctx context.Context, id int) (types.Teacher, error) {
	return s.repo.Get(ctx, id)
}

func (s *TeacherService) List(ctx context.Context, offset, limit int) ([]types.Teacher, int, error) {
	return s.repo.List(ctx, offset, limit)
}

func (s *TeacherService) Create(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	return s.repo.Create(ctx, teacher)
}

func (s *TeacherService) Update(ctx context.Context, teacher types.Teacher) (types.Teacher, error) {
	return s.repo.Update(ctx, teacher)
}

func (s *TeacherService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
