package services

import (
	"context"

	"github.com/chemist-edu/apiserver/types"
)

// StudentRepository defines persistence operations for students.
type StudentRepository interface {
	Get(ctx context.Context, id int) (types.Student, error)
	List(ctx context.Context, groupID, offset, limit int) ([]types.Student, int, error)
	Create(ctx context.Context, student types.Student) (types.Student, error)
	Update(ctx context.Context, student types.Student) (types.Student, error)
	Delete(ctx context.Context, id int) error
}

// StudentService encapsulates student use-cases.
type StudentService struct {
	repo StudentRepository
}

func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

func (s *StudentService) Get(ctx context.Context, id int) (types.Student, error) {
	return s.repo.Get(ctx, id)
}

func (s *StudentService) List(ctx context.Context, groupID, offset, limit int) ([]types.Student, int, error) {
	return s.repo.List(ctx, groupID, offset, limit)
}

func (s *StudentService) Create(ctx context.Context, student types.Student) (types.Student, error) {
	return s.repo.Create(ctx, student)
}

func (s *StudentService) Update(ctx context.Context, student types.Student) (types.Student, error) {
	return s.repo.Update(ctx, student)
}

func (s *StudentService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
