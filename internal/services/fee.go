package services

import (
	"context"
	"time"

	"github.com/chemist-edu/apiserver/types"
)

// FeeRepository defines persistence operations for tuition fees.
type FeeRepository interface {
	Get(ctx context.Context, id int) (types.Fee, error)
	CurrentForGroup(ctx context.Context, groupID int, at time.Time) (types.Fee, error)
	List(ctx context.Context, groupID, offset, limit int) ([]types.Fee, int, error)
	Create(ctx context.Context, fee types.Fee) (types.Fee, error)
	Update(ctx context.Context, fee types.Fee) (types.Fee, error)
	Delete(ctx context.Context, id int) error
}

// FeeService encapsulates tuition fee use-cases.
type FeeService struct {
	repo FeeRepository
}

func NewFeeService(repo FeeRepository) *FeeService {
	return &FeeService{repo: repo}
}

func (s *FeeService) Get(ctx context.Context, id int) (types.Fee, error) {
	return s.repo.Get(ctx, id)
}

// Current returns the fee in force for the group right now.
func (s *FeeService) Current(ctx context.Context, groupID int) (types.Fee, error) {
	return s.repo.CurrentForGroup(ctx, groupID, time.Now())
}

func (s *FeeService) List(ctx context.Context, groupID, offset, limit int) ([]types.Fee, int, error) {
	return s.repo.List(ctx, groupID, offset, limit)
}

func (s *FeeService) Create(ctx context.Context, fee types.Fee) (types.Fee, error) {
	return s.repo.Create(ctx, fee)
}

func (s *FeeService) Update(ctx context.Context, fee types.Fee) (types.Fee, error) {
	return s.repo.Update(ctx, fee)
}

func (s *FeeService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
