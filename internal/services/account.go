package services

import (
	"context"
	"errors"
	"time"

	"github.com/chemist-edu/apiserver/internal/events"
	"github.com/chemist-edu/apiserver/internal/roles"
	"github.com/chemist-edu/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// ErrMissingRole is returned when an account is created or updated
// without a primary role. An account is never persisted without one.
var ErrMissingRole = errors.New("account role is required")

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id int) (types.Account, error)
	GetByUsername(ctx context.Context, username string) (types.Account, error)
	List(ctx context.Context, offset, limit int) ([]types.Account, int, error)
	Create(ctx context.Context, account types.Account) (types.Account, error)
	Update(ctx context.Context, account types.Account) (types.Account, error)
	Delete(ctx context.Context, id int) error
}

// AccountService encapsulates account management use-cases.
type AccountService struct {
	repo      AccountRepository
	publisher *events.Publisher
}

func NewAccountService(repo AccountRepository, publisher *events.Publisher) *AccountService {
	return &AccountService{repo: repo, publisher: publisher}
}

func (s *AccountService) GetByID(ctx context.Context, id int) (types.Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AccountService) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	return s.repo.GetByUsername(ctx, username)
}

func (s *AccountService) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	return s.repo.List(ctx, offset, limit)
}

// Create hashes the password and persists the account. The primary
// role is required and always included in the role list.
func (s *AccountService) Create(ctx context.Context, account types.Account, password string) (types.Account, error) {
	if roles.ExtractRoleName(account.RoleName) == roles.None {
		return types.Account{}, ErrMissingRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.Account{}, err
	}
	account.PasswordHash = string(hashed)

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		return types.Account{}, err
	}

	s.publisher.Publish(ctx, events.AccountCreated, created)
	return created, nil
}

// Update applies changes to the account record. When newPassword is
// non-empty the password hash is replaced as well.
func (s *AccountService) Update(ctx context.Context, account types.Account, newPassword string) (types.Account, error) {
	if roles.ExtractRoleName(account.RoleName) == roles.None {
		return types.Account{}, ErrMissingRole
	}

	current, err := s.repo.GetByID(ctx, account.ID)
	if err != nil {
		return types.Account{}, err
	}

	account.PasswordHash = current.PasswordHash
	if newPassword != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return types.Account{}, err
		}
		account.PasswordHash = string(hashed)
	}

	return s.repo.Update(ctx, account)
}

// Deactivate stamps the account as deactivated; it can no longer sign
// in. Already-deactivated accounts are left untouched.
func (s *AccountService) Deactivate(ctx context.Context, id int) (types.Account, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return types.Account{}, err
	}
	if account.DeactivatedAt != nil {
		return account, nil
	}
	now := time.Now()
	account.DeactivatedAt = &now
	return s.repo.Update(ctx, account)
}

func (s *AccountService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
