package services

import (
	"context"

	"github.com/chemist-edu/apiserver/internal/store"
	"github.com/chemist-edu/apiserver/types"
)

type fakeAccountRepo struct {
	accounts map[int]types.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[int]types.Account), nextID: 1}
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id int) (types.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (types.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			return account, nil
		}
	}
	return types.Account{}, store.ErrNotFound
}

func (r *fakeAccountRepo) List(ctx context.Context, offset, limit int) ([]types.Account, int, error) {
	accounts := make([]types.Account, 0, len(r.accounts))
	for _, account := range r.accounts {
		accounts = append(accounts, account)
	}
	return accounts, len(accounts), nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	account.ID = r.nextID
	r.nextID++
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) Update(ctx context.Context, account types.Account) (types.Account, error) {
	if _, ok := r.accounts[account.ID]; !ok {
		return types.Account{}, store.ErrNotFound
	}
	r.accounts[account.ID] = account
	return account, nil
}

func (r *fakeAccountRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.accounts[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.accounts, id)
	return nil
}

type fakeRefreshRepo struct {
	tokens map[string]store.RefreshToken
	nextID int
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: make(map[string]store.RefreshToken), nextID: 1}
}

func (r *fakeRefreshRepo) Create(ctx context.Context, token store.RefreshToken) (store.RefreshToken, error) {
	token.ID = r.nextID
	r.nextID++
	r.tokens[token.TokenHash] = token
	return token, nil
}

func (r *fakeRefreshRepo) GetByHash(ctx context.Context, tokenHash string) (store.RefreshToken, error) {
	token, ok := r.tokens[tokenHash]
	if !ok {
		return store.RefreshToken{}, store.ErrNotFound
	}
	return token, nil
}

func (r *fakeRefreshRepo) DeleteByHash(ctx context.Context, tokenHash string) error {
	if _, ok := r.tokens[tokenHash]; !ok {
		return store.ErrNotFound
	}
	delete(r.tokens, tokenHash)
	return nil
}

func (r *fakeRefreshRepo) DeleteByAccount(ctx context.Context, accountID int) error {
	for hash, token := range r.tokens {
		if token.AccountID == accountID {
			delete(r.tokens, hash)
		}
	}
	return nil
}

type fakePaymentRepo struct {
	payments map[int]types.Payment
	nextID   int
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[int]types.Payment), nextID: 1}
}

func (r *fakePaymentRepo) Get(ctx context.Context, id int) (types.Payment, error) {
	payment, ok := r.payments[id]
	if !ok {
		return types.Payment{}, store.ErrNotFound
	}
	return payment, nil
}

func (r *fakePaymentRepo) ExistsEqual(ctx context.Context, payment types.Payment) (bool, error) {
	for _, existing := range r.payments {
		if existing.StudentID == payment.StudentID &&
			existing.GroupID == payment.GroupID &&
			existing.Period == payment.Period &&
			existing.Amount == payment.Amount {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakePaymentRepo) List(ctx context.Context, studentID, offset, limit int) ([]types.Payment, int, error) {
	payments := make([]types.Payment, 0, len(r.payments))
	for _, payment := range r.payments {
		if studentID > 0 && payment.StudentID != studentID {
			continue
		}
		payments = append(payments, payment)
	}
	return payments, len(payments), nil
}

func (r *fakePaymentRepo) Create(ctx context.Context, payment types.Payment) (types.Payment, error) {
	payment.ID = r.nextID
	r.nextID++
	r.payments[payment.ID] = payment
	return payment, nil
}

func (r *fakePaymentRepo) SetReceiptKey(ctx context.Context, id int, key string) error {
	payment, ok := r.payments[id]
	if !ok {
		return store.ErrNotFound
	}
	payment.ReceiptKey = key
	r.payments[id] = payment
	return nil
}

func (r *fakePaymentRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.payments[id]; !ok {
		return store.ErrNotFound
	}
	delete(r.payments, id)
	return nil
}
