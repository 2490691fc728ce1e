package services

import (
	"context"
	"errors"
	"io"
	"regexp"

	"github.com/chemist-edu/apiserver/internal/events"
	"github.com/chemist-edu/apiserver/internal/storage"
	"github.com/chemist-edu/apiserver/types"
)

var (
	// ErrDuplicatePayment is returned when an equal payment (same
	// student, group, period, and amount) is already recorded and the
	// caller did not force the write.
	ErrDuplicatePayment = errors.New("equal payment already recorded")

	// ErrInvalidPeriod is returned when the billing period is not a
	// "YYYY-MM" string.
	ErrInvalidPeriod = errors.New("invalid billing period")

	// ErrNoReceipt is returned when a payment has no stored receipt.
	ErrNoReceipt = errors.New("payment has no receipt")

	// ErrReceiptsDisabled is returned when no object storage backend
	// is configured.
	ErrReceiptsDisabled = errors.New("receipt storage is not configured")
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Get(ctx context.Context, id int) (types.Payment, error)
	ExistsEqual(ctx context.Context, payment types.Payment) (bool, error)
	List(ctx context.Context, studentID, offset, limit int) ([]types.Payment, int, error)
	Create(ctx context.Context, payment types.Payment) (types.Payment, error)
	SetReceiptKey(ctx context.Context, id int, key string) error
	Delete(ctx context.Context, id int) error
}

// PaymentService records tuition payments and manages their receipts.
type PaymentService struct {
	repo      PaymentRepository
	receipts  *storage.Receipts
	publisher *events.Publisher
}

func NewPaymentService(repo PaymentRepository, receipts *storage.Receipts, publisher *events.Publisher) *PaymentService {
	return &PaymentService{repo: repo, receipts: receipts, publisher: publisher}
}

func (s *PaymentService) Get(ctx context.Context, id int) (types.Payment, error) {
	return s.repo.Get(ctx, id)
}

func (s *PaymentService) List(ctx context.Context, studentID, offset, limit int) ([]types.Payment, int, error) {
	return s.repo.List(ctx, studentID, offset, limit)
}

// Record persists a payment. An equal payment already on file is
// rejected with ErrDuplicatePayment unless force is set; a duplicate
// is almost always an operator double-submitting the same receipt.
func (s *PaymentService) Record(ctx context.Context, payment types.Payment, force bool) (types.Payment, error) {
	if !periodPattern.MatchString(payment.Period) {
		return types.Payment{}, ErrInvalidPeriod
	}

	if !force {
		exists, err := s.repo.ExistsEqual(ctx, payment)
		if err != nil {
			return types.Payment{}, err
		}
		if exists {
			return types.Payment{}, ErrDuplicatePayment
		}
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return types.Payment{}, err
	}

	s.publisher.Publish(ctx, events.PaymentRecorded, created)
	return created, nil
}

// AttachReceipt stores a receipt file for the payment and records its
// object key. A previous receipt is replaced and removed best-effort.
func (s *PaymentService) AttachReceipt(ctx context.Context, id int, r io.Reader, size int64, contentType string) (types.Payment, error) {
	if s.receipts == nil {
		return types.Payment{}, ErrReceiptsDisabled
	}

	payment, err := s.repo.Get(ctx, id)
	if err != nil {
		return types.Payment{}, err
	}

	key, err := s.receipts.Put(ctx, id, r, size, contentType)
	if err != nil {
		return types.Payment{}, err
	}

	if err := s.repo.SetReceiptKey(ctx, id, key); err != nil {
		_ = s.receipts.Delete(ctx, key)
		return types.Payment{}, err
	}

	if payment.ReceiptKey != "" {
		_ = s.receipts.Delete(ctx, payment.ReceiptKey)
	}

	payment.ReceiptKey = key
	return payment, nil
}

// OpenReceipt streams the stored receipt for the payment.
func (s *PaymentService) OpenReceipt(ctx context.Context, id int) (io.ReadCloser, error) {
	if s.receipts == nil {
		return nil, ErrReceiptsDisabled
	}

	payment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment.ReceiptKey == "" {
		return nil, ErrNoReceipt
	}
	return s.receipts.Get(ctx, payment.ReceiptKey)
}

func (s *PaymentService) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
