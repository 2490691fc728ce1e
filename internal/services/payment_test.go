package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/chemist-edu/apiserver/internal/events"
	"github.com/chemist-edu/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingBackend struct {
	published []events.Envelope
}

func (b *recordingBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	var envelope events.Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", err
	}
	b.published = append(b.published, envelope)
	return envelope.ID, nil
}

func (b *recordingBackend) Close() error { return nil }

func testPayment() types.Payment {
	return types.Payment{
		StudentID: 3,
		GroupID:   5,
		Amount:    450000,
		Currency:  "UZS",
		Period:    "2026-08",
	}
}

func TestPaymentService_Record(t *testing.T) {
	backend := &recordingBackend{}
	svc := NewPaymentService(newFakePaymentRepo(), nil, events.NewPublisher(backend, nil))

	created, err := svc.Record(context.Background(), testPayment(), false)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	require.Len(t, backend.published, 1)
	assert.Equal(t, events.PaymentRecorded, backend.published[0].Name)
}

func TestPaymentService_RecordRejectsDuplicate(t *testing.T) {
	svc := NewPaymentService(newFakePaymentRepo(), nil, nil)

	_, err := svc.Record(context.Background(), testPayment(), false)
	require.NoError(t, err)

	_, err = svc.Record(context.Background(), testPayment(), false)
	assert.ErrorIs(t, err, ErrDuplicatePayment)
}

func TestPaymentService_RecordForceOverridesDuplicate(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := NewPaymentService(repo, nil, nil)

	_, err := svc.Record(context.Background(), testPayment(), false)
	require.NoError(t, err)

	forced, err := svc.Record(context.Background(), testPayment(), true)
	require.NoError(t, err)
	assert.NotZero(t, forced.ID)
	assert.Len(t, repo.payments, 2)
}

func TestPaymentService_RecordDifferentAmountNotDuplicate(t *testing.T) {
	svc := NewPaymentService(newFakePaymentRepo(), nil, nil)

	_, err := svc.Record(context.Background(), testPayment(), false)
	require.NoError(t, err)

	other := testPayment()
	other.Amount = 500000
	_, err = svc.Record(context.Background(), other, false)
	assert.NoError(t, err)
}

func TestPaymentService_RecordValidatesPeriod(t *testing.T) {
	svc := NewPaymentService(newFakePaymentRepo(), nil, nil)

	for _, period := range []string{"", "2026", "2026-13", "2026-00", "08-2026", "2026-8"} {
		payment := testPayment()
		payment.Period = period
		_, err := svc.Record(context.Background(), payment, false)
		assert.ErrorIs(t, err, ErrInvalidPeriod, "period %q", period)
	}
}

func TestPaymentService_ReceiptsDisabled(t *testing.T) {
	repo := newFakePaymentRepo()
	svc := NewPaymentService(repo, nil, nil)

	created, err := svc.Record(context.Background(), testPayment(), false)
	require.NoError(t, err)

	_, err = svc.AttachReceipt(context.Background(), created.ID, nil, 0, "application/pdf")
	assert.ErrorIs(t, err, ErrReceiptsDisabled)
	_, err = svc.OpenReceipt(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrReceiptsDisabled)
}
