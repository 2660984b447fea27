package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjperalta/billing-api/internal/billing"
	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/internal/repository"
	"github.com/sjperalta/billing-api/internal/storage"
)

func newBillingService(t *testing.T, table models.Table) (*BillingService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore(table)
	files, err := storage.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)
	return NewBillingService(store, uncompressed(), files), store
}

func seeded(t *testing.T) models.Table {
	t.Helper()
	table, err := billing.CreateEntry(nil, billing.NewEntry{ReceiptNo: "R001", CustomerName: "Asha", TotalCost: dec("1000")})
	require.NoError(t, err)
	return table
}

func TestBillingService_CreateEntry(t *testing.T) {
	ctx := context.Background()
	svc, store := newBillingService(t, nil)

	rec, err := svc.CreateEntry(ctx, billing.NewEntry{ReceiptNo: "R001", CustomerName: "Asha", TotalCost: dec("1000")})
	require.NoError(t, err)
	assert.Equal(t, "R001", rec.ReceiptNo)
	assert.True(t, rec.Balance.Equal(dec("1000")))
	assert.Equal(t, 1, store.Saves())

	_, err = svc.CreateEntry(ctx, billing.NewEntry{ReceiptNo: "R001", TotalCost: dec("5")})
	assert.ErrorIs(t, err, billing.ErrDuplicateReceiptNo)
	assert.Equal(t, 1, store.Saves())

	table, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, table, 1)
}

func TestBillingService_WorkedExample(t *testing.T) {
	ctx := context.Background()
	svc, store := newBillingService(t, seeded(t))

	rec, err := svc.UpdatePayment(ctx, "R001", 1, billing.PaymentInput{Amount: dec("400"), Method: models.PaymentMethodCash})
	require.NoError(t, err)
	assert.True(t, rec.TotalPaid.Equal(dec("400")))
	assert.True(t, rec.Balance.Equal(dec("600")))
	assert.Equal(t, models.RecordStatusPartial, rec.Status())

	rec, err = svc.UpdateDeduction(ctx, "R001", dec("50"))
	require.NoError(t, err)
	assert.True(t, rec.DeductionAmount.Equal(dec("50")))
	assert.True(t, rec.Balance.Equal(dec("550")))

	rec, err = svc.UpdatePayment(ctx, "R001", 2, billing.PaymentInput{Amount: dec("550"), Method: models.PaymentMethodGPay})
	require.NoError(t, err)
	assert.True(t, rec.Balance.IsZero())
	assert.Equal(t, models.RecordStatusSettled, rec.Status())
	assert.Equal(t, 3, store.Saves())

	stored, err := svc.Get(ctx, "R001")
	require.NoError(t, err)
	assert.Equal(t, rec, stored)

	assert.Equal(t, [][2]string{
		{"Total Cost:", "$1000.00"},
		{"1st Payment:", "$400.00 (Cash)"},
		{"2nd Payment:", "$550.00 (GPay)"},
		{"3rd Payment:", "$0.00"},
		{"Total Paid:", "$950.00"},
		{"Balance:", "$0.00"},
		{"Deduction Amount:", "$50.00"},
	}, PaymentSummary(stored))

	pdf, _, err := svc.Receipt(ctx, "R001", nil)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), `$550.00 \(GPay\)`)
}

func TestBillingService_RejectedUpdatesDoNotSave(t *testing.T) {
	ctx := context.Background()
	svc, store := newBillingService(t, seeded(t))

	_, err := svc.UpdatePayment(ctx, "R001", 4, billing.PaymentInput{Amount: dec("1")})
	assert.ErrorIs(t, err, billing.ErrInvalidStage)

	_, err = svc.UpdatePayment(ctx, "R999", 1, billing.PaymentInput{Amount: dec("1")})
	assert.ErrorIs(t, err, billing.ErrRecordNotFound)

	_, err = svc.UpdateDeduction(ctx, "R001", dec("-1"))
	assert.ErrorIs(t, err, billing.ErrNegativeAmount)

	assert.Equal(t, 0, store.Saves())
}

func TestBillingService_StoreFailures(t *testing.T) {
	ctx := context.Background()
	svc, store := newBillingService(t, seeded(t))

	store.LoadErr = errors.New("disk unplugged")
	table, err := svc.List(ctx)
	assert.ErrorIs(t, err, repository.ErrStoreIO)
	assert.NotNil(t, table)
	assert.Empty(t, table)

	_, err = svc.CreateEntry(ctx, billing.NewEntry{ReceiptNo: "R002", TotalCost: dec("1")})
	assert.ErrorIs(t, err, repository.ErrStoreIO)
	_, err = svc.UpdateDeduction(ctx, "R001", dec("5"))
	assert.ErrorIs(t, err, repository.ErrStoreIO)
	assert.Equal(t, 0, store.Saves())

	store.LoadErr = nil
	store.SaveErr = errors.New("read-only")
	_, err = svc.UpdatePayment(ctx, "R001", 1, billing.PaymentInput{Amount: dec("10"), Method: models.PaymentMethodCash})
	assert.ErrorIs(t, err, repository.ErrStoreIO)

	store.SaveErr = nil
	rec, err := svc.Get(ctx, "R001")
	require.NoError(t, err)
	assert.True(t, rec.TotalPaid.IsZero())
}

func TestBillingService_Receipt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newBillingService(t, seeded(t))

	pdf, filename, err := svc.Receipt(ctx, "R001", nil)
	require.NoError(t, err)
	assert.Equal(t, "receipt_R001.pdf", filename)
	assert.NotContains(t, string(pdf), "/Subtype /Image")

	require.NoError(t, svc.SetTermsImage(ctx, testPNG(t, 20, 10)))
	pdf, _, err = svc.Receipt(ctx, "R001", nil)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), "/Subtype /Image")

	_, _, err = svc.Receipt(ctx, "R404", nil)
	assert.ErrorIs(t, err, billing.ErrRecordNotFound)

	_, _, err = svc.Receipt(ctx, "R001", []byte("garbage"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestBillingService_SetTermsImage(t *testing.T) {
	ctx := context.Background()
	svc := NewBillingService(repository.NewMemoryStore(nil), NewReceiptService(), nil)
	assert.ErrorIs(t, svc.SetTermsImage(ctx, testPNG(t, 2, 2)), ErrStorageDisabled)

	withFiles, _ := newBillingService(t, nil)
	assert.ErrorIs(t, withFiles.SetTermsImage(ctx, []byte("plain text")), storage.ErrInvalidContentType)
}

func TestBillingService_XLSXReloadKeepsBalance(t *testing.T) {
	ctx := context.Background()
	store, err := repository.NewXLSXStore(filepath.Join(t.TempDir(), "billing_data.xlsx"))
	require.NoError(t, err)
	svc := NewBillingService(store, uncompressed(), nil)

	_, err = svc.CreateEntry(ctx, billing.NewEntry{ReceiptNo: "R001", TotalCost: dec("0.015")})
	assert.ErrorIs(t, err, billing.ErrAmountPrecision)

	_, err = svc.CreateEntry(ctx, billing.NewEntry{ReceiptNo: "R001", TotalCost: dec("0.03")})
	require.NoError(t, err)
	_, err = svc.UpdateDeduction(ctx, "R001", dec("0.005"))
	assert.ErrorIs(t, err, billing.ErrAmountPrecision)
	_, err = svc.UpdateDeduction(ctx, "R001", dec("0.01"))
	require.NoError(t, err)
	_, err = svc.UpdatePayment(ctx, "R001", 1, billing.PaymentInput{Amount: dec("0.005"), Method: models.PaymentMethodCash})
	assert.ErrorIs(t, err, billing.ErrAmountPrecision)
	updated, err := svc.UpdatePayment(ctx, "R001", 1, billing.PaymentInput{Amount: dec("0.02"), Method: models.PaymentMethodCash})
	require.NoError(t, err)

	reloaded, err := svc.Get(ctx, "R001")
	require.NoError(t, err)
	assert.True(t, reloaded.TotalCost.Equal(dec("0.03")))
	assert.True(t, reloaded.TotalPaid.Equal(updated.TotalPaid))
	assert.True(t, reloaded.DeductionAmount.Equal(updated.DeductionAmount))
	assert.True(t, reloaded.Balance.Equal(updated.Balance))
	expected := reloaded.TotalCost.Sub(reloaded.TotalPaid).Sub(reloaded.DeductionAmount)
	assert.True(t, reloaded.Balance.Equal(expected), "balance %s != %s", reloaded.Balance, expected)
	assert.True(t, reloaded.Balance.IsZero())
}
