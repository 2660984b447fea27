package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sjperalta/billing-api/internal/billing"
	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/internal/repository"
	"github.com/sjperalta/billing-api/internal/statemachine"
	"github.com/sjperalta/billing-api/internal/storage"
	"github.com/sjperalta/billing-api/pkg/logger"
)

// BillingService runs the three billing workflows against a record store.
// Each call loads the whole table, applies one engine operation and writes
// the whole table back.
type BillingService struct {
	store    repository.RecordStore
	receipts *ReceiptService
	files    *storage.LocalStorage
}

// NewBillingService creates a billing service. files may be nil, in which
// case receipts are only illustrated when an image is passed explicitly.
func NewBillingService(store repository.RecordStore, receipts *ReceiptService, files *storage.LocalStorage) *BillingService {
	return &BillingService{store: store, receipts: receipts, files: files}
}

// List returns every record. When the store cannot be read the returned
// table is empty and the store error is returned alongside it, so callers
// can keep rendering and surface the failure as a warning.
func (s *BillingService) List(ctx context.Context) (models.Table, error) {
	table, err := s.store.Load(ctx)
	if err != nil {
		logger.Warn("Failed to load billing records", "error", err)
		return models.Table{}, err
	}
	warnDuplicates(table)
	return table, nil
}

// Get returns the first record with the given receipt number
func (s *BillingService) Get(ctx context.Context, receiptNo string) (*models.BillingRecord, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return billing.Find(table, receiptNo)
}

// CreateEntry appends a new record and persists the table
func (s *BillingService) CreateEntry(ctx context.Context, entry billing.NewEntry) (*models.BillingRecord, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := billing.CreateEntry(table, entry)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, updated); err != nil {
		logger.Error("Failed to save billing records", "error", err)
		return nil, fmt.Errorf("failed to save bill: %w", err)
	}

	rec := updated[len(updated)-1]
	logger.Info("Bill saved", "receipt_no", rec.ReceiptNo, "total_cost", rec.TotalCost.StringFixed(2))
	return &rec, nil
}

// UpdatePayment overwrites one payment slot of a record
func (s *BillingService) UpdatePayment(ctx context.Context, receiptNo string, stage int, payment billing.PaymentInput) (*models.BillingRecord, error) {
	rec, err := s.mutate(ctx, receiptNo, func(table models.Table) (models.Table, error) {
		return billing.ApplyPayment(table, receiptNo, stage, payment)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Payment updated",
		"receipt_no", rec.ReceiptNo,
		"stage", stage,
		"amount", payment.Amount.StringFixed(2),
		"balance", rec.Balance.StringFixed(2),
	)
	return rec, nil
}

// UpdateDeduction adds delta to a record's accumulated deduction
func (s *BillingService) UpdateDeduction(ctx context.Context, receiptNo string, delta decimal.Decimal) (*models.BillingRecord, error) {
	rec, err := s.mutate(ctx, receiptNo, func(table models.Table) (models.Table, error) {
		return billing.ApplyDeduction(table, receiptNo, delta)
	})
	if err != nil {
		return nil, err
	}
	logger.Info("Deduction updated",
		"receipt_no", rec.ReceiptNo,
		"delta", delta.StringFixed(2),
		"deduction_amount", rec.DeductionAmount.StringFixed(2),
	)
	return rec, nil
}

// Receipt renders the receipt PDF of a record and returns it with its
// download filename. A nil termsImage falls back to the stored default.
func (s *BillingService) Receipt(ctx context.Context, receiptNo string, termsImage []byte) ([]byte, string, error) {
	rec, err := s.Get(ctx, receiptNo)
	if err != nil {
		return nil, "", err
	}

	if termsImage == nil && s.files != nil {
		stored, err := s.files.TermsImage()
		if err != nil {
			logger.Warn("Failed to read stored terms image", "error", err)
		}
		termsImage = stored
	}

	pdf, err := s.receipts.Render(rec, termsImage)
	if err != nil {
		return nil, "", err
	}

	logger.Info("Receipt generated", "receipt_no", rec.ReceiptNo, "bytes", len(pdf))
	return pdf, ReceiptFilename(rec.ReceiptNo), nil
}

// SetTermsImage stores the default illustration used by later receipts
func (s *BillingService) SetTermsImage(ctx context.Context, data []byte) error {
	if s.files == nil {
		return ErrStorageDisabled
	}
	if err := s.files.SaveTermsImage(data); err != nil {
		return err
	}
	logger.Info("Terms image updated", "bytes", len(data))
	return nil
}

func (s *BillingService) load(ctx context.Context) (models.Table, error) {
	table, err := s.store.Load(ctx)
	if err != nil {
		logger.Error("Failed to load billing records", "error", err)
		return nil, err
	}
	warnDuplicates(table)
	return table, nil
}

// mutate applies op to the stored table and saves the result. Nothing is
// written when the load or the operation fails.
func (s *BillingService) mutate(ctx context.Context, receiptNo string, op func(models.Table) (models.Table, error)) (*models.BillingRecord, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	before, err := billing.Find(table, receiptNo)
	if err != nil {
		return nil, err
	}
	status := statemachine.NewRecordFSM(before)

	updated, err := op(table)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, updated); err != nil {
		logger.Error("Failed to save billing records", "receipt_no", receiptNo, "error", err)
		return nil, fmt.Errorf("failed to save record %s: %w", receiptNo, err)
	}

	after, err := billing.Find(updated, receiptNo)
	if err != nil {
		return nil, err
	}
	if _, err := status.Sync(ctx, after); err != nil {
		logger.Warn("Failed to track record status", "receipt_no", receiptNo, "error", err)
	}
	return after, nil
}

func warnDuplicates(table models.Table) {
	if dups := billing.Duplicates(table); len(dups) > 0 {
		logger.Warn("Duplicate receipt numbers in store; the first occurrence is used", "receipt_nos", dups)
	}
}
