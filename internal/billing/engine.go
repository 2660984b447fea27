// Package billing holds the reconciliation rules for billing records.
//
// Every operation takes the full record table as an explicit value and
// returns a new table; the input is never modified. An operation either
// applies completely, recomputing the derived totals of the touched record,
// or returns an error before anything changes.
package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjperalta/billing-api/internal/models"
)

// NewEntry holds the fields collected when a billing record is created
type NewEntry struct {
	ReceiptNo    string
	CustomerName string
	College      string
	Phone        string
	ProjectTitle string
	Reference    string
	Date         *time.Time
	TotalCost    decimal.Decimal
}

// PaymentInput replaces the contents of one payment slot
type PaymentInput struct {
	Date   *time.Time
	Amount decimal.Decimal
	Method models.PaymentMethod
}

// CreateEntry appends a new record with empty payment slots and a balance
// equal to its total cost.
func CreateEntry(table models.Table, entry NewEntry) (models.Table, error) {
	receiptNo := strings.TrimSpace(entry.ReceiptNo)
	if receiptNo == "" {
		return table, ErrEmptyReceiptNo
	}
	if strings.Contains(receiptNo, "/") || strings.EqualFold(receiptNo, "export") {
		return table, fmt.Errorf("%w: got %q", ErrInvalidReceiptNo, receiptNo)
	}
	if err := checkAmount("total cost", entry.TotalCost); err != nil {
		return table, err
	}
	if indexOf(table, receiptNo) >= 0 {
		return table, fmt.Errorf("%w: %s", ErrDuplicateReceiptNo, receiptNo)
	}

	record := models.BillingRecord{
		ReceiptNo:       receiptNo,
		CustomerName:    entry.CustomerName,
		College:         entry.College,
		Phone:           entry.Phone,
		ProjectTitle:    entry.ProjectTitle,
		Reference:       entry.Reference,
		Date:            entry.Date,
		TotalCost:       entry.TotalCost,
		DeductionAmount: decimal.Zero,
		TotalPaid:       decimal.Zero,
	}
	record.RecomputeBalance()

	out := make(models.Table, len(table), len(table)+1)
	copy(out, table)
	return append(out, record), nil
}

// ApplyDeduction adds delta to the record's running deduction and recomputes
// its balance. Total paid is left as recorded by the last payment update.
func ApplyDeduction(table models.Table, receiptNo string, delta decimal.Decimal) (models.Table, error) {
	if err := checkAmount("deduction", delta); err != nil {
		return table, err
	}
	idx := indexOf(table, receiptNo)
	if idx < 0 {
		return table, fmt.Errorf("%w: %s", ErrRecordNotFound, receiptNo)
	}

	out := table.Clone()
	rec := &out[idx]
	rec.DeductionAmount = rec.DeductionAmount.Add(delta)
	rec.RecomputeBalance()
	return out, nil
}

// ApplyPayment overwrites payment slot stage (1-based) and recomputes total
// paid from all three slots, then the balance.
func ApplyPayment(table models.Table, receiptNo string, stage int, payment PaymentInput) (models.Table, error) {
	if stage < 1 || stage > models.PaymentSlots {
		return table, fmt.Errorf("%w: got %d", ErrInvalidStage, stage)
	}
	if err := checkAmount("payment", payment.Amount); err != nil {
		return table, err
	}
	switch payment.Method {
	case "", models.PaymentMethodGPay, models.PaymentMethodCash:
	default:
		return table, fmt.Errorf("%w: got %q", ErrInvalidPaymentMethod, payment.Method)
	}
	idx := indexOf(table, receiptNo)
	if idx < 0 {
		return table, fmt.Errorf("%w: %s", ErrRecordNotFound, receiptNo)
	}

	out := table.Clone()
	rec := &out[idx]
	rec.Payments[stage-1] = models.PaymentSlot{
		Date:   payment.Date,
		Amount: payment.Amount,
		Method: payment.Method,
	}
	rec.TotalPaid = rec.SumPayments()
	rec.RecomputeBalance()
	return out, nil
}

// Find returns the first record whose receipt number equals receiptNo.
func Find(table models.Table, receiptNo string) (*models.BillingRecord, error) {
	idx := indexOf(table, receiptNo)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, receiptNo)
	}
	rec := table[idx]
	return &rec, nil
}

// Duplicates lists receipt numbers that occur more than once, in order of
// their first repeat.
func Duplicates(table models.Table) []string {
	seen := make(map[string]int, len(table))
	var dups []string
	for _, r := range table {
		seen[r.ReceiptNo]++
		if seen[r.ReceiptNo] == 2 {
			dups = append(dups, r.ReceiptNo)
		}
	}
	return dups
}

// checkAmount accepts non-negative amounts in whole cents, the precision
// every backend stores.
func checkAmount(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return fmt.Errorf("%s: %w", field, ErrNegativeAmount)
	}
	if !d.Equal(d.Round(2)) {
		return fmt.Errorf("%s: %w: got %s", field, ErrAmountPrecision, d)
	}
	return nil
}

func indexOf(table models.Table, receiptNo string) int {
	for i := range table {
		if table[i].ReceiptNo == receiptNo {
			return i
		}
	}
	return -1
}
