package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the on-disk and JSON representation of billing dates
const DateLayout = "2006-01-02"

// PaymentSlots is the fixed number of staged payments per record
const PaymentSlots = 3

// PaymentMethod is how a staged payment was made
type PaymentMethod string

// Payment method constants
const (
	PaymentMethodGPay PaymentMethod = "GPay"
	PaymentMethodCash PaymentMethod = "Cash"
)

// ParsePaymentMethod matches s case-insensitively against the known methods.
// An empty string parses to the empty (unset) method.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "gpay":
		return PaymentMethodGPay, nil
	case "cash":
		return PaymentMethodCash, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

// PaymentSlot is one of the three staged payments of a record
type PaymentSlot struct {
	Date   *time.Time
	Amount decimal.Decimal
	Method PaymentMethod
}

// IsEmpty reports whether nothing was recorded in the slot
func (p PaymentSlot) IsEmpty() bool {
	return p.Date == nil && p.Amount.IsZero() && p.Method == ""
}

// BillingRecord is one customer engagement, keyed by its receipt number
type BillingRecord struct {
	ReceiptNo    string
	CustomerName string
	College      string
	Phone        string
	ProjectTitle string
	Reference    string
	Date         *time.Time
	TotalCost    decimal.Decimal

	Payments [PaymentSlots]PaymentSlot

	// Derived
	DeductionAmount decimal.Decimal
	TotalPaid       decimal.Decimal
	Balance         decimal.Decimal
}

// SumPayments adds up the amounts of all payment slots
func (r *BillingRecord) SumPayments() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// RecomputeBalance sets Balance from the current total cost, total paid and deduction.
// Balance is not clamped and may go negative.
func (r *BillingRecord) RecomputeBalance() {
	r.Balance = r.TotalCost.Sub(r.TotalPaid).Sub(r.DeductionAmount)
}

// Status derives the settlement status of the record
func (r *BillingRecord) Status() RecordStatus {
	switch {
	case r.TotalPaid.IsZero() && r.DeductionAmount.IsZero() && r.Balance.IsPositive():
		return RecordStatusOpen
	case r.Balance.IsPositive():
		return RecordStatusPartial
	case r.Balance.IsNegative():
		return RecordStatusOverpaid
	default:
		return RecordStatusSettled
	}
}

// RecordStatus is the derived settlement state of a billing record
type RecordStatus string

// Record status constants
const (
	RecordStatusOpen     RecordStatus = "open"
	RecordStatusPartial  RecordStatus = "partial"
	RecordStatusSettled  RecordStatus = "settled"
	RecordStatusOverpaid RecordStatus = "overpaid"
)

// StageLabel returns the human label of a 1-based payment stage ("1st Payment")
func StageLabel(stage int) string {
	switch stage {
	case 1:
		return "1st Payment"
	case 2:
		return "2nd Payment"
	case 3:
		return "3rd Payment"
	}
	return fmt.Sprintf("Payment %d", stage)
}

// Table is the full, ordered set of billing records held by a store
type Table []BillingRecord

// Clone returns a copy of the table that can be mutated independently
func (t Table) Clone() Table {
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// FormatDate renders an optional date using DateLayout, or "" when unset
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses an optional DateLayout date; an empty string yields nil
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

// PaymentSlotResponse is the JSON response format for a payment slot
type PaymentSlotResponse struct {
	Stage  int    `json:"stage"`
	Label  string `json:"label"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Method string `json:"method"`
}

// BillingRecordResponse is the JSON response format for billing records
type BillingRecordResponse struct {
	ReceiptNo       string                `json:"receipt_no"`
	CustomerName    string                `json:"customer_name"`
	College         string                `json:"college"`
	Phone           string                `json:"phone"`
	ProjectTitle    string                `json:"project_title"`
	Reference       string                `json:"reference"`
	Date            string                `json:"date"`
	TotalCost       string                `json:"total_cost"`
	Payments        []PaymentSlotResponse `json:"payments"`
	DeductionAmount string                `json:"deduction_amount"`
	TotalPaid       string                `json:"total_paid"`
	Balance         string                `json:"balance"`
	Status          RecordStatus          `json:"status"`
}

// ToResponse converts a record to its response format
func (r *BillingRecord) ToResponse() BillingRecordResponse {
	payments := make([]PaymentSlotResponse, 0, PaymentSlots)
	for i, p := range r.Payments {
		payments = append(payments, PaymentSlotResponse{
			Stage:  i + 1,
			Label:  StageLabel(i + 1),
			Date:   FormatDate(p.Date),
			Amount: p.Amount.StringFixed(2),
			Method: string(p.Method),
		})
	}

	return BillingRecordResponse{
		ReceiptNo:       r.ReceiptNo,
		CustomerName:    r.CustomerName,
		College:         r.College,
		Phone:           r.Phone,
		ProjectTitle:    r.ProjectTitle,
		Reference:       r.Reference,
		Date:            FormatDate(r.Date),
		TotalCost:       r.TotalCost.StringFixed(2),
		Payments:        payments,
		DeductionAmount: r.DeductionAmount.StringFixed(2),
		TotalPaid:       r.TotalPaid.StringFixed(2),
		Balance:         r.Balance.StringFixed(2),
		Status:          r.Status(),
	}
}
