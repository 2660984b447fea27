package billing

import "errors"

// Billing engine errors
var (
	ErrEmptyReceiptNo       = errors.New("receipt no. cannot be empty")
	ErrDuplicateReceiptNo   = errors.New("receipt no. already exists")
	ErrRecordNotFound       = errors.New("no records found for this receipt no.")
	ErrInvalidStage         = errors.New("payment stage must be 1, 2 or 3")
	ErrNegativeAmount       = errors.New("amount cannot be negative")
	ErrAmountPrecision      = errors.New("amount cannot have more than 2 decimal places")
	ErrInvalidReceiptNo     = errors.New("receipt no. cannot contain '/' or be \"export\"")
	ErrInvalidPaymentMethod = errors.New("payment method must be GPay or Cash")
)
