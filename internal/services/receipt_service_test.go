package services

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjperalta/billing-api/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRecord() *models.BillingRecord {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rec := &models.BillingRecord{
		ReceiptNo:    "R001",
		CustomerName: "Asha",
		College:      "VIT",
		Phone:        "9000000000",
		ProjectTitle: "Smart Irrigation",
		Date:         &date,
		TotalCost:    dec("1000"),
	}
	rec.Payments[0] = models.PaymentSlot{Date: &date, Amount: dec("400"), Method: models.PaymentMethodCash}
	rec.Payments[1] = models.PaymentSlot{Amount: dec("150.5"), Method: models.PaymentMethodGPay}
	rec.TotalPaid = rec.SumPayments()
	rec.DeductionAmount = dec("50")
	rec.RecomputeBalance()
	return rec
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{B: 255, A: 128})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uncompressed() *ReceiptService {
	s := NewReceiptService()
	s.compress = false
	return s
}

func TestFormatPayment(t *testing.T) {
	tests := []struct {
		name string
		slot models.PaymentSlot
		want string
	}{
		{"cash", models.PaymentSlot{Amount: dec("400"), Method: models.PaymentMethodCash}, "$400.00 (Cash)"},
		{"gpay", models.PaymentSlot{Amount: dec("12.5"), Method: models.PaymentMethodGPay}, "$12.50 (GPay)"},
		{"empty slot", models.PaymentSlot{}, "$0.00"},
		{"amount without method", models.PaymentSlot{Amount: dec("99")}, "$0.00"},
		{"method without amount", models.PaymentSlot{Method: models.PaymentMethodCash}, "$0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatPayment(tt.slot))
		})
	}
}

func TestPaymentSummary(t *testing.T) {
	rows := PaymentSummary(sampleRecord())
	assert.Equal(t, [][2]string{
		{"Total Cost:", "$1000.00"},
		{"1st Payment:", "$400.00 (Cash)"},
		{"2nd Payment:", "$150.50 (GPay)"},
		{"3rd Payment:", "$0.00"},
		{"Total Paid:", "$550.50"},
		{"Balance:", "$399.50"},
		{"Deduction Amount:", "$50.00"},
	}, rows)
}

func TestPaymentSummary_NegativeBalance(t *testing.T) {
	rec := sampleRecord()
	rec.Payments[2] = models.PaymentSlot{Amount: dec("500"), Method: models.PaymentMethodCash}
	rec.TotalPaid = rec.SumPayments()
	rec.RecomputeBalance()

	rows := PaymentSummary(rec)
	assert.Equal(t, [2]string{"Balance:", "-$100.50"}, rows[5])
}

func TestCustomerDetails(t *testing.T) {
	rec := sampleRecord()
	rec.Date = nil
	rows := CustomerDetails(rec)
	require.Len(t, rows, 6)
	assert.Equal(t, [2]string{"Receipt No:", "R001"}, rows[0])
	assert.Equal(t, [2]string{"Project Title:", "Smart Irrigation"}, rows[4])
	assert.Equal(t, [2]string{"Date:", ""}, rows[5])
}

func TestReceiptFilename(t *testing.T) {
	assert.Equal(t, "receipt_R001.pdf", ReceiptFilename("R001"))
	assert.Equal(t, "receipt_2024_07.pdf", ReceiptFilename("2024/07"))
}

func TestReceiptService_Render(t *testing.T) {
	out, err := uncompressed().Render(sampleRecord(), nil)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	text := string(out)
	for _, want := range []string{
		"RECEIPT",
		"Pemchip Infotech",
		"Receipt No:",
		"Asha",
		`$400.00 \(Cash\)`,
		"$0.00",
		"Thank You for Your Business!",
		"Terms & Conditions:",
		"1. The initial deposit amount is non-refundable.",
	} {
		assert.Contains(t, text, want)
	}
	assert.NotContains(t, text, "/Subtype /Image")
}

func TestReceiptService_RenderWithTermsImage(t *testing.T) {
	out, err := uncompressed().Render(sampleRecord(), testPNG(t, 1600, 40))
	require.NoError(t, err)
	assert.Contains(t, string(out), "/Subtype /Image")
}

func TestReceiptService_RenderCompressed(t *testing.T) {
	out, err := NewReceiptService().Render(sampleRecord(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.NotContains(t, string(out), "Thank You for Your Business!")
}

func TestReceiptService_RenderErrors(t *testing.T) {
	svc := NewReceiptService()

	rec := sampleRecord()
	rec.ReceiptNo = "  "
	_, err := svc.Render(rec, nil)
	assert.ErrorIs(t, err, ErrMissingField)
	var missing *MissingFieldError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Receipt No.", missing.Field)

	_, err = svc.Render(nil, nil)
	assert.ErrorIs(t, err, ErrMissingField)

	_, err = svc.Render(sampleRecord(), []byte("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
