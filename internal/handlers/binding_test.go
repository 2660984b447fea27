package handlers

import (
	"bytes"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBindNestedOrFlat(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name        string
		key         string
		body        string
		expected    PaymentRequest
		expectError bool
	}{
		{
			name:     "Nested Structure",
			key:      "payment",
			body:     `{"payment": {"stage": 2, "amount": "150.50", "method": "GPay"}}`,
			expected: PaymentRequest{Stage: 2, Amount: decimal.RequireFromString("150.50"), Method: "GPay"},
		},
		{
			name:     "Flat Structure",
			key:      "payment",
			body:     `{"stage": 1, "amount": 400, "method": "Cash", "date": "2024-03-05"}`,
			expected: PaymentRequest{Stage: 1, Amount: decimal.RequireFromString("400"), Method: "Cash", Date: "2024-03-05"},
		},
		{
			name:     "Nested Key Missing Falls Back To Flat",
			key:      "payment",
			body:     `{"record": "ignored", "stage": 3}`,
			expected: PaymentRequest{Stage: 3},
		},
		{
			name:        "Invalid Type",
			key:         "payment",
			body:        `{"stage": "first"}`,
			expectError: true,
		},
		{
			name:        "Nested but Invalid Content",
			key:         "payment",
			body:        `{"payment": {"amount": "a lot"}}`,
			expectError: true,
		},
		{
			name:        "Nested Key Present but Invalid Type",
			key:         "payment",
			body:        `{"payment": "some string"}`,
			expectError: true,
		},
		{
			name:        "Empty Body",
			key:         "payment",
			body:        "  ",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(tt.body))
			c.Request.Header.Set("Content-Type", "application/json")

			var result PaymentRequest
			err := BindNestedOrFlat(c, tt.key, &result)

			if tt.expectError {
				assert.ErrorIs(t, err, errInvalidRequest)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected.Stage, result.Stage)
			assert.Equal(t, tt.expected.Method, result.Method)
			assert.Equal(t, tt.expected.Date, result.Date)
			assert.True(t, tt.expected.Amount.Equal(result.Amount), "amount %s != %s", result.Amount, tt.expected.Amount)
		})
	}
}

func TestBindNestedOrFlat_RestoresBody(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/", bytes.NewBufferString(`{"amount": 5}`))

	var req DeductionRequest
	assert.NoError(t, BindNestedOrFlat(c, "deduction", &req))

	rest, err := io.ReadAll(c.Request.Body)
	assert.NoError(t, err)
	assert.Equal(t, `{"amount": 5}`, string(rest))
}
