package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sjperalta/billing-api/internal/billing"
	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/internal/services"
)

type RecordHandler struct {
	billingService *services.BillingService
	exportService  *services.ExportService
}

func NewRecordHandler(billingService *services.BillingService, exportService *services.ExportService) *RecordHandler {
	return &RecordHandler{billingService: billingService, exportService: exportService}
}

// CreateRecordRequest is the New Entry form
type CreateRecordRequest struct {
	ReceiptNo    string          `json:"receipt_no"`
	CustomerName string          `json:"customer_name"`
	College      string          `json:"college"`
	Phone        string          `json:"phone"`
	ProjectTitle string          `json:"project_title"`
	Reference    string          `json:"reference"`
	Date         string          `json:"date" example:"2024-03-01"`
	TotalCost    decimal.Decimal `json:"total_cost" swaggertype:"string" example:"1000.00"`
}

// PaymentRequest overwrites one payment stage
type PaymentRequest struct {
	Stage  int             `json:"stage" example:"1"`
	Date   string          `json:"date" example:"2024-03-05"`
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"400.00"`
	Method string          `json:"method" enums:"GPay,Cash"`
}

// DeductionRequest adds to a record's accumulated deduction
type DeductionRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"50.00"`
}

// @Summary List Records
// @Description Get every billing record in store order. When the store cannot be read the list is empty and a warning is included.
// @Tags Records
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /records [get]
func (h *RecordHandler) Index(c *gin.Context) {
	table, err := h.billingService.List(c.Request.Context())

	responses := make([]models.BillingRecordResponse, 0, len(table))
	for i := range table {
		responses = append(responses, table[i].ToResponse())
	}

	body := gin.H{
		"records": responses,
		"total":   len(responses),
	}
	if err != nil {
		body["warning"] = fmt.Sprintf("Could not load billing records: %v", err)
	}
	c.JSON(http.StatusOK, body)
}

// @Summary Show Record
// @Description Get a billing record by receipt number
// @Tags Records
// @Produce json
// @Param receipt_no path string true "Receipt No."
// @Success 200 {object} models.BillingRecordResponse
// @Failure 404 {object} map[string]string
// @Router /records/{receipt_no} [get]
func (h *RecordHandler) Show(c *gin.Context) {
	rec, err := h.billingService.Get(c.Request.Context(), receiptParam(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec.ToResponse())
}

// @Summary Create Record
// @Description Create a billing record. Payment slots start empty and the balance equals the total cost.
// @Tags Records
// @Accept json
// @Produce json
// @Param request body CreateRecordRequest true "New entry"
// @Success 201 {object} models.BillingRecordResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := BindNestedOrFlat(c, "record", &req); err != nil {
		respondError(c, err)
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		respondError(c, invalidRequest(err))
		return
	}

	rec, err := h.billingService.CreateEntry(c.Request.Context(), billing.NewEntry{
		ReceiptNo:    req.ReceiptNo,
		CustomerName: req.CustomerName,
		College:      req.College,
		Phone:        req.Phone,
		ProjectTitle: req.ProjectTitle,
		Reference:    req.Reference,
		Date:         date,
		TotalCost:    req.TotalCost,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec.ToResponse())
}

// @Summary Update Payment
// @Description Overwrite one payment stage (1, 2 or 3) of a record and recompute its totals
// @Tags Records
// @Accept json
// @Produce json
// @Param receipt_no path string true "Receipt No."
// @Param request body PaymentRequest true "Payment"
// @Success 200 {object} models.BillingRecordResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /records/{receipt_no}/payments [post]
func (h *RecordHandler) UpdatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		respondError(c, err)
		return
	}

	date, err := models.ParseDate(req.Date)
	if err != nil {
		respondError(c, invalidRequest(err))
		return
	}
	method, err := models.ParsePaymentMethod(req.Method)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %v", billing.ErrInvalidPaymentMethod, err))
		return
	}

	rec, err := h.billingService.UpdatePayment(c.Request.Context(), receiptParam(c), req.Stage, billing.PaymentInput{
		Date:   date,
		Amount: req.Amount,
		Method: method,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec.ToResponse())
}

// @Summary Update Deduction
// @Description Add an amount to a record's accumulated deduction and recompute its balance
// @Tags Records
// @Accept json
// @Produce json
// @Param receipt_no path string true "Receipt No."
// @Param request body DeductionRequest true "Deduction"
// @Success 200 {object} models.BillingRecordResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /records/{receipt_no}/deductions [post]
func (h *RecordHandler) UpdateDeduction(c *gin.Context) {
	var req DeductionRequest
	if err := BindNestedOrFlat(c, "deduction", &req); err != nil {
		respondError(c, err)
		return
	}

	rec, err := h.billingService.UpdateDeduction(c.Request.Context(), receiptParam(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec.ToResponse())
}

// @Summary Export Records
// @Description Download the whole billing table as xlsx or CSV
// @Tags Records
// @Produce application/octet-stream
// @Param format query string false "Export format" Enums(xlsx, csv) default(xlsx)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /records/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "xlsx"))
	if format != "xlsx" && format != "csv" {
		respondError(c, invalidRequest(fmt.Errorf("unsupported export format %q", format)))
		return
	}

	ctx := c.Request.Context()
	table, err := h.billingService.List(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	if format == "csv" {
		data, filename, err = h.exportService.ExportCSV(ctx, table)
		contentType = "text/csv"
	} else {
		data, filename, err = h.exportService.ExportXLSX(ctx, table)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

func receiptParam(c *gin.Context) string {
	return strings.TrimSpace(c.Param("receipt_no"))
}
