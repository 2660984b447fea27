package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sjperalta/billing-api/internal/services"
	"github.com/sjperalta/billing-api/internal/storage"
)

const termsImageField = "terms_image"

type ReceiptHandler struct {
	billingService *services.BillingService
	storage        *storage.LocalStorage
}

func NewReceiptHandler(billingService *services.BillingService, storage *storage.LocalStorage) *ReceiptHandler {
	return &ReceiptHandler{billingService: billingService, storage: storage}
}

// @Summary Download Receipt
// @Description Render the receipt PDF of a record, illustrated with the stored terms image if one was uploaded
// @Tags Receipts
// @Produce application/pdf
// @Param receipt_no path string true "Receipt No."
// @Success 200 {file} file "receipt_<receipt_no>.pdf"
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /records/{receipt_no}/receipt [get]
func (h *ReceiptHandler) Download(c *gin.Context) {
	h.render(c, nil)
}

// @Summary Download Receipt With Terms Image
// @Description Render the receipt PDF of a record with an uploaded terms image (JPG or PNG)
// @Tags Receipts
// @Accept multipart/form-data
// @Produce application/pdf
// @Param receipt_no path string true "Receipt No."
// @Param terms_image formData file false "Terms image"
// @Success 200 {file} file "receipt_<receipt_no>.pdf"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /records/{receipt_no}/receipt [post]
func (h *ReceiptHandler) DownloadWithImage(c *gin.Context) {
	image, err := h.readUpload(c, false)
	if err != nil {
		respondError(c, err)
		return
	}
	h.render(c, image)
}

// @Summary Set Terms Image
// @Description Store the default terms image used by receipts rendered without an upload
// @Tags Receipts
// @Accept multipart/form-data
// @Produce json
// @Param terms_image formData file true "Terms image"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /terms_image [put]
func (h *ReceiptHandler) SetTermsImage(c *gin.Context) {
	image, err := h.readUpload(c, true)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.billingService.SetTermsImage(c.Request.Context(), image); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Terms image updated"})
}

func (h *ReceiptHandler) render(c *gin.Context, image []byte) {
	pdf, filename, err := h.billingService.Receipt(c.Request.Context(), receiptParam(c), image)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// readUpload returns the bytes of the terms_image form file, or nil when the
// field is absent and not required.
func (h *ReceiptHandler) readUpload(c *gin.Context, required bool) ([]byte, error) {
	file, _, err := c.Request.FormFile(termsImageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		if required {
			return nil, invalidRequest(fmt.Errorf("%s file is required", termsImageField))
		}
		return nil, nil
	}
	if err != nil {
		return nil, invalidRequest(err)
	}
	defer file.Close()

	limit := storage.MaxFileSize()
	if h.storage != nil {
		limit = h.storage.MaxSize()
	}
	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, invalidRequest(err)
	}
	if int64(len(data)) > limit {
		return nil, storage.ErrFileTooLarge
	}
	if !storage.IsValidContentType(storage.DetectContentType(data)) {
		return nil, storage.ErrInvalidContentType
	}
	return data, nil
}
