package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sjperalta/billing-api/internal/billing"
	"github.com/sjperalta/billing-api/internal/repository"
	"github.com/sjperalta/billing-api/internal/services"
	"github.com/sjperalta/billing-api/internal/storage"
	"github.com/sjperalta/billing-api/pkg/logger"
)

var errInvalidRequest = errors.New("invalid request")

func invalidRequest(err error) error {
	return fmt.Errorf("%w: %v", errInvalidRequest, err)
}

// respondError writes err as {"error": "..."} with the status its kind maps to
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", "path", c.FullPath(), "status", status, "error", err)
		_ = c.Error(err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, billing.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, billing.ErrDuplicateReceiptNo):
		return http.StatusConflict
	case errors.Is(err, services.ErrMissingField):
		return http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrStoreIO):
		return http.StatusBadGateway
	case errors.Is(err, errInvalidRequest),
		errors.Is(err, billing.ErrEmptyReceiptNo),
		errors.Is(err, billing.ErrInvalidStage),
		errors.Is(err, billing.ErrNegativeAmount),
		errors.Is(err, billing.ErrAmountPrecision),
		errors.Is(err, billing.ErrInvalidReceiptNo),
		errors.Is(err, billing.ErrInvalidPaymentMethod),
		errors.Is(err, services.ErrInvalidImage),
		errors.Is(err, storage.ErrInvalidContentType):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusInternalServerError
}
