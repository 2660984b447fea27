package services

import (
	"github.com/sjperalta/billing-api/internal/repository"
	"github.com/sjperalta/billing-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Billing *BillingService
	Receipt *ReceiptService
	Export  *ExportService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, files *storage.LocalStorage) *Services {
	receiptSvc := NewReceiptService()

	return &Services{
		Billing: NewBillingService(repos.Records, receiptSvc, files),
		Receipt: receiptSvc,
		Export:  NewExportService(),
	}
}
