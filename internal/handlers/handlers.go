package handlers

import (
	"github.com/sjperalta/billing-api/internal/services"
	"github.com/sjperalta/billing-api/internal/storage"
)

// Handlers holds all handler instances
type Handlers struct {
	Health  *HealthHandler
	Record  *RecordHandler
	Receipt *ReceiptHandler
}

// NewHandlers creates all handler instances. files may be nil when no
// storage directory is configured.
func NewHandlers(svcs *services.Services, files *storage.LocalStorage) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(),
		Record:  NewRecordHandler(svcs.Billing, svcs.Export),
		Receipt: NewReceiptHandler(svcs.Billing, files),
	}
}
