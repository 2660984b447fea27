package repository

import (
	"context"
	"fmt"

	"github.com/sjperalta/billing-api/internal/config"
	"github.com/sjperalta/billing-api/internal/database"
)

// Repositories holds all repository instances
type Repositories struct {
	Records RecordStore
	Backend string
}

// NewRepositories opens the record store selected by cfg.StoreBackend
func NewRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	var (
		store RecordStore
		err   error
	)

	switch cfg.StoreBackend {
	case config.BackendXLSX:
		store, err = NewXLSXStore(cfg.XLSXPath)
	case config.BackendSheets:
		store, err = NewSheetsStore(ctx, cfg.SheetsSpreadsheetID, cfg.SheetsCredentialsFile)
	case config.BackendPostgres:
		db, dbErr := database.Connect(cfg.DatabaseURL, cfg.IsProduction())
		if dbErr != nil {
			return nil, dbErr
		}
		store, err = NewPostgresStore(db)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, err
	}

	return &Repositories{Records: store, Backend: cfg.StoreBackend}, nil
}
