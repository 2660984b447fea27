package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sjperalta/billing-api/internal/models"
)

// recordRow is the billing_records table layout. Position preserves the
// table order across wholesale rewrites.
type recordRow struct {
	Position     int             `gorm:"primaryKey;autoIncrement:false"`
	ReceiptNo    string          `gorm:"not null;index"`
	CustomerName string          `gorm:"not null;default:''"`
	College      string          `gorm:"not null;default:''"`
	Phone        string          `gorm:"not null;default:''"`
	ProjectTitle string          `gorm:"not null;default:''"`
	Reference    string          `gorm:"not null;default:''"`
	Date         *time.Time      `gorm:"type:date"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`

	Payment1Date   *time.Time      `gorm:"type:date"`
	Payment1Amount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Payment1Method string          `gorm:"type:varchar(8);not null;default:''"`
	Payment2Date   *time.Time      `gorm:"type:date"`
	Payment2Amount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Payment2Method string          `gorm:"type:varchar(8);not null;default:''"`
	Payment3Date   *time.Time      `gorm:"type:date"`
	Payment3Amount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Payment3Method string          `gorm:"type:varchar(8);not null;default:''"`

	DeductionAmount decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	TotalPaid       decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	Balance         decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	UpdatedAt       time.Time
}

// TableName specifies the table name for recordRow
func (recordRow) TableName() string {
	return "billing_records"
}

// PostgresStore keeps the billing table in PostgreSQL
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore migrates the billing_records table and returns the store
func NewPostgresStore(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&recordRow{}); err != nil {
		return nil, &StoreError{Backend: "postgres", Op: "migrate", Err: err}
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (models.Table, error) {
	var rows []recordRow
	if err := s.db.WithContext(ctx).Order("position").Find(&rows).Error; err != nil {
		return models.Table{}, &StoreError{Backend: "postgres", Op: "load", Err: err}
	}
	table := make(models.Table, 0, len(rows))
	for i := range rows {
		table = append(table, rows[i].toRecord())
	}
	return table, nil
}

// Save replaces every stored row inside one transaction
func (s *PostgresStore) Save(ctx context.Context, table models.Table) error {
	rows := toRows(table)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&recordRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(rows, 200).Error
	})
	if err != nil {
		return &StoreError{Backend: "postgres", Op: "save", Err: err}
	}
	return nil
}

// toRows numbers rows by their table position so Load can restore the order
func toRows(table models.Table) []recordRow {
	rows := make([]recordRow, len(table))
	for i := range table {
		rows[i] = fromRecord(i, &table[i])
	}
	return rows
}

func fromRecord(pos int, r *models.BillingRecord) recordRow {
	return recordRow{
		Position:        pos,
		ReceiptNo:       r.ReceiptNo,
		CustomerName:    r.CustomerName,
		College:         r.College,
		Phone:           r.Phone,
		ProjectTitle:    r.ProjectTitle,
		Reference:       r.Reference,
		Date:            r.Date,
		TotalCost:       r.TotalCost,
		Payment1Date:    r.Payments[0].Date,
		Payment1Amount:  r.Payments[0].Amount,
		Payment1Method:  string(r.Payments[0].Method),
		Payment2Date:    r.Payments[1].Date,
		Payment2Amount:  r.Payments[1].Amount,
		Payment2Method:  string(r.Payments[1].Method),
		Payment3Date:    r.Payments[2].Date,
		Payment3Amount:  r.Payments[2].Amount,
		Payment3Method:  string(r.Payments[2].Method),
		DeductionAmount: r.DeductionAmount,
		TotalPaid:       r.TotalPaid,
		Balance:         r.Balance,
	}
}

func (row *recordRow) toRecord() models.BillingRecord {
	method := func(s string) models.PaymentMethod {
		m, _ := models.ParsePaymentMethod(s)
		return m
	}
	return models.BillingRecord{
		ReceiptNo:    row.ReceiptNo,
		CustomerName: row.CustomerName,
		College:      row.College,
		Phone:        row.Phone,
		ProjectTitle: row.ProjectTitle,
		Reference:    row.Reference,
		Date:         row.Date,
		TotalCost:    row.TotalCost,
		Payments: [models.PaymentSlots]models.PaymentSlot{
			{Date: row.Payment1Date, Amount: row.Payment1Amount, Method: method(row.Payment1Method)},
			{Date: row.Payment2Date, Amount: row.Payment2Amount, Method: method(row.Payment2Method)},
			{Date: row.Payment3Date, Amount: row.Payment3Amount, Method: method(row.Payment3Method)},
		},
		DeductionAmount: row.DeductionAmount,
		TotalPaid:       row.TotalPaid,
		Balance:         row.Balance,
	}
}
