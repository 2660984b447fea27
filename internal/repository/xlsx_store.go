package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/sjperalta/billing-api/internal/models"
)

const xlsxSheet = "Sheet1"

// XLSXStore keeps the billing table in the first sheet of a local workbook
type XLSXStore struct {
	path string
}

// NewXLSXStore opens the workbook at path, creating it with the header row
// when it does not exist yet.
func NewXLSXStore(path string) (*XLSXStore, error) {
	s := &XLSXStore{path: path}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(models.Table{}); err != nil {
			return nil, &StoreError{Backend: "xlsx", Op: "create", Err: err}
		}
	} else if err != nil {
		return nil, &StoreError{Backend: "xlsx", Op: "stat", Err: err}
	}
	return s, nil
}

func (s *XLSXStore) Load(ctx context.Context) (models.Table, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return models.Table{}, &StoreError{Backend: "xlsx", Op: "load", Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return models.Table{}, &StoreError{Backend: "xlsx", Op: "load", Err: err}
	}
	if len(rows) == 0 {
		return models.Table{}, nil
	}
	return DecodeRows(rows[0], rows[1:]), nil
}

func (s *XLSXStore) Save(ctx context.Context, table models.Table) error {
	if err := s.write(table); err != nil {
		return &StoreError{Backend: "xlsx", Op: "save", Err: err}
	}
	return nil
}

// write renders a fresh workbook into a temporary file next to the target
// and renames it into place.
func (s *XLSXStore) write(table models.Table) error {
	f, err := BuildWorkbook(table)
	if err != nil {
		return err
	}
	defer f.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".billing-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// BuildWorkbook lays the table out on a single sheet: a bold header row
// followed by one row per record. Amount columns are stored as numbers.
func BuildWorkbook(table models.Table) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	header := make([]interface{}, len(Schema))
	for i, c := range Schema {
		header[i] = c.Name
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		f.Close()
		return nil, err
	}
	last, _ := excelize.CoordinatesToCellName(len(Schema), 1)
	_ = f.SetCellStyle(xlsxSheet, "A1", last, headerStyle)

	for i, row := range EncodeRows(table) {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
			if Schema[j].Kind == KindAmount {
				if n, err := strconv.ParseFloat(v, 64); err == nil {
					cells[j] = n
				}
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(xlsxSheet, cell, &cells); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}
