package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/internal/repository"
)

type ExportService struct {
	now func() time.Time
}

func NewExportService() *ExportService {
	return &ExportService{now: time.Now}
}

func (s *ExportService) ExportCSV(ctx context.Context, table models.Table) ([]byte, string, error) {
	buf := new(bytes.Buffer)
	writer := csv.NewWriter(buf)

	if err := writer.Write(repository.Header()); err != nil {
		return nil, "", err
	}
	if err := writer.WriteAll(repository.EncodeRows(table)); err != nil {
		return nil, "", fmt.Errorf("failed to write csv: %w", err)
	}

	return buf.Bytes(), s.filename("csv"), nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, table models.Table) ([]byte, string, error) {
	f, err := repository.BuildWorkbook(table)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), s.filename("xlsx"), nil
}

func (s *ExportService) filename(ext string) string {
	return fmt.Sprintf("billing_records_%s.%s", s.now().Format("2006-01-02"), ext)
}
