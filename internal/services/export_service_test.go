package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/internal/repository"
)

func fixedExport() *ExportService {
	s := NewExportService()
	s.now = func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestExportService_ExportCSV(t *testing.T) {
	data, filename, err := fixedExport().ExportCSV(context.Background(), models.Table{*sampleRecord()})
	require.NoError(t, err)
	assert.Equal(t, "billing_records_2024-03-01.csv", filename)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, repository.Header(), rows[0])
	assert.Equal(t, "R001", rows[1][0])

	decoded := repository.DecodeRows(rows[0], rows[1:])
	require.Len(t, decoded, 1)
	assert.True(t, decoded[0].Balance.Equal(dec("399.50")))
}

func TestExportService_ExportXLSX(t *testing.T) {
	data, filename, err := fixedExport().ExportXLSX(context.Background(), models.Table{*sampleRecord()})
	require.NoError(t, err)
	assert.Equal(t, "billing_records_2024-03-01.xlsx", filename)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, repository.Header(), rows[0])

	decoded := repository.DecodeRows(rows[0], rows[1:])
	require.Len(t, decoded, 1)
	assert.Equal(t, models.PaymentMethodGPay, decoded[0].Payments[1].Method)
	assert.True(t, decoded[0].TotalCost.Equal(dec("1000")))
}

func TestExportService_EmptyTable(t *testing.T) {
	data, _, err := fixedExport().ExportCSV(context.Background(), models.Table{})
	require.NoError(t, err)
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
