package repository

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sjperalta/billing-api/internal/models"
)

// ColumnKind tells backends how to write a cell
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindDate
	KindAmount
)

// Column is one column of the billing table
type Column struct {
	Name string
	Kind ColumnKind
}

// Column names of the billing table
const (
	ColReceiptNo       = "Receipt No."
	ColCustomerName    = "Customer Name"
	ColCollege         = "College"
	ColPhone           = "Phone No."
	ColProjectTitle    = "Project Title"
	ColReference       = "Reference"
	ColDate            = "Date"
	ColTotalCost       = "Total Cost"
	ColDeductionAmount = "Deduction Amount"
	ColTotalPaid       = "Total Paid"
	ColBalance         = "Balance"
)

// Schema is the fixed column layout shared by every tabular backend
var Schema = buildSchema()

func buildSchema() []Column {
	cols := []Column{
		{ColReceiptNo, KindText},
		{ColCustomerName, KindText},
		{ColCollege, KindText},
		{ColPhone, KindText},
		{ColProjectTitle, KindText},
		{ColReference, KindText},
		{ColDate, KindDate},
		{ColTotalCost, KindAmount},
	}
	for stage := 1; stage <= models.PaymentSlots; stage++ {
		label := models.StageLabel(stage)
		cols = append(cols,
			Column{label + " Date", KindDate},
			Column{label + " Amount", KindAmount},
			Column{label + " Method", KindText},
		)
	}
	return append(cols,
		Column{ColDeductionAmount, KindAmount},
		Column{ColTotalPaid, KindAmount},
		Column{ColBalance, KindAmount},
	)
}

// Header returns the column names in schema order
func Header() []string {
	names := make([]string, len(Schema))
	for i, c := range Schema {
		names[i] = c.Name
	}
	return names
}

// EncodeRows serializes the table in schema order, without the header row.
// Dates are written as YYYY-MM-DD, amounts with two decimals, nulls as "".
func EncodeRows(table models.Table) [][]string {
	rows := make([][]string, 0, len(table))
	for i := range table {
		rows = append(rows, encodeRecord(&table[i]))
	}
	return rows
}

func encodeRecord(r *models.BillingRecord) []string {
	row := make([]string, 0, len(Schema))
	row = append(row,
		r.ReceiptNo,
		r.CustomerName,
		r.College,
		r.Phone,
		r.ProjectTitle,
		r.Reference,
		models.FormatDate(r.Date),
		r.TotalCost.StringFixed(2),
	)
	for _, p := range r.Payments {
		row = append(row, models.FormatDate(p.Date), p.Amount.StringFixed(2), string(p.Method))
	}
	return append(row,
		r.DeductionAmount.StringFixed(2),
		r.TotalPaid.StringFixed(2),
		r.Balance.StringFixed(2),
	)
}

// DecodeRows coerces raw cells into billing records. Columns are located by
// header name; when the header names none of the schema columns the rows are
// read positionally. Unparseable dates become nil, unparseable amounts 0 and
// unknown payment methods "". Blank rows are skipped.
func DecodeRows(header []string, rows [][]string) models.Table {
	idx := columnIndex(header)
	table := make(models.Table, 0, len(rows))

	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		rec := models.BillingRecord{
			ReceiptNo:       cell(ColReceiptNo),
			CustomerName:    cell(ColCustomerName),
			College:         cell(ColCollege),
			Phone:           cell(ColPhone),
			ProjectTitle:    cell(ColProjectTitle),
			Reference:       cell(ColReference),
			Date:            parseDate(cell(ColDate)),
			TotalCost:       parseAmount(cell(ColTotalCost)),
			DeductionAmount: parseAmount(cell(ColDeductionAmount)),
			TotalPaid:       parseAmount(cell(ColTotalPaid)),
			Balance:         parseAmount(cell(ColBalance)),
		}
		for i := range rec.Payments {
			label := models.StageLabel(i + 1)
			method, _ := models.ParsePaymentMethod(cell(label + " Method"))
			rec.Payments[i] = models.PaymentSlot{
				Date:   parseDate(cell(label + " Date")),
				Amount: parseAmount(cell(label + " Amount")),
				Method: method,
			}
		}
		table = append(table, rec)
	}
	return table
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(Schema))
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, c := range Schema {
			if strings.EqualFold(h, c.Name) {
				if _, dup := idx[c.Name]; !dup {
					idx[c.Name] = i
				}
			}
		}
	}
	if len(idx) == 0 {
		for i, c := range Schema {
			idx[c.Name] = i
		}
	}
	return idx
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

var dateLayouts = []string{
	models.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006/01/02",
	"1/2/2006",
	"01-02-06",
}

func parseDate(s string) *time.Time {
	if s == "" || strings.EqualFold(s, "none") || strings.EqualFold(s, "nat") {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &d
		}
	}
	return nil
}

func parseAmount(s string) decimal.Decimal {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
