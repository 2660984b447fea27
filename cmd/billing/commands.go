package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/sjperalta/billing-api/internal/billing"
	"github.com/sjperalta/billing-api/internal/models"
	"github.com/sjperalta/billing-api/internal/services"
)

// app is shared by every subcommand. open is called once per command run.
type app struct {
	open func(ctx context.Context) (*services.Services, error)
	out  io.Writer
}

func (a *app) commands() []subcommands.Command {
	return []subcommands.Command{
		&newCmd{app: a},
		&payCmd{app: a},
		&deductCmd{app: a},
		&showCmd{app: a},
		&listCmd{app: a},
		&receiptCmd{app: a},
		&exportCmd{app: a},
	}
}

func (a *app) connect(ctx context.Context) (*services.Services, subcommands.ExitStatus) {
	svcs, err := a.open(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return nil, subcommands.ExitFailure
	}
	return svcs, subcommands.ExitSuccess
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}

func usage(msg string) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	return subcommands.ExitUsageError
}

func parseAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// printRecord writes the same two tables a receipt carries
func printRecord(w io.Writer, rec *models.BillingRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range services.CustomerDetails(rec) {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	fmt.Fprintf(tw, "Reference:\t%s\n", rec.Reference)
	for _, row := range services.PaymentSummary(rec) {
		fmt.Fprintf(tw, "%s\t%s\n", row[0], row[1])
	}
	fmt.Fprintf(tw, "Status:\t%s\n", rec.Status())
	tw.Flush()
}

type newCmd struct {
	*app
	receiptNo, customer, college, phone, title, reference, date, cost string
}

func (*newCmd) Name() string     { return "new" }
func (*newCmd) Synopsis() string { return "create a billing record" }
func (*newCmd) Usage() string {
	return `billing new -receipt <no> [-customer <name>] [-college <name>] [-phone <no>] [-title <project>] [-ref <text>] [-date YYYY-MM-DD] [-cost <amount>]

  Creates a record with empty payment slots and a balance equal to its total cost.
`
}

func (c *newCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.receiptNo, "receipt", "", "Receipt number, unique across the table.")
	f.StringVar(&c.customer, "customer", "", "Customer name.")
	f.StringVar(&c.college, "college", "", "College.")
	f.StringVar(&c.phone, "phone", "", "Phone number.")
	f.StringVar(&c.title, "title", "", "Project title.")
	f.StringVar(&c.reference, "ref", "", "Free-text reference.")
	f.StringVar(&c.date, "date", "", "Entry date (YYYY-MM-DD).")
	f.StringVar(&c.cost, "cost", "0", "Total cost.")
}

func (c *newCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := models.ParseDate(c.date)
	if err != nil {
		return usage(err.Error())
	}
	cost, err := parseAmount(c.cost)
	if err != nil {
		return usage(err.Error())
	}

	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	rec, err := svcs.Billing.CreateEntry(ctx, billing.NewEntry{
		ReceiptNo:    c.receiptNo,
		CustomerName: c.customer,
		College:      c.college,
		Phone:        c.phone,
		ProjectTitle: c.title,
		Reference:    c.reference,
		Date:         date,
		TotalCost:    cost,
	})
	if err != nil {
		return fail(err)
	}

	fmt.Fprintln(c.out, "Bill saved successfully!")
	printRecord(c.out, rec)
	return subcommands.ExitSuccess
}

type payCmd struct {
	*app
	receiptNo, date, amount, method string
	stage                           int
}

func (*payCmd) Name() string     { return "pay" }
func (*payCmd) Synopsis() string { return "record one of the three staged payments" }
func (*payCmd) Usage() string {
	return `billing pay -receipt <no> -stage 1|2|3 -amount <amount> [-method GPay|Cash] [-date YYYY-MM-DD]

  Overwrites the payment slot of the given stage and recomputes total paid and balance.
`
}

func (c *payCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.receiptNo, "receipt", "", "Receipt number of the record.")
	f.IntVar(&c.stage, "stage", 1, "Payment stage (1, 2 or 3).")
	f.StringVar(&c.amount, "amount", "0", "Payment amount.")
	f.StringVar(&c.method, "method", "", "Payment method (GPay or Cash).")
	f.StringVar(&c.date, "date", "", "Payment date (YYYY-MM-DD).")
}

func (c *payCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	date, err := models.ParseDate(c.date)
	if err != nil {
		return usage(err.Error())
	}
	amount, err := parseAmount(c.amount)
	if err != nil {
		return usage(err.Error())
	}
	method, err := models.ParsePaymentMethod(c.method)
	if err != nil {
		return usage(err.Error())
	}

	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	rec, err := svcs.Billing.UpdatePayment(ctx, strings.TrimSpace(c.receiptNo), c.stage, billing.PaymentInput{
		Date:   date,
		Amount: amount,
		Method: method,
	})
	if err != nil {
		return fail(err)
	}

	fmt.Fprintln(c.out, "Payment updated successfully!")
	printRecord(c.out, rec)
	return subcommands.ExitSuccess
}

type deductCmd struct {
	*app
	receiptNo, amount string
}

func (*deductCmd) Name() string     { return "deduct" }
func (*deductCmd) Synopsis() string { return "add to a record's deduction" }
func (*deductCmd) Usage() string {
	return `billing deduct -receipt <no> -amount <amount>

  Adds the amount to the record's accumulated deduction and recomputes its balance.
`
}

func (c *deductCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.receiptNo, "receipt", "", "Receipt number of the record.")
	f.StringVar(&c.amount, "amount", "0", "Amount to deduct.")
}

func (c *deductCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	amount, err := parseAmount(c.amount)
	if err != nil {
		return usage(err.Error())
	}

	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	rec, err := svcs.Billing.UpdateDeduction(ctx, strings.TrimSpace(c.receiptNo), amount)
	if err != nil {
		return fail(err)
	}

	fmt.Fprintln(c.out, "Deduction updated successfully!")
	printRecord(c.out, rec)
	return subcommands.ExitSuccess
}

type showCmd struct {
	*app
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "print one record" }
func (*showCmd) Usage() string {
	return `billing show <receipt_no>
`
}

func (*showCmd) SetFlags(*flag.FlagSet) {}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return usage("show takes exactly one receipt number")
	}

	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	rec, err := svcs.Billing.Get(ctx, strings.TrimSpace(f.Arg(0)))
	if err != nil {
		return fail(err)
	}
	printRecord(c.out, rec)
	return subcommands.ExitSuccess
}

type listCmd struct {
	*app
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "print every record" }
func (*listCmd) Usage() string {
	return `billing list

  Prints one line per record in store order.
`
}

func (*listCmd) SetFlags(*flag.FlagSet) {}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	table, err := svcs.Billing.List(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning: could not load billing records:", err)
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RECEIPT NO.\tCUSTOMER\tPROJECT\tTOTAL COST\tTOTAL PAID\tDEDUCTION\tBALANCE\tSTATUS")
	for i := range table {
		r := &table[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ReceiptNo,
			r.CustomerName,
			r.ProjectTitle,
			models.FormatMoney(r.TotalCost),
			models.FormatMoney(r.TotalPaid),
			models.FormatMoney(r.DeductionAmount),
			models.FormatMoney(r.Balance),
			r.Status(),
		)
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

type receiptCmd struct {
	*app
	receiptNo, image, output string
}

func (*receiptCmd) Name() string     { return "receipt" }
func (*receiptCmd) Synopsis() string { return "write the PDF receipt of a record" }
func (*receiptCmd) Usage() string {
	return `billing receipt -receipt <no> [-image <terms.png>] [-o <file.pdf>]

  Renders the receipt. Without -image the stored default terms image is used, if any.
`
}

func (c *receiptCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.receiptNo, "receipt", "", "Receipt number of the record.")
	f.StringVar(&c.image, "image", "", "JPG or PNG terms image to embed.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to receipt_<no>.pdf.")
}

func (c *receiptCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var image []byte
	if c.image != "" {
		data, err := os.ReadFile(c.image)
		if err != nil {
			return fail(err)
		}
		image = data
	}

	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	pdf, filename, err := svcs.Billing.Receipt(ctx, strings.TrimSpace(c.receiptNo), image)
	if err != nil {
		return fail(err)
	}

	out := c.output
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, pdf, 0644); err != nil {
		return fail(err)
	}
	fmt.Fprintln(c.out, "Receipt written to", out)
	return subcommands.ExitSuccess
}

type exportCmd struct {
	*app
	format, output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the whole table as xlsx or CSV" }
func (*exportCmd) Usage() string {
	return `billing export [-format xlsx|csv] [-o <file>]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "xlsx", "Export format (xlsx or csv).")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to billing_records_<date>.<format>.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format := strings.ToLower(c.format)
	if format != "xlsx" && format != "csv" {
		return usage(fmt.Sprintf("unsupported export format %q", c.format))
	}

	svcs, status := c.connect(ctx)
	if svcs == nil {
		return status
	}
	table, err := svcs.Billing.List(ctx)
	if err != nil {
		return fail(err)
	}

	var (
		data     []byte
		filename string
	)
	if format == "csv" {
		data, filename, err = svcs.Export.ExportCSV(ctx, table)
	} else {
		data, filename, err = svcs.Export.ExportXLSX(ctx, table)
	}
	if err != nil {
		return fail(err)
	}

	out := c.output
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fail(err)
	}
	fmt.Fprintf(c.out, "Exported %d records to %s\n", len(table), out)
	return subcommands.ExitSuccess
}
