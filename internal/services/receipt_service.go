package services

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/sjperalta/billing-api/internal/models"
)

// Letterhead and closing text printed on every receipt
var (
	companyName = "Pemchip Infotech"
	companyInfo = []string{
		companyName,
		"10, Vaibhav Nagar Phase 3, Siva Shakthi Complex, Near VIT, Katpadi, Vellore",
		"Contact: 9361286811 / 9626914437 / 8148983811",
		"Email: pemchipinfotech@gmail.com | Website: pemchip.com",
	}
	termsClauses = [8]string{
		"1. The initial deposit amount is non-refundable.",
		"2. Software projects require a minimum of 10 days, and hardware projects require a minimum of 15 days for completion.",
		"3. A 50% payment is required at the start of the project for hardware projects.",
		"4. Payments will be made according to project milestones. For example, if 30% of the project is completed, 30% of the total payment is due at that stage.",
		"5. No project work will be delivered if there is any outstanding payment.",
		"6. Once the project is delivered, any requested changes will be charged according to the scope of work involved.",
		"7. The project will be delivered strictly according to the requirements specified in the registration form in advance, and no additional features or scope will be included unless specified and agreed upon in advance.",
		"8. If a client refers a friend, they will receive a referral discount on their own project.",
	}
)

// Page geometry, in points on a Letter page
const (
	pageMargin   = 36.0
	labelWidth   = 150.0
	valueWidth   = 300.0
	rowHeight    = 15.0
	termsBoxW    = 400.0
	termsBoxH    = 200.0
	termsMaxPixW = 1200
	termsMaxPixH = 600
)

// ReceiptService renders single-page PDF receipts for billing records
type ReceiptService struct {
	compress bool
}

func NewReceiptService() *ReceiptService {
	return &ReceiptService{compress: true}
}

// ReceiptFilename is the download name of a record's receipt
func ReceiptFilename(receiptNo string) string {
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\r', '\n':
			return '_'
		}
		return r
	}, receiptNo)
	return fmt.Sprintf("receipt_%s.pdf", safe)
}

// FormatPayment renders a payment slot as "$400.00 (Cash)", or "$0.00" when
// the slot has no amount or no method.
func FormatPayment(slot models.PaymentSlot) string {
	if slot.Amount.IsZero() || slot.Method == "" {
		return models.FormatMoney(decimal.Zero)
	}
	return fmt.Sprintf("%s (%s)", models.FormatMoney(slot.Amount), slot.Method)
}

// CustomerDetails returns the label/value rows of the customer table
func CustomerDetails(rec *models.BillingRecord) [][2]string {
	return [][2]string{
		{"Receipt No:", rec.ReceiptNo},
		{"Customer Name:", rec.CustomerName},
		{"College:", rec.College},
		{"Phone No:", rec.Phone},
		{"Project Title:", rec.ProjectTitle},
		{"Date:", models.FormatDate(rec.Date)},
	}
}

// PaymentSummary returns the label/value rows of the payment table
func PaymentSummary(rec *models.BillingRecord) [][2]string {
	rows := [][2]string{{"Total Cost:", models.FormatMoney(rec.TotalCost)}}
	for i, slot := range rec.Payments {
		rows = append(rows, [2]string{models.StageLabel(i+1) + ":", FormatPayment(slot)})
	}
	return append(rows,
		[2]string{"Total Paid:", models.FormatMoney(rec.TotalPaid)},
		[2]string{"Balance:", models.FormatMoney(rec.Balance)},
		[2]string{"Deduction Amount:", models.FormatMoney(rec.DeductionAmount)},
	)
}

// Render lays out the receipt of rec. termsImage is an optional JPG or PNG
// drawn in a fixed box between the payment table and the closing text.
func (s *ReceiptService) Render(rec *models.BillingRecord, termsImage []byte) ([]byte, error) {
	if rec == nil {
		return nil, &MissingFieldError{Field: "record"}
	}
	if strings.TrimSpace(rec.ReceiptNo) == "" {
		return nil, &MissingFieldError{Field: "Receipt No."}
	}

	var terms image.Image
	if len(termsImage) > 0 {
		img, err := prepareTermsImage(termsImage)
		if err != nil {
			return nil, err
		}
		terms = img
	}

	pdf := gofpdf.New("P", "pt", "Letter", "")
	pdf.SetCompression(s.compress)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.SetTitle("Receipt "+rec.ReceiptNo, true)
	pdf.SetAuthor(companyName, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*pageMargin

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 22, "RECEIPT", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	// Letterhead
	pdf.SetFont("Helvetica", "B", 10)
	for _, line := range companyInfo {
		pdf.CellFormat(contentW, 12, line, "", 1, "C", false, 0, "")
	}
	pdf.Ln(8)

	tableX := (pageW - labelWidth - valueWidth) / 2
	drawTable(pdf, tableX, "", CustomerDetails(rec), tr)
	pdf.Ln(8)
	drawTable(pdf, tableX, "B", PaymentSummary(rec), tr)
	pdf.Ln(12)

	if terms != nil {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, terms, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
		}
		opts := gofpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader("terms", opts, &buf)
		pdf.ImageOptions("terms", (pageW-termsBoxW)/2, pdf.GetY(), termsBoxW, termsBoxH, false, opts, 0, "")
		pdf.SetY(pdf.GetY() + termsBoxH)
		pdf.Ln(12)
	}

	// Closing
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 12, "Thank You for Your Business!", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 12, companyName, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 12, "Terms & Conditions:", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, clause := range termsClauses {
		pdf.MultiCell(contentW, 10, clause, "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return out.Bytes(), nil
}

func drawTable(pdf *gofpdf.Fpdf, x float64, style string, rows [][2]string, tr func(string) string) {
	pdf.SetFont("Helvetica", style, 10)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	for _, row := range rows {
		pdf.SetX(x)
		pdf.SetFillColor(211, 211, 211)
		pdf.CellFormat(labelWidth, rowHeight, tr(row[0]), "1", 0, "L", true, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, tr(row[1]), "1", 1, "L", false, 0, "")
	}
	// Outer box
	pdf.SetLineWidth(1)
	top := pdf.GetY() - rowHeight*float64(len(rows))
	pdf.Rect(x, top, labelWidth+valueWidth, rowHeight*float64(len(rows)), "D")
}

// prepareTermsImage decodes the upload, bounds its pixel size and flattens
// transparency onto white so it can be embedded as JPEG.
func prepareTermsImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	img = imaging.Fit(img, termsMaxPixW, termsMaxPixH, imaging.Lanczos)
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0), nil
}
