package invoice

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"agencydesk/internal/model"
)

// Data is everything the invoice document shows.
type Data struct {
	InvoiceNumber string
	Quote         *model.Quote
	Project       *model.Project
	Client        *model.Client
	IssuedAt      time.Time
}

// Renderer produces the invoice attachment bytes.
type Renderer interface {
	Render(d Data) ([]byte, error)
}

// PDFRenderer renders a single-page PDF invoice.
type PDFRenderer struct{}

func (PDFRenderer) Render(d Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.Cell(0, 12, "INVOICE")
	pdf.Ln(16)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice no: %s", d.InvoiceNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", d.IssuedAt.Format("2 Jan 2006")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Billed to")
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, d.Client.Name)
	pdf.Ln(6)
	if d.Client.Company != "" {
		pdf.Cell(0, 6, d.Client.Company)
		pdf.Ln(6)
	}
	pdf.Cell(0, 6, d.Client.Email)
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("%s - %s", d.Project.Title, d.Quote.Subject)
	pdf.CellFormat(140, 8, desc, "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", d.Quote.Amount), "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(140, 8, "Total due", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", d.Quote.Amount), "1", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
