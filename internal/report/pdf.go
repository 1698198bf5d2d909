package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	pageMargin = 10.0
	lineHeight = 7.0
)

// Holdings table column widths in mm, summing to the printable A4 width
var holdingsColumnWidths = []float64{18, 18, 22, 22, 24, 24, 22, 18, 22}

// WritePDF renders doc as a paginated A4 PDF
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(33, 37, 41)
	pdf.CellFormat(0, 12, tr(doc.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(108, 117, 125)
	pdf.CellFormat(0, 6, "Generated on "+doc.GeneratedAt.Format("January 2, 2006 at 3:04 PM"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	sectionHeading(pdf, tr, "Portfolio Summary")
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range doc.Summary {
		pdf.CellFormat(70, lineHeight, tr(row.Metric), "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, lineHeight, tr(row.Value), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	sectionHeading(pdf, tr, "Holdings")
	holdingsHeaderRow(pdf, tr, doc.HoldingsHeader)
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(33, 37, 41)
	_, pageHeight := pdf.GetPageSize()
	for _, row := range doc.Holdings {
		// Repeat the header on each new page
		if pdf.GetY()+lineHeight > pageHeight-20 {
			pdf.AddPage()
			holdingsHeaderRow(pdf, tr, doc.HoldingsHeader)
			pdf.SetFont("Helvetica", "", 8)
			pdf.SetTextColor(33, 37, 41)
		}
		for i, cell := range row {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(holdingsColumnWidths[i], lineHeight, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(doc.Recommendations) > 0 {
		pdf.Ln(6)
		sectionHeading(pdf, tr, "Investment Recommendations")
		for i, rec := range doc.Recommendations {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(33, 37, 41)
			pdf.CellFormat(0, 6, tr(fmt.Sprintf("%d. %s (%s) - %s", i+1, rec.Name, rec.Ticker, rec.Allocation)), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 9)
			pdf.MultiCell(0, 5, tr(rec.Rationale), "", "L", false)
			pdf.Ln(2)
		}
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(108, 117, 125)
	pdf.MultiCell(0, 4, tr(doc.Disclaimer), "T", "L", false)

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("rendering pdf: %w", err)
	}
	return pdf.Output(w)
}

func sectionHeading(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(13, 110, 253)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
}

func holdingsHeaderRow(pdf *fpdf.Fpdf, tr func(string) string, header []string) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(233, 236, 239)
	pdf.SetTextColor(33, 37, 41)
	for i, title := range header {
		pdf.CellFormat(holdingsColumnWidths[i], lineHeight, tr(title), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
}
