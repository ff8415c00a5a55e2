package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/cercosdelsur/storefront-api/internal/config"
	"github.com/cercosdelsur/storefront-api/internal/domain"
	"github.com/cercosdelsur/storefront-api/internal/pricing"
	"github.com/jung-kurt/gofpdf"
)

// Table layout constants, in millimeters on an A4 portrait page.
const (
	pdfMarginLeft   = 15.0
	pdfLineHeight   = 7.0
	pdfPageBreakY   = 260.0
	pdfColName      = 80.0
	pdfColQuantity  = 25.0
	pdfColUnitPrice = 35.0
	pdfColSubtotal  = 40.0
)

// PDFGenerator renders a quotation into a paginated document. Layout only;
// the single business rule it carries is re-deriving a unit price through the
// price manager when a line arrives without one.
type PDFGenerator struct {
	business config.BusinessConfig
	currency *pricing.CurrencyFormatter
	prices   *pricing.Manager
}

func NewPDFGenerator(business config.BusinessConfig, currency *pricing.CurrencyFormatter, prices *pricing.Manager) *PDFGenerator {
	return &PDFGenerator{
		business: business,
		currency: currency,
		prices:   prices,
	}
}

// Generate renders the quotation and returns the finished document bytes.
func (g *PDFGenerator) Generate(ctx context.Context, quotation *domain.Quotation) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(pdfMarginLeft, 15, 15)
	pdf.AddPage()

	g.renderHeader(pdf, tr)
	g.renderMetadata(pdf, tr, quotation)
	if quotation.Project != nil {
		g.renderProject(pdf, tr, quotation.Project)
	}
	if err := g.renderItems(ctx, pdf, tr, quotation); err != nil {
		return nil, err
	}
	g.renderTotals(pdf, tr, quotation)
	g.renderFooter(pdf, tr, quotation)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *PDFGenerator) renderHeader(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(g.business.Name))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(g.business.Address))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Tel: %s - %s", g.business.Phone, g.business.Email)))
	pdf.Ln(10)
	pdf.SetDrawColor(100, 100, 100)
	pdf.Line(pdfMarginLeft, pdf.GetY(), 195, pdf.GetY())
	pdf.Ln(6)
}

func (g *PDFGenerator) renderMetadata(pdf *gofpdf.Fpdf, tr func(string) string, q *domain.Quotation) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 8, tr("PRESUPUESTO"))
	pdf.Ln(9)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, tr(fmt.Sprintf("N°: %s", q.ID)))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Fecha: %s", q.Date.Format(dateLayout))))
	pdf.Ln(5)
	pdf.Cell(0, 6, tr(fmt.Sprintf("Válido hasta: %s", q.ValidUntil.Format(dateLayout))))
	pdf.Ln(8)
}

func (g *PDFGenerator) renderProject(pdf *gofpdf.Fpdf, tr func(string) string, p *domain.ProjectInfo) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr("Datos del proyecto"))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	if p.Name != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Proyecto: %s", p.Name)))
		pdf.Ln(5)
	}
	if p.Location != "" {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Ubicación: %s", p.Location)))
		pdf.Ln(5)
	}
	if p.LinearMeters > 0 {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Metros lineales: %.1f m", p.LinearMeters)))
		pdf.Ln(5)
	}
	if p.Notes != "" {
		pdf.MultiCell(0, 5, tr(fmt.Sprintf("Notas: %s", p.Notes)), "", "L", false)
	}
	pdf.Ln(4)
}

// breakPageIfNeeded starts a new page when the cursor passed the break
// threshold, re-drawing the table header so rows stay labeled.
func (g *PDFGenerator) breakPageIfNeeded(pdf *gofpdf.Fpdf, tr func(string) string, withTableHeader bool) {
	if pdf.GetY() < pdfPageBreakY {
		return
	}
	pdf.AddPage()
	if withTableHeader {
		g.renderTableHeader(pdf, tr)
	}
}

func (g *PDFGenerator) renderTableHeader(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(pdfColName, pdfLineHeight, tr("Material"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(pdfColQuantity, pdfLineHeight, tr("Cant."), "1", 0, "C", true, 0, "")
	pdf.CellFormat(pdfColUnitPrice, pdfLineHeight, tr("P. unitario"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(pdfColSubtotal, pdfLineHeight, tr("Subtotal"), "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func (g *PDFGenerator) renderItems(ctx context.Context, pdf *gofpdf.Fpdf, tr func(string) string, q *domain.Quotation) error {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr("Materiales"))
	pdf.Ln(7)
	g.renderTableHeader(pdf, tr)

	for _, item := range q.Items {
		unitPrice := item.UnitPrice
		if unitPrice <= 0 {
			resolved, err := g.prices.ProductPrice(ctx, item.ProductID, item.Name, item.Category)
			if err != nil {
				return err
			}
			unitPrice = resolved.Price
		}
		subtotal := float64(item.Quantity) * unitPrice

		g.breakPageIfNeeded(pdf, tr, true)
		pdf.CellFormat(pdfColName, pdfLineHeight, tr(item.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColQuantity, pdfLineHeight, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(pdfColUnitPrice, pdfLineHeight, tr(g.currency.Format(unitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfColSubtotal, pdfLineHeight, tr(g.currency.Format(subtotal)), "1", 1, "R", false, 0, "")
	}

	if q.Installation != nil {
		g.breakPageIfNeeded(pdf, tr, true)
		label := fmt.Sprintf("Instalación (%.0f m x %s/m)",
			q.Installation.LinearMeters, g.currency.Format(q.Installation.PricePerMeter))
		pdf.CellFormat(pdfColName+pdfColQuantity+pdfColUnitPrice, pdfLineHeight, tr(label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(pdfColSubtotal, pdfLineHeight, tr(g.currency.Format(q.Installation.Subtotal)), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
	return nil
}

func (g *PDFGenerator) renderTotals(pdf *gofpdf.Fpdf, tr func(string) string, q *domain.Quotation) {
	g.breakPageIfNeeded(pdf, tr, false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(pdfColName+pdfColQuantity+pdfColUnitPrice, pdfLineHeight, tr("Subtotal"), "", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColSubtotal, pdfLineHeight, tr(g.currency.Format(q.Subtotal)), "", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(pdfColName+pdfColQuantity+pdfColUnitPrice, pdfLineHeight, tr("TOTAL"), "", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColSubtotal, pdfLineHeight, tr(g.currency.Format(q.Total)), "", 1, "R", false, 0, "")
	pdf.Ln(6)
}

func (g *PDFGenerator) renderFooter(pdf *gofpdf.Fpdf, tr func(string) string, q *domain.Quotation) {
	g.breakPageIfNeeded(pdf, tr, false)
	days := g.business.QuotationValidityDays
	if !q.ValidUntil.IsZero() && q.ValidUntil.After(q.Date) {
		days = int(q.ValidUntil.Sub(q.Date).Hours() / 24)
	}
	terms := strings.ReplaceAll(g.business.TermsTemplate, "{days}", fmt.Sprintf("%d", days))
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr(terms), "", "L", false)
	pdf.Ln(3)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 5, tr(fmt.Sprintf("%s - Tel: %s - %s", g.business.Name, g.business.Phone, g.business.Email)))
}
