package invoice

import (
	"fmt"
	"io"

	"parts-pos/internal/core"

	"github.com/jung-kurt/gofpdf"
)

const (
	fontFamily = "Arial"
	lineHeight = 6.0
)

// column widths as fractions of the printable width: qty, description, unit price, amount
var columnShares = [4]float64{0.10, 0.50, 0.20, 0.20}

// Renderer draws invoices for one template. It holds no store handle; callers
// pass a fully loaded sale.
type Renderer struct {
	tmpl Template
}

func NewRenderer(tmpl Template) *Renderer {
	return &Renderer{tmpl: tmpl}
}

// Render writes sale as a single PDF document to w.
func (r *Renderer) Render(w io.Writer, sale *core.Sale) error {
	if sale == nil {
		return fmt.Errorf("failed to render invoice: sale is nil")
	}
	layout := BuildLayout(sale, r.tmpl)

	pdf := gofpdf.New("P", "mm", r.tmpl.PageSize, "")
	pdf.SetTitle(layout.Title, true)
	pdf.SetCreator(r.tmpl.BusinessName, true)
	pdf.SetCreationDate(sale.CreatedAt)
	pdf.SetAutoPageBreak(true, 20)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	footer := layout.Footer
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(0, 5, tr(footer), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	width := pageW - left - right

	r.drawHeader(pdf, tr, layout, width)
	r.drawInfo(pdf, tr, layout, width)
	r.drawItems(pdf, tr, layout, width)
	r.drawTotals(pdf, tr, layout, width)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write invoice %s: %w", layout.InvoiceNumber, err)
	}
	return nil
}

func (r *Renderer) drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, l Layout, width float64) {
	switch r.tmpl.Style {
	case StyleBranded:
		pdf.SetFillColor(r.tmpl.Accent.R, r.tmpl.Accent.G, r.tmpl.Accent.B)
		pdf.SetTextColor(255, 255, 255)
	case StyleGrayscale:
		pdf.SetFillColor(230, 230, 230)
		pdf.SetTextColor(0, 0, 0)
	default:
		pdf.SetFillColor(255, 255, 255)
		pdf.SetTextColor(0, 0, 0)
	}
	fill := r.tmpl.Style != StylePlain

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(width*0.6, 10, tr(l.BusinessName), "", 0, "L", fill, 0, "")
	pdf.CellFormat(width*0.4, 10, tr(l.Title), "", 1, "R", fill, 0, "")

	pdf.SetTextColor(60, 60, 60)
	pdf.SetFont(fontFamily, "", 9)
	for _, line := range l.BusinessLines {
		pdf.CellFormat(width, 4.5, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)
}

func (r *Renderer) drawInfo(pdf *gofpdf.Fpdf, tr func(string) string, l Layout, width float64) {
	pdf.SetTextColor(0, 0, 0)
	labelW := width * 0.2
	half := width / 2

	// info on the left, vehicle on the right
	startY := pdf.GetY()
	left, _, _, _ := pdf.GetMargins()
	for _, f := range l.Info {
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(labelW, lineHeight, tr(f.Label+":"), "", 0, "L", false, 0, "")
		pdf.SetFont(fontFamily, "", 10)
		pdf.CellFormat(half-labelW, lineHeight, tr(f.Value), "", 1, "L", false, 0, "")
	}
	endY := pdf.GetY()

	if len(l.Vehicle) > 0 {
		pdf.SetXY(left+half, startY)
		pdf.SetFont(fontFamily, "B", 10)
		pdf.CellFormat(half, lineHeight, "Vehicle", "", 1, "L", false, 0, "")
		for _, f := range l.Vehicle {
			pdf.SetX(left + half)
			pdf.SetFont(fontFamily, "", 10)
			pdf.CellFormat(labelW, lineHeight, tr(f.Label+":"), "", 0, "L", false, 0, "")
			pdf.CellFormat(half-labelW, lineHeight, tr(f.Value), "", 1, "L", false, 0, "")
		}
		if pdf.GetY() > endY {
			endY = pdf.GetY()
		}
	}
	pdf.SetXY(left, endY)
	pdf.Ln(6)
}

func (r *Renderer) drawItems(pdf *gofpdf.Fpdf, tr func(string) string, l Layout, width float64) {
	var widths [4]float64
	for i, share := range columnShares {
		widths[i] = width * share
	}
	aligns := [4]string{"C", "L", "R", "R"}

	border := "1"
	if r.tmpl.Style == StyleBranded {
		pdf.SetFillColor(r.tmpl.Accent.R, r.tmpl.Accent.G, r.tmpl.Accent.B)
		pdf.SetTextColor(255, 255, 255)
		border = "B"
	} else {
		pdf.SetFillColor(220, 220, 220)
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.SetFont(fontFamily, "B", 10)
	for i, title := range l.Columns {
		ln := 0
		if i == len(l.Columns)-1 {
			ln = 1
		}
		pdf.CellFormat(widths[i], 8, title, border, ln, aligns[i], r.tmpl.Style != StylePlain, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetFillColor(245, 245, 245)
	for n, row := range l.Rows {
		zebra := r.tmpl.Style == StyleGrayscale && n%2 == 1
		cells := [4]string{row.Quantity, row.Description, row.UnitPrice, row.Amount}
		for i, text := range cells {
			ln := 0
			if i == len(cells)-1 {
				ln = 1
			}
			pdf.CellFormat(widths[i], 7, tr(text), border, ln, aligns[i], zebra, 0, "")
		}
	}
	pdf.Ln(4)
}

func (r *Renderer) drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, l Layout, width float64) {
	labelW := width * 0.8
	valueW := width * 0.2
	for i, f := range l.Totals {
		grand := i == len(l.Totals)-1
		style := ""
		border := ""
		if grand {
			style = "B"
			border = "T"
			pdf.Ln(1)
		}
		pdf.SetFont(fontFamily, style, 10)
		pdf.CellFormat(labelW, lineHeight, tr(f.Label+":"), border, 0, "R", false, 0, "")
		pdf.CellFormat(valueW, lineHeight, tr(f.Value), border, 1, "R", false, 0, "")
	}
}
