package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jung-kurt/gofpdf"

	"punchcli/internal/calendar"
)

const (
	pdfMargin     = 10.0
	pdfRowHeight  = 7.0
	pdfDateWidth  = 30.0
	pdfMinColumn  = 14.0
	pdfHeaderBar  = 18.0
	pdfFooterSize = 8.0
)

// pdfCell is one table cell. Span widens it over following columns.
type pdfCell struct {
	Text  string
	Fill  string
	Color string
	Bold  bool
	Span  int
}

// PDFRenderer writes the report as a landscape A4 document.
type PDFRenderer struct {
	logger *slog.Logger
}

// NewPDFRenderer creates a document renderer
func NewPDFRenderer(logger *slog.Logger) *PDFRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFRenderer{logger: logger}
}

// Format implements Renderer.
func (p *PDFRenderer) Format() string { return "pdf" }

// Render implements Renderer.
func (p *PDFRenderer) Render(w io.Writer, r *Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	doc := &pdfDoc{pdf: pdf, tr: tr}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin - 2)
		pdf.SetFont("Arial", "I", pdfFooterSize)
		setText(pdf, textMuted)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	doc.header(r)

	doc.section("Team Summary")
	doc.table(SummaryHeaders, doc.evenWidths(len(SummaryHeaders)), summaryCells(r))

	if len(r.Employees) > 0 && len(r.Rows) > 0 {
		pdf.AddPage()
		doc.section(r.MonthLabel)
		headers := append([]string{"Date"}, r.Employees...)
		doc.table(headers, doc.matrixWidths(len(r.Employees)), matrixCells(r))
	}

	if len(r.Records) > 0 {
		pdf.AddPage()
		doc.section("Records")
		doc.table(RecordHeaders, doc.evenWidths(len(RecordHeaders)), recordCells(r))
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}

	p.logger.Debug("PDF rendered", slog.Int("pages", pdf.PageNo()))
	return pdf.Output(w)
}

type pdfDoc struct {
	pdf *gofpdf.Fpdf
	tr  func(string) string
}

func (d *pdfDoc) usableWidth() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - 2*pdfMargin
}

func (d *pdfDoc) evenWidths(n int) []float64 {
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = d.usableWidth() / float64(n)
	}
	return widths
}

func (d *pdfDoc) matrixWidths(employees int) []float64 {
	col := (d.usableWidth() - pdfDateWidth) / float64(employees)
	if col < pdfMinColumn {
		col = pdfMinColumn
	}
	widths := make([]float64, employees+1)
	widths[0] = pdfDateWidth
	for i := 1; i < len(widths); i++ {
		widths[i] = col
	}
	return widths
}

func (d *pdfDoc) header(r *Report) {
	pdf := d.pdf
	w, _ := pdf.GetPageSize()
	setFill(pdf, textPrimary)
	pdf.Rect(0, 0, w, pdfHeaderBar, "F")

	pdf.SetXY(pdfMargin, 4)
	pdf.SetFont("Arial", "B", 16)
	setText(pdf, textWhite)
	pdf.CellFormat(0, 10, d.tr(r.Title), "", 1, "L", false, 0, "")

	pdf.SetXY(pdfMargin, pdfHeaderBar+2)
	pdf.SetFont("Arial", "I", 9)
	setText(pdf, textMuted)
	pdf.CellFormat(0, 6, "Generated: "+r.GeneratedAt.Format("Jan 2, 2006, 3:04 PM"), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	setText(pdf, textBlack)
	line := fmt.Sprintf("Employees: %d   Present: %d   Absent: %d   Late: %d   Trend: %s %d%%",
		r.Team.TotalEmployees, r.Team.Present, r.Team.Absent, r.Team.Late, r.Trend.Direction, r.Trend.Percentage)
	pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func (d *pdfDoc) section(title string) {
	pdf := d.pdf
	if pdf.GetY() < pdfHeaderBar {
		pdf.SetY(pdfMargin)
	}
	pdf.SetFont("Arial", "B", 12)
	setText(pdf, textPrimary)
	pdf.CellFormat(0, 8, d.tr(title), "", 1, "L", false, 0, "")
}

// table draws rows, repeating the header after every page break.
func (d *pdfDoc) table(headers []string, widths []float64, rows [][]pdfCell) {
	pdf := d.pdf
	_, pageHeight := pdf.GetPageSize()
	limit := pageHeight - pdfMargin - pdfFooterSize

	fontSize := 9.0
	if len(headers) > 15 {
		fontSize = 7
	}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", fontSize)
		cells := make([]pdfCell, len(headers))
		for i, h := range headers {
			cells[i] = pdfCell{Text: h, Fill: fillTableHeader, Color: textWhite, Bold: true}
		}
		d.row(cells, widths, fontSize)
	}

	drawHeader()
	for _, cells := range rows {
		if pdf.GetY()+pdfRowHeight > limit {
			pdf.AddPage()
			pdf.SetY(pdfMargin)
			drawHeader()
		}
		d.row(cells, widths, fontSize)
	}
	pdf.Ln(4)
}

func (d *pdfDoc) row(cells []pdfCell, widths []float64, fontSize float64) {
	pdf := d.pdf
	pdf.SetDrawColor(203, 213, 225)
	col := 0
	for _, c := range cells {
		if col >= len(widths) {
			break
		}
		span := c.Span
		if span < 1 {
			span = 1
		}
		w := 0.0
		for i := col; i < col+span && i < len(widths); i++ {
			w += widths[i]
		}
		col += span

		style := ""
		if c.Bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, fontSize)
		color := c.Color
		if color == "" {
			color = textBlack
		}
		setText(pdf, color)
		fill := c.Fill != ""
		if fill {
			setFill(pdf, c.Fill)
		}
		pdf.CellFormat(w, pdfRowHeight, d.tr(c.Text), "1", 0, "C", fill, 0, "")
	}
	pdf.Ln(-1)
}

func summaryCells(r *Report) [][]pdfCell {
	rows := SummaryRows(r.Summaries)
	out := make([][]pdfCell, 0, len(rows))
	for i, values := range rows {
		cells := make([]pdfCell, len(values))
		for j, v := range values {
			cells[j] = pdfCell{Text: v, Fill: stripe(i)}
		}
		out = append(out, cells)
	}
	return out
}

func matrixCells(r *Report) [][]pdfCell {
	out := make([][]pdfCell, 0, len(r.Rows)+len(r.Footer))
	for _, view := range r.Rows {
		cells := []pdfCell{{Text: view.Date, Fill: fillHeader, Color: textWhite, Bold: true}}
		if view.Banner {
			cells = append(cells, pdfCell{Text: view.Label, Fill: fillOff, Color: textWhite, Bold: true, Span: len(r.Employees)})
		} else {
			for _, c := range view.Cells {
				cells = append(cells, pdfMatrixCell(c))
			}
		}
		out = append(out, cells)
	}
	for _, footer := range r.Footer {
		cells := []pdfCell{{Text: footer.Label, Fill: footer.Fill, Color: textWhite, Bold: true}}
		for _, v := range footer.Values {
			cells = append(cells, pdfCell{Text: v, Fill: footer.Fill, Color: textWhite, Bold: true})
		}
		out = append(out, cells)
	}
	return out
}

func pdfMatrixCell(c calendar.CellView) pdfCell {
	switch c.Kind {
	case calendar.KindAbsent, calendar.KindHalfDay:
		return pdfCell{Text: c.Text, Fill: fillAbsent, Color: textWhite, Bold: true}
	case calendar.KindWFH:
		return pdfCell{Text: c.Text, Fill: fillWFH, Bold: true}
	case calendar.KindOff:
		return pdfCell{Text: c.Text, Fill: fillOff, Color: textWhite, Bold: true}
	case calendar.KindLate:
		return pdfCell{Text: c.Text, Fill: fillLate, Color: textLate, Bold: true}
	case calendar.KindPresent:
		return pdfCell{Text: c.Text, Color: textPresent, Bold: true}
	}
	return pdfCell{Text: c.Text}
}

func recordCells(r *Report) [][]pdfCell {
	out := make([][]pdfCell, 0, len(r.Records))
	for i, rec := range r.Records {
		base := stripe(i)
		switch rec.Category {
		case calendar.CategoryHoliday:
			base = fillHoliday
		case calendar.CategoryTeamOut:
			base = fillTeamOut
		case calendar.CategoryWeekend:
			base = fillWeekend
		}
		cells := make([]pdfCell, len(rec.Cells))
		for j, v := range rec.Cells {
			cells[j] = pdfCell{Text: v, Fill: base}
		}
		if rec.Category == calendar.CategoryWorking {
			switch {
			case rec.Status.IsPresent():
				cells[recordStatusColumn] = pdfCell{Text: rec.Cells[recordStatusColumn], Fill: fillPresentSoft, Color: textPresent2, Bold: true}
			case rec.Status.IsAbsent():
				cells[recordStatusColumn] = pdfCell{Text: rec.Cells[recordStatusColumn], Fill: fillAbsentSoft, Color: textAbsent, Bold: true}
			}
		}
		out = append(out, cells)
	}
	return out
}

func rgb(hex string) (int, int, int) {
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

func setFill(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := rgb(hex)
	pdf.SetFillColor(r, g, b)
}

func setText(pdf *gofpdf.Fpdf, hex string) {
	r, g, b := rgb(hex)
	pdf.SetTextColor(r, g, b)
}
