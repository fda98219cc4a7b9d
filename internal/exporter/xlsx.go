package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"punchcli/internal/calendar"
)

// Sheet names of the exported workbook.
const (
	SheetMatrix  = "Attendance Matrix"
	SheetSummary = "Summary"
	SheetRecords = "Records"
)

// Matrix layout rows.
const (
	matrixHeaderRow = 4
	matrixMonthRow  = 5
	matrixFirstRow  = 6
)

// Palette shared by the workbook and PDF renderers.
const (
	fillHeader        = "2058A5"
	fillMonth         = "00B0F0"
	fillOff           = "00B050"
	fillAbsent        = "FF0000"
	fillWFH           = "FFFF00"
	fillLate          = "FFEB9C"
	fillFooterWorking = "2058A5"
	fillFooterPresent = "17375E"
	fillFooterAlert   = "FF0066"
	fillTitle         = "F8FAFC"
	fillTableHeader   = "1E1B4B"
	fillOddRow        = "F8FAFC"
	fillEvenRow       = "F1F5F9"
	fillPresentSoft   = "DCFCE7"
	fillAbsentSoft    = "FEE2E2"
	fillHoliday       = "EDE9FE"
	fillTeamOut       = "CCFBF1"
	fillWeekend       = "E1E5EB"

	textWhite    = "FFFFFF"
	textBlack    = "000000"
	textPrimary  = "4F46E5"
	textMuted    = "64748B"
	textLate     = "9C0006"
	textPresent  = "006100"
	textPresent2 = "166534"
	textAbsent   = "991B1B"
	borderLight  = "CBD5E1"
)

// XLSXRenderer writes the report as a styled workbook.
type XLSXRenderer struct {
	logger *slog.Logger
}

// NewXLSXRenderer creates a workbook renderer
func NewXLSXRenderer(logger *slog.Logger) *XLSXRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXRenderer{logger: logger}
}

// Format implements Renderer.
func (x *XLSXRenderer) Format() string { return "xlsx" }

// Render implements Renderer.
func (x *XLSXRenderer) Render(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	b := &workbookBuilder{f: f, styles: make(map[string]int)}
	if err := f.SetSheetName(f.GetSheetName(0), SheetMatrix); err != nil {
		return fmt.Errorf("failed to name matrix sheet: %w", err)
	}
	for _, name := range []string{SheetSummary, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	steps := []struct {
		name string
		fn   func(*Report) error
	}{
		{SheetMatrix, b.matrixSheet},
		{SheetSummary, b.summarySheet},
		{SheetRecords, b.recordsSheet},
	}
	for _, step := range steps {
		if err := step.fn(r); err != nil {
			return fmt.Errorf("failed to build sheet %s: %w", step.name, err)
		}
	}
	f.SetActiveSheet(0)

	x.logger.Debug("Workbook rendered",
		slog.Int("rows", len(r.Rows)),
		slog.Int("employees", len(r.Employees)),
		slog.Int("records", len(r.Records)))

	_, err := f.WriteTo(w)
	return err
}

// workbookBuilder accumulates the first error so sheet code stays linear.
type workbookBuilder struct {
	f      *excelize.File
	styles map[string]int
	err    error
}

func (b *workbookBuilder) check(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

func thinBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

func solid(color string) excelize.Fill {
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

var centered = &excelize.Alignment{Horizontal: "center", Vertical: "center"}

// style returns a cached style id for a fill/font combination.
func (b *workbookBuilder) style(fill string, font *excelize.Font, border string) int {
	key := fmt.Sprintf("%s|%+v|%s", fill, font, border)
	if id, ok := b.styles[key]; ok {
		return id
	}
	s := &excelize.Style{Font: font, Alignment: centered}
	if fill != "" {
		s.Fill = solid(fill)
	}
	if border != "" {
		s.Border = thinBorder(border)
	}
	id, err := b.f.NewStyle(s)
	b.check(err)
	b.styles[key] = id
	return id
}

func (b *workbookBuilder) set(sheet string, col, row int, value interface{}, style int) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		b.check(err)
		return
	}
	b.check(b.f.SetCellValue(sheet, cell, value))
	b.check(b.f.SetCellStyle(sheet, cell, cell, style))
}

func (b *workbookBuilder) merge(sheet string, row, fromCol, toCol int) {
	if toCol <= fromCol {
		return
	}
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	b.check(err)
	to, err := excelize.CoordinatesToCellName(toCol, row)
	b.check(err)
	b.check(b.f.MergeCell(sheet, from, to))
}

func (b *workbookBuilder) titleRows(sheet string, r *Report) {
	b.check(b.f.MergeCell(sheet, "A1", "F1"))
	b.check(b.f.MergeCell(sheet, "A2", "F2"))
	titleStyle, err := b.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Segoe UI", Size: 18, Bold: true, Color: textPrimary},
		Fill:      solid(fillTitle),
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	b.check(err)
	subtitleStyle, err := b.f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Family: "Segoe UI", Size: 11, Italic: true, Color: textMuted},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	b.check(err)

	b.set(sheet, 1, 1, r.Title, titleStyle)
	b.set(sheet, 1, 2, r.Subtitle, subtitleStyle)
	b.check(b.f.SetRowHeight(sheet, 1, 30))
	b.check(b.f.SetRowHeight(sheet, 2, 22))
}

func (b *workbookBuilder) matrixSheet(r *Report) error {
	sheet := SheetMatrix
	b.titleRows(sheet, r)
	if len(r.Rows) == 0 || len(r.Employees) == 0 {
		return b.err
	}
	lastCol := len(r.Employees) + 1

	header := b.style(fillHeader, &excelize.Font{Bold: true, Italic: true, Color: textWhite, Size: 10}, textWhite)
	b.set(sheet, 1, matrixHeaderRow, "Date", header)
	for i, name := range r.Employees {
		b.set(sheet, i+2, matrixHeaderRow, name, header)
	}
	b.check(b.f.SetRowHeight(sheet, matrixHeaderRow, 25))

	month := b.style(fillMonth, &excelize.Font{Bold: true, Italic: true, Color: textWhite, Size: 12}, textWhite)
	b.set(sheet, 1, matrixMonthRow, r.MonthLabel, month)
	b.merge(sheet, matrixMonthRow, 1, lastCol)
	b.check(b.f.SetRowHeight(sheet, matrixMonthRow, 25))

	b.check(b.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      1,
		YSplit:      matrixMonthRow,
		TopLeftCell: "B6",
		ActivePane:  "bottomRight",
	}))

	dateStyle := b.style(fillHeader, &excelize.Font{Bold: true, Color: textWhite, Size: 10}, borderLight)
	banner := b.style(fillOff, &excelize.Font{Bold: true, Italic: true, Color: textWhite, Size: 10}, borderLight)

	row := matrixFirstRow
	for _, view := range r.Rows {
		b.set(sheet, 1, row, view.Date, dateStyle)
		if view.Banner {
			b.set(sheet, 2, row, view.Label, banner)
			for col := 3; col <= lastCol; col++ {
				b.set(sheet, col, row, "", banner)
			}
			b.merge(sheet, row, 2, lastCol)
		} else {
			for i, cell := range view.Cells {
				b.set(sheet, i+2, row, cell.Text, b.matrixCellStyle(cell.Kind))
			}
		}
		b.check(b.f.SetRowHeight(sheet, row, 20))
		row++
	}

	row++ // gap
	for _, footer := range r.Footer {
		st := b.style(footer.Fill, &excelize.Font{Bold: true, Italic: true, Color: textWhite, Size: 10}, textWhite)
		b.set(sheet, 1, row, footer.Label, st)
		for i, v := range footer.Values {
			b.set(sheet, i+2, row, v, st)
		}
		b.check(b.f.SetRowHeight(sheet, row, 25))
		row++
	}

	b.check(b.f.SetColWidth(sheet, "A", "A", 18))
	last, err := excelize.ColumnNumberToName(lastCol)
	b.check(err)
	if lastCol > 1 {
		b.check(b.f.SetColWidth(sheet, "B", last, 12))
	}
	return b.err
}

func (b *workbookBuilder) matrixCellStyle(kind calendar.CellKind) int {
	switch kind {
	case calendar.KindAbsent, calendar.KindHalfDay:
		return b.style(fillAbsent, &excelize.Font{Bold: true, Italic: true, Color: textWhite}, borderLight)
	case calendar.KindWFH:
		return b.style(fillWFH, &excelize.Font{Bold: true, Color: textBlack}, borderLight)
	case calendar.KindOff:
		return b.style(fillOff, &excelize.Font{Bold: true, Italic: true, Color: textWhite}, borderLight)
	case calendar.KindLate:
		return b.style(fillLate, &excelize.Font{Bold: true, Color: textLate}, borderLight)
	case calendar.KindPresent:
		return b.style("", &excelize.Font{Bold: true, Color: textPresent}, borderLight)
	default:
		return b.style("", &excelize.Font{Family: "Segoe UI", Size: 9}, borderLight)
	}
}

func (b *workbookBuilder) tableHeader(sheet string, headers []string) {
	st := b.style(fillTableHeader, &excelize.Font{Family: "Segoe UI", Bold: true, Color: textWhite, Size: 12}, textPrimary)
	for i, h := range headers {
		b.set(sheet, i+1, matrixHeaderRow, h, st)
	}
	b.check(b.f.SetRowHeight(sheet, matrixHeaderRow, 28))
	last, err := excelize.ColumnNumberToName(len(headers))
	b.check(err)
	b.check(b.f.SetColWidth(sheet, "A", last, 20))
}

func (b *workbookBuilder) summarySheet(r *Report) error {
	sheet := SheetSummary
	b.titleRows(sheet, r)
	b.tableHeader(sheet, SummaryHeaders)

	for i, cells := range SummaryRows(r.Summaries) {
		row := matrixHeaderRow + 1 + i
		st := b.style(stripe(row), &excelize.Font{Family: "Segoe UI", Size: 10}, borderLight)
		for col, v := range cells {
			b.set(sheet, col+1, row, v, st)
		}
	}

	row := matrixHeaderRow + len(r.Summaries) + 2
	total := b.style(fillFooterPresent, &excelize.Font{Bold: true, Color: textWhite, Size: 10}, textWhite)
	team := []interface{}{"TEAM", fmt.Sprintf("%d employees", r.Team.TotalEmployees), r.Team.Present, r.Team.Absent, r.Team.Late,
		FormatRate(r.Metrics.AverageAttendanceRate)}
	for col, v := range team {
		b.set(sheet, col+1, row, v, total)
	}
	return b.err
}

func (b *workbookBuilder) recordsSheet(r *Report) error {
	sheet := SheetRecords
	b.titleRows(sheet, r)
	b.tableHeader(sheet, RecordHeaders)

	for i, rec := range r.Records {
		row := matrixHeaderRow + 1 + i
		base := b.recordFill(rec, row)
		plain := b.style(base, &excelize.Font{Family: "Segoe UI", Size: 10}, borderLight)
		for col, v := range rec.Cells {
			st := plain
			if col == recordStatusColumn {
				st = b.recordStatusStyle(rec, base)
			}
			b.set(sheet, col+1, row, v, st)
		}
	}
	return b.err
}

func (b *workbookBuilder) recordFill(rec RecordRow, row int) string {
	switch rec.Category {
	case calendar.CategoryHoliday:
		return fillHoliday
	case calendar.CategoryTeamOut:
		return fillTeamOut
	case calendar.CategoryWeekend:
		if row%2 == 0 {
			return fillWeekend
		}
		return fillEvenRow
	}
	return stripe(row)
}

func (b *workbookBuilder) recordStatusStyle(rec RecordRow, base string) int {
	if rec.Category != calendar.CategoryWorking {
		return b.style(base, &excelize.Font{Bold: true}, borderLight)
	}
	switch {
	case rec.Status.IsPresent():
		return b.style(fillPresentSoft, &excelize.Font{Bold: true, Color: textPresent2}, borderLight)
	case rec.Status.IsAbsent():
		return b.style(fillAbsentSoft, &excelize.Font{Bold: true, Color: textAbsent}, borderLight)
	}
	return b.style(base, &excelize.Font{Family: "Segoe UI", Size: 10}, borderLight)
}

func stripe(row int) string {
	if row%2 == 0 {
		return fillEvenRow
	}
	return fillOddRow
}
