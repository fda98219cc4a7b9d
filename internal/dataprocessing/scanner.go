package dataprocessing

import (
	"strings"

	"punchcli/pkg/contracts/domain"
)

// Field names emitted by the scanner.
const (
	FieldCode    = "E. Code"
	FieldName    = "Name"
	FieldInTime  = "InTime"
	FieldOutTime = "OutTime"
	FieldStatus  = "Status"
	FieldDate    = "Attendance Date"
)

const (
	dateMarker       = "attendance date"
	headerSentinel   = "SNo"
	markerSearchSpan = 3
	dateSearchSpan   = 9
)

// headerMatcher decides whether a header cell names a column.
type headerMatcher func(cell string) bool

func contains(subs ...string) headerMatcher {
	return func(cell string) bool {
		for _, s := range subs {
			if strings.Contains(cell, s) {
				return true
			}
		}
		return false
	}
}

func equals(want string) headerMatcher {
	return func(cell string) bool { return cell == want }
}

// headerVocabulary maps each scanned column to the header texts that name it.
var headerVocabulary = []struct {
	field string
	match headerMatcher
}{
	{FieldCode, contains("E. Code", "Emp Code")},
	{FieldName, equals("Name")},
	{FieldInTime, contains("InTime", "In Time")},
	{FieldOutTime, contains("OutTime", "Out Time")},
	{FieldStatus, equals("Status")},
}

// ColumnIndex holds resolved header positions. Missing columns are -1.
type ColumnIndex struct {
	Code    int
	Name    int
	InTime  int
	OutTime int
	Status  int
}

func (c *ColumnIndex) slot(field string) *int {
	switch field {
	case FieldCode:
		return &c.Code
	case FieldName:
		return &c.Name
	case FieldInTime:
		return &c.InTime
	case FieldOutTime:
		return &c.OutTime
	case FieldStatus:
		return &c.Status
	}
	return nil
}

// ResolveColumns maps a header row to column positions. The first matching
// cell wins for each column.
func ResolveColumns(header []string) ColumnIndex {
	idx := ColumnIndex{Code: -1, Name: -1, InTime: -1, OutTime: -1, Status: -1}
	for i, raw := range header {
		cell := strings.TrimSpace(raw)
		if cell == "" {
			continue
		}
		for _, v := range headerVocabulary {
			slot := idx.slot(v.field)
			if *slot == -1 && v.match(cell) {
				*slot = i
			}
		}
	}
	return idx
}

// scanState is the accumulator threaded through the row fold.
type scanState struct {
	currentDate string
	records     []domain.RawRecord
}

// Scan extracts raw punch records from a sheet made of date-stamped blocks.
// Each block starts with an "Attendance Date" marker row, followed by a
// header row containing "SNo" and the employee rows.
func Scan(grid domain.Grid) []domain.RawRecord {
	state := scanState{}
	for i := 0; i < len(grid); {
		row := grid[i]
		switch {
		case isDateMarkerRow(row):
			if date, ok := markerDate(row); ok {
				state.currentDate = date
			}
			i++
		case isHeaderRow(row):
			cols := ResolveColumns(row)
			i = state.consumeBlock(grid, i+1, cols)
		default:
			i++
		}
	}
	return state.records
}

// consumeBlock reads employee rows starting at start and returns the index
// of the first row it did not consume.
func (s *scanState) consumeBlock(grid domain.Grid, start int, cols ColumnIndex) int {
	i := start
	for ; i < len(grid); i++ {
		row := grid[i]
		if isBlockBoundary(row) {
			break
		}
		if isEmptyRow(row) {
			continue
		}

		code := cellAt(row, cols.Code)
		if isPlaceholderCode(code) {
			continue
		}

		s.records = append(s.records, domain.NewRawRecord(
			FieldCode, code,
			FieldName, cellAt(row, cols.Name),
			FieldInTime, cellAt(row, cols.InTime),
			FieldOutTime, cellAt(row, cols.OutTime),
			FieldStatus, cellAt(row, cols.Status),
			FieldDate, s.currentDate,
		))
	}
	return i
}

func isDateMarkerRow(row []string) bool {
	_, ok := markerColumn(row)
	return ok
}

func markerColumn(row []string) (int, bool) {
	for i := 0; i < markerSearchSpan && i < len(row); i++ {
		if isMarkerCell(row[i]) {
			return i, true
		}
	}
	return -1, false
}

func isMarkerCell(cell string) bool {
	return strings.EqualFold(strings.TrimSpace(cell), dateMarker)
}

// markerDate returns the first non-empty cell among the cells after the marker.
func markerDate(row []string) (string, bool) {
	col, ok := markerColumn(row)
	if !ok {
		return "", false
	}
	for i := col + 1; i <= col+dateSearchSpan && i < len(row); i++ {
		if v := strings.TrimSpace(row[i]); v != "" {
			return v, true
		}
	}
	return "", false
}

func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if strings.Contains(cell, headerSentinel) {
			return true
		}
	}
	return false
}

func isBlockBoundary(row []string) bool {
	if len(row) > 0 && (isMarkerCell(row[0]) || strings.TrimSpace(row[0]) == headerSentinel) {
		return true
	}
	return len(row) > 1 && isMarkerCell(row[1])
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func isPlaceholderCode(code string) bool {
	switch code {
	case "", "E. Code", "Emp Code", headerSentinel:
		return true
	}
	return false
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// ScanFlat reads a sheet that is already one table: the first non-empty row
// is the header and every following non-empty row becomes a record keyed by
// header text.
func ScanFlat(grid domain.Grid) []domain.RawRecord {
	headerAt := -1
	for i, row := range grid {
		if !isEmptyRow(row) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil
	}

	header := grid[headerAt]
	var records []domain.RawRecord
	for _, row := range grid[headerAt+1:] {
		if isEmptyRow(row) {
			continue
		}
		var rec domain.RawRecord
		for col, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			rec.Set(name, cellAt(row, col))
		}
		records = append(records, rec)
	}
	return records
}
