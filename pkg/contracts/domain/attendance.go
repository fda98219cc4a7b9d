package domain

import (
	"strings"
)

// Grid is the raw cell text of one worksheet. Rows may be ragged.
type Grid [][]string

// Cell returns the trimmed text at (row, col) or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// RawRecord is an ordered field-name to text mapping extracted from a sheet.
// Key order is insertion order.
type RawRecord struct {
	keys   []string
	values map[string]string
}

// NewRawRecord builds a RawRecord from alternating key/value pairs.
func NewRawRecord(pairs ...string) RawRecord {
	r := RawRecord{}
	for i := 0; i+1 < len(pairs); i += 2 {
		r.Set(pairs[i], pairs[i+1])
	}
	return r
}

// Set stores a value, keeping the original position of an existing key.
func (r *RawRecord) Set(key, value string) {
	if r.values == nil {
		r.values = make(map[string]string)
	}
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value stored under key.
func (r RawRecord) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns field names in insertion order.
func (r RawRecord) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of fields.
func (r RawRecord) Len() int {
	return len(r.keys)
}

// Status is the attendance status of a single punch record.
type Status string

const (
	StatusPresent           Status = "Present"
	StatusPresentNoOutPunch Status = "Present (No Out Punch)"
	StatusAbsent            Status = "Absent"
	StatusHalfDay           Status = "Half Day"
	StatusWFH               Status = "WFH"
)

// IsPresent reports whether the status counts as presence.
func (s Status) IsPresent() bool {
	return strings.HasPrefix(string(s), string(StatusPresent))
}

// IsAbsent reports an exact "Absent" status.
func (s Status) IsAbsent() bool {
	return s == StatusAbsent
}

// AttendanceRecord is one employee's attendance on one date after normalization.
type AttendanceRecord struct {
	EmployeeCode string `json:"employee_code" validate:"required"`
	Name         string `json:"name"`
	Date         string `json:"date"`
	InTime       string `json:"in_time"`
	OutTime      string `json:"out_time"`
	Status       Status `json:"status"`
	IsLate       bool   `json:"is_late"`
}

// EmployeeSummary accumulates one employee's counters across all records.
type EmployeeSummary struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Late    int    `json:"late"`
}

// TeamStats holds team-wide counters.
type TeamStats struct {
	TotalEmployees int `json:"total_employees"`
	Present        int `json:"present"`
	Absent         int `json:"absent"`
	Late           int `json:"late"`
}

// Dataset is the normalizer output for one uploaded workbook.
type Dataset struct {
	Records   []AttendanceRecord `json:"records"`
	Summaries []EmployeeSummary  `json:"summaries"`
	Team      TeamStats          `json:"team"`
}

// MatrixCell is the slice of a record the matrix needs.
type MatrixCell struct {
	InTime string `json:"in_time"`
	Status Status `json:"status"`
	IsLate bool   `json:"is_late"`
}

// AttendanceMatrix is a date by employee view of a dataset.
type AttendanceMatrix struct {
	Dates     []string                         `json:"dates"`
	Employees []string                         `json:"employees"`
	Cells     map[string]map[string]MatrixCell `json:"matrix"`
}

// Cell looks up the record for (date, employee).
func (m *AttendanceMatrix) Cell(date, employee string) (MatrixCell, bool) {
	if m == nil {
		return MatrixCell{}, false
	}
	row, ok := m.Cells[date]
	if !ok {
		return MatrixCell{}, false
	}
	c, ok := row[employee]
	return c, ok
}

// FilterMode narrows the matrix to dates matching a per-employee condition.
type FilterMode string

const (
	FilterAll    FilterMode = "all"
	FilterOnTime FilterMode = "ontime"
	FilterLate   FilterMode = "late"
	FilterAbsent FilterMode = "absent"
)

// ColumnFilters maps employee name to filter mode.
type ColumnFilters map[string]FilterMode

// EventOverride marks a date as a holiday or team event.
type EventOverride struct {
	Date  string `json:"date" yaml:"date" validate:"required,datetime=2006-01-02"`
	Label string `json:"label" yaml:"label" validate:"required"`
	Type  string `json:"type" yaml:"type"`
}
