package calendar

import (
	"strings"
	"time"

	"punchcli/pkg/contracts/domain"
)

// WeekendLabel is shown on Sundays without an override.
const WeekendLabel = "WEEK-END"

// Category classifies a date for display and working-day accounting.
type Category string

const (
	CategoryWorking Category = "working"
	CategoryWeekend Category = "weekend"
	CategoryHoliday Category = "holiday"
	CategoryTeamOut Category = "team-out"
)

// Scheduled reports whether days of this category count as working days.
// Team-out days are scheduled even though nobody is expected to punch.
func (c Category) Scheduled() bool {
	return c == CategoryWorking || c == CategoryTeamOut
}

// CellKind tells renderers how to style a cell.
type CellKind string

const (
	KindPresent CellKind = "present"
	KindLate    CellKind = "late"
	KindAbsent  CellKind = "absent"
	KindMissing CellKind = "missing"
	KindOff     CellKind = "off"
	KindHalfDay CellKind = "half-day"
	KindWFH     CellKind = "wfh"
)

// CellView is one rendered employee cell.
type CellView struct {
	Employee string   `json:"employee"`
	Text     string   `json:"text"`
	Kind     CellKind `json:"kind"`
}

// RowView is one rendered matrix row. Banner rows carry no cells.
type RowView struct {
	Date     string     `json:"date"`
	Key      string     `json:"key,omitempty"`
	Weekday  string     `json:"weekday,omitempty"`
	Category Category   `json:"category"`
	Banner   bool       `json:"banner"`
	Label    string     `json:"label,omitempty"`
	Cells    []CellView `json:"cells,omitempty"`
}

// FindOverride returns the first override whose date equals key.
func FindOverride(key string, overrides []domain.EventOverride) *domain.EventOverride {
	if key == "" {
		return nil
	}
	for i := range overrides {
		if overrides[i].Date == key {
			return &overrides[i]
		}
	}
	return nil
}

// Classify maps an override type onto a category.
func Classify(o domain.EventOverride) Category {
	t := strings.ToLower(o.Type)
	for _, word := range []string{"holiday", "leave", "vacation", "off"} {
		if strings.Contains(t, word) {
			return CategoryHoliday
		}
	}
	return CategoryTeamOut
}

// AnyoneWorked reports whether any listed employee has a record on date
// whose status is neither "Absent" nor "-".
func AnyoneWorked(date string, employees []string, matrix *domain.AttendanceMatrix) bool {
	for _, name := range employees {
		c, ok := matrix.Cell(date, name)
		if ok && c.Status != domain.StatusAbsent && c.Status != "-" {
			return true
		}
	}
	return false
}

// Resolver applies calendar overrides to matrix rows.
type Resolver struct {
	overrides []domain.EventOverride
}

// NewResolver creates a resolver over a snapshot of overrides.
func NewResolver(overrides []domain.EventOverride) *Resolver {
	snapshot := make([]domain.EventOverride, len(overrides))
	copy(snapshot, overrides)
	return &Resolver{overrides: snapshot}
}

// Overrides returns the resolver's overrides.
func (r *Resolver) Overrides() []domain.EventOverride {
	return r.overrides
}

// Day describes a single date.
type Day struct {
	Key      string
	Time     time.Time
	Parsed   bool
	Category Category
	Label    string
}

// NonWorking reports Sundays and override dates.
func (d Day) NonWorking() bool {
	return d.Category != CategoryWorking
}

// Scheduled reports whether the day counts toward scheduled working days.
func (d Day) Scheduled() bool {
	return d.Category.Scheduled()
}

// Day resolves a date string. Unparsable dates are plain working days.
func (r *Resolver) Day(date string) Day {
	t, ok := ParseDate(date)
	if !ok {
		if o := FindOverride(date, r.overrides); o != nil {
			return Day{Key: date, Category: Classify(*o), Label: strings.ToUpper(o.Label)}
		}
		return Day{Category: CategoryWorking}
	}

	d := Day{Key: Key(t), Time: t, Parsed: true, Category: CategoryWorking}
	if o := FindOverride(d.Key, r.overrides); o != nil {
		d.Category = Classify(*o)
		d.Label = strings.ToUpper(o.Label)
		return d
	}
	if IsWeekend(t) {
		d.Category = CategoryWeekend
		d.Label = WeekendLabel
	}
	return d
}

// StatusLabel returns the label that replaces a record's status on a
// non-working day.
func (r *Resolver) StatusLabel(date string) (string, bool) {
	d := r.Day(date)
	if !d.NonWorking() {
		return "", false
	}
	return d.Label, true
}

// Row renders one matrix date. A non-working date where nobody worked
// collapses into a single banner.
func (r *Resolver) Row(date string, employees []string, matrix *domain.AttendanceMatrix) RowView {
	d := r.Day(date)
	view := RowView{Date: date, Key: d.Key, Category: d.Category}
	if d.Parsed {
		view.Weekday = d.Time.Weekday().String()
	}

	if d.NonWorking() && !AnyoneWorked(date, employees, matrix) {
		view.Banner = true
		view.Label = d.Label
		return view
	}

	view.Cells = make([]CellView, 0, len(employees))
	for _, name := range employees {
		c, ok := matrix.Cell(date, name)
		view.Cells = append(view.Cells, cellFor(name, c, ok, d))
	}
	return view
}

// Rows renders every matrix date in order.
func (r *Resolver) Rows(matrix *domain.AttendanceMatrix) []RowView {
	if matrix == nil {
		return nil
	}
	rows := make([]RowView, 0, len(matrix.Dates))
	for _, date := range matrix.Dates {
		rows = append(rows, r.Row(date, matrix.Employees, matrix))
	}
	return rows
}

func cellFor(name string, c domain.MatrixCell, exists bool, d Day) CellView {
	view := CellView{Employee: name}
	if !exists {
		if d.NonWorking() {
			view.Text, view.Kind = d.Label, KindOff
			return view
		}
		view.Text, view.Kind = "-", KindMissing
		return view
	}

	switch kind := punchKind(c); kind {
	case KindHalfDay:
		view.Text, view.Kind = string(domain.StatusHalfDay), kind
	case KindWFH:
		view.Text, view.Kind = string(domain.StatusWFH), kind
	case KindPresent, KindLate:
		view.Text, view.Kind = FormatAMPM(c.InTime), kind
		if view.Text == "" {
			view.Text = string(c.Status)
		}
	default:
		if d.NonWorking() {
			view.Text, view.Kind = d.Label, KindOff
		} else {
			view.Text, view.Kind = "ABSENT", KindAbsent
		}
	}
	return view
}

// punchKind classifies a recorded cell without calendar knowledge.
// KindAbsent means the record is not a day of work.
func punchKind(c domain.MatrixCell) CellKind {
	status := strings.TrimSpace(string(c.Status))
	switch {
	case strings.EqualFold(status, string(domain.StatusHalfDay)):
		return KindHalfDay
	case strings.EqualFold(status, string(domain.StatusWFH)):
		return KindWFH
	case c.Status.IsPresent(),
		c.InTime != "" && status != string(domain.StatusAbsent) && status != "-":
		if c.IsLate {
			return KindLate
		}
		return KindPresent
	}
	return KindAbsent
}
