package exporter

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"punchcli/internal/calendar"
	"punchcli/internal/config"
	"punchcli/internal/dataprocessing"
	"punchcli/pkg/contracts/domain"
)

// PenaltyRule converts late arrivals into deducted leave days.
type PenaltyRule struct {
	Every int
	Days  decimal.Decimal
}

// DefaultPenaltyRule deducts half a day for every two late arrivals.
func DefaultPenaltyRule() PenaltyRule {
	return PenaltyRule{
		Every: config.DefaultLatePenaltyEvery,
		Days:  decimal.RequireFromString(config.DefaultLatePenaltyDays),
	}
}

// PenaltyRuleFrom builds the rule configured for exports.
func PenaltyRuleFrom(cfg config.ExportConfig) (PenaltyRule, error) {
	days, err := cfg.PenaltyDays()
	if err != nil {
		return PenaltyRule{}, fmt.Errorf("invalid late penalty days: %w", err)
	}
	return PenaltyRule{Every: cfg.LatePenaltyEvery, Days: days}, nil
}

// Deduction returns late*Days/Every rounded to two places.
func (p PenaltyRule) Deduction(late int) decimal.Decimal {
	if late <= 0 || p.Every <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(late)).
		Mul(p.Days).
		DivRound(decimal.NewFromInt(int64(p.Every)), 2)
}

// Label describes the rule for the footer row.
func (p PenaltyRule) Label() string {
	return fmt.Sprintf("%d late coming days count as %s leave", p.Every, FormatDays(p.Days))
}

// EmployeeStats are the per-employee footer figures of the matrix.
type EmployeeStats struct {
	Employee  string          `json:"employee"`
	Working   int             `json:"working_days"`
	Present   decimal.Decimal `json:"present_days"`
	Absent    int             `json:"leaves"`
	Late      int             `json:"late_days"`
	Deduction decimal.Decimal `json:"deduction_days"`
}

// FooterRow is one labelled statistics row below the matrix.
type FooterRow struct {
	Label  string   `json:"label"`
	Values []string `json:"values"`
	Fill   string   `json:"-"`
}

// RecordRow is one rendered line of the records table.
type RecordRow struct {
	Cells    []string          `json:"cells"`
	Category calendar.Category `json:"category"`
	Status   domain.Status     `json:"status"`
	IsLate   bool              `json:"is_late"`
}

// recordStatusColumn indexes STATUS in RecordHeaders.
const recordStatusColumn = 5

// RecordHeaders are the records table columns.
var RecordHeaders = []string{"E. CODE", "NAME", "DATE", "IN TIME", "OUT TIME", "STATUS", "LATE"}

// SummaryHeaders are the summary table columns.
var SummaryHeaders = []string{"E. CODE", "NAME", "PRESENT", "ABSENT", "LATE", "ATTENDANCE RATE"}

// Options configures report assembly.
type Options struct {
	Title       string
	GeneratedAt time.Time
	Penalty     PenaltyRule
}

// Report is the renderer-neutral view every export format draws from.
type Report struct {
	Title       string                   `json:"title"`
	Subtitle    string                   `json:"subtitle"`
	GeneratedAt time.Time                `json:"generated_at"`
	MonthLabel  string                   `json:"month_label"`
	Employees   []string                 `json:"employees"`
	Rows        []calendar.RowView       `json:"rows"`
	Stats       []EmployeeStats          `json:"stats"`
	Footer      []FooterRow              `json:"footer"`
	Records     []RecordRow              `json:"records"`
	Summaries   []domain.EmployeeSummary `json:"summaries"`
	Team        domain.TeamStats         `json:"team"`
	Metrics     domain.KeyMetrics        `json:"metrics"`
	Trend       domain.TrendSummary      `json:"trend"`
}

// BuildReport assembles a report from a normalized dataset and its matrix.
func BuildReport(ds *domain.Dataset, matrix *domain.AttendanceMatrix, resolver *calendar.Resolver, opts Options) *Report {
	if ds == nil {
		ds = &domain.Dataset{}
	}
	if matrix == nil {
		matrix = dataprocessing.BuildMatrix(ds.Records, nil)
	}
	if resolver == nil {
		resolver = calendar.NewResolver(nil)
	}
	if opts.Title == "" {
		opts.Title = config.DefaultReportTitle
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	if opts.Penalty.Every <= 0 {
		opts.Penalty = DefaultPenaltyRule()
	}

	rows := resolver.Rows(matrix)
	stats := employeeStats(matrix.Employees, rows, opts.Penalty)

	return &Report{
		Title:       opts.Title,
		Subtitle:    fmt.Sprintf("%s • Generated: %s", opts.Title, opts.GeneratedAt.Format("Jan 2, 2006, 3:04 PM")),
		GeneratedAt: opts.GeneratedAt,
		MonthLabel:  monthLabel(matrix.Dates),
		Employees:   matrix.Employees,
		Rows:        rows,
		Stats:       stats,
		Footer:      footerRows(stats, opts.Penalty),
		Records:     recordRows(ds.Records, resolver),
		Summaries:   ds.Summaries,
		Team:        ds.Team,
		Metrics:     dataprocessing.Metrics(ds.Records, ds.Summaries),
		Trend:       dataprocessing.Trend(ds.Records),
	}
}

// employeeStats tallies footer figures from rendered rows. Half days
// count as half a present day; missing cells on working days are leaves.
func employeeStats(employees []string, rows []calendar.RowView, rule PenaltyRule) []EmployeeStats {
	stats := make([]EmployeeStats, len(employees))
	for i, name := range employees {
		stats[i] = EmployeeStats{Employee: name, Present: decimal.Zero}
	}

	for _, row := range rows {
		if row.Category.Scheduled() {
			for i := range stats {
				stats[i].Working++
			}
		}
		for i, cell := range row.Cells {
			s := &stats[i]
			switch cell.Kind {
			case calendar.KindPresent, calendar.KindWFH:
				s.Present = s.Present.Add(one)
			case calendar.KindLate:
				s.Present = s.Present.Add(one)
				s.Late++
			case calendar.KindHalfDay:
				s.Present = s.Present.Add(half)
			case calendar.KindAbsent, calendar.KindMissing:
				if row.Category.Scheduled() {
					s.Absent++
				}
			}
		}
	}

	for i := range stats {
		stats[i].Deduction = rule.Deduction(stats[i].Late)
	}
	return stats
}

func footerRows(stats []EmployeeStats, rule PenaltyRule) []FooterRow {
	row := func(label, fill string, value func(EmployeeStats) string) FooterRow {
		values := make([]string, len(stats))
		for i, s := range stats {
			values[i] = value(s)
		}
		return FooterRow{Label: label, Values: values, Fill: fill}
	}

	return []FooterRow{
		row("Total Working Days", fillFooterWorking, func(s EmployeeStats) string {
			return fmt.Sprintf("%d Days", s.Working)
		}),
		row("Total Days Present", fillFooterPresent, func(s EmployeeStats) string {
			return FormatDays(s.Present)
		}),
		row("No of leaves Taken (Days)", fillFooterAlert, func(s EmployeeStats) string {
			return FormatLeaves(s.Absent)
		}),
		row("No of days Coming late", fillFooterAlert, func(s EmployeeStats) string {
			return FormatLateDays(s.Late)
		}),
		row(rule.Label(), fillFooterAlert, func(s EmployeeStats) string {
			if s.Late == 0 {
				return NotApplicable
			}
			return FormatDays(s.Deduction)
		}),
	}
}

func recordRows(records []domain.AttendanceRecord, resolver *calendar.Resolver) []RecordRow {
	rows := make([]RecordRow, 0, len(records))
	for _, rec := range records {
		status := string(rec.Status)
		if label, ok := resolver.StatusLabel(rec.Date); ok {
			status = label
		}
		late := ""
		if rec.IsLate {
			late = "Yes"
		}
		rows = append(rows, RecordRow{
			Cells: []string{
				rec.EmployeeCode,
				rec.Name,
				rec.Date,
				calendar.FormatAMPM(rec.InTime),
				calendar.FormatAMPM(rec.OutTime),
				status,
				late,
			},
			Category: resolver.Day(rec.Date).Category,
			Status:   rec.Status,
			IsLate:   rec.IsLate,
		})
	}
	return rows
}

// SummaryRows renders the per-employee summary table.
func SummaryRows(summaries []domain.EmployeeSummary) [][]string {
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Code,
			s.Name,
			fmt.Sprint(s.Present),
			fmt.Sprint(s.Absent),
			fmt.Sprint(s.Late),
			FormatRate(dataprocessing.AttendanceRate(s.Present, s.Absent)),
		})
	}
	return rows
}

func monthLabel(dates []string) string {
	for _, d := range dates {
		if t, ok := calendar.ParseDate(d); ok {
			return "Attendance for " + t.Format("January 2006")
		}
	}
	return "Attendance"
}
