package dataprocessing

import (
	"sort"

	"punchcli/internal/calendar"
	"punchcli/pkg/contracts/domain"
)

// UnknownDate keys records that carry no date.
const UnknownDate = "Unknown"

// BuildMatrix pivots records into a date by employee view and applies
// per-employee column filters. With at least one active filter the employee
// list narrows to the filtered names.
func BuildMatrix(records []domain.AttendanceRecord, filters domain.ColumnFilters) *domain.AttendanceMatrix {
	cells := make(map[string]map[string]domain.MatrixCell)
	var dates []string
	names := make(map[string]bool)

	for _, rec := range records {
		date := rec.Date
		if date == "" {
			date = UnknownDate
		}
		if _, ok := cells[date]; !ok {
			cells[date] = make(map[string]domain.MatrixCell)
			dates = append(dates, date)
		}
		if rec.Name != "" {
			names[rec.Name] = true
		}
		cells[date][rec.Name] = domain.MatrixCell{
			InTime: rec.InTime,
			Status: rec.Status,
			IsLate: rec.IsLate,
		}
	}

	sortDates(dates)
	employees := sortedKeys(names)

	active := activeFilters(filters)
	if len(active) > 0 {
		kept := dates[:0:0]
		for _, date := range dates {
			if matchesFilters(cells[date], active) {
				kept = append(kept, date)
			}
		}
		dates = kept
		employees = make([]string, 0, len(active))
		for name := range active {
			employees = append(employees, name)
		}
		sort.Strings(employees)
	}

	if dates == nil {
		dates = []string{}
	}
	return &domain.AttendanceMatrix{
		Dates:     dates,
		Employees: employees,
		Cells:     cells,
	}
}

// sortDates orders dates chronologically. Dates that do not parse keep their
// first-seen order after all parsable dates.
func sortDates(dates []string) {
	sort.SliceStable(dates, func(i, j int) bool {
		return calendar.CompareDates(dates[i], dates[j]) < 0
	})
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func activeFilters(filters domain.ColumnFilters) domain.ColumnFilters {
	active := make(domain.ColumnFilters)
	for name, mode := range filters {
		if mode != "" && mode != domain.FilterAll {
			active[name] = mode
		}
	}
	return active
}

func matchesFilters(row map[string]domain.MatrixCell, filters domain.ColumnFilters) bool {
	for name, mode := range filters {
		cell, ok := row[name]
		switch mode {
		case domain.FilterOnTime:
			if !ok || !cell.Status.IsPresent() || cell.IsLate || cell.InTime == "" {
				return false
			}
		case domain.FilterLate:
			if !ok || !cell.IsLate {
				return false
			}
		case domain.FilterAbsent:
			if ok && !cell.Status.IsAbsent() {
				return false
			}
		}
	}
	return true
}
