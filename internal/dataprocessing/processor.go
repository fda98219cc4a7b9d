package dataprocessing

import (
	"log/slog"
	"strings"

	"punchcli/internal/calendar"
	"punchcli/pkg/contracts/domain"
)

var _ Processor = (*Normalizer)(nil)

// Normalizer converts raw records into canonical attendance records and
// accumulates per-employee and team counters in one pass.
type Normalizer struct {
	logger  *slog.Logger
	options ProcessingOptions
}

// NewNormalizer creates a normalizer. A non-positive cutoff falls back to 10:35.
func NewNormalizer(logger *slog.Logger, options ProcessingOptions) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	if options.LateCutoffMinutes <= 0 {
		options.LateCutoffMinutes = DefaultLateCutoffMinutes
	}
	return &Normalizer{logger: logger, options: options}
}

// Normalize applies alias resolution, status override and lateness detection.
// Records keep input order; summaries keep first-seen order.
func (n *Normalizer) Normalize(raw []domain.RawRecord) *domain.Dataset {
	ds := &domain.Dataset{
		Records:   make([]domain.AttendanceRecord, 0, len(raw)),
		Summaries: []domain.EmployeeSummary{},
	}
	byCode := make(map[string]int)
	dropped := 0

	for _, r := range raw {
		rec, ok := n.canonical(r)
		if !ok {
			dropped++
			continue
		}
		ds.Records = append(ds.Records, rec)

		pos, seen := byCode[rec.EmployeeCode]
		if !seen {
			pos = len(ds.Summaries)
			byCode[rec.EmployeeCode] = pos
			ds.Summaries = append(ds.Summaries, domain.EmployeeSummary{
				Code: rec.EmployeeCode,
				Name: rec.Name,
			})
		}
		summary := &ds.Summaries[pos]

		switch {
		case rec.Status.IsPresent():
			summary.Present++
			ds.Team.Present++
			if rec.IsLate {
				summary.Late++
				ds.Team.Late++
			}
		case rec.Status.IsAbsent():
			summary.Absent++
			ds.Team.Absent++
		}
	}
	ds.Team.TotalEmployees = len(byCode)

	n.logger.Debug("Normalized attendance records",
		slog.Int("input", len(raw)),
		slog.Int("records", len(ds.Records)),
		slog.Int("dropped", dropped),
		slog.Int("employees", ds.Team.TotalEmployees))

	return ds
}

// canonical builds one record. The second return is false for rows that are
// not employee data.
func (n *Normalizer) canonical(r domain.RawRecord) (domain.AttendanceRecord, bool) {
	code := firstValue(r, codeAliases)
	if code == "" || placeholderCodes[code] {
		return domain.AttendanceRecord{}, false
	}

	inTime := firstValue(r, inAliases)
	outTime := firstValue(r, outAliases)
	rawStatus, _ := r.Get(FieldStatus)

	rec := domain.AttendanceRecord{
		EmployeeCode: code,
		Name:         firstValue(r, nameAliases),
		Date:         resolveDate(r),
		InTime:       inTime,
		OutTime:      outTime,
		Status:       domain.Status(strings.TrimSpace(rawStatus)),
	}

	if inTime != "" {
		rec.Status = domain.StatusPresent
		if outTime == "" {
			rec.Status = domain.StatusPresentNoOutPunch
		}
	}

	if rec.Status.IsPresent() && inTime != "" {
		if minutes, ok := calendar.ParseClock(inTime); ok && minutes > n.options.LateCutoffMinutes {
			rec.IsLate = true
		}
	}
	return rec, true
}

// resolveDate tries the known date aliases, then the first field whose name
// mentions a date or day.
func resolveDate(r domain.RawRecord) string {
	if v := firstValue(r, dateAliases); v != "" {
		return v
	}
	for _, key := range r.Keys() {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "date") || strings.Contains(lower, "day") {
			v, _ := r.Get(key)
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func firstValue(r domain.RawRecord, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := r.Get(alias); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		}
	}
	return ""
}

// Normalize runs a default normalizer with the given cutoff.
func Normalize(raw []domain.RawRecord, options ProcessingOptions) *domain.Dataset {
	return NewNormalizer(nil, options).Normalize(raw)
}
