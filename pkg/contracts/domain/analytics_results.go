package domain

// DailyTrendPoint aggregates one date of the daily trend.
type DailyTrendPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Late    int    `json:"late"`
	Absent  int    `json:"absent"`
	Total   int    `json:"total"`
}

// StatusDistribution sums employee summaries.
type StatusDistribution struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// Performer is an employee ranked by attendance rate.
type Performer struct {
	Code    string  `json:"code"`
	Name    string  `json:"name"`
	Present int     `json:"present"`
	Absent  int     `json:"absent"`
	Late    int     `json:"late"`
	Rate    float64 `json:"attendance_rate"`
}

// LatePattern counts late arrivals on one weekday by severity.
type LatePattern struct {
	Day    string `json:"day"`
	Early  int    `json:"early"`
	Medium int    `json:"medium"`
	Severe int    `json:"severe"`
}

// Total returns all late arrivals for the weekday.
func (p LatePattern) Total() int {
	return p.Early + p.Medium + p.Severe
}

// TrendDirection is the direction of the attendance trend.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Arrow returns a display glyph for the direction.
func (d TrendDirection) Arrow() string {
	switch d {
	case TrendUp:
		return "↑"
	case TrendDown:
		return "↓"
	default:
		return "→"
	}
}

// TrendSummary compares the first and second half of the daily trend.
type TrendSummary struct {
	Direction  TrendDirection `json:"trend"`
	Percentage int            `json:"percentage"`
}

// KeyMetrics are headline figures for a dataset.
type KeyMetrics struct {
	AverageAttendanceRate float64 `json:"average_attendance_rate"`
	AverageLatePerDay     float64 `json:"average_late_per_day"`
	BestDay               string  `json:"best_day"`
	BestDayPresent        int     `json:"best_day_present"`
	TotalWorkforce        int     `json:"total_workforce"`
}
