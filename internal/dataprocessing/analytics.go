package dataprocessing

import (
	"math"
	"sort"
	"time"

	"punchcli/internal/calendar"
	"punchcli/pkg/contracts/domain"
)

// DailyTrend groups records by date and counts present, late and absent
// records per day. When bounds are set, records whose date does not parse
// are excluded and both bounds are inclusive.
func DailyTrend(records []domain.AttendanceRecord, bounds DateBounds) []domain.DailyTrendPoint {
	points := make(map[string]*domain.DailyTrendPoint)
	var order []string

	var startKey, endKey string
	if bounds.Start != nil {
		startKey = calendar.Key(*bounds.Start)
	}
	if bounds.End != nil {
		endKey = calendar.Key(*bounds.End)
	}

	for _, rec := range records {
		date := rec.Date
		if date == "" {
			date = UnknownDate
		}
		if bounds.Bounded() {
			key, ok := calendar.DateKey(date)
			if !ok || (startKey != "" && key < startKey) || (endKey != "" && key > endKey) {
				continue
			}
		}

		p, ok := points[date]
		if !ok {
			p = &domain.DailyTrendPoint{Date: date}
			points[date] = p
			order = append(order, date)
		}
		p.Total++
		switch {
		case rec.Status.IsPresent():
			p.Present++
			if rec.IsLate {
				p.Late++
			}
		case rec.Status.IsAbsent():
			p.Absent++
		}
	}

	sortDates(order)
	out := make([]domain.DailyTrendPoint, 0, len(order))
	for _, date := range order {
		out = append(out, *points[date])
	}
	return out
}

// TrendWindow returns bounds covering the given range, ending on the last
// chronological date in records.
func TrendWindow(records []domain.AttendanceRecord, r TrendRange) DateBounds {
	var last time.Time
	found := false
	for _, rec := range records {
		t, ok := calendar.ParseDate(rec.Date)
		if ok && (!found || t.After(last)) {
			last, found = t, true
		}
	}
	if !found {
		last = time.Now()
	}
	start := last.AddDate(0, 0, -r.Days())
	return DateBounds{Start: &start, End: &last}
}

// StatusDistributionOf sums employee summaries.
func StatusDistributionOf(summaries []domain.EmployeeSummary) domain.StatusDistribution {
	var d domain.StatusDistribution
	for _, s := range summaries {
		d.Present += s.Present
		d.Absent += s.Absent
		d.Late += s.Late
	}
	return d
}

// AttendanceRate returns present/(present+absent) as a percentage rounded to
// one decimal. Employees with no counted days rate zero.
func AttendanceRate(present, absent int) float64 {
	days := present + absent
	if days == 0 {
		return 0
	}
	return roundTo(float64(present)/float64(days)*100, 1)
}

// TopPerformers ranks employees by attendance rate. Ties keep input order.
func TopPerformers(summaries []domain.EmployeeSummary, limit int) []domain.Performer {
	out := make([]domain.Performer, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, domain.Performer{
			Code:    s.Code,
			Name:    s.Name,
			Present: s.Present,
			Absent:  s.Absent,
			Late:    s.Late,
			Rate:    AttendanceRate(s.Present, s.Absent),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	if limit >= 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}

// LatePatterns buckets late records by weekday, Monday first, using the
// fixed 10:35 reference.
func LatePatterns(records []domain.AttendanceRecord) []domain.LatePattern {
	byDay := make(map[time.Weekday]*domain.LatePattern, len(weekdayOrder))
	out := make([]domain.LatePattern, len(weekdayOrder))
	for i, wd := range weekdayOrder {
		out[i].Day = wd.String()
		byDay[wd] = &out[i]
	}

	for _, rec := range records {
		if !rec.IsLate {
			continue
		}
		t, ok := calendar.ParseDate(rec.Date)
		if !ok {
			continue
		}
		minutes, ok := calendar.ParseClock(rec.InTime)
		if !ok || minutes <= LatePatternCutoffMinutes {
			continue
		}

		p := byDay[t.Weekday()]
		switch late := minutes - LatePatternCutoffMinutes; {
		case late <= earlyLateLimit:
			p.Early++
		case late <= mediumLateLimit:
			p.Medium++
		default:
			p.Severe++
		}
	}
	return out
}

// Trend compares the average daily attendance rate of the first and second
// half of the chronological daily trend.
func Trend(records []domain.AttendanceRecord) domain.TrendSummary {
	daily := DailyTrend(records, DateBounds{})
	if len(daily) < 2 {
		return domain.TrendSummary{Direction: domain.TrendStable}
	}

	mid := len(daily) / 2
	delta := averageRate(daily[mid:]) - averageRate(daily[:mid])

	summary := domain.TrendSummary{
		Direction:  domain.TrendStable,
		Percentage: int(math.Round(math.Abs(delta))),
	}
	switch {
	case delta > trendThreshold:
		summary.Direction = domain.TrendUp
	case delta < -trendThreshold:
		summary.Direction = domain.TrendDown
	}
	return summary
}

func averageRate(points []domain.DailyTrendPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	var sum float64
	for _, p := range points {
		if p.Total > 0 {
			sum += float64(p.Present) / float64(p.Total) * 100
		}
	}
	return sum / float64(len(points))
}

// Metrics computes the headline figures: average attendance rate, average
// late arrivals per distinct date, the day with most presence and workforce size.
func Metrics(records []domain.AttendanceRecord, summaries []domain.EmployeeSummary) domain.KeyMetrics {
	dist := StatusDistributionOf(summaries)
	m := domain.KeyMetrics{
		AverageAttendanceRate: AttendanceRate(dist.Present, dist.Absent),
		TotalWorkforce:        len(summaries),
		BestDay:               "-",
	}

	daily := DailyTrend(records, DateBounds{})
	if len(daily) > 0 {
		m.AverageLatePerDay = roundTo(float64(dist.Late)/float64(len(daily)), 1)
	}
	for _, p := range daily {
		if p.Present > m.BestDayPresent {
			m.BestDay = p.Date
			m.BestDayPresent = p.Present
		}
	}
	return m
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
