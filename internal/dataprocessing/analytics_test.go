package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchcli/pkg/contracts/domain"
)

func present(name, date, in string, late bool) domain.AttendanceRecord {
	return domain.AttendanceRecord{EmployeeCode: name, Name: name, Date: date, InTime: in, OutTime: "18:00", Status: domain.StatusPresent, IsLate: late}
}

func absent(name, date string) domain.AttendanceRecord {
	return domain.AttendanceRecord{EmployeeCode: name, Name: name, Date: date, Status: domain.StatusAbsent}
}

func localDate(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func TestDailyTrend(t *testing.T) {
	records := []domain.AttendanceRecord{
		present("A", "2024-01-09", "09:00", false),
		absent("B", "2024-01-09"),
		present("A", "2024-01-08", "10:50", true),
		present("B", "2024-01-08", "09:10", false),
		{EmployeeCode: "C", Name: "C", Date: "2024-01-08", Status: "Leave"},
		present("A", "garbage", "09:00", false),
	}

	t.Run("unbounded", func(t *testing.T) {
		trend := DailyTrend(records, DateBounds{})
		require.Len(t, trend, 3)
		assert.Equal(t, domain.DailyTrendPoint{Date: "2024-01-08", Present: 2, Late: 1, Absent: 0, Total: 3}, trend[0])
		assert.Equal(t, domain.DailyTrendPoint{Date: "2024-01-09", Present: 1, Absent: 1, Total: 2}, trend[1])
		assert.Equal(t, "garbage", trend[2].Date)
	})

	t.Run("bounded is inclusive and drops unparsable dates", func(t *testing.T) {
		trend := DailyTrend(records, DateBounds{Start: localDate(2024, 1, 9), End: localDate(2024, 1, 9)})
		require.Len(t, trend, 1)
		assert.Equal(t, "2024-01-09", trend[0].Date)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, DailyTrend(nil, DateBounds{}))
	})
}

func TestTrendWindow(t *testing.T) {
	records := []domain.AttendanceRecord{
		present("A", "2024-02-20", "09:00", false),
		present("A", "2024-02-01", "09:00", false),
		present("A", "bad", "09:00", false),
	}

	tests := []struct {
		r         TrendRange
		wantStart string
	}{
		{RangeOneWeek, "2024-02-13"},
		{RangeTwoWeeks, "2024-02-06"},
		{RangeThreeWeeks, "2024-01-30"},
		{RangeOneMonth, "2024-01-21"},
		{TrendRange("other"), "2024-01-21"},
	}
	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			b := TrendWindow(records, tt.r)
			require.NotNil(t, b.Start)
			require.NotNil(t, b.End)
			assert.Equal(t, tt.wantStart, b.Start.Format("2006-01-02"))
			assert.Equal(t, "2024-02-20", b.End.Format("2006-01-02"))
		})
	}

	trend := DailyTrend(records, TrendWindow(records, RangeOneWeek))
	require.Len(t, trend, 1)
	assert.Equal(t, "2024-02-20", trend[0].Date)
}

func TestStatusDistributionOf(t *testing.T) {
	d := StatusDistributionOf([]domain.EmployeeSummary{
		{Present: 3, Absent: 1, Late: 2},
		{Present: 1, Absent: 4},
	})
	assert.Equal(t, domain.StatusDistribution{Present: 4, Absent: 5, Late: 2}, d)
	assert.Equal(t, domain.StatusDistribution{}, StatusDistributionOf(nil))
}

func TestTopPerformers(t *testing.T) {
	summaries := []domain.EmployeeSummary{
		{Code: "E2", Name: "B", Present: 5, Absent: 5},
		{Code: "E1", Name: "A", Present: 9, Absent: 1},
		{Code: "E3", Name: "C", Present: 1, Absent: 1},
		{Code: "E4", Name: "D"},
		{Code: "E5", Name: "E", Present: 2, Absent: 1},
	}

	t.Run("single best", func(t *testing.T) {
		top := TopPerformers(summaries[:2], 1)
		require.Len(t, top, 1)
		assert.Equal(t, "A", top[0].Name)
		assert.Equal(t, 90.0, top[0].Rate)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		top := TopPerformers(summaries, 10)
		require.Len(t, top, 5)
		assert.Equal(t, []string{"A", "E", "B", "C", "D"}, []string{top[0].Name, top[1].Name, top[2].Name, top[3].Name, top[4].Name})
		assert.Equal(t, 66.7, top[1].Rate)
		assert.Equal(t, 0.0, top[4].Rate)
	})

	t.Run("zero limit", func(t *testing.T) {
		assert.Empty(t, TopPerformers(summaries, 0))
	})
}

func TestLatePatterns(t *testing.T) {
	records := []domain.AttendanceRecord{
		present("A", "2024-01-08", "10:45", true), // Monday, 10 min
		present("A", "2024-01-15", "10:50", true), // Monday, 15 min
		present("B", "2024-01-08", "11:05", true), // Monday, 30 min
		present("B", "2024-01-09", "11:06", true), // Tuesday, 31 min
		present("C", "2024-01-14", "12:00", true), // Sunday
		present("C", "2024-01-10", "09:00", false),
		present("D", "nope", "11:00", true),
		present("D", "2024-01-11", "??", true),
	}

	patterns := LatePatterns(records)
	require.Len(t, patterns, 7)
	assert.Equal(t, "Monday", patterns[0].Day)
	assert.Equal(t, "Sunday", patterns[6].Day)

	assert.Equal(t, domain.LatePattern{Day: "Monday", Early: 2, Medium: 1}, patterns[0])
	assert.Equal(t, domain.LatePattern{Day: "Tuesday", Severe: 1}, patterns[1])
	assert.Equal(t, 0, patterns[2].Total())
	assert.Equal(t, 0, patterns[3].Total())
	assert.Equal(t, 1, patterns[6].Severe)
}

func TestLatePatterns_LoweredCutoff(t *testing.T) {
	raw := []domain.RawRecord{
		domain.NewRawRecord("E. Code", "E1", "Name", "A", "Attendance Date", "2024-01-08", "InTime", "10:20", "OutTime", "18:00"),
		domain.NewRawRecord("E. Code", "E1", "Name", "A", "Attendance Date", "2024-01-15", "InTime", "10:35", "OutTime", "18:00"),
		domain.NewRawRecord("E. Code", "E1", "Name", "A", "Attendance Date", "2024-01-22", "InTime", "10:40", "OutTime", "18:00"),
	}
	ds := Normalize(raw, ProcessingOptions{LateCutoffMinutes: 600})
	require.Len(t, ds.Records, 3)
	for _, rec := range ds.Records {
		require.True(t, rec.IsLate, rec.InTime)
	}

	patterns := LatePatterns(ds.Records)
	assert.Equal(t, domain.LatePattern{Day: "Monday", Early: 1}, patterns[0])
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.AttendanceRecord
		want    domain.TrendSummary
	}{
		{
			name: "improving",
			records: []domain.AttendanceRecord{
				present("A", "2024-01-08", "09:00", false), absent("B", "2024-01-08"),
				present("A", "2024-01-09", "09:00", false), present("B", "2024-01-09", "09:00", false),
			},
			want: domain.TrendSummary{Direction: domain.TrendUp, Percentage: 50},
		},
		{
			name: "declining",
			records: []domain.AttendanceRecord{
				present("A", "2024-01-08", "09:00", false), present("B", "2024-01-08", "09:00", false), present("C", "2024-01-08", "09:00", false),
				present("A", "2024-01-09", "09:00", false), present("B", "2024-01-09", "09:00", false), absent("C", "2024-01-09"),
			},
			want: domain.TrendSummary{Direction: domain.TrendDown, Percentage: 33},
		},
		{
			name: "within threshold",
			records: []domain.AttendanceRecord{
				present("A", "2024-01-08", "09:00", false),
				present("A", "2024-01-09", "09:00", false),
			},
			want: domain.TrendSummary{Direction: domain.TrendStable, Percentage: 0},
		},
		{
			name:    "single day",
			records: []domain.AttendanceRecord{present("A", "2024-01-08", "09:00", false)},
			want:    domain.TrendSummary{Direction: domain.TrendStable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.records))
		})
	}
	assert.Equal(t, "↑", domain.TrendUp.Arrow())
	assert.Equal(t, "→", domain.TrendStable.Arrow())
}

func TestMetrics(t *testing.T) {
	records := []domain.AttendanceRecord{
		present("A", "2024-01-08", "10:50", true),
		absent("B", "2024-01-08"),
		present("A", "2024-01-09", "09:00", false),
		present("B", "2024-01-09", "11:00", true),
	}
	summaries := []domain.EmployeeSummary{
		{Code: "A", Name: "A", Present: 2, Late: 1},
		{Code: "B", Name: "B", Present: 1, Absent: 1, Late: 1},
	}

	m := Metrics(records, summaries)
	assert.Equal(t, 75.0, m.AverageAttendanceRate)
	assert.Equal(t, 1.0, m.AverageLatePerDay)
	assert.Equal(t, "2024-01-09", m.BestDay)
	assert.Equal(t, 2, m.BestDayPresent)
	assert.Equal(t, 2, m.TotalWorkforce)

	empty := Metrics(nil, nil)
	assert.Equal(t, "-", empty.BestDay)
	assert.Equal(t, 0.0, empty.AverageAttendanceRate)
}
