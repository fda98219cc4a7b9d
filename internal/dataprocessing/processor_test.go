package dataprocessing

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchcli/pkg/contracts/domain"
)

func raw(code, name, in, out, status, date string) domain.RawRecord {
	return domain.NewRawRecord(
		FieldCode, code,
		FieldName, name,
		FieldInTime, in,
		FieldOutTime, out,
		FieldStatus, status,
		FieldDate, date,
	)
}

func TestNewNormalizer(t *testing.T) {
	tests := []struct {
		name       string
		logger     *slog.Logger
		options    ProcessingOptions
		wantCutoff int
	}{
		{"default options", slog.Default(), DefaultOptions(), 635},
		{"custom cutoff", slog.Default(), ProcessingOptions{LateCutoffMinutes: 570}, 570},
		{"zero cutoff falls back", nil, ProcessingOptions{}, 635},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNormalizer(tt.logger, tt.options)
			assert.NotNil(t, n.logger)
			assert.Equal(t, tt.wantCutoff, n.options.LateCutoffMinutes)
		})
	}
}

func TestNormalize_StatusOverride(t *testing.T) {
	tests := []struct {
		name       string
		record     domain.RawRecord
		wantStatus domain.Status
		wantLate   bool
	}{
		{"in and out", raw("E1", "A", "09:00", "18:00", "Absent", "2024-01-08"), domain.StatusPresent, false},
		{"in without out", raw("E1", "A", "09:00", "", "", "2024-01-08"), domain.StatusPresentNoOutPunch, false},
		{"raw status kept without in time", raw("E1", "A", "", "", " Absent ", "2024-01-08"), domain.StatusAbsent, false},
		{"other status verbatim", raw("E1", "A", "", "", "Leave", "2024-01-08"), domain.Status("Leave"), false},
		{"cutoff is on time", raw("E1", "A", "10:35", "18:00", "", "2024-01-08"), domain.StatusPresent, false},
		{"one minute past cutoff", raw("E1", "A", "10:36", "18:00", "", "2024-01-08"), domain.StatusPresent, true},
		{"late without out punch", raw("E1", "A", "11:00", "", "", "2024-01-08"), domain.StatusPresentNoOutPunch, true},
		{"unparsable in time", raw("E1", "A", "late", "18:00", "", "2024-01-08"), domain.StatusPresent, false},
		{"raw present without time", raw("E1", "A", "", "", "Present", "2024-01-08"), domain.StatusPresent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := Normalize([]domain.RawRecord{tt.record}, DefaultOptions())
			require.Len(t, ds.Records, 1)
			rec := ds.Records[0]
			assert.Equal(t, tt.wantStatus, rec.Status)
			assert.Equal(t, tt.wantLate, rec.IsLate)
			if rec.IsLate {
				assert.True(t, rec.Status.IsPresent())
			}
		})
	}
}

func TestNormalize_DropsPlaceholderCodes(t *testing.T) {
	ds := Normalize([]domain.RawRecord{
		raw("", "Nobody", "09:00", "", "", "2024-01-08"),
		raw("E. Code", "Name", "", "", "", ""),
		raw("SNo", "", "", "", "", ""),
		domain.NewRawRecord("Emp Code", "Emp Code"),
		raw("E1", "Alice", "09:00", "18:00", "", "2024-01-08"),
	}, DefaultOptions())

	require.Len(t, ds.Records, 1)
	assert.Equal(t, "E1", ds.Records[0].EmployeeCode)
	assert.Equal(t, 1, ds.Team.TotalEmployees)
}

func TestNormalize_Aliases(t *testing.T) {
	t.Run("alternate field names", func(t *testing.T) {
		r := domain.NewRawRecord(
			"Employee Code", " E7 ",
			"Name", "Gina",
			"Punch Date", "2024-01-08",
			"Time In", "10:40",
			"Time Out", "19:00",
		)
		ds := Normalize([]domain.RawRecord{r}, DefaultOptions())
		require.Len(t, ds.Records, 1)
		rec := ds.Records[0]
		assert.Equal(t, "E7", rec.EmployeeCode)
		assert.Equal(t, "2024-01-08", rec.Date)
		assert.Equal(t, "10:40", rec.InTime)
		assert.Equal(t, "19:00", rec.OutTime)
		assert.True(t, rec.IsLate)
	})

	t.Run("first date-like key wins", func(t *testing.T) {
		r := domain.NewRawRecord(
			"Emp Code", "E8",
			"Workday Label", "Mon",
			"Shift Date", "2024-01-09",
		)
		ds := Normalize([]domain.RawRecord{r}, DefaultOptions())
		require.Len(t, ds.Records, 1)
		assert.Equal(t, "Mon", ds.Records[0].Date)
	})

	t.Run("exact alias beats fallback", func(t *testing.T) {
		r := domain.NewRawRecord(
			"E. Code", "E9",
			"Birthday", "1990-01-01",
			"Att Date", "2024-01-10",
		)
		ds := Normalize([]domain.RawRecord{r}, DefaultOptions())
		require.Len(t, ds.Records, 1)
		assert.Equal(t, "2024-01-10", ds.Records[0].Date)
	})
}

func TestNormalize_Accumulation(t *testing.T) {
	ds := Normalize([]domain.RawRecord{
		raw("E2", "Bob", "", "", "Absent", "2024-01-08"),
		raw("E1", "Alice", "09:00", "18:00", "", "2024-01-08"),
		raw("E1", "Alice", "10:50", "", "", "2024-01-09"),
		raw("E2", "Bob", "", "", "Leave", "2024-01-09"),
		raw("E3", "Carol", "11:30", "18:00", "", "2024-01-09"),
	}, DefaultOptions())

	require.Len(t, ds.Records, 5)
	assert.Equal(t, "E2", ds.Records[0].EmployeeCode, "records keep input order")

	require.Len(t, ds.Summaries, 3)
	assert.Equal(t, domain.EmployeeSummary{Code: "E2", Name: "Bob", Absent: 1}, ds.Summaries[0])
	assert.Equal(t, domain.EmployeeSummary{Code: "E1", Name: "Alice", Present: 2, Late: 1}, ds.Summaries[1])
	assert.Equal(t, domain.EmployeeSummary{Code: "E3", Name: "Carol", Present: 1, Late: 1}, ds.Summaries[2])

	assert.Equal(t, domain.TeamStats{TotalEmployees: 3, Present: 3, Absent: 1, Late: 2}, ds.Team)

	var present, absent, late int
	for _, s := range ds.Summaries {
		present += s.Present
		absent += s.Absent
		late += s.Late
	}
	assert.Equal(t, ds.Team.Present, present)
	assert.Equal(t, ds.Team.Absent, absent)
	assert.Equal(t, ds.Team.Late, late)
}

func TestNormalize_CustomCutoff(t *testing.T) {
	records := []domain.RawRecord{raw("E1", "Alice", "09:31", "18:00", "", "2024-01-08")}

	assert.False(t, Normalize(records, DefaultOptions()).Records[0].IsLate)
	assert.True(t, Normalize(records, ProcessingOptions{LateCutoffMinutes: 570}).Records[0].IsLate)
}

func TestNormalize_Empty(t *testing.T) {
	ds := Normalize(nil, DefaultOptions())
	assert.Empty(t, ds.Records)
	assert.Empty(t, ds.Summaries)
	assert.Equal(t, domain.TeamStats{}, ds.Team)
}

func TestScanThenNormalize(t *testing.T) {
	ds := Normalize(Scan(punchGrid()), DefaultOptions())
	require.Len(t, ds.Records, 4)

	carol := ds.Records[2]
	assert.Equal(t, domain.StatusPresentNoOutPunch, carol.Status)
	assert.True(t, carol.IsLate)
	assert.Equal(t, "2024-01-08", carol.Date)

	assert.Equal(t, domain.TeamStats{TotalEmployees: 3, Present: 3, Absent: 1, Late: 2}, ds.Team)
}
