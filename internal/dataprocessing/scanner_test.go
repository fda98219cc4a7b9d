package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchcli/pkg/contracts/domain"
)

// punchGrid mimics a device export with two date blocks.
func punchGrid() domain.Grid {
	return domain.Grid{
		{"Daily Attendance Report"},
		{},
		{"Attendance Date", "", "", "2024-01-08"},
		{"SNo", "E. Code", "Name", "Shift", "InTime", "OutTime", "Status"},
		{"1", "E001", "Alice", "GS", "09:40", "18:10", "Present"},
		{"2", "E002", "Bob", "GS", "", "", "Absent"},
		{},
		{"3", "E003", "Carol", "GS", "10:50", "", ""},
		{"", "", "", "", "", "", ""},
		{"Attendance Date", "2024-01-09"},
		{"SNo", "E. Code", "Name", "Shift", "InTime", "OutTime", "Status"},
		{"1", "E001", "Alice", "GS", "10:36", "18:00", "Present"},
		{"2", "E. Code", "Name"},
		{"3", "", "Nobody"},
	}
}

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   ColumnIndex
	}{
		{
			name:   "device header",
			header: []string{"SNo", "E. Code", "Name", "Shift", "InTime", "OutTime", "Status"},
			want:   ColumnIndex{Code: 1, Name: 2, InTime: 4, OutTime: 5, Status: 6},
		},
		{
			name:   "spaced names",
			header: []string{"SNo", "Emp Code", " Name ", "In Time", "Out Time"},
			want:   ColumnIndex{Code: 1, Name: 2, InTime: 3, OutTime: 4, Status: -1},
		},
		{
			name:   "no recognised columns",
			header: []string{"SNo", "Foo"},
			want:   ColumnIndex{Code: -1, Name: -1, InTime: -1, OutTime: -1, Status: -1},
		},
		{
			name:   "name must match exactly",
			header: []string{"SNo", "E. Code", "Full Name", "Status Code", "Status"},
			want:   ColumnIndex{Code: 1, Name: -1, InTime: -1, OutTime: -1, Status: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveColumns(tt.header))
		})
	}
}

func TestScan(t *testing.T) {
	records := Scan(punchGrid())
	require.Len(t, records, 4)

	first := records[0]
	assert.Equal(t, []string{FieldCode, FieldName, FieldInTime, FieldOutTime, FieldStatus, FieldDate}, first.Keys())
	code, _ := first.Get(FieldCode)
	date, _ := first.Get(FieldDate)
	assert.Equal(t, "E001", code)
	assert.Equal(t, "2024-01-08", date)

	carol := records[2]
	name, _ := carol.Get(FieldName)
	out, _ := carol.Get(FieldOutTime)
	status, _ := carol.Get(FieldStatus)
	assert.Equal(t, "Carol", name)
	assert.Empty(t, out)
	assert.Empty(t, status, "scanner does no status inference")

	last := records[3]
	date, _ = last.Get(FieldDate)
	in, _ := last.Get(FieldInTime)
	assert.Equal(t, "2024-01-09", date)
	assert.Equal(t, "10:36", in)
}

func TestScan_NoMarkerOrHeader(t *testing.T) {
	grid := domain.Grid{
		{"E001", "Alice", "09:00"},
		{"E002", "Bob", "09:30"},
	}
	assert.Empty(t, Scan(grid))
	assert.Empty(t, Scan(nil))
}

func TestScan_RaggedRows(t *testing.T) {
	grid := domain.Grid{
		{"attendance date"},
		{"  ATTENDANCE DATE  ", "", "", "", "", "", "", "", "", "", "", "2024-01-10"},
		{"SNo", "E. Code", "Name", "InTime", "OutTime", "Status"},
		{"1", "E001"},
		{"2"},
	}
	records := Scan(grid)
	require.Len(t, records, 1)

	date, _ := records[0].Get(FieldDate)
	assert.Empty(t, date, "date cells beyond the search span are ignored")
	in, _ := records[0].Get(FieldInTime)
	assert.Empty(t, in)
}

func TestScan_MarkerInThirdCell(t *testing.T) {
	grid := domain.Grid{
		{"", "", "Attendance Date", "", "07-Jan-2024"},
		{"SNo", "E. Code", "Name", "InTime"},
		{"1", "E001", "Alice", "08:55"},
	}
	records := Scan(grid)
	require.Len(t, records, 1)
	date, _ := records[0].Get(FieldDate)
	assert.Equal(t, "07-Jan-2024", date)
}

func TestScan_BlockBoundaryIsReexamined(t *testing.T) {
	grid := domain.Grid{
		{"Attendance Date", "2024-01-08"},
		{"SNo", "E. Code", "Name", "InTime"},
		{"1", "E001", "Alice", "09:00"},
		{"", "Attendance Date", "2024-01-09"},
		{"SNo", "E. Code", "Name", "InTime"},
		{"1", "E001", "Alice", "09:05"},
	}
	records := Scan(grid)
	require.Len(t, records, 2)
	date, _ := records[1].Get(FieldDate)
	assert.Equal(t, "2024-01-09", date)
}

func TestScanFlat(t *testing.T) {
	grid := domain.Grid{
		{},
		{"Employee Code", "Name", "Punch Date", "Time In", "Time Out", "Status"},
		{"E010", "Dana", "2024-02-01", "09:00", "17:00", ""},
		{""},
		{"E011", "Eve", "2024-02-01"},
	}
	records := ScanFlat(grid)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Employee Code", "Name", "Punch Date", "Time In", "Time Out", "Status"}, records[0].Keys())

	in, _ := records[1].Get("Time In")
	assert.Empty(t, in)

	assert.Nil(t, ScanFlat(domain.Grid{{}, {" "}}))
}
