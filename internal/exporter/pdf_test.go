package exporter

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punchcli/internal/calendar"
)

func TestPDFRenderer_Render(t *testing.T) {
	tests := []struct {
		name   string
		report *Report
	}{
		{"full report", testReport(t)},
		{"empty report", BuildReport(nil, nil, nil, Options{})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, NewPDFRenderer(nil).Render(&buf, tt.report))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestPDFRenderer_ManyRowsPaginates(t *testing.T) {
	r := testReport(t)
	for i := 0; i < 80; i++ {
		r.Records = append(r.Records, r.Records[0])
	}

	var buf bytes.Buffer
	require.NoError(t, NewPDFRenderer(nil).Render(&buf, r))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 3)
}

func TestMatrixCells(t *testing.T) {
	rows := matrixCells(testReport(t))
	require.Len(t, rows, 10)

	banner := rows[1]
	require.Len(t, banner, 2)
	assert.Equal(t, 2, banner[1].Span)
	assert.Equal(t, fillOff, banner[1].Fill)

	assert.Equal(t, fillLate, rows[2][1].Fill)
	assert.Equal(t, fillAbsent, rows[2][2].Fill, "half days share the absence colour")
	assert.Equal(t, "Total Working Days", rows[5][0].Text)
}

func TestPDFMatrixCell(t *testing.T) {
	assert.Equal(t, fillWFH, pdfMatrixCell(calendar.CellView{Kind: calendar.KindWFH}).Fill)
	assert.Equal(t, textPresent, pdfMatrixCell(calendar.CellView{Kind: calendar.KindPresent}).Color)
	assert.Empty(t, pdfMatrixCell(calendar.CellView{Kind: calendar.KindMissing}).Fill)
}

func TestRGB(t *testing.T) {
	r, g, b := rgb("2058A5")
	assert.Equal(t, []int{0x20, 0x58, 0xA5}, []int{r, g, b})
	r, g, b = rgb("zz")
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})
}
