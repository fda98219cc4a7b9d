package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"punchcli/internal/config"
	apperrors "punchcli/internal/errors"
	"punchcli/internal/infrastructure"
)

type cliFixture struct {
	dir      string
	config   string
	workbook string
	output   string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()

	dir := t.TempDir()
	fx := &cliFixture{
		dir:      dir,
		config:   filepath.Join(dir, "punch.yaml"),
		workbook: filepath.Join(dir, "punches.xlsx"),
		output:   filepath.Join(dir, "reports"),
	}

	cfg := "paths:\n" +
		"  output_dir: " + fx.output + "\n" +
		"  logs_dir: " + filepath.Join(dir, "logs") + "\n" +
		"logging:\n" +
		"  level: debug\n" +
		"  format: text\n"
	require.NoError(t, os.WriteFile(fx.config, []byte(cfg), 0644))

	writeSheet(t, fx.workbook, [][]interface{}{
		{"Attendance Date", nil, nil, "2024-01-08"},
		{"SNo", "E. Code", "Name", "InTime", "OutTime", "Status"},
		{1, "E001", "Alice", "09:40", "18:10", ""},
		{2, "E002", "Bob", "10:50", "18:00", ""},
	})
	return fx
}

func writeSheet(t *testing.T, path string, rows [][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

// execute runs the CLI in-process and returns exit code, stdout and stderr.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	a := &app{
		stdout: &stdout,
		stderr: &stderr,
		newLogger: func(cfg config.LoggingConfig) (*slog.Logger, error) {
			return infrastructure.NewLogger(cfg, &stderr)
		},
	}
	code := a.run(context.Background(), args)
	return code, stdout.String(), stderr.String()
}

func TestSummaryCommand(t *testing.T) {
	fx := newCLIFixture(t)

	code, stdout, stderr := execute(t, "summary", fx.workbook, "--config", fx.config)
	require.Equal(t, apperrors.ExitOK, code, stderr)

	var ds struct {
		Records []struct {
			Name   string `json:"name"`
			IsLate bool   `json:"is_late"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &ds))
	require.Len(t, ds.Records, 2)
	assert.Equal(t, "Alice", ds.Records[0].Name)
	assert.False(t, ds.Records[0].IsLate)
	assert.True(t, ds.Records[1].IsLate)

	assert.Contains(t, stderr, "Command started", "debug logs go to stderr")
}

func TestMatrixCommand(t *testing.T) {
	fx := newCLIFixture(t)

	code, stdout, stderr := execute(t, "matrix", fx.workbook,
		"--config", fx.config,
		"--filter", "Bob=late",
		"--event", "2024-01-09|Republic Day|holiday")
	require.Equal(t, apperrors.ExitOK, code, stderr)

	var result struct {
		Dates     []string          `json:"dates"`
		Employees []string          `json:"employees"`
		Filters   map[string]string `json:"filters"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, []string{"Alice", "Bob"}, result.Employees)
	assert.Equal(t, map[string]string{"Bob": "late"}, result.Filters)
	assert.Contains(t, stdout, "Republic Day")
}

func TestAnalyticsCommand(t *testing.T) {
	fx := newCLIFixture(t)

	code, stdout, stderr := execute(t, "analytics", fx.workbook, "--config", fx.config, "--limit", "1")
	require.Equal(t, apperrors.ExitOK, code, stderr)

	var result struct {
		TopPerformers []json.RawMessage `json:"top_performers"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Len(t, result.TopPerformers, 1)

	code, _, stderr = execute(t, "analytics", fx.workbook, "--config", fx.config, "--range", "6M")
	assert.Equal(t, apperrors.ExitUsage, code)
	assert.Contains(t, stderr, "punch:")
}

func TestExportCommand(t *testing.T) {
	fx := newCLIFixture(t)

	code, stdout, stderr := execute(t, "export", fx.workbook,
		"--config", fx.config,
		"--format", "xlsx,json",
		"--prefix", "jan")
	require.Equal(t, apperrors.ExitOK, code, stderr)

	var result struct {
		Artifacts []struct {
			Format string `json:"format"`
			Path   string `json:"path"`
		} `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	require.Len(t, result.Artifacts, 2)
	for _, artifact := range result.Artifacts {
		assert.Equal(t, fx.output, filepath.Dir(artifact.Path))
		assert.FileExists(t, artifact.Path)
	}
}

func TestExportCommand_OutputOverride(t *testing.T) {
	fx := newCLIFixture(t)
	out := filepath.Join(fx.dir, "elsewhere")

	code, _, stderr := execute(t, "export", fx.workbook, "--config", fx.config, "-o", out)
	require.Equal(t, apperrors.ExitOK, code, stderr)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "default config renders xlsx only")
}

func TestLogFileInLogsDir(t *testing.T) {
	fx := newCLIFixture(t)
	logsDir := filepath.Join(fx.dir, "logs")
	cfg := "paths:\n" +
		"  output_dir: " + fx.output + "\n" +
		"  logs_dir: " + logsDir + "\n" +
		"logging:\n" +
		"  level: debug\n" +
		"  output: file\n"
	require.NoError(t, os.WriteFile(fx.config, []byte(cfg), 0644))
	t.Cleanup(func() { infrastructure.CloseLogFile() })

	var stdout, stderr bytes.Buffer
	a := &app{
		stdout: &stdout,
		stderr: &stderr,
		newLogger: func(cfg config.LoggingConfig) (*slog.Logger, error) {
			return infrastructure.NewLogger(cfg, &stderr)
		},
	}
	ctx := infrastructure.WithTraceID(context.Background(), "run-42")
	code := a.run(ctx, []string{"summary", fx.workbook, "--config", fx.config})
	require.Equal(t, apperrors.ExitOK, code, stderr.String())
	require.NoError(t, infrastructure.CloseLogFile())

	data, err := os.ReadFile(filepath.Join(logsDir, config.DefaultLogFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Command started")
	assert.Contains(t, string(data), `"trace_id":"run-42"`, "an existing run id is kept")
	assert.Empty(t, stderr.String(), "file output keeps the console quiet")
}

func TestVersionCommand(t *testing.T) {
	code, stdout, _ := execute(t, "version")
	assert.Equal(t, apperrors.ExitOK, code)
	assert.Contains(t, stdout, "punch v"+config.AppVersion)

	code, stdout, _ = execute(t, "version", "--json")
	assert.Equal(t, apperrors.ExitOK, code)
	assert.Contains(t, stdout, `"version": "`+config.AppVersion+`"`)
}

func TestExitCodes(t *testing.T) {
	fx := newCLIFixture(t)

	textFile := filepath.Join(fx.dir, "punches.txt")
	require.NoError(t, os.WriteFile(textFile, []byte("not a workbook"), 0644))

	corrupt := filepath.Join(fx.dir, "corrupt.xlsx")
	require.NoError(t, os.WriteFile(corrupt, []byte("not a zip"), 0644))

	empty := filepath.Join(fx.dir, "empty.xlsx")
	writeSheet(t, empty, [][]interface{}{{"Daily Attendance Report"}})

	badConfig := filepath.Join(fx.dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("logging:\n  level: loud\n"), 0644))

	tests := []struct {
		name    string
		args    []string
		want    int
		message string
	}{
		{
			name:    "unknown command",
			args:    []string{"frobnicate"},
			want:    apperrors.ExitUsage,
			message: "unknown command",
		},
		{
			name:    "missing workbook",
			args:    []string{"summary"},
			want:    apperrors.ExitUsage,
			message: "expects exactly one workbook path",
		},
		{
			name:    "unknown flag",
			args:    []string{"summary", fx.workbook, "--nope"},
			want:    apperrors.ExitUsage,
			message: "unknown flag",
		},
		{
			name:    "wrong extension",
			args:    []string{"summary", textFile, "--config", fx.config},
			want:    apperrors.ExitUsage,
			message: "please upload a valid Excel file (.xlsx or .xls)",
		},
		{
			name:    "bad layout",
			args:    []string{"summary", fx.workbook, "--config", fx.config, "--layout", "pivot"},
			want:    apperrors.ExitUsage,
			message: "layout",
		},
		{
			name:    "bad filter",
			args:    []string{"matrix", fx.workbook, "--config", fx.config, "--filter", "Alice=sometimes"},
			want:    apperrors.ExitUsage,
			message: "invalid filter",
		},
		{
			name:    "bad event",
			args:    []string{"matrix", fx.workbook, "--config", fx.config, "--event", "yesterday|Party|holiday"},
			want:    apperrors.ExitUsage,
			message: "punch:",
		},
		{
			name:    "invalid config",
			args:    []string{"summary", fx.workbook, "--config", badConfig},
			want:    apperrors.ExitUsage,
			message: "failed to load configuration",
		},
		{
			name:    "unreadable workbook",
			args:    []string{"summary", corrupt, "--config", fx.config},
			want:    apperrors.ExitUnreadable,
			message: "punch:",
		},
		{
			name:    "no data",
			args:    []string{"summary", empty, "--config", fx.config},
			want:    apperrors.ExitNoData,
			message: "no data found",
		},
		{
			name:    "unsupported export format",
			args:    []string{"export", fx.workbook, "--config", fx.config, "--format", "docx"},
			want:    apperrors.ExitUsage,
			message: "docx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := execute(t, tt.args...)
			assert.Equal(t, tt.want, code, stderr)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tt.message)
		})
	}
}
