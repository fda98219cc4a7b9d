package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"punchcli/internal/config"
)

// utf8BOM helps Excel recognize UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(paths *config.Paths, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options. The file is
// replaced atomically.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	fullPath := w.resolvePath(filePath)

	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return writeAtomic(fullPath, func(out io.Writer) error {
		return WriteRows(out, options)
	})
}

// WriteSimpleCSV writes a simple CSV file with headers and records
func (w *CSVWriter) WriteSimpleCSV(filePath string, headers []string, records [][]string) error {
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteRows writes the optional BOM, headers and records to out.
func WriteRows(out io.Writer, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := out.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(out)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// resolvePath resolves a relative path into the reports directory
func (w *CSVWriter) resolvePath(filePath string) string {
	if filepath.IsAbs(filePath) || w.paths == nil {
		return filePath
	}
	return w.paths.GetReportPath(filePath)
}

// recordTable flattens report records into CSV rows.
func recordTable(r *Report) [][]string {
	rows := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		rows = append(rows, rec.Cells)
	}
	return rows
}

// matrixTable flattens the matrix, banners repeated across employees.
func matrixTable(r *Report) ([]string, [][]string) {
	headers := append([]string{"Date"}, r.Employees...)
	rows := make([][]string, 0, len(r.Rows)+len(r.Footer))
	for _, view := range r.Rows {
		row := []string{view.Date}
		if view.Banner {
			for range r.Employees {
				row = append(row, view.Label)
			}
		} else {
			for _, c := range view.Cells {
				row = append(row, c.Text)
			}
		}
		rows = append(rows, row)
	}
	for _, f := range r.Footer {
		rows = append(rows, append([]string{f.Label}, f.Values...))
	}
	return headers, rows
}
