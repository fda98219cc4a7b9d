package dataprocessing

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	apperrors "punchcli/internal/errors"
	"punchcli/pkg/contracts/domain"
)

// maxLegacyRows bounds how many rows are read from a legacy .xls sheet.
const maxLegacyRows = 100000

// SupportedExtensions lists the workbook extensions ReadGrid accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".xls"}

// IsSupportedWorkbook reports whether the file name has a workbook extension.
func IsSupportedWorkbook(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, supported := range SupportedExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// ReadGrid reads the first worksheet of an attendance workbook.
func ReadGrid(filePath string) (domain.Grid, error) {
	if !IsSupportedWorkbook(filePath) {
		return nil, apperrors.NewInvalidFileTypeError(filePath)
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewWorkbookError(filePath, err)
	}
	defer f.Close()

	return ReadGridFrom(f, filePath)
}

// ReadGridFrom reads the first worksheet from r. The name selects the format.
func ReadGridFrom(r io.ReadSeeker, name string) (domain.Grid, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".xls":
		return readLegacyGrid(r, name)
	case ".xlsx", ".xlsm":
		return readOpenXMLGrid(r, name)
	default:
		return nil, apperrors.NewInvalidFileTypeError(name)
	}
}

func readOpenXMLGrid(r io.Reader, name string) (domain.Grid, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewWorkbookError(name, err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		slog.Warn("Workbook has no worksheets", slog.String("file", name))
		return domain.Grid{}, nil
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, apperrors.NewWorkbookError(name, fmt.Errorf("sheet %s: %w", sheetName, err))
	}

	slog.Info("Read worksheet",
		slog.String("file", name),
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return domain.Grid(rows), nil
}

func readLegacyGrid(r io.ReadSeeker, name string) (domain.Grid, error) {
	workbook, err := xls.OpenReader(r, "utf-8")
	if err != nil {
		return nil, apperrors.NewWorkbookError(name, err)
	}
	sheet := workbook.GetSheet(0)
	if sheet == nil {
		slog.Warn("Workbook has no worksheets", slog.String("file", name))
		return domain.Grid{}, nil
	}

	maxRow := int(sheet.MaxRow)
	if maxRow >= maxLegacyRows {
		maxRow = maxLegacyRows - 1
	}

	rows := make(domain.Grid, 0, maxRow+1)
	for i := 0; i <= maxRow; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := range cells {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}

	slog.Info("Read legacy worksheet",
		slog.String("file", name),
		slog.String("sheet_name", sheet.Name),
		slog.Int("total_rows", len(rows)))

	return rows, nil
}
