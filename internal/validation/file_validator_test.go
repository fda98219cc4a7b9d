package validation

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "punchcli/internal/errors"
)

func TestFileValidator_ValidateWorkbook(t *testing.T) {
	tests := []struct {
		name      string
		setupFunc func(t *testing.T) string
		wantErr   error
	}{
		{
			name: "valid xlsx",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "punches.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
		},
		{
			name: "valid legacy xls with upper-case extension",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "PUNCHES.XLS")
				require.NoError(t, os.WriteFile(file, []byte("test"), 0644))
				return file
			},
		},
		{
			name: "csv is rejected",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "punches.csv")
				require.NoError(t, os.WriteFile(file, []byte("a,b"), 0644))
				return file
			},
			wantErr: apperrors.ErrInvalidFileType,
		},
		{
			name: "missing file with wrong extension reports the type",
			setupFunc: func(t *testing.T) string {
				return "/non/existent/punches.pdf"
			},
			wantErr: apperrors.ErrInvalidFileType,
		},
		{
			name: "excel lock file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "~$punches.xlsx")
				require.NoError(t, os.WriteFile(file, []byte("lock"), 0644))
				return file
			},
			wantErr: apperrors.ErrInvalidFileType,
		},
		{
			name: "missing workbook",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "missing.xlsx")
			},
			wantErr: apperrors.ErrWorkbookUnreadable,
		},
		{
			name: "directory named like a workbook",
			setupFunc: func(t *testing.T) string {
				dir := filepath.Join(t.TempDir(), "folder.xlsx")
				require.NoError(t, os.Mkdir(dir, 0755))
				return dir
			},
			wantErr: apperrors.ErrWorkbookUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validator := NewFileValidator(slog.Default())
			path := tt.setupFunc(t)

			err := validator.ValidateWorkbook(path)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateWorkbook_ExitCodes(t *testing.T) {
	validator := NewFileValidator(nil)

	err := validator.ValidateWorkbook("notes.txt")
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))
	assert.Equal(t, "please upload a valid Excel file (.xlsx or .xls)", apperrors.UserMessage(err))

	err = validator.ValidateWorkbook(filepath.Join(t.TempDir(), "gone.xlsx"))
	assert.Equal(t, apperrors.ExitUnreadable, apperrors.ExitCode(err))
}

func TestFileValidator_ValidateOverridesFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "events.yaml")
	require.NoError(t, os.WriteFile(good, []byte("events: []\n"), 0644))
	wrongExt := filepath.Join(dir, "events.json")
	require.NoError(t, os.WriteFile(wrongExt, []byte("{}"), 0644))

	validator := NewFileValidator(nil)

	assert.NoError(t, validator.ValidateOverridesFile(good))

	err := validator.ValidateOverridesFile(wrongExt)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOverride)
	assert.Contains(t, err.Error(), ".yaml or .yml")

	err = validator.ValidateOverridesFile(filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOverride)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	validator := NewFileValidator(nil)

	t.Run("creates nested directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "reports", "2024")
		require.NoError(t, validator.ValidateOutputDirectory(dir))

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		_, err = os.Stat(filepath.Join(dir, ".write_test"))
		assert.True(t, os.IsNotExist(err), "write check file must be removed")
	})

	t.Run("path blocked by a file", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

		err := validator.ValidateOutputDirectory(filepath.Join(blocker, "reports"))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrExportFailed)
	})
}

func TestFileValidator_ValidateFile(t *testing.T) {
	validator := NewFileValidator(nil)
	dir := t.TempDir()
	file := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0644))

	assert.NoError(t, validator.ValidateFile(file))

	err := validator.ValidateFile(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	err = validator.ValidateFile(filepath.Join(dir, "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}
