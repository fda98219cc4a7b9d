package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "punchcli/internal/errors"
)

// workbookExtensions are the attendance export formats accepted as input.
var workbookExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xls":  true,
}

// overrideExtensions are the accepted calendar override file formats.
var overrideExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// FileValidator gates the files a punch run reads and the directory it writes
type FileValidator struct {
	logger *slog.Logger
}

// NewFileValidator creates a new file validator
func NewFileValidator(logger *slog.Logger) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger: logger,
	}
}

// ValidateFile checks if a specific file exists and is readable
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist",
			slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		v.logger.Error("Failed to stat file",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file",
			slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateWorkbook checks the attendance export before it is parsed. The
// extension is checked first so a wrong file type is reported as such even
// when the file is missing.
func (v *FileValidator) ValidateWorkbook(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !workbookExtensions[ext] {
		v.logger.Error("File is not an Excel workbook",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewInvalidFileTypeError(path)
	}

	if strings.HasPrefix(filepath.Base(path), "~$") {
		v.logger.Warn("Rejecting temporary Excel lock file",
			slog.String("file", path))
		return apperrors.NewInvalidFileTypeError(path).
			WithContext("reason", "temporary Excel lock file")
	}

	if err := v.ValidateFile(path); err != nil {
		return apperrors.NewWorkbookError(path, err)
	}
	return nil
}

// ValidateOverridesFile checks a calendar override file.
func (v *FileValidator) ValidateOverridesFile(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !overrideExtensions[ext] {
		v.logger.Error("Overrides file is not YAML",
			slog.String("file", path),
			slog.String("extension", ext))
		return apperrors.NewOverrideError(fmt.Errorf("overrides file %s must be .yaml or .yml", path))
	}
	if err := v.ValidateFile(path); err != nil {
		return apperrors.NewOverrideError(err)
	}
	return nil
}

// ValidateOutputDirectory ensures output directory exists or can be created
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("all", fmt.Errorf("failed to create output directory %s: %w", dir, err))
	}

	// Verify it's writable by creating a test file
	testFile := filepath.Join(dir, ".write_test")
	file, err := os.Create(testFile)
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return apperrors.NewExportError("all", fmt.Errorf("output directory %s is not writable: %w", dir, err))
	}
	file.Close()
	os.Remove(testFile)

	v.logger.Debug("Output directory validated",
		slog.String("directory", dir))
	return nil
}
