package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories the CLI writes to
type Paths struct {
	BaseDir    string
	ReportsDir string
	LogsDir    string
}

// GetPaths resolves cfg against the current working directory.
// Absolute directories are kept as-is.
func GetPaths(cfg PathsConfig) (*Paths, error) {
	base, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %v", err)
	}
	return NewPaths(base, cfg), nil
}

// NewPaths resolves cfg against base.
func NewPaths(base string, cfg PathsConfig) *Paths {
	resolve := func(dir string) string {
		if filepath.IsAbs(dir) {
			return filepath.Clean(dir)
		}
		return filepath.Join(base, dir)
	}
	return &Paths{
		BaseDir:    base,
		ReportsDir: resolve(cfg.OutputDir),
		LogsDir:    resolve(cfg.LogsDir),
	}
}

// EnsureDirectories creates all required directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	logger := slog.Default()

	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
		logger.Debug("Ensured directory exists",
			slog.String("directory", dir))
	}

	return nil
}

// GetReportPath returns filename inside the reports directory
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}

// GetLogPath resolves a relative log file name inside the logs directory
func (p *Paths) GetLogPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.LogsDir, filename)
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("reports", p.ReportsDir),
			slog.String("logs", p.LogsDir),
		))
}
