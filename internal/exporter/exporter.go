package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"punchcli/internal/config"
	apperrors "punchcli/internal/errors"
)

// Renderer draws a report in one document format.
type Renderer interface {
	Format() string
	Render(w io.Writer, r *Report) error
}

// JSONRenderer writes the report as indented JSON.
type JSONRenderer struct{}

// Format implements Renderer.
func (JSONRenderer) Format() string { return config.FormatJSON }

// Render implements Renderer.
func (JSONRenderer) Render(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Artifact is one file written by an export.
type Artifact struct {
	Format string `json:"format"`
	Path   string `json:"path"`
	Bytes  int64  `json:"bytes"`
}

// Exporter renders a report into every requested format concurrently.
type Exporter struct {
	logger    *slog.Logger
	paths     *config.Paths
	csv       *CSVWriter
	renderers map[string]Renderer
}

// NewExporter creates an exporter writing below paths.ReportsDir.
func NewExporter(logger *slog.Logger, paths *config.Paths) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Exporter{
		logger:    logger,
		paths:     paths,
		csv:       NewCSVWriter(paths, logger),
		renderers: make(map[string]Renderer),
	}
	e.Register(NewXLSXRenderer(logger))
	e.Register(NewPDFRenderer(logger))
	e.Register(JSONRenderer{})
	return e
}

// Register adds or replaces the renderer for its format.
func (e *Exporter) Register(r Renderer) {
	e.renderers[r.Format()] = r
}

// Export writes prefix.<format> for every format. CSV additionally
// writes prefix_matrix.csv and prefix_summary.csv. The first failure
// cancels the remaining renders.
func (e *Exporter) Export(ctx context.Context, r *Report, prefix string, formats []string) ([]Artifact, error) {
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, apperrors.NewExportError("all", err)
	}

	var (
		mu        sync.Mutex
		artifacts []Artifact
	)
	collect := func(a ...Artifact) {
		mu.Lock()
		artifacts = append(artifacts, a...)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, format := range dedupe(formats) {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if format == config.FormatCSV {
				a, err := e.exportCSV(r, prefix)
				if err != nil {
					return apperrors.NewExportError(format, err)
				}
				collect(a...)
				return nil
			}

			renderer, ok := e.renderers[format]
			if !ok {
				return apperrors.NewExportError(format, fmt.Errorf("unsupported format %q", format))
			}
			a, err := e.renderFile(renderer, r, e.paths.GetReportPath(prefix+"."+format))
			if err != nil {
				return apperrors.NewExportError(format, err)
			}
			collect(a)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Error("Export failed", slog.String("error", err.Error()))
		return nil, err
	}

	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path })
	for _, a := range artifacts {
		e.logger.Info("Report written",
			slog.String("format", a.Format),
			slog.String("path", a.Path),
			slog.Int64("bytes", a.Bytes))
	}
	return artifacts, nil
}

// renderFile renders into path atomically.
func (e *Exporter) renderFile(renderer Renderer, r *Report, path string) (Artifact, error) {
	err := writeAtomic(path, func(out io.Writer) error {
		return renderer.Render(out, r)
	})
	if err != nil {
		return Artifact{}, err
	}
	return artifactFor(renderer.Format(), path)
}

// writeAtomic writes into a temporary sibling of path and renames it into
// place, so a failed write never leaves a partial file behind.
func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move report into place: %w", err)
	}
	return nil
}

func (e *Exporter) exportCSV(r *Report, prefix string) ([]Artifact, error) {
	matrixHeaders, matrixRows := matrixTable(r)
	files := []struct {
		name    string
		headers []string
		rows    [][]string
	}{
		{prefix + ".csv", RecordHeaders, recordTable(r)},
		{prefix + "_matrix.csv", matrixHeaders, matrixRows},
		{prefix + "_summary.csv", SummaryHeaders, SummaryRows(r.Summaries)},
	}

	artifacts := make([]Artifact, 0, len(files))
	for _, f := range files {
		if err := e.csv.WriteSimpleCSV(f.name, f.headers, f.rows); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", f.name, err)
		}
		a, err := artifactFor(config.FormatCSV, e.paths.GetReportPath(f.name))
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

func artifactFor(format, path string) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Format: format, Path: path, Bytes: info.Size()}, nil
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
