package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"punchcli/internal/calendar"
	"punchcli/internal/config"
	"punchcli/internal/dataprocessing"
	apperrors "punchcli/internal/errors"
	"punchcli/internal/exporter"
	"punchcli/internal/infrastructure"
	"punchcli/internal/validation"
	"punchcli/pkg/contracts/domain"
)

// Pipeline stage names used for spans, metrics and logs.
const (
	StageLoad      = "load"
	StageScan      = "scan"
	StageNormalize = "normalize"
	StageOverrides = "overrides"
	StageMatrix    = "matrix"
	StageAnalytics = "analytics"
	StageExport    = "export"
)

// DefaultTopPerformers is the number of employees ranked by default.
const DefaultTopPerformers = 5

// LoadRequest describes one workbook and the calendar and filter input
// that goes with it.
type LoadRequest struct {
	Path       string
	Layout     string   // blocks or flat; empty uses the configured layout
	Events     []string // "date|label|type"
	EventsFile string
	Filters    []string // "Name=mode"
}

// Session is one loaded and normalized dataset together with its
// calendar overrides and matrix filters.
type Session struct {
	Source    string
	Layout    string
	Scanned   int
	Dataset   *domain.Dataset
	Overrides *calendar.Overrides
	Filters   domain.ColumnFilters
}

// Resolver returns the calendar resolver for the session overrides.
func (s *Session) Resolver() *calendar.Resolver {
	if s.Overrides == nil {
		return calendar.NewResolver(nil)
	}
	return calendar.NewResolver(s.Overrides.List())
}

// MatrixResult is the presence matrix plus its resolved display rows.
type MatrixResult struct {
	Dates     []string                 `json:"dates"`
	Employees []string                 `json:"employees"`
	Matrix    *domain.AttendanceMatrix `json:"matrix"`
	Overrides []domain.EventOverride   `json:"overrides"`
	Filters   domain.ColumnFilters     `json:"filters,omitempty"`
	Rows      []calendar.RowView       `json:"rows"`
}

// AnalyticsResult bundles every analytics view of a session.
type AnalyticsResult struct {
	Range         string                    `json:"range,omitempty"`
	DailyTrend    []domain.DailyTrendPoint  `json:"daily_trend"`
	Distribution  domain.StatusDistribution `json:"distribution"`
	TopPerformers []domain.Performer        `json:"top_performers"`
	LatePatterns  []domain.LatePattern      `json:"late_patterns"`
	Trend         domain.TrendSummary       `json:"trend"`
	Metrics       domain.KeyMetrics         `json:"metrics"`
}

// AnalyticsRequest selects the trend window and ranking size.
type AnalyticsRequest struct {
	Range string // 1W, 2W, 3W, 1M or empty for all dates
	Limit int
}

// ExportRequest overrides the configured export settings.
type ExportRequest struct {
	Formats []string
	Title   string
	Prefix  string
}

// AttendanceService runs the punch normalization pipeline
type AttendanceService struct {
	cfg       *config.Config
	paths     *config.Paths
	logger    *slog.Logger
	validator *validation.FileValidator
	exporter  *exporter.Exporter
	tracer    trace.Tracer
	metrics   *infrastructure.BusinessMetrics
	now       func() time.Time
}

// NewAttendanceService creates the pipeline service. A nil providers
// value disables tracing and metrics.
func NewAttendanceService(cfg *config.Config, paths *config.Paths, providers *infrastructure.OTelProviders, logger *slog.Logger) (*AttendanceService, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if paths == nil {
		p, err := config.GetPaths(cfg.Paths)
		if err != nil {
			return nil, fmt.Errorf("failed to get paths: %w", err)
		}
		paths = p
	}
	if providers == nil {
		p, err := infrastructure.InitializeOTel(nil, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		providers = p
	}

	metrics, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	logger = infrastructure.WithComponent(logger, "attendance_service")
	logger.Debug("AttendanceService initialized with paths",
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("logs_dir", paths.LogsDir))

	return &AttendanceService{
		cfg:       cfg,
		paths:     paths,
		logger:    logger,
		validator: validation.NewFileValidator(logger),
		exporter:  exporter.NewExporter(logger, paths),
		tracer:    providers.Tracer,
		metrics:   metrics,
		now:       time.Now,
	}, nil
}

// Load validates, reads, scans and normalizes a workbook, then resolves the
// calendar overrides and matrix filters for it. A workbook without any
// attendance records fails with a no-data error.
func (s *AttendanceService) Load(ctx context.Context, req LoadRequest) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "attendance.load", trace.WithAttributes(
		attribute.String("file", req.Path),
	))
	defer span.End()

	layout := strings.ToLower(strings.TrimSpace(req.Layout))
	if layout == "" {
		layout = s.cfg.Processing.Layout
	}
	if layout != config.LayoutBlocks && layout != config.LayoutFlat {
		err := apperrors.NewAppValidationError(fmt.Sprintf("layout must be %s or %s", config.LayoutBlocks, config.LayoutFlat)).
			WithContext("layout", req.Layout)
		return nil, s.fail(ctx, span, StageScan, fmt.Errorf("%w: %w", ErrInvalidLayout, err))
	}

	// Bad flags fail before the workbook is read.
	overrides, err := s.buildOverrides(ctx, req)
	if err != nil {
		return nil, s.fail(ctx, span, StageOverrides, err)
	}
	filters, err := ParseFilters(req.Filters)
	if err != nil {
		return nil, s.fail(ctx, span, StageMatrix,
			apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid filter", err))
	}

	var grid domain.Grid
	err = s.stage(ctx, StageLoad, func(ctx context.Context) error {
		if err := s.validator.ValidateWorkbook(req.Path); err != nil {
			return err
		}
		g, err := dataprocessing.ReadGrid(req.Path)
		if err != nil {
			return err
		}
		grid = g
		return nil
	})
	if err != nil {
		return nil, markFailed(span, err)
	}

	var raw []domain.RawRecord
	err = s.stage(ctx, StageScan, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if layout == config.LayoutFlat {
			raw = dataprocessing.ScanFlat(grid)
		} else {
			raw = dataprocessing.Scan(grid)
		}
		return nil
	})
	if err != nil {
		return nil, markFailed(span, err)
	}

	var dataset *domain.Dataset
	err = s.stage(ctx, StageNormalize, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		var proc dataprocessing.Processor = dataprocessing.NewNormalizer(s.logger, dataprocessing.ProcessingOptions{
			LateCutoffMinutes: s.cfg.Processing.LateCutoffMinutes,
		})
		dataset = proc.Normalize(raw)
		return nil
	})
	if err != nil {
		return nil, markFailed(span, err)
	}
	infrastructure.RecordNormalizeMetrics(ctx, s.metrics, len(raw), len(dataset.Records))

	span.SetAttributes(
		attribute.String("layout", layout),
		attribute.Int("records.scanned", len(raw)),
		attribute.Int("records.normalized", len(dataset.Records)),
		attribute.Int("employees", dataset.Team.TotalEmployees),
	)

	if len(dataset.Records) == 0 {
		return nil, s.fail(ctx, span, StageNormalize, apperrors.NewNoDataError(req.Path))
	}

	s.logger.InfoContext(ctx, "Workbook loaded",
		slog.String("file", req.Path),
		slog.String("layout", layout),
		slog.Int("rows", len(grid)),
		slog.Int("scanned", len(raw)),
		slog.Int("records", len(dataset.Records)),
		slog.Int("employees", dataset.Team.TotalEmployees),
		slog.Int("overrides", overrides.Len()),
		slog.Int("filters", len(filters)))

	return &Session{
		Source:    req.Path,
		Layout:    layout,
		Scanned:   len(raw),
		Dataset:   dataset,
		Overrides: overrides,
		Filters:   filters,
	}, nil
}

// buildOverrides loads the events file first so flags can replace its dates.
func (s *AttendanceService) buildOverrides(ctx context.Context, req LoadRequest) (*calendar.Overrides, error) {
	overrides, _ := calendar.NewOverrides()

	if req.EventsFile != "" {
		if err := s.validator.ValidateOverridesFile(req.EventsFile); err != nil {
			return nil, err
		}
		if err := overrides.LoadOverridesFile(req.EventsFile); err != nil {
			return nil, apperrors.NewOverrideError(err)
		}
	}

	for _, flag := range req.Events {
		item, err := calendar.ParseOverrideFlag(flag)
		if err != nil {
			return nil, apperrors.NewOverrideError(err)
		}
		if err := overrides.Add(item); err != nil {
			return nil, apperrors.NewOverrideError(err)
		}
	}

	s.logger.DebugContext(ctx, "Calendar overrides resolved",
		slog.Int("count", overrides.Len()),
		slog.String("events_file", req.EventsFile))
	return overrides, nil
}

// Summary returns the normalized records, per-employee summaries and team
// counters of a session.
func (s *AttendanceService) Summary(ctx context.Context, sess *Session) (*domain.Dataset, error) {
	if sess == nil || sess.Dataset == nil {
		return nil, ErrNoSession
	}
	s.logger.DebugContext(ctx, "Summary requested",
		slog.Int("records", len(sess.Dataset.Records)))
	return sess.Dataset, nil
}

// Matrix builds the filtered presence matrix and resolves every date into
// its display row.
func (s *AttendanceService) Matrix(ctx context.Context, sess *Session) (*MatrixResult, error) {
	if sess == nil || sess.Dataset == nil {
		return nil, ErrNoSession
	}

	var result *MatrixResult
	err := s.stage(ctx, StageMatrix, func(ctx context.Context) error {
		matrix := dataprocessing.BuildMatrix(sess.Dataset.Records, sess.Filters)
		result = &MatrixResult{
			Dates:     matrix.Dates,
			Employees: matrix.Employees,
			Matrix:    matrix,
			Overrides: sess.Resolver().Overrides(),
			Filters:   sess.Filters,
			Rows:      sess.Resolver().Rows(matrix),
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"dates":     len(matrix.Dates),
			"employees": len(matrix.Employees),
			"filters":   len(sess.Filters),
		})
		return nil
	})
	return result, err
}

// Analytics computes the daily trend, distribution, rankings, late
// patterns, trend direction and headline metrics.
func (s *AttendanceService) Analytics(ctx context.Context, sess *Session, req AnalyticsRequest) (*AnalyticsResult, error) {
	if sess == nil || sess.Dataset == nil {
		return nil, ErrNoSession
	}

	bounds := dataprocessing.DateBounds{}
	rangeName := strings.ToUpper(strings.TrimSpace(req.Range))
	if rangeName != "" {
		rng, err := ParseTrendRange(rangeName)
		if err != nil {
			return nil, apperrors.NewAppError(apperrors.ErrTypeValidation, "invalid trend range", err)
		}
		bounds = dataprocessing.TrendWindow(sess.Dataset.Records, rng)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = DefaultTopPerformers
	}

	var result *AnalyticsResult
	err := s.stage(ctx, StageAnalytics, func(ctx context.Context) error {
		records := sess.Dataset.Records
		summaries := sess.Dataset.Summaries
		result = &AnalyticsResult{
			Range:         rangeName,
			DailyTrend:    dataprocessing.DailyTrend(records, bounds),
			Distribution:  dataprocessing.StatusDistributionOf(summaries),
			TopPerformers: dataprocessing.TopPerformers(summaries, limit),
			LatePatterns:  dataprocessing.LatePatterns(records),
			Trend:         dataprocessing.Trend(records),
			Metrics:       dataprocessing.Metrics(records, summaries),
		}
		return nil
	})
	return result, err
}

// Report assembles the renderer-neutral report for a session.
func (s *AttendanceService) Report(ctx context.Context, sess *Session, title string) (*exporter.Report, error) {
	m, err := s.Matrix(ctx, sess)
	if err != nil {
		return nil, err
	}

	penalty, err := exporter.PenaltyRuleFrom(s.cfg.Export)
	if err != nil {
		return nil, apperrors.NewConfigError("invalid late penalty", err)
	}
	if title == "" {
		title = s.cfg.Export.Title
	}

	return exporter.BuildReport(sess.Dataset, m.Matrix, sess.Resolver(), exporter.Options{
		Title:       title,
		GeneratedAt: s.now(),
		Penalty:     penalty,
	}), nil
}

// Export renders the session into every requested format below the
// reports directory.
func (s *AttendanceService) Export(ctx context.Context, sess *Session, req ExportRequest) ([]exporter.Artifact, error) {
	if sess == nil || sess.Dataset == nil {
		return nil, ErrNoSession
	}

	requested := req.Formats
	if len(requested) == 0 {
		requested = s.cfg.Export.Formats
	}
	formats := make([]string, len(requested))
	for i, f := range requested {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
		if !isSupportedFormat(formats[i]) {
			return nil, apperrors.NewAppValidationError(
				fmt.Sprintf("unsupported format %q (supported: %s)", f, strings.Join(config.SupportedFormats, ", ")))
		}
	}
	prefix := req.Prefix
	if prefix == "" {
		prefix = s.cfg.Export.FilePrefix
	}

	if err := s.validator.ValidateOutputDirectory(s.paths.ReportsDir); err != nil {
		return nil, err
	}

	report, err := s.Report(ctx, sess, req.Title)
	if err != nil {
		return nil, err
	}

	var artifacts []exporter.Artifact
	err = s.stage(ctx, StageExport, func(ctx context.Context) error {
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"formats": strings.Join(formats, ","),
			"prefix":  prefix,
		})
		a, err := s.exporter.Export(ctx, report, prefix, formats)
		if err != nil {
			return err
		}
		artifacts = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, a := range artifacts {
		infrastructure.RecordExportMetrics(ctx, s.metrics, a.Format, a.Bytes)
		infrastructure.AddSpanEvent(ctx, "artifact.written", map[string]interface{}{
			"format": a.Format,
			"path":   a.Path,
			"bytes":  a.Bytes,
		})
	}
	return artifacts, nil
}

// stage runs fn inside a child span and records its duration and outcome.
func (s *AttendanceService) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "attendance."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	duration := time.Since(start)

	infrastructure.RecordStageMetrics(ctx, s.metrics, name, duration, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.WithError(s.logger, err).ErrorContext(ctx, "Stage failed",
			slog.String("stage", name),
			slog.Duration("duration", duration))
		return err
	}

	s.logger.DebugContext(ctx, "Stage completed",
		slog.String("stage", name),
		slog.Duration("duration", duration))
	return nil
}

// fail counts an error raised outside stage() against stage and marks the
// parent span failed.
func (s *AttendanceService) fail(ctx context.Context, span trace.Span, stage string, err error) error {
	infrastructure.RecordStageMetrics(ctx, s.metrics, stage, 0, err)
	return markFailed(span, err)
}

// markFailed records err on span. stage() has already counted it.
func markFailed(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// ParseFilters parses repeated "Name=mode" flags. A later flag for the
// same employee wins; mode "all" removes the employee's filter.
func ParseFilters(values []string) (domain.ColumnFilters, error) {
	filters := domain.ColumnFilters{}
	for _, value := range values {
		name, mode, ok := strings.Cut(value, "=")
		name = strings.TrimSpace(name)
		mode = strings.ToLower(strings.TrimSpace(mode))
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q must look like Name=mode", ErrInvalidFilter, value)
		}

		switch domain.FilterMode(mode) {
		case domain.FilterAll:
			delete(filters, name)
		case domain.FilterOnTime, domain.FilterLate, domain.FilterAbsent:
			filters[name] = domain.FilterMode(mode)
		default:
			return nil, fmt.Errorf("%w: unknown mode %q for %s (use all, ontime, late or absent)", ErrInvalidFilter, mode, name)
		}
	}
	return filters, nil
}

// ParseTrendRange validates a named trend window.
func ParseTrendRange(value string) (dataprocessing.TrendRange, error) {
	switch rng := dataprocessing.TrendRange(strings.ToUpper(strings.TrimSpace(value))); rng {
	case dataprocessing.RangeOneWeek, dataprocessing.RangeTwoWeeks,
		dataprocessing.RangeThreeWeeks, dataprocessing.RangeOneMonth:
		return rng, nil
	}
	return "", fmt.Errorf("%w: %q (use 1W, 2W, 3W or 1M)", ErrInvalidRange, value)
}

func isSupportedFormat(format string) bool {
	for _, f := range config.SupportedFormats {
		if f == format {
			return true
		}
	}
	return false
}
