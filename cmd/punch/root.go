package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"punchcli/internal/config"
	apperrors "punchcli/internal/errors"
	"punchcli/internal/infrastructure"
	"punchcli/internal/services"
)

// app holds the process wiring shared by every subcommand.
type app struct {
	stdout    io.Writer
	stderr    io.Writer
	newLogger func(config.LoggingConfig) (*slog.Logger, error)

	// populated by setup
	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
	service   *services.AttendanceService

	flags rootFlags
}

// rootFlags are accepted by every subcommand.
type rootFlags struct {
	configFile string
	logLevel   string
	output     string
	layout     string
	events     []string
	eventsFile string
	filters    []string
}

// run executes the command tree and maps the outcome to an exit code.
func (a *app) run(ctx context.Context, args []string) int {
	ctx = infrastructure.EnsureTraceID(ctx)

	root := a.newRootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if shutdownErr := a.shutdown(); shutdownErr != nil && a.logger != nil {
		a.logger.Warn("Telemetry shutdown failed", slog.String("error", shutdownErr.Error()))
	}
	if err == nil {
		return apperrors.ExitOK
	}
	if !apperrors.IsAppError(err) && a.cfg == nil {
		// Cobra rejected the command line before any command ran.
		err = apperrors.NewAppValidationError(err.Error())
	}

	fmt.Fprintf(a.stderr, "punch: %s\n", describe(err))
	if a.logger != nil {
		a.logger.ErrorContext(ctx, "Command failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.GetErrorType(err))))
	}
	return apperrors.ExitCode(err)
}

func (a *app) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Normalize biometric punch exports into attendance reports",
		Long: "Reads an attendance workbook (.xlsx or .xls) exported by a biometric punch device, " +
			"normalizes the date blocks into canonical records and renders summaries, a presence " +
			"matrix, analytics and formatted reports.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configFile, "config", "", "path to punch.yaml (default: $"+config.ConfigFileEnv+", ./punch.yaml, ./configs/punch.yaml)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	pf.StringVarP(&a.flags.output, "output", "o", "", "directory for exported reports (default from config)")
	pf.StringVar(&a.flags.layout, "layout", "", "workbook layout: blocks or flat (default from config)")
	pf.StringArrayVar(&a.flags.events, "event", nil, `calendar override "YYYY-MM-DD|Label|Type" (repeatable)`)
	pf.StringVar(&a.flags.eventsFile, "events-file", "", "YAML file with calendar overrides")
	pf.StringArrayVar(&a.flags.filters, "filter", nil, `matrix focus filter "Name=all|ontime|late|absent" (repeatable)`)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.NewAppValidationError(err.Error())
	})

	root.AddCommand(
		a.newSummaryCommand(),
		a.newMatrixCommand(),
		a.newAnalyticsCommand(),
		a.newExportCommand(),
		a.newVersionCommand(),
	)
	return root
}

// setup loads configuration and builds the logger, telemetry and service.
func (a *app) setup(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if a.flags.configFile != "" {
		cfg, err = config.LoadFrom(a.flags.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return apperrors.NewConfigError("failed to load configuration", err)
	}
	if a.flags.logLevel != "" {
		cfg.Logging.Level = a.flags.logLevel
	}
	if a.flags.output != "" {
		cfg.Paths.OutputDir = a.flags.output
	}
	if err := cfg.Validate(); err != nil {
		return apperrors.NewConfigError("invalid configuration", err)
	}
	a.cfg = cfg

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("failed to get paths: %w", err)
	}
	if cfg.Logging.Output != "console" {
		cfg.Logging.FilePath = paths.GetLogPath(cfg.Logging.FilePath)
	}

	logger, err := a.newLogger(cfg.Logging)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	a.logger = logger.With(slog.String("command", cmd.Name()))
	paths.LogPathResolution(a.logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), a.logger)
	if err != nil {
		return apperrors.NewConfigError("failed to initialize telemetry", err)
	}
	a.providers = providers

	svc, err := services.NewAttendanceService(cfg, paths, providers, a.logger)
	if err != nil {
		return err
	}
	a.service = svc

	a.logger.DebugContext(cmd.Context(), "Command started",
		slog.String("run_id", infrastructure.GetTraceID(cmd.Context())),
		slog.String("version", config.AppVersion))
	return nil
}

func (a *app) shutdown() error {
	if a.providers == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.providers.Shutdown(ctx)
	a.providers = nil
	return err
}

// loadRequest builds the workbook request from the shared flags.
func (a *app) loadRequest(path string) services.LoadRequest {
	return services.LoadRequest{
		Path:       path,
		Layout:     a.flags.layout,
		Events:     a.flags.events,
		EventsFile: a.flags.eventsFile,
		Filters:    a.flags.filters,
	}
}

// load runs setup and loads the workbook named by the single argument.
func (a *app) load(cmd *cobra.Command, args []string) (*services.Session, error) {
	if err := a.setup(cmd); err != nil {
		return nil, err
	}
	return a.service.Load(cmd.Context(), a.loadRequest(args[0]))
}

// writeJSON prints v as indented JSON on stdout.
func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// workbookArg requires exactly one workbook path.
func workbookArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("%s expects exactly one workbook path, got %d", cmd.Name(), len(args)))
	}
	return nil
}

// describe renders err for the terminal, keeping the cause when there is one.
func describe(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Cause != nil {
		return appErr.Message + ": " + appErr.Cause.Error()
	}
	return apperrors.UserMessage(err)
}
