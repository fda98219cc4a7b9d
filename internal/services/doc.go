// Package services implements the business logic layer of the punch CLI.
// It sits between the command tree and the processing packages so that the
// pipeline order, its telemetry and its error mapping live in one place.
//
// # Pipeline
//
// AttendanceService runs one workbook through these stages:
//
//	load       validate the input file and read the first worksheet
//	scan       extract raw records (block or flat layout)
//	normalize  derive canonical records, summaries and team counters
//	overrides  parse --event flags and the events file
//	matrix     build the filtered date x employee matrix and display rows
//	analytics  trend, distribution, rankings, late patterns, headline metrics
//	export     render xlsx, pdf, csv and json reports concurrently
//
// Every stage runs inside its own span and records its duration in
// punch_stage_duration_seconds.
//
// # Usage
//
//	svc, err := services.NewAttendanceService(cfg, paths, providers, logger)
//	if err != nil {
//	    return err
//	}
//
//	sess, err := svc.Load(ctx, services.LoadRequest{Path: "punches.xlsx"})
//	if err != nil {
//	    return err // apperrors.ExitCode(err) selects the process exit code
//	}
//
//	artifacts, err := svc.Export(ctx, sess, services.ExportRequest{
//	    Formats: []string{"xlsx", "pdf"},
//	})
//
// # Error Handling
//
// Input problems surface as *errors.AppError values so the CLI can map them
// to exit codes: invalid file types, bad flags and bad overrides exit 2,
// unreadable workbooks exit 3, empty workbooks exit 4 and export failures
// exit 5. Malformed rows, dates and clock times never fail a run.
package services
