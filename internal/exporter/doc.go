// Package exporter renders attendance reports to files.
//
// BuildReport turns a normalized dataset, its matrix and the calendar
// resolver into a Report: the rendered matrix rows, the per-employee
// footer (working days, present days, leaves, late days and the late
// penalty) plus the records and summary tables.
//
// An Exporter then writes the report in every requested format at once:
//
//	xlsx  styled workbook with matrix, summary and records sheets
//	pdf   landscape A4 document with the same three sections
//	csv   records, matrix and summary as UTF-8 CSV with a BOM
//	json  the Report itself
//
// Example usage:
//
//	report := exporter.BuildReport(ds, matrix, resolver, exporter.Options{Title: "MARCH"})
//	artifacts, err := exporter.NewExporter(logger, paths).Export(ctx, report, "march", []string{"xlsx", "pdf"})
package exporter
