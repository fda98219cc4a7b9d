package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"punchcli/internal/exporter"
	"punchcli/internal/services"
	"punchcli/pkg/contracts"
)

func (a *app) newSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary <workbook>",
		Short: "Print normalized records, employee summaries and team totals",
		Args:  workbookArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			ds, err := a.service.Summary(cmd.Context(), sess)
			if err != nil {
				return err
			}
			return a.writeJSON(ds)
		},
	}
}

func (a *app) newMatrixCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "matrix <workbook>",
		Short: "Print the date x employee attendance matrix",
		Long: "Prints the attendance matrix with calendar overrides applied. " +
			"Use --filter to focus employee columns and --event to mark holidays and team-out days.",
		Args: workbookArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			result, err := a.service.Matrix(cmd.Context(), sess)
			if err != nil {
				return err
			}
			return a.writeJSON(result)
		},
	}
}

func (a *app) newAnalyticsCommand() *cobra.Command {
	var req services.AnalyticsRequest

	cmd := &cobra.Command{
		Use:   "analytics <workbook>",
		Short: "Print attendance trends, distribution, rankings and late patterns",
		Args:  workbookArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			result, err := a.service.Analytics(cmd.Context(), sess, req)
			if err != nil {
				return err
			}
			return a.writeJSON(result)
		},
	}

	cmd.Flags().StringVar(&req.Range, "range", "", "trend window: 1W, 2W, 3W or 1M (default: all dates)")
	cmd.Flags().IntVar(&req.Limit, "limit", services.DefaultTopPerformers, "number of top performers to list")
	return cmd
}

func (a *app) newExportCommand() *cobra.Command {
	var req services.ExportRequest

	cmd := &cobra.Command{
		Use:   "export <workbook>",
		Short: "Render attendance reports as xlsx, pdf, csv or json",
		Example: `  punch export punches.xlsx
  punch export punches.xlsx --format xlsx,pdf -o reports/
  punch export punches.xls --event "2024-01-26|Republic Day|holiday"`,
		Args: workbookArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := a.load(cmd, args)
			if err != nil {
				return err
			}
			artifacts, err := a.service.Export(cmd.Context(), sess, req)
			if err != nil {
				return err
			}
			return a.writeJSON(struct {
				Artifacts []exporter.Artifact `json:"artifacts"`
			}{artifacts})
		},
	}

	cmd.Flags().StringSliceVar(&req.Formats, "format", nil, "formats to render: xlsx, pdf, csv, json (default from config)")
	cmd.Flags().StringVar(&req.Title, "title", "", "report title (default from config)")
	cmd.Flags().StringVar(&req.Prefix, "prefix", "", "output file name prefix (default from config)")
	return cmd
}

func (a *app) newVersionCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return a.writeJSON(contracts.GetVersionInfo())
			}
			_, err := fmt.Fprintln(a.stdout, contracts.GetFullVersionString())
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}
