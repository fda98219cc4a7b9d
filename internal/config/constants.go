package config

import "punchcli/pkg/contracts"

// Application constants
const (
	// Application Info
	AppName    = "punch"
	AppVersion = contracts.Version

	// Processing
	DefaultLateCutoffMinutes = 635 // 10:35
	LayoutBlocks             = "blocks"
	LayoutFlat               = "flat"

	// Export formats
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
	FormatCSV  = "csv"
	FormatJSON = "json"

	// Report defaults
	DefaultReportTitle      = "ATTENDANCE MONITOR"
	DefaultFilePrefix       = "attendance"
	DefaultLatePenaltyEvery = 2
	DefaultLatePenaltyDays  = "0.5"

	// File Paths (relative to the working directory)
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"
	DefaultLogFile    = "punch.log" // inside the logs directory

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// SupportedFormats lists every export format in render order.
var SupportedFormats = []string{FormatXLSX, FormatPDF, FormatCSV, FormatJSON}
