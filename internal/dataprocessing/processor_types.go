package dataprocessing

import (
	"punchcli/pkg/contracts/domain"
)

// DefaultLateCutoffMinutes is 10:35 expressed in minutes since midnight.
const DefaultLateCutoffMinutes = 635

// Processor turns raw scanned records into a canonical dataset.
type Processor interface {
	Normalize(raw []domain.RawRecord) *domain.Dataset
}

// ProcessingOptions configures normalization behavior
type ProcessingOptions struct {
	// LateCutoffMinutes is the last on-time arrival, in minutes since midnight.
	// Arrivals strictly after it are late.
	LateCutoffMinutes int
}

// DefaultOptions returns default processing options
func DefaultOptions() ProcessingOptions {
	return ProcessingOptions{
		LateCutoffMinutes: DefaultLateCutoffMinutes,
	}
}

// Field aliases accepted when reading raw records, in priority order.
var (
	codeAliases = []string{"E. Code", "Emp Code", "Employee Code"}
	dateAliases = []string{"Date", "Attendance Date", "Punch Date", "Att Date", "Log Date", "Day"}
	inAliases   = []string{"InTime", "In Time", "Time In"}
	outAliases  = []string{"OutTime", "Out Time", "Time Out"}
	nameAliases = []string{"Name", "Employee Name", "Emp Name"}
)

// placeholderCodes are header texts that leak into data rows.
var placeholderCodes = map[string]bool{
	"E. Code":  true,
	"Emp Code": true,
	"SNo":      true,
}
