// Package dataprocessing turns a biometric punch export into attendance data.
// It covers the whole path from a raw worksheet to analytical summaries.
//
// # Architecture
//
// The package is organized into five components:
//
// 1. Parser: reads the first worksheet of an .xlsx or .xls workbook into a grid
// 2. Scanner: walks date-stamped blocks and emits raw records
// 3. Normalizer: resolves field aliases, derives status and lateness, and
// accumulates per-employee and team counters
// 4. Matrix: pivots records into a date by employee view with focus filters
// 5. Analytics: daily trend, distribution, top performers, late patterns,
// trend direction and headline metrics
//
// # Usage
//
//	grid, err := dataprocessing.ReadGrid("punches.xlsx")
//	if err != nil {
//	    return err
//	}
//	ds := dataprocessing.Normalize(dataprocessing.Scan(grid), dataprocessing.DefaultOptions())
//	matrix := dataprocessing.BuildMatrix(ds.Records, nil)
//
// # Data Flow
//
//	Excel File → Parser → Grid → Scanner → RawRecords → Normalizer → Dataset → Matrix / Analytics
//
// Every stage after the parser is a pure function of its input. Malformed
// rows, times and dates are skipped or treated as "not late" rather than
// reported as errors.
package dataprocessing
