package dataprocessing

import (
	"time"
)

// LatePatternCutoffMinutes is the fixed reference for late-pattern severity.
const LatePatternCutoffMinutes = 635

// Severity thresholds in minutes past the cutoff.
const (
	earlyLateLimit  = 15
	mediumLateLimit = 30
)

// trendThreshold is the rate change, in percentage points, that counts as a trend.
const trendThreshold = 2.0

// TrendRange is a named window ending on the last date in a dataset.
type TrendRange string

const (
	RangeOneWeek    TrendRange = "1W"
	RangeTwoWeeks   TrendRange = "2W"
	RangeThreeWeeks TrendRange = "3W"
	RangeOneMonth   TrendRange = "1M"
)

// Days returns the window length. Unknown ranges span a month.
func (r TrendRange) Days() int {
	switch r {
	case RangeOneWeek:
		return 7
	case RangeTwoWeeks:
		return 14
	case RangeThreeWeeks:
		return 21
	default:
		return 30
	}
}

// DateBounds limits the daily trend. Nil bounds are open.
type DateBounds struct {
	Start *time.Time
	End   *time.Time
}

// Bounded reports whether either bound is set.
func (b DateBounds) Bounded() bool {
	return b.Start != nil || b.End != nil
}

// weekdayOrder lists weekdays Monday first.
var weekdayOrder = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}
