package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// KeyLayout is the canonical date key format.
const KeyLayout = "2006-01-02"

// dateLayouts are tried in order. Ambiguous numeric dates resolve month-first.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
	"01/02/06",
	"1/2/06",
	"02-Jan-2006",
	"2-Jan-2006",
	"02-Jan-06",
	"2-Jan-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 January 2006",
	"Mon, 02 Jan 2006",
	"Monday, January 2, 2006",
}

// ParseDate interprets free-form attendance date text as a local calendar date.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.In(time.Local), true
	}
	return time.Time{}, false
}

// DateKey formats the local calendar components of a date string as YYYY-MM-DD.
func DateKey(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return Key(t), true
}

// Key formats t's local calendar components as YYYY-MM-DD.
func Key(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// IsWeekend reports whether t falls on the weekly day off. Only Sunday is off.
func IsWeekend(t time.Time) bool {
	return t.Weekday() == time.Sunday
}

// CompareDates orders two date strings chronologically. Unparsable dates
// compare equal to each other and sort after every parsable date.
func CompareDates(a, b string) int {
	ta, okA := ParseDate(a)
	tb, okB := ParseDate(b)
	switch {
	case okA && okB:
		return ta.Compare(tb)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}

// ParseClock converts "HH:MM", "HH:MM:SS" or "h:mm AM" into minutes since
// midnight. The second return is false when the text is not a clock time.
func ParseClock(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}

	meridiem := ""
	upper := strings.ToUpper(s)
	for _, suffix := range []string{"AM", "PM"} {
		if strings.HasSuffix(upper, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(s[:len(s)-2])
			break
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}

	switch meridiem {
	case "AM":
		if hours < 1 || hours > 12 {
			return 0, false
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return 0, false
		}
		if hours != 12 {
			hours += 12
		}
	default:
		if hours < 0 || hours > 23 {
			return 0, false
		}
	}
	return hours*60 + minutes, true
}

// FormatAMPM renders a clock time as "h:mm AM". Empty input stays empty and
// unparsable input is returned unchanged.
func FormatAMPM(s string) string {
	minutes, ok := ParseClock(s)
	if !ok {
		return strings.TrimSpace(s)
	}
	h, m := minutes/60, minutes%60
	suffix := "AM"
	if h >= 12 {
		suffix = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, m, suffix)
}

// ClockLabel renders minutes since midnight as "HH:MM".
func ClockLabel(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
