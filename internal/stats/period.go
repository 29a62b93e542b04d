package stats

import (
	"fmt"
	"time"
)

// Timeframe selects the reporting window for the dashboard.
type Timeframe string

const (
	TimeframeToday Timeframe = "today"
	TimeframeWeek  Timeframe = "week"
	TimeframeMonth Timeframe = "month"
	TimeframeYear  Timeframe = "year"
	TimeframeAll   Timeframe = "all"
)

// ParseTimeframe validates a timeframe token from the query string.
func ParseTimeframe(raw string) (Timeframe, error) {
	switch Timeframe(raw) {
	case TimeframeToday, TimeframeWeek, TimeframeMonth, TimeframeYear, TimeframeAll:
		return Timeframe(raw), nil
	case "":
		return TimeframeMonth, nil
	}
	return "", fmt.Errorf("stats: unknown timeframe %q", raw)
}

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Duration returns the window length.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// PeriodWindows pairs the selected window with the congruent previous
// window used for comparison. Previous always ends exactly where
// Current begins (or, for year, is the current window shifted back).
type PeriodWindows struct {
	Current  Window `json:"current"`
	Previous Window `json:"previous"`
}

// ResolvePeriod computes the current and previous windows for a
// timeframe relative to now. Weeks start on Monday; Sunday belongs to
// the week that precedes it.
func ResolvePeriod(tf Timeframe, now time.Time) PeriodWindows {
	loc := now.Location()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	var windows PeriodWindows
	switch tf {
	case TimeframeToday:
		windows = PeriodWindows{
			Current:  Window{Start: dayStart, End: now},
			Previous: Window{Start: dayStart.AddDate(0, 0, -1), End: dayStart},
		}
	case TimeframeWeek:
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		monday := dayStart.AddDate(0, 0, -(weekday - 1))
		windows = PeriodWindows{
			Current:  Window{Start: monday, End: now},
			Previous: Window{Start: monday.AddDate(0, 0, -7), End: monday},
		}
	case TimeframeMonth:
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		windows = PeriodWindows{
			Current:  Window{Start: monthStart, End: now},
			Previous: Window{Start: monthStart.AddDate(0, -1, 0), End: monthStart},
		}
	default: // year and all share the rolling annual window
		yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
		windows = PeriodWindows{
			Current:  Window{Start: yearStart, End: now},
			Previous: Window{Start: yearStart.AddDate(-1, 0, 0), End: now.AddDate(-1, 0, 0)},
		}
	}

	windows.Current = clampWindow(windows.Current)
	windows.Previous = clampWindow(windows.Previous)
	return windows
}

// clampWindow collapses negative-length windows produced by clock skew
// (now earlier than a computed boundary) to a zero-length range.
func clampWindow(w Window) Window {
	if w.End.Before(w.Start) {
		w.End = w.Start
	}
	return w
}
