package util

import (
	"fmt"
	"time"
)

// MonthLabelLayout is the YYYY-MM key identifying a calendar month.
const MonthLabelLayout = "2006-01"

// ParseMonthLabel parses a YYYY-MM label into its year and month.
func ParseMonthLabel(label string) (int, int, error) {
	t, err := time.Parse(MonthLabelLayout, label)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month label %q: expected YYYY-MM", label)
	}
	year, month := t.Year(), int(t.Month())
	if year < 2000 || year > 2100 {
		return 0, 0, fmt.Errorf("invalid month label %q: year out of range", label)
	}
	return year, month, nil
}

// FormatMonthLabel renders a year/month pair as YYYY-MM.
func FormatMonthLabel(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// CurrentMonthLabel returns the label of the month containing now.
func CurrentMonthLabel(now time.Time) string {
	return now.Format(MonthLabelLayout)
}

// MonthBoundaries returns the first and last calendar day of a month.
// December rolls over into the next year's January.
func MonthBoundaries(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the number of calendar days in a month.
func DaysInMonth(year, month int) int {
	_, end := MonthBoundaries(year, month)
	return end.Day()
}

// DaysElapsed counts the days from the 1st of the month through today
// inclusive, clamped to [0, days in month]. Before the month it is 0;
// after the month it is the full month length.
func DaysElapsed(year, month int, today time.Time) int {
	start, end := MonthBoundaries(year, month)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(start) {
		return 0
	}
	if day.After(end) {
		return end.Day()
	}
	return day.Day()
}
