package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonthLabel(t *testing.T) {
	year, month, err := ParseMonthLabel("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, year)
	assert.Equal(t, 3, month)

	for _, label := range []string{"", "03-2025", "2025/03", "2025-13", "1999-01", "2101-01"} {
		_, _, err := ParseMonthLabel(label)
		assert.Error(t, err, "label %q should not parse", label)
	}
}

func TestFormatMonthLabel_RoundTrips(t *testing.T) {
	assert.Equal(t, "2025-03", FormatMonthLabel(2025, 3))
	assert.Equal(t, "2024-12", FormatMonthLabel(2024, 12))

	year, month, err := ParseMonthLabel(FormatMonthLabel(2024, 6))
	require.NoError(t, err)
	assert.Equal(t, 2024, year)
	assert.Equal(t, 6, month)
}

func TestCurrentMonthLabel(t *testing.T) {
	now := time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-03", CurrentMonthLabel(now))
}

func TestMonthBoundaries(t *testing.T) {
	start, end := MonthBoundaries(2025, 2)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), end)

	// Leap year
	_, end = MonthBoundaries(2024, 2)
	assert.Equal(t, 29, end.Day())

	// December rolls into the next year without drama
	start, end = MonthBoundaries(2024, 12)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), end)
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2025, 1))
	assert.Equal(t, 28, DaysInMonth(2025, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2025, 4))
}

func TestDaysElapsed(t *testing.T) {
	midMarch := time.Date(2025, time.March, 10, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, 10, DaysElapsed(2025, 3, midMarch), "inside the month it counts through today")
	assert.Equal(t, 31, DaysElapsed(2025, 1, midMarch), "past months elapse fully")
	assert.Equal(t, 0, DaysElapsed(2025, 4, midMarch), "future months have no elapsed days")

	firstOfMonth := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysElapsed(2025, 3, firstOfMonth))

	lastOfMonth := time.Date(2025, time.March, 31, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 31, DaysElapsed(2025, 3, lastOfMonth))
}
