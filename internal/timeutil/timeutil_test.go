package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInEAT(t *testing.T) {
	got, err := ParseInEAT(DateLayout, "2026-09-05")
	require.NoError(t, err)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.September, got.Month())
	assert.Equal(t, 5, got.Day())
	_, offset := got.Zone()
	assert.Equal(t, 3*60*60, offset)

	_, err = ParseInEAT(DateLayout, "05-09-2026")
	assert.Error(t, err)
}

func TestStartOfDayCrossesMidnightUTC(t *testing.T) {
	// 23:30 UTC is 02:30 the next day in Addis Ababa.
	utc := time.Date(2026, 8, 27, 23, 30, 0, 0, time.UTC)
	start := StartOfDay(utc)

	assert.Equal(t, 28, start.Day())
	assert.Equal(t, 0, start.Hour())
}

func TestStartOfYear(t *testing.T) {
	start := StartOfYear(2026)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, EAT), start)
	assert.True(t, StartOfYear(2027).After(start))
}

func TestEndOfDayContainsWholeDay(t *testing.T) {
	day := time.Date(2026, 8, 28, 12, 0, 0, 0, EAT)
	assert.True(t, EndOfDay(day).After(day))
	assert.Equal(t, 28, EndOfDay(day).In(EAT).Day())
}
