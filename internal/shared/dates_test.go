package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestISODateNormalisesToUTC(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// 23:30 EST is already the next day in UTC.
	late := time.Date(2025, 6, 14, 23, 30, 0, 0, est)
	assert.Equal(t, "2025-06-15", ISODate(late))

	utc := time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-14", ISODate(utc))
}

func TestDatesBetweenInclusive(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC)

	dates := DatesBetween(start, end)
	require.Len(t, dates, 14)
	assert.Equal(t, "2025-06-01", ISODate(dates[0]))
	assert.Equal(t, "2025-06-14", ISODate(dates[13]))
}

func TestDatesBetweenSingleDay(t *testing.T) {
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	dates := DatesBetween(day, day)
	require.Len(t, dates, 1)
}

func TestDatesBetweenInvertedRange(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Empty(t, DatesBetween(start, end))
}
