package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSeriesFormat(t *testing.T) {
	date := time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "REQ-20250115-001", SeriesRequest.Format(date, 1))
	assert.Equal(t, "REQ-20250115-042", SeriesRequest.Format(date, 42))
	assert.Equal(t, "REQ-20250115-1000", SeriesRequest.Format(date, 1000))

	assert.Equal(t, "Q-001", SeriesTicket.Format(date, 1))
	assert.Equal(t, "Q-099", SeriesTicket.Format(date, 99))

	assert.Equal(t, "RES-00001", SeriesRegistry.Format(date, 1))
	assert.Equal(t, "RES-12345", SeriesRegistry.Format(date, 12345))
}

func TestSeriesScopeKey(t *testing.T) {
	date := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "20250307", SeriesRequest.ScopeKey(date))
	assert.Equal(t, "20250307", SeriesTicket.ScopeKey(date))

	// Registry numbers never reset, so the scope is date-independent
	assert.Equal(t, "", SeriesRegistry.ScopeKey(date))
	assert.Equal(t, "", SeriesRegistry.ScopeKey(date.AddDate(1, 0, 0)))
}

func TestSeriesIsValid(t *testing.T) {
	assert.True(t, SeriesRequest.IsValid())
	assert.True(t, SeriesTicket.IsValid())
	assert.True(t, SeriesRegistry.IsValid())
	assert.False(t, Series("invoice").IsValid())
}

func TestSeriesDayScoped(t *testing.T) {
	assert.True(t, SeriesRequest.DayScoped())
	assert.True(t, SeriesTicket.DayScoped())
	assert.False(t, SeriesRegistry.DayScoped())
}
