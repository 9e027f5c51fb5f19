package domain

import (
	"fmt"
	"time"
)

// Series is a named identifier stream with its own format and reset rule.
type Series string

const (
	SeriesRequest  Series = "request"
	SeriesTicket   Series = "ticket"
	SeriesRegistry Series = "registry"
)

// seriesSpec pins the human-readable format of each stream. The formats are
// load-bearing: printed tickets and issued registry numbers carry them.
type seriesSpec struct {
	prefix    string
	width     int
	dayScoped bool
}

var seriesSpecs = map[Series]seriesSpec{
	SeriesRequest:  {prefix: "REQ", width: 3, dayScoped: true},
	SeriesTicket:   {prefix: "Q", width: 3, dayScoped: true},
	SeriesRegistry: {prefix: "RES", width: 5, dayScoped: false},
}

// IsValid reports whether the series is a known stream.
func (s Series) IsValid() bool {
	_, ok := seriesSpecs[s]
	return ok
}

// DayScoped reports whether the counter resets at the start of each day.
func (s Series) DayScoped() bool {
	return seriesSpecs[s].dayScoped
}

// ScopeKey returns the counter scope for a given date: YYYYMMDD for
// day-scoped series, empty for open-ended ones.
func (s Series) ScopeKey(date time.Time) string {
	if !s.DayScoped() {
		return ""
	}
	return date.Format("20060102")
}

// Format renders the nth identifier of the series for the given date.
// Day-scoped: PREFIX-YYYYMMDD-NNN (request) or PREFIX-NNN (ticket).
// Open-ended: PREFIX-NNNNN.
func (s Series) Format(date time.Time, n int64) string {
	spec := seriesSpecs[s]
	if s == SeriesRequest {
		return fmt.Sprintf("%s-%s-%0*d", spec.prefix, date.Format("20060102"), spec.width, n)
	}
	return fmt.Sprintf("%s-%0*d", spec.prefix, spec.width, n)
}
