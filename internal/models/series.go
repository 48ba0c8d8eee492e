package models

import (
	"fmt"
	"time"
)

// Series is a chronologically ordered, gap-free sequence of daily
// observations covering one monitoring period. Dates are unique and
// insertion order is calendar order; Validate enforces the contract.
type Series []DailyObservation

// Validate checks chronological order, date uniqueness, day-sized steps
// and non-negative rainfall.
func (s Series) Validate() error {
	for i := range s {
		if s[i].RainfallMM < 0 {
			return fmt.Errorf("series: negative rainfall %.2f on %s", s[i].RainfallMM, s[i].Date.Format("2006-01-02"))
		}
		if i == 0 {
			continue
		}
		step := s[i].Date.Sub(s[i-1].Date)
		if step <= 0 {
			return fmt.Errorf("series: dates out of order at %s", s[i].Date.Format("2006-01-02"))
		}
		if step != 24*time.Hour {
			return fmt.Errorf("series: gap before %s", s[i].Date.Format("2006-01-02"))
		}
	}
	return nil
}

// IndexOf returns the index of the observation on the given calendar
// day, or -1 when the series does not cover it.
func (s Series) IndexOf(date time.Time) int {
	y, m, d := date.Date()
	for i := range s {
		oy, om, od := s[i].Date.Date()
		if oy == y && om == m && od == d {
			return i
		}
	}
	return -1
}

// Start returns the first date in the series.
func (s Series) Start() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[0].Date, true
}

// End returns the last date in the series.
func (s Series) End() (time.Time, bool) {
	if len(s) == 0 {
		return time.Time{}, false
	}
	return s[len(s)-1].Date, true
}
