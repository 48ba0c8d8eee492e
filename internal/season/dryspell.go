package season

import (
	"time"

	"github.com/adomako/agroseason/internal/models"
)

const (
	// DrySpellMinDays is the reporting cutoff: a run must be strictly
	// longer than this to become an event.
	DrySpellMinDays = 10

	// EarlyPeriodDays bounds the EARLY sub-period: onset through
	// onset+50 days inclusive; LATE starts at onset+51.
	EarlyPeriodDays = 50
)

// AnalyzeDrySpells finds every maximal run of consecutive dry days
// (rainfall < 1 mm) inside [onsetDate, cessationDate] and emits an
// event for each run longer than DrySpellMinDays. A run spanning the
// EARLY/LATE boundary is attributed to the sub-period containing its
// start date. Returns nil when the series does not cover the interval.
func AnalyzeDrySpells(series models.Series, onsetDate, cessationDate time.Time) []models.DrySpellEvent {
	start := series.IndexOf(onsetDate)
	end := series.IndexOf(cessationDate)
	if start < 0 || end < 0 || end < start {
		return nil
	}

	earlyEnd := onsetDate.AddDate(0, 0, EarlyPeriodDays)

	var events []models.DrySpellEvent
	runStart := -1
	flush := func(runEnd int) {
		length := runEnd - runStart + 1
		if length > DrySpellMinDays {
			period := models.DrySpellEarly
			if series[runStart].Date.After(earlyEnd) {
				period = models.DrySpellLate
			}
			events = append(events, models.DrySpellEvent{
				StartDate:    series[runStart].Date,
				EndDate:      series[runEnd].Date,
				DurationDays: length,
				Period:       period,
			})
		}
		runStart = -1
	}

	for i := start; i <= end; i++ {
		if series[i].RainfallMM < DryDayThresholdMM {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			flush(i - 1)
		}
	}
	if runStart >= 0 {
		flush(end)
	}
	return events
}
