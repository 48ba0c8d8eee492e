package season

import (
	"database/sql"
	"testing"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

func TestDailyETOPrefersSuppliedValue(t *testing.T) {
	obs := models.DailyObservation{
		Date:    date(2026, time.April, 10),
		TempMin: sql.NullFloat64{Float64: 22, Valid: true},
		TempMax: sql.NullFloat64{Float64: 33, Valid: true},
		ETOMM:   sql.NullFloat64{Float64: 5.2, Valid: true},
	}
	if got := DailyETO(obs, 5.6); got != 5.2 {
		t.Errorf("DailyETO = %v, want supplied 5.2", got)
	}
}

func TestDailyETOFallsBackToDefault(t *testing.T) {
	obs := models.DailyObservation{Date: date(2026, time.April, 10)}
	if got := DailyETO(obs, 5.6); got != DefaultETOMMPerDay {
		t.Errorf("DailyETO with no inputs = %v, want %v", got, DefaultETOMMPerDay)
	}

	// A negative supplied value is ignored, not propagated.
	obs.ETOMM = sql.NullFloat64{Float64: -1, Valid: true}
	if got := DailyETO(obs, 5.6); got != DefaultETOMMPerDay {
		t.Errorf("DailyETO with negative et0 = %v, want %v", got, DefaultETOMMPerDay)
	}
}

func TestDailyETOHargreaves(t *testing.T) {
	obs := models.DailyObservation{
		Date:    date(2026, time.April, 10),
		TempMin: sql.NullFloat64{Float64: 23, Valid: true},
		TempMax: sql.NullFloat64{Float64: 34, Valid: true},
	}
	got := DailyETO(obs, 5.6)
	// Tropical dry-season conditions land in a narrow plausible band.
	if got < 3 || got > 8 {
		t.Errorf("Hargreaves ETO = %v, want between 3 and 8 mm/day", got)
	}
}

func TestDailyETONeverNegative(t *testing.T) {
	tests := []struct {
		name       string
		tmin, tmax float64
	}{
		{"zero spread", 25, 25},
		{"inverted extremes", 30, 28},
		{"very cold", -40, -39},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := models.DailyObservation{
				Date:    date(2026, time.January, 15),
				TempMin: sql.NullFloat64{Float64: tt.tmin, Valid: true},
				TempMax: sql.NullFloat64{Float64: tt.tmax, Valid: true},
			}
			if got := DailyETO(obs, 9.4); got < 0 {
				t.Errorf("DailyETO = %v, want >= 0", got)
			}
		})
	}
}
