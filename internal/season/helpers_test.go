package season

import (
	"database/sql"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// rainSeries builds a series starting at start with one observation per
// rainfall value. Temperatures and et0 are left unset so ETO falls back
// to the 4 mm/day default.
func rainSeries(start time.Time, rain []float64) models.Series {
	s := make(models.Series, len(rain))
	for i, mm := range rain {
		s[i] = models.DailyObservation{
			Date:       start.AddDate(0, 0, i),
			RainfallMM: mm,
		}
	}
	return s
}

// tempSeries builds a dry n-day series with fixed temperature extremes.
func tempSeries(start time.Time, n int, tmin, tmax float64) models.Series {
	s := make(models.Series, n)
	for i := range s {
		s[i] = models.DailyObservation{
			Date:    start.AddDate(0, 0, i),
			TempMin: sql.NullFloat64{Float64: tmin, Valid: true},
			TempMax: sql.NullFloat64{Float64: tmax, Valid: true},
		}
	}
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
