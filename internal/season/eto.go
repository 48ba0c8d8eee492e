package season

import (
	"math"

	"github.com/adomako/agroseason/internal/models"
)

// DefaultETOMMPerDay is used when an observation carries neither a
// measured reference ET nor the temperatures needed to estimate one.
const DefaultETOMMPerDay = 4.0

// solarConstant in MJ m⁻² min⁻¹ (FAO-56).
const solarConstant = 0.0820

// DailyETO returns reference evapotranspiration in mm/day for one
// observation. A supplied et0 value always wins; otherwise a Hargreaves
// estimate is computed from the temperature extremes, and failing that
// the fixed fallback applies. Never negative, never errors.
func DailyETO(obs models.DailyObservation, latitude float64) float64 {
	if obs.ETOMM.Valid && obs.ETOMM.Float64 >= 0 {
		return obs.ETOMM.Float64
	}
	if obs.TempMin.Valid && obs.TempMax.Valid {
		return hargreavesETO(obs.TempMin.Float64, obs.TempMax.Float64, latitude, obs.Date.YearDay())
	}
	return DefaultETOMMPerDay
}

// hargreavesETO is the FAO-56 Hargreaves equation:
// ETo = 0.0023 (Tmean + 17.8) sqrt(Tmax − Tmin) Ra, with Ra converted
// from MJ m⁻² day⁻¹ to equivalent mm/day by the 0.408 factor.
func hargreavesETO(tmin, tmax, latitude float64, yearDay int) float64 {
	spread := tmax - tmin
	if spread < 0 {
		spread = 0
	}
	tmean := (tmax + tmin) / 2
	ra := extraterrestrialRadiation(latitude, yearDay)
	eto := 0.0023 * (tmean + 17.8) * math.Sqrt(spread) * 0.408 * ra
	if eto < 0 {
		return 0
	}
	return eto
}

// extraterrestrialRadiation computes Ra in MJ m⁻² day⁻¹ for a latitude
// and day of year (FAO-56 eq. 21–24).
func extraterrestrialRadiation(latitude float64, yearDay int) float64 {
	j := float64(yearDay)
	phi := latitude * math.Pi / 180

	dr := 1 + 0.033*math.Cos(2*math.Pi/365*j)
	delta := 0.409 * math.Sin(2*math.Pi/365*j-1.39)

	x := -math.Tan(phi) * math.Tan(delta)
	// Polar day/night guard; irrelevant for Ghana but keeps the
	// function total.
	if x < -1 {
		x = -1
	} else if x > 1 {
		x = 1
	}
	ws := math.Acos(x)

	return 24 * 60 / math.Pi * solarConstant * dr *
		(ws*math.Sin(phi)*math.Sin(delta) + math.Cos(phi)*math.Cos(delta)*math.Sin(ws))
}
