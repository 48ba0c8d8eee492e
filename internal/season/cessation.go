package season

import (
	"fmt"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// SoilWaterCapacityMM is the reserve the balance model starts from at
// onset and can never exceed.
const SoilWaterCapacityMM = 70.0

// DetectCessation runs the soil-water-balance cessation model from the
// onset date. The reserve starts full (70 mm); each following day rain
// is credited and reference ET debited in the same step, then the
// balance is clamped to [0, capacity]. Cessation is the first day the
// post-clamp balance hits zero. The daily trace up to that day (or the
// end of the series when no zero occurs) is retained.
//
// The series must cover the onset date and extend at least one day past
// it, otherwise ErrInsufficientData is returned.
func DetectCessation(series models.Series, onsetDate time.Time, latitude float64) (models.CessationResult, error) {
	idx := series.IndexOf(onsetDate)
	if idx < 0 {
		return models.CessationResult{}, fmt.Errorf("cessation: series does not cover onset %s: %w",
			onsetDate.Format("2006-01-02"), ErrInsufficientData)
	}
	if idx+1 >= len(series) {
		return models.CessationResult{}, fmt.Errorf("cessation: series ends at onset %s: %w",
			onsetDate.Format("2006-01-02"), ErrInsufficientData)
	}

	trace, zeroIdx := simulateSoilWater(series, idx+1, latitude)
	result := models.CessationResult{Trace: trace}
	if zeroIdx >= 0 {
		result.Detected = true
		result.Date = trace[zeroIdx].Date
	}
	return result, nil
}

// simulateSoilWater runs the daily balance from series[from:] starting
// at full capacity. It returns the trace and the index within the trace
// of the first zero balance (-1 when the reserve never empties); the
// trace stops at the first zero.
func simulateSoilWater(series models.Series, from int, latitude float64) ([]models.SoilWaterDay, int) {
	balance := SoilWaterCapacityMM
	trace := make([]models.SoilWaterDay, 0, len(series)-from)

	for i := from; i < len(series); i++ {
		obs := series[i]
		balance += obs.RainfallMM - DailyETO(obs, latitude)
		if balance > SoilWaterCapacityMM {
			balance = SoilWaterCapacityMM
		}
		if balance < 0 {
			balance = 0
		}
		trace = append(trace, models.SoilWaterDay{Date: obs.Date, BalanceMM: balance})
		if balance == 0 {
			return trace, len(trace) - 1
		}
	}
	return trace, -1
}
