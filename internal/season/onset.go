package season

import (
	"github.com/adomako/agroseason/internal/models"
)

// DryDayThresholdMM defines a dry day: rainfall strictly below 1 mm.
const DryDayThresholdMM = 1.0

// DetectOnset scans the series for the first rainy-season onset under
// the GMet rule: a run of AccumulationDays (3) consecutive days inside
// the monitoring window totalling at least MinRainfallMM (20 mm),
// followed by no dry run longer than MaxDrySpellDays within the
// ValidationPeriodDays (30) counted from the run's first day. Ties go
// to the earliest date. A candidate whose validation period extends
// past the end of the series never qualifies, so onset is not declared
// on unvalidatable data. Not detected is a normal outcome.
func DetectOnset(series models.Series, region models.Region, season models.SeasonType) models.OnsetResult {
	crit := CriteriaFor(region, season)
	window := MonitoringWindow(region, season)

	for i := 0; i+crit.ValidationPeriodDays <= len(series); i++ {
		if !window.Contains(series[i].Date) {
			continue
		}
		if rainfallSum(series, i, crit.AccumulationDays) < crit.MinRainfallMM {
			continue
		}
		if longestDryRun(series, i, i+crit.ValidationPeriodDays) > crit.MaxDrySpellDays {
			continue
		}
		return models.OnsetResult{
			Detected:         true,
			Date:             series[i].Date,
			WindowStartIndex: i,
		}
	}

	return models.OnsetResult{
		WindowStartIndex: -1,
		ExpectedRange:    ExpectedOnsetRange(region, season),
	}
}

func rainfallSum(series models.Series, start, days int) float64 {
	end := start + days
	if end > len(series) {
		end = len(series)
	}
	var sum float64
	for i := start; i < end; i++ {
		sum += series[i].RainfallMM
	}
	return sum
}

// longestDryRun returns the longest run of consecutive dry days in
// series[start:end).
func longestDryRun(series models.Series, start, end int) int {
	if end > len(series) {
		end = len(series)
	}
	longest, current := 0, 0
	for i := start; i < end; i++ {
		if series[i].RainfallMM < DryDayThresholdMM {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}
