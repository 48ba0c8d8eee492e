package season

import (
	"fmt"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// Query is one engine request, routed by Type. Crop and PlantingDate
// only matter for GDD and crop-advice queries.
type Query struct {
	Type         models.QueryType
	Latitude     float64
	Crop         string
	PlantingDate time.Time
}

// ETODay is one day of the reference-ET answer.
type ETODay struct {
	Date  time.Time
	ETOMM float64
}

// ETOResult answers an ETO query with the per-day values used
// throughout the engine.
type ETOResult struct {
	Days []ETODay
}

// SoilWaterStatus answers a soil query: the simulated balance on the
// last observed day plus the full daily trace.
type SoilWaterStatus struct {
	Date              time.Time
	BalanceMM         float64
	PercentOfCapacity float64
	Trace             []models.SoilWaterDay
}

// QueryResult is a tagged union keyed by Type; exactly the fields for
// the requested type are populated.
type QueryResult struct {
	Type      models.QueryType
	ETO       *ETOResult
	GDD       *models.GDDRecord
	Soil      *SoilWaterStatus
	Onset     *models.OnsetResult
	Cessation *models.CessationResult
	DrySpells []models.DrySpellEvent
	Advice    string
}

// Dispatch routes a query to the matching engine operation over the
// given series. An unrecognized query type is an error; "not detected"
// outcomes are not.
func Dispatch(series models.Series, q Query) (QueryResult, error) {
	if len(series) == 0 {
		return QueryResult{}, fmt.Errorf("query %s: empty series: %w", q.Type, ErrInsufficientData)
	}

	result := QueryResult{Type: q.Type}
	region := ClassifyRegion(q.Latitude)
	asOf, _ := series.End()
	seasonType := SeasonTypeFor(region, asOf)

	switch q.Type {
	case models.QueryETO:
		days := make([]ETODay, len(series))
		for i, obs := range series {
			days[i] = ETODay{Date: obs.Date, ETOMM: DailyETO(obs, q.Latitude)}
		}
		result.ETO = &ETOResult{Days: days}

	case models.QuerySoil:
		status := soilStatus(series, q.Latitude)
		result.Soil = &status

	case models.QueryOnset:
		onset := DetectOnset(series, region, seasonType)
		result.Onset = &onset

	case models.QueryCessation:
		onset := DetectOnset(series, region, seasonType)
		cessation := models.CessationResult{ExpectedRange: ExpectedCessationRange(region, seasonType)}
		if onset.Detected {
			detected, err := DetectCessation(series, onset.Date, q.Latitude)
			if err != nil {
				return QueryResult{}, err
			}
			if detected.Detected {
				cessation = detected
			} else {
				detected.ExpectedRange = cessation.ExpectedRange
				cessation = detected
			}
		}
		result.Cessation = &cessation

	case models.QueryDrySpell:
		onset := DetectOnset(series, region, seasonType)
		if onset.Detected {
			end := asOf
			if cessation, err := DetectCessation(series, onset.Date, q.Latitude); err == nil && cessation.Detected {
				end = cessation.Date
			}
			result.DrySpells = AnalyzeDrySpells(series, onset.Date, end)
		}

	case models.QueryGDD:
		planting := q.PlantingDate
		if planting.IsZero() {
			onset := DetectOnset(series, region, seasonType)
			if !onset.Detected {
				return QueryResult{}, fmt.Errorf("query gdd: no planting date and onset not detected: %w", ErrInsufficientData)
			}
			planting = onset.Date
		}
		gdd, err := AccumulateGDD(series, q.Crop, planting)
		if err != nil {
			return QueryResult{}, err
		}
		result.GDD = &gdd

	case models.QueryCropAdvice:
		report, err := BuildReport(ReportInput{
			Series:       series,
			Latitude:     q.Latitude,
			Crop:         q.Crop,
			PlantingDate: q.PlantingDate,
		})
		if err != nil {
			return QueryResult{}, err
		}
		status := soilStatus(series, q.Latitude)
		irrigation, err := IrrigationAdvice(DailyETO(series[len(series)-1], q.Latitude), status.PercentOfCapacity, q.Crop)
		if err != nil {
			return QueryResult{}, err
		}
		result.Advice = irrigation + " " + FarmingAdvice(report)

	default:
		return QueryResult{}, fmt.Errorf("query: unknown type %q", q.Type)
	}

	return result, nil
}

// soilStatus simulates the water balance across the whole series and
// reports the final day. Unlike the cessation model it runs through
// zero balances, since the reserve refills on later rain.
func soilStatus(series models.Series, latitude float64) SoilWaterStatus {
	balance := SoilWaterCapacityMM
	trace := make([]models.SoilWaterDay, 0, len(series))
	for _, obs := range series {
		balance += obs.RainfallMM - DailyETO(obs, latitude)
		if balance > SoilWaterCapacityMM {
			balance = SoilWaterCapacityMM
		}
		if balance < 0 {
			balance = 0
		}
		trace = append(trace, models.SoilWaterDay{Date: obs.Date, BalanceMM: balance})
	}
	last := trace[len(trace)-1]
	return SoilWaterStatus{
		Date:              last.Date,
		BalanceMM:         last.BalanceMM,
		PercentOfCapacity: last.BalanceMM / SoilWaterCapacityMM * 100,
		Trace:             trace,
	}
}
