package season

import (
	"fmt"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// AccumulateGDD sums growing-degree-days for a crop from its planting
// date through the end of the series and derives the current growth
// stage. Daily GDD is max(0, (Tmax+Tmin)/2 − base), capped at
// (upper − base) when the crop defines an upper threshold, so the
// cumulative value never decreases.
//
// The current stage is the first stage whose threshold the cumulative
// value has not yet exceeded; past the final threshold the crop is
// reported as mature. Missing temperatures on any day in range yield
// ErrInsufficientData; an unrecognized crop yields ErrUnknownCrop.
func AccumulateGDD(series models.Series, cropName string, plantingDate time.Time) (models.GDDRecord, error) {
	crop, err := LookupCrop(cropName)
	if err != nil {
		return models.GDDRecord{}, err
	}

	start := series.IndexOf(plantingDate)
	if start < 0 {
		return models.GDDRecord{}, fmt.Errorf("gdd: series does not cover planting date %s: %w",
			plantingDate.Format("2006-01-02"), ErrInsufficientData)
	}

	var total float64
	for i := start; i < len(series); i++ {
		obs := series[i]
		if !obs.TempMin.Valid || !obs.TempMax.Valid {
			return models.GDDRecord{}, fmt.Errorf("gdd: missing temperature on %s: %w",
				obs.Date.Format("2006-01-02"), ErrInsufficientData)
		}
		total += dailyGDD(obs.TempMax.Float64, obs.TempMin.Float64, crop)
	}

	return buildGDDRecord(crop, total), nil
}

func dailyGDD(tmax, tmin float64, crop Crop) float64 {
	gdd := (tmax+tmin)/2 - crop.BaseTemp
	if gdd < 0 {
		return 0
	}
	if crop.UpperThreshold.Valid {
		if cap := crop.UpperThreshold.Float64 - crop.BaseTemp; gdd > cap {
			gdd = cap
		}
	}
	return gdd
}

func buildGDDRecord(crop Crop, total float64) models.GDDRecord {
	rec := models.GDDRecord{
		Crop:            crop.Name,
		BaseTemperature: crop.BaseTemp,
		UpperThreshold:  crop.UpperThreshold,
		CumulativeGDD:   total,
		Stage:           TerminalStage,
		Stages:          make([]models.GDDStage, 0, len(crop.Stages)),
	}

	currentIdx := -1
	for i, st := range crop.Stages {
		rec.Stages = append(rec.Stages, models.GDDStage{
			Name:         st.Name,
			ThresholdGDD: st.GDD,
			Reached:      total >= st.GDD,
		})
		if currentIdx < 0 && total <= st.GDD {
			currentIdx = i
		}
	}

	if currentIdx >= 0 {
		current := crop.Stages[currentIdx]
		rec.Stage = current.Name
		rec.GDDToNext = current.GDD - total
		if currentIdx+1 < len(crop.Stages) {
			rec.NextStage = crop.Stages[currentIdx+1].Name
		}
	}
	return rec
}
