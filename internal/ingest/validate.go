package ingest

import (
	"encoding/json"

	"github.com/adomako/agroseason/internal/models"
)

const (
	FlagRainfallNegative = "rainfall_negative"
	FlagTempOutOfRange   = "temp_out_of_range"
	FlagTempInverted     = "temp_inverted"
	FlagETONegative      = "eto_negative"
	FlagETOUnlikely      = "eto_unlikely"
)

// ValidateDaily flags physically implausible values for Ghana. Flagged
// observations are stored anyway; the flags make suspect inputs
// auditable after the fact.
func ValidateDaily(obs *models.DailyObservation) []string {
	var flags []string

	if obs.RainfallMM < 0 {
		flags = append(flags, FlagRainfallNegative)
	}

	if obs.TempMin.Valid && (obs.TempMin.Float64 < 5 || obs.TempMin.Float64 > 40) {
		flags = append(flags, FlagTempOutOfRange)
	}
	if obs.TempMax.Valid && (obs.TempMax.Float64 < 10 || obs.TempMax.Float64 > 50) {
		flags = append(flags, FlagTempOutOfRange)
	}
	if obs.TempMin.Valid && obs.TempMax.Valid && obs.TempMin.Float64 > obs.TempMax.Float64 {
		flags = append(flags, FlagTempInverted)
	}

	if obs.ETOMM.Valid {
		if obs.ETOMM.Float64 < 0 {
			flags = append(flags, FlagETONegative)
		} else if obs.ETOMM.Float64 > 15 {
			flags = append(flags, FlagETOUnlikely)
		}
	}

	return flags
}

func QualityFlagsToJSON(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	b, _ := json.Marshal(flags)
	return string(b)
}
