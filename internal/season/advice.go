package season

import (
	"fmt"
	"strings"

	"github.com/adomako/agroseason/internal/models"
)

// IrrigationAdvice turns today's reference ET and the simulated soil
// moisture (percent of capacity) into a deterministic recommendation
// for a crop. No free-text generation is involved; the messaging layer
// may localize the string.
func IrrigationAdvice(etoMM, soilMoisturePct float64, cropName string) (string, error) {
	crop, err := LookupCrop(cropName)
	if err != nil {
		return "", err
	}
	optimal := crop.OptimalSoilMoisturePct

	var urgency string
	var amount float64
	switch {
	case soilMoisturePct < optimal*0.5:
		urgency, amount = "urgent", etoMM*1.5
	case soilMoisturePct < optimal*0.75:
		urgency, amount = "recommended", etoMM*1.2
	case soilMoisturePct < optimal:
		urgency, amount = "optional", etoMM
	default:
		return fmt.Sprintf("Soil moisture is good (%.0f%%). No irrigation needed today.", soilMoisturePct), nil
	}

	return fmt.Sprintf("Irrigation %s. Soil moisture: %.0f%% (optimal for %s: %.0f%%). Recommended: %.1fmm based on today's ETO of %.1fmm.",
		urgency, soilMoisturePct, crop.Name, optimal, amount, etoMM), nil
}

// FarmingAdvice summarizes the seasonal report into planting guidance.
func FarmingAdvice(r models.SeasonalReport) string {
	var parts []string

	if r.Onset.Detected {
		parts = append(parts, "Rains have started - ideal time for planting!")
	} else {
		parts = append(parts, "Monitor conditions - season hasn't started yet.")
	}

	for _, spell := range r.DrySpells {
		if spell.Period == models.DrySpellEarly {
			parts = append(parts, fmt.Sprintf("Watch for early dry spells (%d days observed).", spell.DurationDays))
		} else {
			parts = append(parts, "Plan for late-season moisture stress.")
		}
	}

	if r.Region == models.RegionNorthern {
		parts = append(parts, "Single season - plan full crop cycle carefully.")
	} else if r.SeasonType == models.SeasonMinor {
		parts = append(parts, "Minor season - consider quick-maturing varieties.")
	}

	return strings.Join(parts, " ")
}
