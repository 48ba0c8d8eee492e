package season

import (
	"fmt"
	"strings"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// ReportInput carries everything BuildReport needs. AsOf selects the
// season type for southern locations; it defaults to the last series
// date so identical inputs always produce identical reports.
type ReportInput struct {
	Series       models.Series
	Latitude     float64
	Crop         string    // optional; empty skips GDD tracking
	PlantingDate time.Time // optional; defaults to onset date when detected
	AsOf         time.Time
}

// BuildReport orchestrates the full seasonal diagnosis: region, onset,
// cessation, dry spells, season length and (when a crop is given) GDD
// tracking. When onset is not detected, cessation and dry-spell
// analysis are skipped rather than computed on partial data. The
// output is derived purely from the input.
func BuildReport(in ReportInput) (models.SeasonalReport, error) {
	if len(in.Series) == 0 {
		return models.SeasonalReport{}, fmt.Errorf("report: empty series: %w", ErrInsufficientData)
	}
	if err := in.Series.Validate(); err != nil {
		return models.SeasonalReport{}, fmt.Errorf("report: %w", err)
	}

	asOf := in.AsOf
	if asOf.IsZero() {
		asOf, _ = in.Series.End()
	}

	region := ClassifyRegion(in.Latitude)
	seasonType := SeasonTypeFor(region, asOf)

	report := models.SeasonalReport{
		Latitude:   in.Latitude,
		Region:     region,
		SeasonType: seasonType,
	}

	report.Onset = DetectOnset(in.Series, region, seasonType)

	if report.Onset.Detected {
		cessation, err := DetectCessation(in.Series, report.Onset.Date, in.Latitude)
		if err == nil {
			report.Cessation = cessation
		}

		if report.Cessation.Detected {
			report.DrySpells = AnalyzeDrySpells(in.Series, report.Onset.Date, report.Cessation.Date)
			report.SeasonLengthDays = daysBetween(report.Onset.Date, report.Cessation.Date)
			report.SeasonLengthKnown = true
		} else {
			// No cessation yet: report dry spells observed so far.
			if end, ok := in.Series.End(); ok {
				report.DrySpells = AnalyzeDrySpells(in.Series, report.Onset.Date, end)
			}
		}
	}
	if !report.Cessation.Detected {
		report.Cessation.ExpectedRange = ExpectedCessationRange(region, seasonType)
	}

	if in.Crop != "" {
		planting := in.PlantingDate
		if planting.IsZero() && report.Onset.Detected {
			planting = report.Onset.Date
		}
		if !planting.IsZero() {
			gdd, err := AccumulateGDD(in.Series, in.Crop, planting)
			if err != nil {
				return models.SeasonalReport{}, err
			}
			report.GDD = &gdd
		}
	}

	report.Summary = buildSummary(report)
	return report, nil
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

func buildSummary(r models.SeasonalReport) string {
	regionName := "Southern"
	if r.Region == models.RegionNorthern {
		regionName = "Northern"
	}
	seasonName := map[models.SeasonType]string{
		models.SeasonMajor:  "Major Season",
		models.SeasonMinor:  "Minor Season",
		models.SeasonSingle: "Single Season",
	}[r.SeasonType]

	parts := []string{fmt.Sprintf("%s Ghana - %s", regionName, seasonName)}

	if r.Onset.Detected {
		parts = append(parts, fmt.Sprintf("Onset: %s", r.Onset.Date.Format("January 2")))
	} else {
		parts = append(parts, fmt.Sprintf("Onset: not yet detected (typical: %s)", r.Onset.ExpectedRange))
	}

	if r.Cessation.Detected {
		parts = append(parts, fmt.Sprintf("Cessation: %s", r.Cessation.Date.Format("January 2")))
	} else {
		parts = append(parts, fmt.Sprintf("Cessation: not yet detected (typical: %s)", r.Cessation.ExpectedRange))
	}

	if r.SeasonLengthKnown {
		parts = append(parts, fmt.Sprintf("Season length: %d days", r.SeasonLengthDays))
	}

	return strings.Join(parts, ". ")
}
