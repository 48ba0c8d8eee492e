package season

import (
	"database/sql"
	"fmt"
	"strings"
)

// StageThreshold is one rung of a crop's development ladder: the crop
// is in this stage until cumulative GDD exceeds the threshold.
type StageThreshold struct {
	Name string
	GDD  float64
}

// Crop holds the static agronomic parameters used for GDD tracking and
// irrigation advice.
type Crop struct {
	Name                   string
	BaseTemp               float64
	UpperThreshold         sql.NullFloat64 // daily GDD cap applies when set
	Stages                 []StageThreshold
	WaterNeeds             string // "low", "medium", "high"
	OptimalSoilMoisturePct float64
}

// TerminalStage is reported once cumulative GDD exceeds the final stage
// threshold.
const TerminalStage = "maturity"

var cropTable = map[string]Crop{
	"maize": {
		Name:           "maize",
		BaseTemp:       10.0,
		UpperThreshold: sql.NullFloat64{Float64: 30.0, Valid: true},
		Stages: []StageThreshold{
			{"germination", 50},
			{"v6_vegetative", 200},
			{"tasseling", 850},
			{"silking", 950},
			{"dough", 1700},
			{"maturity", 2700},
		},
		WaterNeeds:             "medium",
		OptimalSoilMoisturePct: 60,
	},
	"rice": {
		Name:           "rice",
		BaseTemp:       10.0,
		UpperThreshold: sql.NullFloat64{Float64: 35.0, Valid: true},
		Stages: []StageThreshold{
			{"germination", 80},
			{"tillering", 400},
			{"panicle_initiation", 800},
			{"flowering", 1200},
			{"grain_filling", 1800},
			{"maturity", 2500},
		},
		WaterNeeds:             "high",
		OptimalSoilMoisturePct: 80,
	},
	"cassava": {
		Name:     "cassava",
		BaseTemp: 15.0,
		Stages: []StageThreshold{
			{"establishment", 200},
			{"vegetative", 500},
			{"tuber_initiation", 1000},
			{"tuber_bulking", 2000},
			{"maturity", 3000},
		},
		WaterNeeds:             "low",
		OptimalSoilMoisturePct: 45,
	},
	"cocoa": {
		Name:     "cocoa",
		BaseTemp: 18.0,
		Stages: []StageThreshold{
			{"vegetative", 500},
			{"flowering", 1500},
			{"pod_development", 2500},
		},
		WaterNeeds:             "medium",
		OptimalSoilMoisturePct: 55,
	},
	"tomato": {
		Name:     "tomato",
		BaseTemp: 10.0,
		Stages: []StageThreshold{
			{"germination", 50},
			{"vegetative", 300},
			{"flowering", 700},
			{"fruit_set", 900},
			{"maturity", 1400},
		},
		WaterNeeds:             "high",
		OptimalSoilMoisturePct: 65,
	},
	"pepper": {
		Name:     "pepper",
		BaseTemp: 15.0,
		Stages: []StageThreshold{
			{"germination", 60},
			{"vegetative", 350},
			{"flowering", 650},
			{"fruit_development", 900},
			{"maturity", 1300},
		},
		WaterNeeds:             "medium",
		OptimalSoilMoisturePct: 60,
	},
	"yam": {
		Name:     "yam",
		BaseTemp: 15.0,
		Stages: []StageThreshold{
			{"sprouting", 150},
			{"vine_growth", 600},
			{"tuber_initiation", 1200},
			{"tuber_bulking", 2200},
			{"maturity", 3200},
		},
		WaterNeeds:             "medium",
		OptimalSoilMoisturePct: 55,
	},
	"groundnut": {
		Name:     "groundnut",
		BaseTemp: 10.0,
		Stages: []StageThreshold{
			{"germination", 60},
			{"vegetative", 300},
			{"flowering", 550},
			{"pegging", 750},
			{"pod_filling", 1000},
			{"maturity", 1400},
		},
		WaterNeeds:             "medium",
		OptimalSoilMoisturePct: 50,
	},
	"sorghum": {
		Name:     "sorghum",
		BaseTemp: 10.0,
		Stages: []StageThreshold{
			{"germination", 50},
			{"vegetative", 400},
			{"boot", 700},
			{"heading", 900},
			{"grain_filling", 1400},
			{"maturity", 1800},
		},
		WaterNeeds:             "low",
		OptimalSoilMoisturePct: 45,
	},
	"millet": {
		Name:     "millet",
		BaseTemp: 10.0,
		Stages: []StageThreshold{
			{"germination", 40},
			{"vegetative", 350},
			{"heading", 600},
			{"flowering", 750},
			{"maturity", 1200},
		},
		WaterNeeds:             "low",
		OptimalSoilMoisturePct: 40,
	},
}

var cropAliases = map[string]string{
	"corn":       "maize",
	"groundnuts": "groundnut",
	"peanut":     "groundnut",
	"peanuts":    "groundnut",
}

// LookupCrop resolves a crop identifier (case-insensitive, common
// aliases accepted) against the static table.
func LookupCrop(name string) (Crop, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := cropAliases[key]; ok {
		key = canonical
	}
	crop, ok := cropTable[key]
	if !ok {
		return Crop{}, fmt.Errorf("crop %q: %w", name, ErrUnknownCrop)
	}
	return crop, nil
}

// Crops lists the canonical crop identifiers, for help responses.
func Crops() []string {
	names := make([]string, 0, len(cropTable))
	for name := range cropTable {
		names = append(names, name)
	}
	return names
}
