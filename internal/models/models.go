package models

import (
	"database/sql"
	"time"
)

// Region is the Ghana rainfall region a latitude falls in.
type Region string

const (
	RegionSouthern Region = "southern" // below 8.0°N, bimodal rainfall
	RegionNorthern Region = "northern" // 8.0°N and above, unimodal rainfall
)

// SeasonType distinguishes the southern major/minor seasons from the
// single northern season.
type SeasonType string

const (
	SeasonMajor  SeasonType = "major"
	SeasonMinor  SeasonType = "minor"
	SeasonSingle SeasonType = "single"
)

// QueryType enumerates the engine-backed query types. The intent
// classifier upstream maps free text onto these; everything else
// (weather, forecast, help, greeting) is handled outside this core.
type QueryType string

const (
	QueryETO        QueryType = "eto"
	QueryGDD        QueryType = "gdd"
	QuerySoil       QueryType = "soil"
	QueryOnset      QueryType = "seasonal_onset"
	QueryCessation  QueryType = "seasonal_cessation"
	QueryDrySpell   QueryType = "dry_spell"
	QueryCropAdvice QueryType = "crop_advice"
)

// Location is a monitored place whose daily series is kept in the store.
type Location struct {
	ID        int64
	Name      string
	Latitude  float64
	Longitude float64
	Active    bool
}

// DailyObservation is one day of agrometeorological data. Rainfall is
// always present (0 for a rain-free day); temperatures and reference
// evapotranspiration may be missing depending on the source.
type DailyObservation struct {
	Date       time.Time
	RainfallMM float64
	TempMin    sql.NullFloat64
	TempMax    sql.NullFloat64
	ETOMM      sql.NullFloat64
}

// OnsetResult reports rainy-season onset detection. Detected=false is a
// normal outcome, not an error; ExpectedRange carries the climatological
// onset window for the region/season so callers can still say something
// useful.
type OnsetResult struct {
	Detected         bool
	Date             time.Time
	WindowStartIndex int
	ExpectedRange    string
}

// SoilWaterDay is one step of the cessation soil-water simulation.
type SoilWaterDay struct {
	Date      time.Time
	BalanceMM float64
}

// CessationResult reports season cessation from the soil-water balance
// model. The full daily trace is retained for dry-spell bounds and
// auditability.
type CessationResult struct {
	Detected      bool
	Date          time.Time
	Trace         []SoilWaterDay
	ExpectedRange string
}

// DrySpellPeriod tags which part of the season a dry spell fell in.
type DrySpellPeriod string

const (
	DrySpellEarly DrySpellPeriod = "early" // onset through onset+50 days
	DrySpellLate  DrySpellPeriod = "late"  // onset+51 through cessation
)

// DrySpellEvent is a maximal run of dry days longer than the reporting
// cutoff. DurationDays is always > 10.
type DrySpellEvent struct {
	StartDate    time.Time
	EndDate      time.Time
	DurationDays int
	Period       DrySpellPeriod
}

// GDDStage is one row of a crop's development ladder.
type GDDStage struct {
	Name         string
	ThresholdGDD float64
	Reached      bool
}

// GDDRecord is the accumulated growing-degree-day state for a crop from
// its planting date.
type GDDRecord struct {
	Crop            string
	BaseTemperature float64
	UpperThreshold  sql.NullFloat64
	CumulativeGDD   float64
	Stage           string
	NextStage       string
	GDDToNext       float64
	Stages          []GDDStage
}

// SeasonalReport aggregates everything computed for one request. It is
// derived purely from its inputs and never mutated after construction.
type SeasonalReport struct {
	Latitude          float64
	Region            Region
	SeasonType        SeasonType
	Onset             OnsetResult
	Cessation         CessationResult
	DrySpells         []DrySpellEvent
	SeasonLengthDays  int
	SeasonLengthKnown bool
	GDD               *GDDRecord
	Summary           string
}
