package season

import (
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// LatitudeThresholdDeg splits Ghana into rainfall regions. The boundary
// itself belongs to the northern (unimodal) region.
const LatitudeThresholdDeg = 8.0

// ClassifyRegion maps a latitude to its Ghana rainfall region. Total
// over all real inputs; extreme latitudes simply fall on one side.
func ClassifyRegion(latitude float64) models.Region {
	if latitude < LatitudeThresholdDeg {
		return models.RegionSouthern
	}
	return models.RegionNorthern
}

// SeasonTypeFor returns which season applies for a region on a given
// date. The north has a single season; in the south, August through
// November is the minor season and the rest of the year the major one.
func SeasonTypeFor(region models.Region, date time.Time) models.SeasonType {
	if region == models.RegionNorthern {
		return models.SeasonSingle
	}
	if m := date.Month(); m >= time.August && m <= time.November {
		return models.SeasonMinor
	}
	return models.SeasonMajor
}

// MonthWindow is an inclusive month range bounding a monitoring period.
type MonthWindow struct {
	Start time.Month
	End   time.Month
}

// Contains reports whether the date's month falls inside the window.
func (w MonthWindow) Contains(date time.Time) bool {
	m := date.Month()
	if w.Start <= w.End {
		return m >= w.Start && m <= w.End
	}
	// Window wrapping the year end (not used by the current tables).
	return m >= w.Start || m <= w.End
}

// OnsetCriteria are the GMet onset rule parameters for one
// region/season combination.
type OnsetCriteria struct {
	MinRainfallMM        float64
	AccumulationDays     int
	MaxDrySpellDays      int
	ValidationPeriodDays int
}

type seasonKey struct {
	Region models.Region
	Season models.SeasonType
}

var monitoringWindows = map[seasonKey]MonthWindow{
	{models.RegionSouthern, models.SeasonMajor}:  {time.March, time.July},
	{models.RegionSouthern, models.SeasonMinor}:  {time.September, time.November},
	{models.RegionNorthern, models.SeasonSingle}: {time.April, time.October},
}

var onsetCriteria = map[seasonKey]OnsetCriteria{
	{models.RegionSouthern, models.SeasonMajor}:  {MinRainfallMM: 20, AccumulationDays: 3, MaxDrySpellDays: 10, ValidationPeriodDays: 30},
	{models.RegionSouthern, models.SeasonMinor}:  {MinRainfallMM: 20, AccumulationDays: 3, MaxDrySpellDays: 15, ValidationPeriodDays: 30},
	{models.RegionNorthern, models.SeasonSingle}: {MinRainfallMM: 20, AccumulationDays: 3, MaxDrySpellDays: 10, ValidationPeriodDays: 30},
}

var expectedOnsetRanges = map[seasonKey]string{
	{models.RegionSouthern, models.SeasonMajor}:  "Mar 1 - Apr 15",
	{models.RegionSouthern, models.SeasonMinor}:  "Sep 1 - Sep 30",
	{models.RegionNorthern, models.SeasonSingle}: "Apr 15 - May 15",
}

var expectedCessationRanges = map[seasonKey]string{
	{models.RegionSouthern, models.SeasonMajor}:  "Jul 15 - Aug 15",
	{models.RegionSouthern, models.SeasonMinor}:  "Nov 15 - Dec 15",
	{models.RegionNorthern, models.SeasonSingle}: "Oct 15 - Nov 15",
}

// MonitoringWindow returns the month range searched for onset.
func MonitoringWindow(region models.Region, season models.SeasonType) MonthWindow {
	if w, ok := monitoringWindows[seasonKey{region, season}]; ok {
		return w
	}
	return monitoringWindows[seasonKey{models.RegionSouthern, models.SeasonMajor}]
}

// CriteriaFor returns the onset rule parameters for a region/season.
func CriteriaFor(region models.Region, season models.SeasonType) OnsetCriteria {
	if c, ok := onsetCriteria[seasonKey{region, season}]; ok {
		return c
	}
	return onsetCriteria[seasonKey{models.RegionSouthern, models.SeasonMajor}]
}

// ExpectedOnsetRange is the climatological onset window, reported when
// detection has not occurred yet.
func ExpectedOnsetRange(region models.Region, season models.SeasonType) string {
	if r, ok := expectedOnsetRanges[seasonKey{region, season}]; ok {
		return r
	}
	return "Mar 1 - Apr 30"
}

// ExpectedCessationRange is the climatological cessation window.
func ExpectedCessationRange(region models.Region, season models.SeasonType) string {
	if r, ok := expectedCessationRanges[seasonKey{region, season}]; ok {
		return r
	}
	return "Oct 15 - Nov 15"
}
