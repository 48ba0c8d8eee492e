package season

import (
	"testing"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

// marchSeries builds a 40-day series from March 1 with the given burst
// on days 0-2 and 5 mm maintenance rain every seventh day after, so a
// qualifying burst always survives the 30-day validation.
func marchSeries(burst [3]float64) models.Series {
	rain := make([]float64, 40)
	rain[0], rain[1], rain[2] = burst[0], burst[1], burst[2]
	for i := 7; i < len(rain); i += 7 {
		rain[i] = 5
	}
	return rainSeries(date(2026, time.March, 1), rain)
}

func TestDetectOnset(t *testing.T) {
	t.Run("exactly 20mm over 3 days qualifies", func(t *testing.T) {
		series := marchSeries([3]float64{10, 5, 5})
		got := DetectOnset(series, models.RegionSouthern, models.SeasonMajor)
		if !got.Detected {
			t.Fatal("onset not detected")
		}
		if !got.Date.Equal(date(2026, time.March, 1)) {
			t.Errorf("onset date = %v, want March 1", got.Date)
		}
		if got.WindowStartIndex != 0 {
			t.Errorf("WindowStartIndex = %d, want 0", got.WindowStartIndex)
		}
	})

	t.Run("19.99mm does not qualify", func(t *testing.T) {
		series := marchSeries([3]float64{10, 5, 4.99})
		got := DetectOnset(series, models.RegionSouthern, models.SeasonMajor)
		if got.Detected {
			t.Fatalf("onset detected at %v on insufficient accumulation", got.Date)
		}
		if got.WindowStartIndex != -1 {
			t.Errorf("WindowStartIndex = %d, want -1", got.WindowStartIndex)
		}
		if got.ExpectedRange == "" {
			t.Error("ExpectedRange should be set when not detected")
		}
	})

	t.Run("long dry spell in validation period vetoes", func(t *testing.T) {
		// Qualifying burst followed by 30 bone-dry days.
		rain := make([]float64, 40)
		rain[0], rain[1], rain[2] = 15, 10, 5
		series := rainSeries(date(2026, time.March, 1), rain)
		got := DetectOnset(series, models.RegionSouthern, models.SeasonMajor)
		if got.Detected {
			t.Fatalf("onset detected at %v despite failed validation", got.Date)
		}
	})

	t.Run("earliest qualifying date wins", func(t *testing.T) {
		rain := make([]float64, 60)
		rain[0], rain[1], rain[2] = 10, 5, 5
		rain[10], rain[11], rain[12] = 15, 10, 5
		for i := 7; i < len(rain); i += 7 {
			if rain[i] == 0 {
				rain[i] = 5
			}
		}
		series := rainSeries(date(2026, time.March, 1), rain)
		got := DetectOnset(series, models.RegionSouthern, models.SeasonMajor)
		if !got.Detected {
			t.Fatal("onset not detected")
		}
		if !got.Date.Equal(date(2026, time.March, 1)) {
			t.Errorf("onset date = %v, want the earlier March 1", got.Date)
		}
	})

	t.Run("burst outside monitoring window is ignored", func(t *testing.T) {
		series := marchSeries([3]float64{10, 5, 5})
		for i := range series {
			series[i].Date = date(2026, time.January, 5).AddDate(0, 0, i)
		}
		got := DetectOnset(series, models.RegionSouthern, models.SeasonMajor)
		if got.Detected {
			t.Fatalf("onset detected at %v outside monitoring window", got.Date)
		}
	})

	t.Run("validation period must fit within series", func(t *testing.T) {
		series := marchSeries([3]float64{10, 5, 5})[:20]
		got := DetectOnset(series, models.RegionSouthern, models.SeasonMajor)
		if got.Detected {
			t.Fatalf("onset detected at %v on unvalidatable data", got.Date)
		}
	})

	t.Run("minor season tolerates a longer dry spell", func(t *testing.T) {
		// Burst then a 12-day dry run: fails major criteria (max 10)
		// but passes minor (max 15).
		rain := make([]float64, 40)
		rain[0], rain[1], rain[2] = 10, 5, 5
		rain[15], rain[22], rain[29] = 5, 5, 5
		series := rainSeries(date(2026, time.September, 1), rain)

		got := DetectOnset(series, models.RegionSouthern, models.SeasonMinor)
		if !got.Detected {
			t.Fatal("minor-season onset not detected")
		}
		if !got.Date.Equal(date(2026, time.September, 1)) {
			t.Errorf("onset date = %v, want September 1", got.Date)
		}
	})
}
