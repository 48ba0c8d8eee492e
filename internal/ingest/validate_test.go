package ingest

import (
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

func TestValidateDaily(t *testing.T) {
	f := func(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }
	date := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		obs  models.DailyObservation
		want []string
	}{
		{
			name: "clean observation",
			obs:  models.DailyObservation{Date: date, RainfallMM: 5, TempMin: f(23), TempMax: f(33), ETOMM: f(4.8)},
			want: nil,
		},
		{
			name: "missing optionals are fine",
			obs:  models.DailyObservation{Date: date},
			want: nil,
		},
		{
			name: "negative rainfall",
			obs:  models.DailyObservation{Date: date, RainfallMM: -1},
			want: []string{FlagRainfallNegative},
		},
		{
			name: "implausible minimum temperature",
			obs:  models.DailyObservation{Date: date, TempMin: f(2), TempMax: f(30)},
			want: []string{FlagTempOutOfRange},
		},
		{
			name: "inverted extremes",
			obs:  models.DailyObservation{Date: date, TempMin: f(30), TempMax: f(25)},
			want: []string{FlagTempInverted},
		},
		{
			name: "negative eto",
			obs:  models.DailyObservation{Date: date, ETOMM: f(-0.5)},
			want: []string{FlagETONegative},
		},
		{
			name: "implausibly high eto",
			obs:  models.DailyObservation{Date: date, ETOMM: f(20)},
			want: []string{FlagETOUnlikely},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateDaily(&tt.obs)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ValidateDaily = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQualityFlagsToJSON(t *testing.T) {
	if got := QualityFlagsToJSON(nil); got != "" {
		t.Errorf("empty flags = %q, want empty string", got)
	}
	got := QualityFlagsToJSON([]string{FlagRainfallNegative, FlagTempInverted})
	want := `["rainfall_negative","temp_inverted"]`
	if got != want {
		t.Errorf("flags JSON = %q, want %q", got, want)
	}
}
