package ingest

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/adomako/agroseason/internal/metrics"
	"github.com/adomako/agroseason/internal/models"
)

const (
	DefaultArchiveURL  = "https://archive-api.open-meteo.com/v1/archive"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	openMeteoTimeout  = 30 * time.Second
	openMeteoTimezone = "Africa/Accra"
	openMeteoDaily    = "precipitation_sum,temperature_2m_max,temperature_2m_min,et0_fao_evapotranspiration"
)

// OpenMeteo fetches daily agrometeorological data from the Open-Meteo
// archive and forecast APIs. Calls retry with exponential backoff and
// trip a shared circuit breaker on sustained failure.
type OpenMeteo struct {
	archiveURL  string
	forecastURL string
	client      *http.Client
	circuit     *gobreaker.CircuitBreaker
}

func NewOpenMeteo(archiveURL, forecastURL string) *OpenMeteo {
	if archiveURL == "" {
		archiveURL = DefaultArchiveURL
	}
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &OpenMeteo{
		archiveURL:  archiveURL,
		forecastURL: forecastURL,
		client:      &http.Client{Timeout: openMeteoTimeout},
		circuit:     cb,
	}
}

type dailyResponse struct {
	Daily struct {
		Time             []string   `json:"time"`
		PrecipitationSum []*float64 `json:"precipitation_sum"`
		TempMax          []*float64 `json:"temperature_2m_max"`
		TempMin          []*float64 `json:"temperature_2m_min"`
		ETO              []*float64 `json:"et0_fao_evapotranspiration"`
	} `json:"daily"`
}

// FetchArchive returns observed daily data for [start, end].
func (o *OpenMeteo) FetchArchive(ctx context.Context, loc models.Location, start, end time.Time) (models.Series, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	values.Set("start_date", start.Format("2006-01-02"))
	values.Set("end_date", end.Format("2006-01-02"))
	values.Set("daily", openMeteoDaily)
	values.Set("timezone", openMeteoTimezone)

	return o.fetchDaily(ctx, "archive", o.archiveURL, values)
}

// FetchForecast returns forecast daily data for the coming days.
func (o *OpenMeteo) FetchForecast(ctx context.Context, loc models.Location, days int) (models.Series, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%.4f", loc.Latitude))
	values.Set("longitude", fmt.Sprintf("%.4f", loc.Longitude))
	values.Set("forecast_days", fmt.Sprintf("%d", days))
	values.Set("daily", openMeteoDaily)
	values.Set("timezone", openMeteoTimezone)

	return o.fetchDaily(ctx, "forecast", o.forecastURL, values)
}

func (o *OpenMeteo) fetchDaily(ctx context.Context, endpoint, baseURL string, values url.Values) (models.Series, error) {
	fullURL := fmt.Sprintf("%s?%s", baseURL, values.Encode())

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		start := time.Now()
		result, err := o.circuit.Execute(func() (interface{}, error) {
			resp, err := o.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return nil, fmt.Errorf("fetch %s: status %d", endpoint, resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return nil, backoff.Permanent(fmt.Errorf("fetch %s: status %d: %s", endpoint, resp.StatusCode, string(b)))
			}
			return io.ReadAll(resp.Body)
		})
		metrics.OpenMeteoAPILatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.OpenMeteoAPICalls.WithLabelValues(endpoint, "error").Inc()
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return backoff.Permanent(fmt.Errorf("fetch %s: circuit open: %w", endpoint, err))
			}
			return err
		}
		metrics.OpenMeteoAPICalls.WithLabelValues(endpoint, "ok").Inc()
		body = result.([]byte)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}

	var data dailyResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", endpoint, err)
	}
	return parseDaily(data)
}

func parseDaily(data dailyResponse) (models.Series, error) {
	d := data.Daily
	series := make(models.Series, 0, len(d.Time))
	for i, dateStr := range d.Time {
		date, err := time.ParseInLocation("2006-01-02", dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", dateStr, err)
		}
		obs := models.DailyObservation{Date: date}
		if v := at(d.PrecipitationSum, i); v != nil {
			obs.RainfallMM = *v
		}
		if v := at(d.TempMax, i); v != nil {
			obs.TempMax = sql.NullFloat64{Float64: *v, Valid: true}
		}
		if v := at(d.TempMin, i); v != nil {
			obs.TempMin = sql.NullFloat64{Float64: *v, Valid: true}
		}
		if v := at(d.ETO, i); v != nil {
			obs.ETOMM = sql.NullFloat64{Float64: *v, Valid: true}
		}
		series = append(series, obs)
	}
	return series, nil
}

func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// MergeSeries combines archive and forecast data into one chronological
// series. On overlapping dates the archive value wins; forecast rows
// for days the archive already covers are discarded.
func MergeSeries(archive, forecast models.Series) models.Series {
	byDate := make(map[string]models.DailyObservation, len(archive)+len(forecast))
	for _, obs := range forecast {
		byDate[obs.Date.Format("2006-01-02")] = obs
	}
	for _, obs := range archive {
		byDate[obs.Date.Format("2006-01-02")] = obs
	}

	merged := make(models.Series, 0, len(byDate))
	for _, obs := range byDate {
		merged = append(merged, obs)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Date.Before(merged[j].Date) })
	return merged
}
