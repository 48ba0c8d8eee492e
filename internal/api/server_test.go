package api_test

import (
	"database/sql"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adomako/agroseason/internal/api"
	"github.com/adomako/agroseason/internal/models"
	"github.com/adomako/agroseason/internal/store"

	_ "modernc.org/sqlite"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	s := store.New(db)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}
	return s
}

// seedSeason loads 90 days of Accra observations from March 2026 with a
// qualifying onset burst on March 11-13 and light top-up rain keeping
// the validation window alive. The dry tail drains the soil reserve so
// cessation lands on April 1.
func seedSeason(t *testing.T, s *store.Store) models.Location {
	t.Helper()
	if err := s.UpsertLocation(models.Location{
		Name:      "Accra",
		Latitude:  5.6037,
		Longitude: -0.187,
		Active:    true,
	}); err != nil {
		t.Fatal(err)
	}
	loc, err := s.GetLocationByName("Accra")
	if err != nil || loc == nil {
		t.Fatalf("get seeded location: %v", err)
	}

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	rain := make([]float64, 90)
	rain[10], rain[11], rain[12] = 8, 7, 6
	rain[17], rain[24], rain[31], rain[38] = 2, 2, 2, 2

	for i, mm := range rain {
		obs := models.DailyObservation{
			Date:       start.AddDate(0, 0, i),
			RainfallMM: mm,
			TempMin:    sql.NullFloat64{Float64: 22, Valid: true},
			TempMax:    sql.NullFloat64{Float64: 32, Valid: true},
		}
		if err := s.UpsertDailyObservation(loc.ID, obs, ""); err != nil {
			t.Fatal(err)
		}
	}
	return *loc
}

func TestOnsetEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s)
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/api/onset?location=Accra", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"Detected":true`) {
		t.Errorf("expected detected onset, got %s", body)
	}
	if !strings.Contains(body, "2026-03-11") {
		t.Errorf("expected onset date March 11, got %s", body)
	}
}

func TestQueryEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s)
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/api/query?location=Accra&type=seasonal_cessation", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "2026-04-01") {
		t.Errorf("expected cessation April 1, got %s", w.Body.String())
	}
}

func TestQueryEndpointErrors(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s)
	srv := api.NewServer(s, "8080")

	tests := []struct {
		name string
		url  string
		code int
	}{
		{"missing location", "/api/onset", 400},
		{"unknown location", "/api/onset?location=Atlantis", 404},
		{"missing type", "/api/query?location=Accra", 400},
		{"unknown type", "/api/query?location=Accra&type=weather", 400},
		{"unknown crop", "/api/gdd?location=Accra&crop=wheat", 400},
		{"bad planting date", "/api/gdd?location=Accra&crop=maize&planting=soon", 400},
		{"bad days", "/api/onset?location=Accra&days=zero", 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.url, nil)
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Errorf("GET %s = %d, want %d", tt.url, w.Code, tt.code)
			}
		})
	}
}

func TestQueryEndpointNoObservations(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	if err := s.UpsertLocation(models.Location{Name: "Tamale", Latitude: 9.4, Longitude: -0.84, Active: true}); err != nil {
		t.Fatal(err)
	}
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/api/soil?location=Tamale", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 422 {
		t.Fatalf("expected 422 for empty series, got %d", w.Code)
	}
}

func TestSeasonalEndpointPersistsRun(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s)
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/api/seasonal?location=Accra&crop=maize", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"Summary"`) {
		t.Errorf("expected summary in report, got %s", body)
	}
	if !strings.Contains(body, "Season length: 21 days") {
		t.Errorf("expected 21-day season, got %s", body)
	}

	req = httptest.NewRequest("GET", "/api/seasonal/latest?location=Accra", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected persisted run, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"Summary"`) {
		t.Errorf("expected stored report JSON, got %s", w.Body.String())
	}
}

func TestSeasonalLatestWithoutRuns(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s)
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/api/seasonal/latest?location=Accra", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 404 {
		t.Fatalf("expected 404 before any runs, got %d", w.Code)
	}
}

func TestLocationsEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s)
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/api/locations", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Accra") {
		t.Errorf("expected Accra in locations, got %s", w.Body.String())
	}
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status"`) {
		t.Error("expected status field in JSON response")
	}
}

func TestHealthEndpointStale(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	seedSeason(t, s) // observations end in May 2026, long past stale
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 503 {
		t.Fatalf("expected 503 for stale data, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"degraded"`) {
		t.Errorf("expected degraded status, got %s", w.Body.String())
	}
}

func TestHealthEndpointFresh(t *testing.T) {
	t.Parallel()
	s := setupTestStore(t)
	if err := s.UpsertLocation(models.Location{Name: "Kumasi", Latitude: 6.69, Longitude: -1.62, Active: true}); err != nil {
		t.Fatal(err)
	}
	loc, err := s.GetLocationByName("Kumasi")
	if err != nil || loc == nil {
		t.Fatalf("get seeded location: %v", err)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if err := s.UpsertDailyObservation(loc.ID, models.DailyObservation{Date: today, RainfallMM: 3}, ""); err != nil {
		t.Fatal(err)
	}
	srv := api.NewServer(s, "8080")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200 with fresh data, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("expected ok status, got %s", w.Body.String())
	}
}
