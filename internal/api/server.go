package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adomako/agroseason/internal/metrics"
	"github.com/adomako/agroseason/internal/models"
	"github.com/adomako/agroseason/internal/season"
	"github.com/adomako/agroseason/internal/store"
)

// DefaultHistoryDays bounds how much of a location's series a query
// loads. A year covers both southern seasons plus the forecast tail.
const DefaultHistoryDays = 365

type Server struct {
	store *store.Store
	port  string
}

func NewServer(store *store.Store, port string) *Server {
	return &Server{store: store, port: port}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/query", s.handleQuery)
	mux.HandleFunc("/api/onset", s.handleTyped(models.QueryOnset))
	mux.HandleFunc("/api/cessation", s.handleTyped(models.QueryCessation))
	mux.HandleFunc("/api/dryspell", s.handleTyped(models.QueryDrySpell))
	mux.HandleFunc("/api/eto", s.handleTyped(models.QueryETO))
	mux.HandleFunc("/api/soil", s.handleTyped(models.QuerySoil))
	mux.HandleFunc("/api/gdd", s.handleTyped(models.QueryGDD))
	mux.HandleFunc("/api/advice", s.handleTyped(models.QueryCropAdvice))
	mux.HandleFunc("/api/seasonal", s.handleSeasonal)
	mux.HandleFunc("/api/seasonal/latest", s.handleSeasonalLatest)
	mux.HandleFunc("/api/locations", s.handleLocations)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// loadSeries resolves the location named in the request and loads its
// recent observation series. A nil location or empty series is reported
// to the client directly; the bool result says whether to continue.
func (s *Server) loadSeries(w http.ResponseWriter, r *http.Request) (models.Location, models.Series, bool) {
	name := r.URL.Query().Get("location")
	if name == "" {
		http.Error(w, "missing location parameter", http.StatusBadRequest)
		return models.Location{}, nil, false
	}

	loc, err := s.store.GetLocationByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return models.Location{}, nil, false
	}
	if loc == nil {
		http.Error(w, "unknown location "+name, http.StatusNotFound)
		return models.Location{}, nil, false
	}

	latest, ok, err := s.store.LatestObservationDate(loc.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return models.Location{}, nil, false
	}
	if !ok {
		http.Error(w, "no observations for "+name, http.StatusUnprocessableEntity)
		return models.Location{}, nil, false
	}

	days := DefaultHistoryDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			http.Error(w, "invalid days parameter", http.StatusBadRequest)
			return models.Location{}, nil, false
		}
		days = n
	}

	series, err := s.store.GetObservationRange(loc.ID, latest.AddDate(0, 0, -(days-1)), latest)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return models.Location{}, nil, false
	}
	return *loc, series, true
}

func parsePlantingDate(r *http.Request) (time.Time, error) {
	v := r.URL.Query().Get("planting")
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", v)
}

// writeQueryError maps engine errors onto status codes. Insufficient
// data is the caller asking too early, not a server fault.
func writeQueryError(w http.ResponseWriter, qt models.QueryType, err error) {
	metrics.QueriesTotal.WithLabelValues(string(qt), "error").Inc()
	switch {
	case errors.Is(err, season.ErrInsufficientData):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, season.ErrUnknownCrop):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusBadRequest)
	}
}

func (s *Server) runQuery(w http.ResponseWriter, r *http.Request, qt models.QueryType) {
	loc, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}

	planting, err := parsePlantingDate(r)
	if err != nil {
		http.Error(w, "invalid planting date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	result, err := season.Dispatch(series, season.Query{
		Type:         qt,
		Latitude:     loc.Latitude,
		Crop:         r.URL.Query().Get("crop"),
		PlantingDate: planting,
	})
	if err != nil {
		writeQueryError(w, qt, err)
		return
	}

	metrics.QueriesTotal.WithLabelValues(string(qt), "ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	qt := models.QueryType(r.URL.Query().Get("type"))
	if qt == "" {
		http.Error(w, "missing type parameter", http.StatusBadRequest)
		return
	}
	s.runQuery(w, r, qt)
}

func (s *Server) handleTyped(qt models.QueryType) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.runQuery(w, r, qt)
	}
}

func (s *Server) handleSeasonal(w http.ResponseWriter, r *http.Request) {
	loc, series, ok := s.loadSeries(w, r)
	if !ok {
		return
	}

	planting, err := parsePlantingDate(r)
	if err != nil {
		http.Error(w, "invalid planting date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	report, err := season.BuildReport(season.ReportInput{
		Series:       series,
		Latitude:     loc.Latitude,
		Crop:         r.URL.Query().Get("crop"),
		PlantingDate: planting,
	})
	if err != nil {
		writeQueryError(w, "seasonal_report", err)
		return
	}

	asOf, _ := series.End()
	if payload, err := json.Marshal(report); err == nil {
		if err := s.store.InsertSeasonalRun(loc.ID, asOf, string(payload)); err != nil {
			log.Printf("api: persist seasonal run for %s: %v", loc.Name, err)
		}
	}

	metrics.QueriesTotal.WithLabelValues("seasonal_report", "ok").Inc()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

func (s *Server) handleSeasonalLatest(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("location")
	if name == "" {
		http.Error(w, "missing location parameter", http.StatusBadRequest)
		return
	}
	loc, err := s.store.GetLocationByName(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if loc == nil {
		http.Error(w, "unknown location "+name, http.StatusNotFound)
		return
	}

	run, err := s.store.GetLatestSeasonalRun(loc.ID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "no seasonal runs for "+name, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(run.ReportJSON))
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := s.store.GetActiveLocations()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(locations)
}

type HealthStatus struct {
	Status    string           `json:"status"`
	Locations []LocationHealth `json:"locations"`
	Errors    []string         `json:"errors,omitempty"`
}

type LocationHealth struct {
	Name     string    `json:"name"`
	LastSeen time.Time `json:"last_seen"`
	AgeDays  int       `json:"age_days"`
	Stale    bool      `json:"stale"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	locations, err := s.store.GetActiveLocations()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
		return
	}

	health := HealthStatus{
		Status:    "ok",
		Locations: make([]LocationHealth, 0, len(locations)),
	}

	// Daily data plus a 7-day forecast tail: anything older than two
	// days means ingestion has stalled.
	staleThreshold := 48 * time.Hour
	now := time.Now().UTC()

	for _, loc := range locations {
		latest, ok, err := s.store.LatestObservationDate(loc.ID)
		if err != nil {
			health.Errors = append(health.Errors, loc.Name+": "+err.Error())
			continue
		}

		lh := LocationHealth{Name: loc.Name}
		if ok {
			lh.LastSeen = latest
			lh.AgeDays = int(now.Sub(latest).Hours() / 24)
			lh.Stale = now.Sub(latest) > staleThreshold
		} else {
			lh.Stale = true
			lh.AgeDays = -1
		}

		if lh.Stale {
			health.Status = "degraded"
		}
		health.Locations = append(health.Locations, lh)
	}

	if len(health.Errors) > 0 {
		health.Status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status != "ok" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(health); err != nil {
		log.Printf("health: write response: %v", err)
	}
}
