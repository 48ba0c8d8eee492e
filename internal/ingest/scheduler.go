package ingest

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/adomako/agroseason/internal/metrics"
	"github.com/adomako/agroseason/internal/models"
	"github.com/adomako/agroseason/internal/store"
)

const (
	// BackfillDays covers a full monitoring season for a location with
	// no stored history.
	BackfillDays = 180

	// RefetchDays re-pulls the most recent archive days on every run,
	// since Open-Meteo revises recent dates as station data settles.
	RefetchDays = 7

	forecastDays = 7
)

// Scheduler keeps each active location's daily series current by
// polling Open-Meteo on a fixed interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	store     *store.Store
	client    *OpenMeteo
	interval  time.Duration
}

func NewScheduler(st *store.Store, client *OpenMeteo, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     st,
		client:    client,
		interval:  interval,
	}
}

// Start schedules the periodic refresh job and runs the scheduler in
// the background.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 60
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		s.RefreshAll(context.Background())
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RefreshAll refreshes every active location concurrently.
func (s *Scheduler) RefreshAll(ctx context.Context) {
	locations, err := s.store.GetActiveLocations()
	if err != nil {
		log.Printf("ingest: list locations: %v", err)
		return
	}
	if len(locations) == 0 {
		log.Printf("ingest: no active locations configured")
		return
	}

	var wg sync.WaitGroup
	for _, loc := range locations {
		loc := loc
		wg.Add(1)
		go func() {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
			defer cancel()

			if err := s.RefreshLocation(ctx, loc); err != nil {
				log.Printf("ingest: refresh %s: %v", loc.Name, err)
			}
		}()
	}
	wg.Wait()
}

// RefreshLocation fetches archive data from the last stored date (or a
// full backfill window) plus the short-range forecast, merges them with
// archive precedence, and upserts the result.
func (s *Scheduler) RefreshLocation(ctx context.Context, loc models.Location) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)

	start := today.AddDate(0, 0, -BackfillDays)
	if latest, ok, err := s.store.LatestObservationDate(loc.ID); err != nil {
		return err
	} else if ok {
		if resume := latest.AddDate(0, 0, -RefetchDays); resume.After(start) {
			start = resume
		}
	}

	archive, err := s.client.FetchArchive(ctx, loc, start, today)
	if err != nil {
		return err
	}
	forecast, err := s.client.FetchForecast(ctx, loc, forecastDays)
	if err != nil {
		// Archive alone still advances the series.
		log.Printf("ingest: forecast for %s: %v", loc.Name, err)
		forecast = nil
	}

	merged := MergeSeries(archive, forecast)
	stored := 0
	for _, obs := range merged {
		flags := ValidateDaily(&obs)
		if err := s.store.UpsertDailyObservation(loc.ID, obs, QualityFlagsToJSON(flags)); err != nil {
			return err
		}
		stored++
	}

	metrics.ObservationsIngested.WithLabelValues(loc.Name).Add(float64(stored))
	log.Printf("ingest: %s: stored %d days (%s..%s)", loc.Name, stored, start.Format("2006-01-02"), today.Format("2006-01-02"))
	return nil
}
