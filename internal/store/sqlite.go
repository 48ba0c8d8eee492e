package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adomako/agroseason/internal/models"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const dateLayout = "2006-01-02"

func (s *Store) UpsertLocation(loc models.Location) error {
	_, err := s.db.Exec(`
		INSERT INTO locations (name, latitude, longitude, active)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			active = excluded.active
	`, loc.Name, loc.Latitude, loc.Longitude, loc.Active)
	return err
}

func (s *Store) GetActiveLocations() ([]models.Location, error) {
	rows, err := s.db.Query(`SELECT id, name, latitude, longitude, active FROM locations WHERE active = TRUE ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []models.Location
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Active); err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}
	return locations, rows.Err()
}

func (s *Store) GetLocationByName(name string) (*models.Location, error) {
	row := s.db.QueryRow(`SELECT id, name, latitude, longitude, active FROM locations WHERE name = ?`, name)
	var loc models.Location
	err := row.Scan(&loc.ID, &loc.Name, &loc.Latitude, &loc.Longitude, &loc.Active)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func (s *Store) UpsertDailyObservation(locationID int64, obs models.DailyObservation, qualityFlags string) error {
	flags := sql.NullString{String: qualityFlags, Valid: qualityFlags != ""}
	_, err := s.db.Exec(`
		INSERT INTO daily_observations (location_id, date, rainfall_mm, temp_min, temp_max, eto_mm, quality_flags)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(location_id, date) DO UPDATE SET
			rainfall_mm = excluded.rainfall_mm,
			temp_min = excluded.temp_min,
			temp_max = excluded.temp_max,
			eto_mm = excluded.eto_mm,
			quality_flags = excluded.quality_flags
	`, locationID, obs.Date.Format(dateLayout), obs.RainfallMM, obs.TempMin, obs.TempMax, obs.ETOMM, flags)
	return err
}

func (s *Store) GetObservationRange(locationID int64, start, end time.Time) (models.Series, error) {
	rows, err := s.db.Query(`
		SELECT date, rainfall_mm, temp_min, temp_max, eto_mm
		FROM daily_observations
		WHERE location_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, locationID, start.Format(dateLayout), end.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var series models.Series
	for rows.Next() {
		var dateStr string
		var obs models.DailyObservation
		if err := rows.Scan(&dateStr, &obs.RainfallMM, &obs.TempMin, &obs.TempMax, &obs.ETOMM); err != nil {
			return nil, err
		}
		obs.Date, err = time.ParseInLocation(dateLayout, dateStr, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("parse observation date %q: %w", dateStr, err)
		}
		series = append(series, obs)
	}
	return series, rows.Err()
}

// LatestObservationDate returns the most recent stored date for a
// location, ok=false when nothing has been ingested yet.
func (s *Store) LatestObservationDate(locationID int64) (time.Time, bool, error) {
	var dateStr sql.NullString
	err := s.db.QueryRow(`SELECT MAX(date) FROM daily_observations WHERE location_id = ?`, locationID).Scan(&dateStr)
	if err != nil {
		return time.Time{}, false, err
	}
	if !dateStr.Valid {
		return time.Time{}, false, nil
	}
	date, err := time.ParseInLocation(dateLayout, dateStr.String, time.UTC)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse latest observation date %q: %w", dateStr.String, err)
	}
	return date, true, nil
}

// SeasonalRun is one archived engine run for a location. The report is
// kept as JSON so past answers stay reproducible after rule changes.
type SeasonalRun struct {
	ID         int64
	LocationID int64
	AsOf       time.Time
	ReportJSON string
	CreatedAt  time.Time
}

func (s *Store) InsertSeasonalRun(locationID int64, asOf time.Time, reportJSON string) error {
	_, err := s.db.Exec(`
		INSERT INTO seasonal_runs (location_id, as_of, report_json)
		VALUES (?, ?, ?)
	`, locationID, asOf.Format(dateLayout), reportJSON)
	return err
}

func (s *Store) GetLatestSeasonalRun(locationID int64) (*SeasonalRun, error) {
	row := s.db.QueryRow(`
		SELECT id, location_id, as_of, report_json, created_at
		FROM seasonal_runs
		WHERE location_id = ?
		ORDER BY as_of DESC, id DESC
		LIMIT 1
	`, locationID)

	var run SeasonalRun
	var asOfStr string
	err := row.Scan(&run.ID, &run.LocationID, &asOfStr, &run.ReportJSON, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	run.AsOf, err = time.ParseInLocation(dateLayout, asOfStr, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse seasonal run date %q: %w", asOfStr, err)
	}
	return &run, nil
}
