package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/adomako/agroseason/internal/models"
)

type Config struct {
	// DBPath is the sqlite database file.
	DBPath string

	Port int

	// FetchInterval controls how often Open-Meteo is polled per
	// location.
	FetchInterval time.Duration

	// Locations to monitor, parsed from AGROSEASON_LOCATIONS as a
	// comma-separated list of Name:lat:lon entries.
	Locations []models.Location

	OpenMeteoArchiveURL  string
	OpenMeteoForecastURL string
}

// Load reads configuration from the environment with defaults; a .env
// file is honoured when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("config: no .env file loaded: %v", err)
	}

	cfg := &Config{
		DBPath:               getenvDefault("AGROSEASON_DB", "agroseason.db"),
		Port:                 getenvInt("PORT", 8080),
		OpenMeteoArchiveURL:  os.Getenv("OPEN_METEO_ARCHIVE_URL"),
		OpenMeteoForecastURL: os.Getenv("OPEN_METEO_FORECAST_URL"),
	}

	intervalStr := getenvDefault("FETCH_INTERVAL", "6h")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	locations, err := ParseLocations(getenvDefault("AGROSEASON_LOCATIONS", "Accra:5.6037:-0.1870,Kumasi:6.6885:-1.6244,Tamale:9.4008:-0.8393"))
	if err != nil {
		return nil, err
	}
	cfg.Locations = locations

	return cfg, nil
}

// ParseLocations parses a comma-separated Name:lat:lon list.
func ParseLocations(raw string) ([]models.Location, error) {
	var locations []models.Location
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("invalid location %q, want Name:lat:lon", entry)
		}
		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid latitude in %q: %w", entry, err)
		}
		lon, err := strconv.ParseFloat(parts[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid longitude in %q: %w", entry, err)
		}
		locations = append(locations, models.Location{
			Name:      parts[0],
			Latitude:  lat,
			Longitude: lon,
			Active:    true,
		})
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations configured")
	}
	return locations, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
