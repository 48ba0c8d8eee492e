package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os/signal"
	"strconv"
	"syscall"

	_ "modernc.org/sqlite"

	"github.com/adomako/agroseason/internal/api"
	"github.com/adomako/agroseason/internal/config"
	"github.com/adomako/agroseason/internal/ingest"
	"github.com/adomako/agroseason/internal/store"
)

func main() {
	dbPath := flag.String("db", "", "path to SQLite database (overrides AGROSEASON_DB)")
	port := flag.String("port", "", "HTTP server port (overrides PORT)")
	noPoll := flag.Bool("no-poll", false, "disable polling (server only, for local dev)")
	once := flag.Bool("once", false, "ingest once and exit (for testing)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dbPath == "" {
		*dbPath = cfg.DBPath
	}
	if *port == "" {
		*port = strconv.Itoa(cfg.Port)
	}

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	for _, loc := range cfg.Locations {
		if err := st.UpsertLocation(loc); err != nil {
			log.Fatalf("upsert location %s: %v", loc.Name, err)
		}
	}
	log.Printf("%d locations seeded", len(cfg.Locations))

	client := ingest.NewOpenMeteo(cfg.OpenMeteoArchiveURL, cfg.OpenMeteoForecastURL)
	scheduler := ingest.NewScheduler(st, client, cfg.FetchInterval)
	server := api.NewServer(st, *port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *once {
		log.Println("running single ingestion")
		scheduler.RefreshAll(ctx)
		log.Println("done")
		return
	}

	if !*noPoll {
		if err := scheduler.Start(); err != nil {
			log.Fatalf("scheduler: %v", err)
		}
		defer scheduler.Stop()
	} else {
		log.Println("polling disabled (--no-poll)")
	}

	log.Printf("starting server on :%s", *port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
