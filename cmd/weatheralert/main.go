package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/lox/weatheralert/internal/alert"
	"github.com/lox/weatheralert/internal/api"
	"github.com/lox/weatheralert/internal/cache"
	"github.com/lox/weatheralert/internal/notify"
	"github.com/lox/weatheralert/internal/stats"
	"github.com/lox/weatheralert/internal/store"
	"github.com/lox/weatheralert/internal/weather"
)

var cli struct {
	DB       string        `help:"Path to the SQLite database." default:"data/weatheralert.db" env:"DB_PATH"`
	Port     string        `help:"HTTP server port." default:"8080" env:"PORT"`
	Location string        `help:"Reference location alerts are evaluated against." default:"Seattle" env:"ALERT_LOCATION"`
	Interval time.Duration `help:"Alert evaluation interval." default:"60s" env:"ALERT_INTERVAL"`
	APIKey   string        `help:"OpenWeather API key." env:"OW_API_KEY"`

	Serve struct{} `cmd:"" default:"withargs" help:"Run the alert scheduler and HTTP server."`
	Tick  struct{} `cmd:"" help:"Run one evaluation pass and exit."`
	Cache struct {
		Size  struct{} `cmd:"" help:"Print the aggregate store size in MB."`
		Clear struct{} `cmd:"" help:"Delete every stored entity."`
	} `cmd:"" help:"Cache administration."`
}

func main() {
	kctx := kong.Parse(&cli,
		kong.Name("weatheralert"),
		kong.Description("Threshold-based weather alerting pipeline."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
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

	switch kctx.Command() {
	case "cache size":
		admin := cache.NewAdmin(st)
		size, err := admin.SizeMB()
		if err != nil {
			log.Fatalf("cache size: %v", err)
		}
		fmt.Printf("%.3f MB\n", size)
		return
	case "cache clear":
		admin := cache.NewAdmin(st)
		if err := admin.Clear(); err != nil {
			log.Fatalf("cache clear: %v", err)
		}
		log.Println("cache cleared")
		return
	}

	if cli.APIKey == "" {
		log.Fatal("OW_API_KEY environment variable required")
	}

	clock := clockwork.NewRealClock()
	source := weather.NewOpenWeatherClient(cli.APIKey)
	resolver := weather.NewResolver(st, source, 30*time.Second)
	hub := notify.NewHub()
	alerts := alert.NewService(st, clock)
	statsSvc := stats.NewService(st, resolver, clock)
	admin := cache.NewAdmin(st)
	scheduler := alert.NewScheduler(st, resolver, hub, clock, cli.Location, cli.Interval)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if kctx.Command() == "tick" {
		log.Println("running single evaluation pass")
		scheduler.Tick(ctx)
		return
	}

	go scheduler.Run(ctx)

	server := api.NewServer(st, alerts, resolver, statsSvc, admin, hub, cli.Location, cli.Port)
	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
