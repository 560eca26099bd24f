package weather

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/store"
)

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return st
}

type countingSource struct {
	mu      sync.Mutex
	report  models.WeatherReport
	err     error
	fetches int
}

func (c *countingSource) Fetch(ctx context.Context, location string, date models.Date) (models.WeatherReport, error) {
	c.mu.Lock()
	c.fetches++
	c.mu.Unlock()

	if c.err != nil {
		return models.WeatherReport{}, c.err
	}
	report := c.report
	report.Location = location
	report.Date = date
	return report, nil
}

func (c *countingSource) fetchCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

func TestResolve_MissFetchesAndPersists(t *testing.T) {
	st := setupTestStore(t)
	source := &countingSource{report: models.WeatherReport{HighTemp: 18, WindDirection: "N"}}
	resolver := NewResolver(st, source, time.Second)

	date := models.NewDate(2024, time.March, 15)
	report, err := resolver.Resolve(context.Background(), "Seattle", date)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if report.HighTemp != 18 {
		t.Errorf("HighTemp = %v, want 18", report.HighTemp)
	}
	if source.fetchCount() != 1 {
		t.Errorf("fetches = %d, want 1", source.fetchCount())
	}

	stored, err := st.GetReport("Seattle", date)
	if err != nil {
		t.Fatalf("GetReport: %v", err)
	}
	if stored == nil {
		t.Fatal("fetched report not persisted")
	}
}

func TestResolve_SecondCallIsCacheHit(t *testing.T) {
	st := setupTestStore(t)
	source := &countingSource{report: models.WeatherReport{HighTemp: 18}}
	resolver := NewResolver(st, source, time.Second)

	date := models.NewDate(2024, time.March, 15)
	first, err := resolver.Resolve(context.Background(), "Seattle", date)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := resolver.Resolve(context.Background(), "Seattle", date)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}

	if first != second {
		t.Errorf("reports differ: %+v vs %+v", first, second)
	}
	if source.fetchCount() != 1 {
		t.Errorf("fetches = %d, want 1 (second call should hit the cache)", source.fetchCount())
	}
}

func TestResolve_PreSeededReportNeverFetches(t *testing.T) {
	st := setupTestStore(t)
	date := models.NewDate(2024, time.March, 15)
	if err := st.PutReport(models.WeatherReport{Location: "Seattle", Date: date, HighTemp: 7}); err != nil {
		t.Fatal(err)
	}

	source := &countingSource{report: models.WeatherReport{HighTemp: 99}}
	resolver := NewResolver(st, source, time.Second)

	report, err := resolver.Resolve(context.Background(), "Seattle", date)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if report.HighTemp != 7 {
		t.Errorf("HighTemp = %v, want cached 7", report.HighTemp)
	}
	if source.fetchCount() != 0 {
		t.Errorf("fetches = %d, want 0", source.fetchCount())
	}
}

func TestResolve_PropagatesUnavailable(t *testing.T) {
	st := setupTestStore(t)
	source := &countingSource{err: fmt.Errorf("%w: connection refused", ErrWeatherUnavailable)}
	resolver := NewResolver(st, source, time.Second)

	_, err := resolver.Resolve(context.Background(), "Seattle", models.NewDate(2024, time.March, 15))
	if !errors.Is(err, ErrWeatherUnavailable) {
		t.Errorf("err = %v, want ErrWeatherUnavailable", err)
	}
}

func TestResolve_WrapsPlainSourceErrors(t *testing.T) {
	st := setupTestStore(t)
	source := &countingSource{err: errors.New("boom")}
	resolver := NewResolver(st, source, time.Second)

	_, err := resolver.Resolve(context.Background(), "Seattle", models.NewDate(2024, time.March, 15))
	if !errors.Is(err, ErrWeatherUnavailable) {
		t.Errorf("err = %v, want ErrWeatherUnavailable", err)
	}
}
