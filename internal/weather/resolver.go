package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lox/weatheralert/internal/metrics"
	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/store"
)

// Resolver is a read-through cache: reports come from the store when
// present, otherwise from the upstream source, and successful fetches are
// persisted before returning. There is no eviction and no TTL — a calendar
// day's report is trusted indefinitely once written.
//
// Concurrent resolves for the same never-cached key may each fetch
// independently; duplicate fetches are an accepted inefficiency, not
// coalesced.
type Resolver struct {
	store   *store.Store
	source  Source
	timeout time.Duration
}

func NewResolver(st *store.Store, source Source, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Resolver{store: st, source: source, timeout: timeout}
}

// Resolve returns the report for (location, date). Fetch failures and
// timeouts surface as ErrWeatherUnavailable; a failed durable write of a
// fetched report is fatal to the call.
func (r *Resolver) Resolve(ctx context.Context, location string, date models.Date) (models.WeatherReport, error) {
	cached, err := r.store.GetReport(location, date)
	if err != nil {
		return models.WeatherReport{}, err
	}
	if cached != nil {
		metrics.ReportCacheHits.Inc()
		return *cached, nil
	}
	metrics.ReportCacheMisses.Inc()

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	report, err := r.source.Fetch(fetchCtx, location, date)
	if err != nil {
		if !errors.Is(err, ErrWeatherUnavailable) {
			err = fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
		}
		return models.WeatherReport{}, fmt.Errorf("fetch %s %s: %w", location, date, err)
	}

	if err := r.store.PutReport(report); err != nil {
		return models.WeatherReport{}, err
	}
	return report, nil
}
