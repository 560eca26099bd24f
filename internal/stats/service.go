// Package stats computes averaged weather metrics over a date range,
// caching results in the store's statistics namespace.
package stats

import (
	"context"
	"fmt"
	"log"

	"github.com/jonboulle/clockwork"

	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/store"
	"github.com/lox/weatheralert/internal/weather"
)

type Service struct {
	store    *store.Store
	resolver *weather.Resolver
	clock    clockwork.Clock
}

func NewService(st *store.Store, resolver *weather.Resolver, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{store: st, resolver: resolver, clock: clock}
}

// Compute returns statistics for (location, start, end), serving from the
// statistics cache when present. On a miss it resolves each day in the
// range through the read-through cache; days that fail to resolve are
// skipped and logged, and averages cover the days that succeeded.
func (s *Service) Compute(ctx context.Context, location string, start, end models.Date) (models.WeatherStatistics, error) {
	if end.Before(start.Time) {
		return models.WeatherStatistics{}, fmt.Errorf("end date %s before start date %s", end, start)
	}

	cached, err := s.store.GetStatistics(location, start, end)
	if err != nil {
		return models.WeatherStatistics{}, err
	}
	if cached != nil {
		return *cached, nil
	}

	var reports []models.WeatherReport
	for day := start; !day.After(end.Time); day = day.AddDays(1) {
		report, err := s.resolver.Resolve(ctx, location, day)
		if err != nil {
			log.Printf("stats: skipping %s %s: %v", location, day, err)
			continue
		}
		reports = append(reports, report)
	}

	result := models.WeatherStatistics{
		Location:             location,
		StartDate:            start,
		EndDate:              end,
		AverageTemperature:   average(reports, func(r models.WeatherReport) float64 { return (r.HighTemp + r.LowTemp) / 2 }),
		AveragePrecipitation: average(reports, func(r models.WeatherReport) float64 { return r.PrecipitationChance }),
		AverageWindSpeed:     average(reports, func(r models.WeatherReport) float64 { return r.WindSpeed }),
		AverageHumidity:      average(reports, func(r models.WeatherReport) float64 { return r.Humidity }),
		Calculated:           s.clock.Now().UTC(),
	}

	if err := s.store.PutStatistics(result); err != nil {
		return models.WeatherStatistics{}, err
	}
	return result, nil
}

func average(reports []models.WeatherReport, metric func(models.WeatherReport) float64) float64 {
	if len(reports) == 0 {
		return 0.0
	}
	var sum float64
	for _, r := range reports {
		sum += metric(r)
	}
	return sum / float64(len(reports))
}
