package store

import (
	"encoding/json"
	"log"

	"github.com/lox/weatheralert/internal/models"
)

func (s *Store) PutStatistics(stats models.WeatherStatistics) error {
	key := StatisticsKey(stats.Location, stats.StartDate, stats.EndDate)
	return s.put(nsStatistics, key, stats)
}

// GetStatistics returns the cached statistics for (location, start, end), or
// nil when none exist.
func (s *Store) GetStatistics(location string, start, end models.Date) (*models.WeatherStatistics, error) {
	var stats models.WeatherStatistics
	found, err := s.get(nsStatistics, StatisticsKey(location, start, end), &stats)
	if err != nil || !found {
		return nil, err
	}
	return &stats, nil
}

// ListStatistics enumerates every cached statistics entry, skipping entries
// that fail to decode.
func (s *Store) ListStatistics() ([]models.WeatherStatistics, error) {
	bodies, err := s.listBodies(nsStatistics)
	if err != nil {
		return nil, err
	}

	var all []models.WeatherStatistics
	for _, body := range bodies {
		var stats models.WeatherStatistics
		if err := json.Unmarshal([]byte(body), &stats); err != nil {
			log.Printf("store: skipping corrupt statistics entry: %v", err)
			continue
		}
		all = append(all, stats)
	}
	return all, nil
}
