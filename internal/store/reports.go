package store

import (
	"encoding/json"
	"log"

	"github.com/lox/weatheralert/internal/models"
)

func (s *Store) PutReport(report models.WeatherReport) error {
	return s.put(nsReports, ReportKey(report.Location, report.Date), report)
}

// GetReport returns the stored report for (location, date), or nil when none
// exists.
func (s *Store) GetReport(location string, date models.Date) (*models.WeatherReport, error) {
	var report models.WeatherReport
	found, err := s.get(nsReports, ReportKey(location, date), &report)
	if err != nil || !found {
		return nil, err
	}
	return &report, nil
}

// ListReports enumerates every stored report. Entries that fail to decode
// are skipped and logged; the listing still returns everything it could
// parse.
func (s *Store) ListReports() ([]models.WeatherReport, error) {
	bodies, err := s.listBodies(nsReports)
	if err != nil {
		return nil, err
	}

	var reports []models.WeatherReport
	for _, body := range bodies {
		var report models.WeatherReport
		if err := json.Unmarshal([]byte(body), &report); err != nil {
			log.Printf("store: skipping corrupt report entry: %v", err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, nil
}
