package store

import (
	"encoding/json"
	"log"

	"github.com/lox/weatheralert/internal/models"
)

func (s *Store) PutAlert(alert models.Alert) error {
	return s.put(nsAlerts, alert.ID, alert)
}

// GetAlert returns the alert with the given id, or nil when none exists.
func (s *Store) GetAlert(id string) (*models.Alert, error) {
	var alert models.Alert
	found, err := s.get(nsAlerts, id, &alert)
	if err != nil || !found {
		return nil, err
	}
	return &alert, nil
}

// ListAlerts enumerates every stored alert, skipping entries that fail to
// decode.
func (s *Store) ListAlerts() ([]models.Alert, error) {
	bodies, err := s.listBodies(nsAlerts)
	if err != nil {
		return nil, err
	}

	var alerts []models.Alert
	for _, body := range bodies {
		var alert models.Alert
		if err := json.Unmarshal([]byte(body), &alert); err != nil {
			log.Printf("store: skipping corrupt alert entry: %v", err)
			continue
		}
		alerts = append(alerts, alert)
	}
	return alerts, nil
}

// ListActiveAlerts returns the alerts with active = true.
func (s *Store) ListActiveAlerts() ([]models.Alert, error) {
	all, err := s.ListAlerts()
	if err != nil {
		return nil, err
	}

	var active []models.Alert
	for _, alert := range all {
		if alert.Active {
			active = append(active, alert)
		}
	}
	return active, nil
}
