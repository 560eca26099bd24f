package store

import (
	"encoding/json"
	"log"

	"github.com/lox/weatheralert/internal/models"
)

func (s *Store) PutNotification(n models.AlertNotification) error {
	return s.put(nsNotifications, n.ID, n)
}

// GetNotification returns the notification with the given id, or nil when
// none exists.
func (s *Store) GetNotification(id string) (*models.AlertNotification, error) {
	var n models.AlertNotification
	found, err := s.get(nsNotifications, id, &n)
	if err != nil || !found {
		return nil, err
	}
	return &n, nil
}

// ListNotifications enumerates every stored notification, skipping entries
// that fail to decode.
func (s *Store) ListNotifications() ([]models.AlertNotification, error) {
	bodies, err := s.listBodies(nsNotifications)
	if err != nil {
		return nil, err
	}

	var notifications []models.AlertNotification
	for _, body := range bodies {
		var n models.AlertNotification
		if err := json.Unmarshal([]byte(body), &n); err != nil {
			log.Printf("store: skipping corrupt notification entry: %v", err)
			continue
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
