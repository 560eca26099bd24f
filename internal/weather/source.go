// Package weather resolves daily weather reports: a read-through cache over
// the store's reports namespace in front of an upstream provider.
package weather

import (
	"context"
	"errors"

	"github.com/lox/weatheralert/internal/models"
)

// ErrWeatherUnavailable wraps any upstream failure or timeout. Callers
// check it with errors.Is; the scheduler retries at the next tick, never
// synchronously.
var ErrWeatherUnavailable = errors.New("weather unavailable")

// Source supplies the weather report for a location and calendar day. It may
// be slow or fail; callers bound it with a context deadline.
type Source interface {
	Fetch(ctx context.Context, location string, date models.Date) (models.WeatherReport, error)
}
