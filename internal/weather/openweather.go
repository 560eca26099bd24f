package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"github.com/lox/weatheralert/internal/httputil"
	"github.com/lox/weatheralert/internal/metrics"
	"github.com/lox/weatheralert/internal/models"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherClient fetches daily reports from the OpenWeather forecast API.
// Transient failures (5xx, 429) are retried with exponential backoff; a
// circuit breaker fails fast once the upstream looks dead.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(apiKey string) *OpenWeatherClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
	})

	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  httputil.NewClient(),
		breaker: cb,
	}
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
}

type forecastEntry struct {
	DtTxt string `json:"dt_txt"` // "2006-01-02 15:04:05"
	Main  struct {
		TempMax  float64 `json:"temp_max"`
		TempMin  float64 `json:"temp_min"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Rain *struct {
		ThreeHours float64 `json:"3h"`
	} `json:"rain"`
}

func (c *OpenWeatherClient) Fetch(ctx context.Context, location string, date models.Date) (models.WeatherReport, error) {
	start := time.Now()
	body, err := c.fetchForecast(ctx, location)
	metrics.WeatherFetchLatency.WithLabelValues(location).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.WeatherFetchesTotal.WithLabelValues(location, "error").Inc()
		return models.WeatherReport{}, fmt.Errorf("%w: %v", ErrWeatherUnavailable, err)
	}
	metrics.WeatherFetchesTotal.WithLabelValues(location, "ok").Inc()

	var data forecastResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return models.WeatherReport{}, fmt.Errorf("%w: unmarshal: %v", ErrWeatherUnavailable, err)
	}
	if len(data.List) == 0 {
		return models.WeatherReport{}, fmt.Errorf("%w: empty forecast for %s", ErrWeatherUnavailable, location)
	}

	// Prefer the entry falling on the requested day, otherwise the first.
	entry := data.List[0]
	for _, e := range data.List {
		if len(e.DtTxt) >= 10 && e.DtTxt[:10] == date.String() {
			entry = e
			break
		}
	}

	report := models.WeatherReport{
		Location:            location,
		Date:                date,
		HighTemp:            entry.Main.TempMax,
		LowTemp:             entry.Main.TempMin,
		Humidity:            entry.Main.Humidity,
		WindSpeed:           entry.Wind.Speed,
		WindDirection:       compassPoint(entry.Wind.Deg),
		PrecipitationChance: precipChance(entry),
	}
	return report, nil
}

func (c *OpenWeatherClient) fetchForecast(ctx context.Context, location string) ([]byte, error) {
	u := fmt.Sprintf("%s/forecast?q=%s&appid=%s&units=metric",
		c.baseURL, url.QueryEscape(location), c.apiKey)

	var body []byte
	operation := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
			if err != nil {
				return nil, backoff.Permanent(err)
			}
			resp, err := c.client.Do(req)
			if err != nil {
				return nil, err
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return nil, fmt.Errorf("status %d", resp.StatusCode)
			}
			if resp.StatusCode != http.StatusOK {
				b, _ := io.ReadAll(resp.Body)
				return nil, backoff.Permanent(fmt.Errorf("status %d: %s", resp.StatusCode, string(b)))
			}
			return io.ReadAll(resp.Body)
		})
		if err != nil {
			if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
				return backoff.Permanent(err)
			}
			return err
		}
		body = result.([]byte)
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 20 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// precipChance mirrors the coarse heuristic of the upstream mapping: any
// rain volume in the window means 100, otherwise 0.
func precipChance(entry forecastEntry) float64 {
	if entry.Rain != nil && entry.Rain.ThreeHours > 0 {
		return 100.0
	}
	return 0.0
}

var compassPoints = []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

// compassPoint buckets wind degrees into one of the 8 compass points.
func compassPoint(deg float64) string {
	for deg < 0 {
		deg += 360
	}
	idx := int((deg+22.5)/45.0) % 8
	return compassPoints[idx]
}
