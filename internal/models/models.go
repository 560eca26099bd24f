package models

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day with ISO-8601 (YYYY-MM-DD) JSON encoding.
// Weather reports are keyed by calendar day, so the time-of-day and
// timezone components are always zero/UTC.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) AddDays(n int) Date {
	return Date{d.AddDate(0, 0, n)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// WeatherReport is one day of observed weather for a location. Immutable
// once stored for a given (location, date); a re-fetch overwrites.
type WeatherReport struct {
	Location            string  `json:"location"`
	Date                Date    `json:"date"`
	HighTemp            float64 `json:"highTemp"`
	LowTemp             float64 `json:"lowTemp"`
	Humidity            float64 `json:"humidity"`
	WindSpeed           float64 `json:"windSpeed"`
	WindDirection       string  `json:"windDirection"` // one of 8 compass points
	PrecipitationChance float64 `json:"precipitationChance"` // 0-100
}

// Condition is a single threshold test against a weather parameter.
type Condition struct {
	Parameter string  `json:"parameter"` // temperature, precipitation, wind, humidity
	Operator  string  `json:"operator"`  // ">", "<", "="
	Threshold float64 `json:"threshold"`
}

// Combinator values for composing condition results.
const (
	CombinatorAnd = "AND"
	CombinatorOr  = "OR"
)

type Alert struct {
	ID         string      `json:"id"`
	Active     bool        `json:"active"`
	Conditions []Condition `json:"conditions"` // never empty
	Combinator string      `json:"combinator"`
	Created    time.Time   `json:"created"`
}

// AlertNotification is created by the scheduler when an alert triggers and
// is immutable afterwards. AlertID is not a foreign key; a notification may
// outlive its alert.
type AlertNotification struct {
	ID           string    `json:"id"`
	AlertID      string    `json:"alertId"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
	Acknowledged bool      `json:"acknowledged"`
}

// WeatherStatistics is a cached aggregate over the reports in a date range.
type WeatherStatistics struct {
	Location             string    `json:"location"`
	StartDate            Date      `json:"startDate"`
	EndDate              Date      `json:"endDate"`
	AverageTemperature   float64   `json:"averageTemperature"`
	AveragePrecipitation float64   `json:"averagePrecipitation"`
	AverageWindSpeed     float64   `json:"averageWindSpeed"`
	AverageHumidity      float64   `json:"averageHumidity"`
	Calculated           time.Time `json:"calculated"`
}
