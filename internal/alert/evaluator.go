// Package alert holds the alert lifecycle, condition evaluation and the
// periodic scheduler that turns triggered alerts into notifications.
package alert

import (
	"fmt"
	"math"
	"strings"

	"github.com/lox/weatheralert/internal/models"
)

// equalityTolerance is the absolute tolerance for the "=" operator.
const equalityTolerance = 0.01

// Evaluate is pure: it compares each condition against the report in
// declared order and composes the results with the combinator. AND requires
// every result true, anything else composes as OR (unknown combinators are
// rejected at alert creation; this fallback only guards stored data that
// predates validation).
func Evaluate(conditions []models.Condition, combinator string, report models.WeatherReport) (bool, []bool) {
	results := make([]bool, len(conditions))
	for i, c := range conditions {
		results[i] = evaluateCondition(c, report)
	}

	if combinator == models.CombinatorAnd {
		for _, r := range results {
			if !r {
				return false, results
			}
		}
		return true, results
	}

	for _, r := range results {
		if r {
			return true, results
		}
	}
	return false, results
}

func evaluateCondition(c models.Condition, report models.WeatherReport) bool {
	value := parameterValue(c.Parameter, report)
	switch c.Operator {
	case ">":
		return value > c.Threshold
	case "<":
		return value < c.Threshold
	case "=":
		return math.Abs(value-c.Threshold) < equalityTolerance
	default:
		return false
	}
}

// parameterValue extracts the observed value a condition tests against.
// Unrecognized parameters read as 0.0 rather than failing the evaluation.
func parameterValue(parameter string, report models.WeatherReport) float64 {
	switch strings.ToLower(parameter) {
	case "temperature":
		return report.HighTemp
	case "precipitation":
		return report.PrecipitationChance
	case "wind":
		return report.WindSpeed
	case "humidity":
		return report.Humidity
	default:
		return 0.0
	}
}

// FormatMessage renders one clause per condition in declared order, joined
// by the combinator token. The result is attached verbatim to the
// notification.
func FormatMessage(conditions []models.Condition, combinator string, report models.WeatherReport) string {
	var b strings.Builder
	for i, c := range conditions {
		if i > 0 {
			b.WriteString(" " + combinator + " ")
		}
		fmt.Fprintf(&b, "%s %s %.1f (Current value: %.1f)",
			c.Parameter, c.Operator, c.Threshold, parameterValue(c.Parameter, report))
	}
	return b.String()
}
