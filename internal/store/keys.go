package store

import (
	"fmt"
	"strings"

	"github.com/lox/weatheralert/internal/models"
)

// ReportKey derives the reports-namespace key for a (location, date) pair:
// lowercase location with spaces replaced by underscores, plus the ISO date.
func ReportKey(location string, date models.Date) string {
	return fmt.Sprintf("%s_%s", normalizeLocation(location), date)
}

// StatisticsKey derives the statistics-namespace key for a date range.
func StatisticsKey(location string, start, end models.Date) string {
	return fmt.Sprintf("%s_%s_to_%s", strings.ToLower(location), start, end)
}

func normalizeLocation(location string) string {
	return strings.ToLower(strings.ReplaceAll(location, " ", "_"))
}
