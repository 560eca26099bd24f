package cache

import (
	"database/sql"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lox/weatheralert/internal/models"
	"github.com/lox/weatheralert/internal/store"
)

func setupAdmin(t *testing.T) (*Admin, *store.Store) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewAdmin(st), st
}

func TestSizeMB_EmptyStore(t *testing.T) {
	admin, _ := setupAdmin(t)

	size, err := admin.SizeMB()
	if err != nil {
		t.Fatalf("SizeMB: %v", err)
	}
	if size != 0 {
		t.Errorf("SizeMB = %v, want 0", size)
	}
}

func TestSizeMB_GrowsWithEntries(t *testing.T) {
	admin, st := setupAdmin(t)

	before, err := admin.SizeMB()
	if err != nil {
		t.Fatal(err)
	}

	// Roughly 2 MB of payload so the rounded figure moves.
	large := make([]models.Condition, 0, 20000)
	for i := 0; i < 20000; i++ {
		large = append(large, models.Condition{Parameter: "temperature", Operator: ">", Threshold: float64(i)})
	}
	if err := st.PutAlert(models.Alert{ID: "big", Active: true, Conditions: large, Combinator: models.CombinatorAnd}); err != nil {
		t.Fatal(err)
	}

	after, err := admin.SizeMB()
	if err != nil {
		t.Fatal(err)
	}
	if after <= before {
		t.Errorf("SizeMB did not grow: before %v, after %v", before, after)
	}

	// 3 decimal places.
	scaled := after * 1000
	if math.Abs(scaled-math.Round(scaled)) > 1e-6 {
		t.Errorf("SizeMB = %v, want at most 3 decimal places", after)
	}
}

func TestClear_EmptiesEveryNamespace(t *testing.T) {
	admin, st := setupAdmin(t)

	date := models.NewDate(2024, time.January, 1)
	if err := st.PutReport(models.WeatherReport{Location: "Seattle", Date: date, HighTemp: 12}); err != nil {
		t.Fatal(err)
	}
	if err := st.PutAlert(models.Alert{ID: "a-1", Active: true, Combinator: models.CombinatorAnd,
		Conditions: []models.Condition{{Parameter: "wind", Operator: ">", Threshold: 10}}}); err != nil {
		t.Fatal(err)
	}
	if err := st.PutNotification(models.AlertNotification{ID: "n-1", AlertID: "a-1", Message: "m"}); err != nil {
		t.Fatal(err)
	}

	if err := admin.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	report, err := st.GetReport("Seattle", date)
	if err != nil {
		t.Fatal(err)
	}
	if report != nil {
		t.Error("report survived Clear")
	}
	alerts, err := st.ListAlerts()
	if err != nil {
		t.Fatal(err)
	}
	if len(alerts) != 0 {
		t.Errorf("alerts = %d, want 0", len(alerts))
	}

	size, err := admin.SizeMB()
	if err != nil {
		t.Fatal(err)
	}
	if size != 0 {
		t.Errorf("SizeMB = %v after Clear, want 0", size)
	}
}

func TestClear_Idempotent(t *testing.T) {
	admin, st := setupAdmin(t)

	if err := admin.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}
	if err := admin.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}

	// The store still accepts writes afterwards.
	if err := st.PutReport(models.WeatherReport{Location: "Seattle", Date: models.NewDate(2024, time.January, 1)}); err != nil {
		t.Errorf("PutReport after Clear: %v", err)
	}
}
