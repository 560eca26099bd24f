package alert

import (
	"testing"
	"time"

	"github.com/lox/weatheralert/internal/models"
)

func report(highTemp, windSpeed float64) models.WeatherReport {
	return models.WeatherReport{
		Location:            "Seattle",
		Date:                models.NewDate(2024, time.January, 1),
		HighTemp:            highTemp,
		LowTemp:             highTemp - 8,
		Humidity:            60,
		WindSpeed:           windSpeed,
		WindDirection:       "NW",
		PrecipitationChance: 10,
	}
}

func TestEvaluate_SingleConditionTriggers(t *testing.T) {
	conditions := []models.Condition{{Parameter: "temperature", Operator: ">", Threshold: 30}}

	triggered, results := Evaluate(conditions, models.CombinatorAnd, report(35, 0))
	if !triggered {
		t.Error("triggered = false, want true")
	}
	if len(results) != 1 || !results[0] {
		t.Errorf("results = %v, want [true]", results)
	}

	msg := FormatMessage(conditions, models.CombinatorAnd, report(35, 0))
	want := "temperature > 30.0 (Current value: 35.0)"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}

func TestEvaluate_AndRequiresAll(t *testing.T) {
	conditions := []models.Condition{
		{Parameter: "temperature", Operator: ">", Threshold: 30},
		{Parameter: "wind", Operator: ">", Threshold: 10},
	}

	triggered, results := Evaluate(conditions, models.CombinatorAnd, report(35, 5))
	if triggered {
		t.Error("triggered = true, want false")
	}
	if !results[0] || results[1] {
		t.Errorf("results = %v, want [true false]", results)
	}
}

func TestEvaluate_OrRequiresAny(t *testing.T) {
	conditions := []models.Condition{
		{Parameter: "temperature", Operator: ">", Threshold: 30},
		{Parameter: "wind", Operator: ">", Threshold: 10},
	}

	triggered, _ := Evaluate(conditions, models.CombinatorOr, report(35, 5))
	if !triggered {
		t.Error("triggered = false, want true")
	}

	triggered, _ = Evaluate(conditions, models.CombinatorOr, report(20, 5))
	if triggered {
		t.Error("triggered = true, want false")
	}
}

func TestEvaluate_Operators(t *testing.T) {
	r := report(25, 0)

	tests := []struct {
		operator  string
		threshold float64
		want      bool
	}{
		{">", 24.9, true},
		{">", 25.0, false},
		{"<", 25.1, true},
		{"<", 25.0, false},
		{"=", 25.0, true},
		{"=", 25.005, true}, // within 0.01 tolerance
		{"=", 25.02, false},
		{"!=", 25.0, false}, // unrecognized operator never triggers
	}
	for _, tt := range tests {
		conditions := []models.Condition{{Parameter: "temperature", Operator: tt.operator, Threshold: tt.threshold}}
		triggered, _ := Evaluate(conditions, models.CombinatorAnd, r)
		if triggered != tt.want {
			t.Errorf("temperature %s %v: triggered = %v, want %v", tt.operator, tt.threshold, triggered, tt.want)
		}
	}
}

func TestEvaluate_ParameterMapping(t *testing.T) {
	r := models.WeatherReport{
		HighTemp:            35,
		LowTemp:             20,
		Humidity:            80,
		WindSpeed:           12,
		PrecipitationChance: 90,
	}

	tests := []struct {
		parameter string
		threshold float64
		want      bool
	}{
		{"temperature", 30, true},   // highTemp, not lowTemp
		{"precipitation", 80, true},
		{"wind", 10, true},
		{"humidity", 70, true},
		{"Temperature", 30, true},   // case-insensitive
		{"pressure", -1, true},      // unrecognized reads as 0.0
		{"pressure", 0, false},
	}
	for _, tt := range tests {
		conditions := []models.Condition{{Parameter: tt.parameter, Operator: ">", Threshold: tt.threshold}}
		triggered, _ := Evaluate(conditions, models.CombinatorAnd, r)
		if triggered != tt.want {
			t.Errorf("%s > %v: triggered = %v, want %v", tt.parameter, tt.threshold, triggered, tt.want)
		}
	}
}

func TestEvaluate_UnknownCombinatorBehavesAsOr(t *testing.T) {
	conditions := []models.Condition{
		{Parameter: "temperature", Operator: ">", Threshold: 30},
		{Parameter: "wind", Operator: ">", Threshold: 10},
	}

	triggered, _ := Evaluate(conditions, "XOR", report(35, 5))
	if !triggered {
		t.Error("unknown combinator should compose as OR")
	}
}

func TestEvaluate_Pure(t *testing.T) {
	conditions := []models.Condition{
		{Parameter: "humidity", Operator: ">", Threshold: 50},
		{Parameter: "wind", Operator: "<", Threshold: 30},
	}
	r := report(22, 18)

	t1, res1 := Evaluate(conditions, models.CombinatorAnd, r)
	m1 := FormatMessage(conditions, models.CombinatorAnd, r)
	t2, res2 := Evaluate(conditions, models.CombinatorAnd, r)
	m2 := FormatMessage(conditions, models.CombinatorAnd, r)

	if t1 != t2 || m1 != m2 {
		t.Error("evaluation not deterministic")
	}
	for i := range res1 {
		if res1[i] != res2[i] {
			t.Errorf("results differ at %d", i)
		}
	}
}

func TestFormatMessage_MultipleConditions(t *testing.T) {
	conditions := []models.Condition{
		{Parameter: "temperature", Operator: ">", Threshold: 30},
		{Parameter: "wind", Operator: ">", Threshold: 10},
	}

	msg := FormatMessage(conditions, models.CombinatorAnd, report(35, 5))
	want := "temperature > 30.0 (Current value: 35.0) AND wind > 10.0 (Current value: 5.0)"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}

	msg = FormatMessage(conditions, models.CombinatorOr, report(35, 5))
	want = "temperature > 30.0 (Current value: 35.0) OR wind > 10.0 (Current value: 5.0)"
	if msg != want {
		t.Errorf("message = %q, want %q", msg, want)
	}
}
