package analysis

import (
	"errors"
	"math"
	"testing"

	"kiln-shell-audit/internal/models"
)

func TestAggregateAveragesColumns(t *testing.T) {
	matrix := [][]float64{
		{400, 402, 404},
		{410, 410, 410},
	}
	readings, err := Aggregate(matrix, models.UnitKelvin, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if len(readings) != 2 {
		t.Fatalf("expected 2 readings, got %d", len(readings))
	}
	if readings[0].TempK != 402 {
		t.Errorf("row 1 mean: expected 402, got %v", readings[0].TempK)
	}
	if readings[1].TempK != 410 {
		t.Errorf("row 2 mean: expected 410, got %v", readings[1].TempK)
	}
}

func TestAggregateCelsiusConversion(t *testing.T) {
	readings, err := Aggregate([][]float64{{127}}, models.UnitCelsius, 1)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	if readings[0].TempK != 400 {
		t.Errorf("expected 400K (127C + 273), got %v", readings[0].TempK)
	}
}

func TestAggregateLengths(t *testing.T) {
	matrix := [][]float64{{400}, {401}, {402}}
	readings, err := Aggregate(matrix, models.UnitKelvin, 2)
	if err != nil {
		t.Fatalf("Aggregate failed: %v", err)
	}
	want := []float64{2, 4, 6}
	for i, r := range readings {
		if r.LengthM != want[i] {
			t.Errorf("location %d: expected length %v, got %v", i, want[i], r.LengthM)
		}
	}
}

func TestAggregateRaggedMatrix(t *testing.T) {
	matrix := [][]float64{
		{400, 402},
		{410},
	}
	_, err := Aggregate(matrix, models.UnitKelvin, 1)
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for ragged matrix, got %v", err)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	var cfgErr *models.ConfigError

	_, err := Aggregate(nil, models.UnitKelvin, 1)
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for empty matrix, got %v", err)
	}

	_, err = Aggregate([][]float64{{}}, models.UnitKelvin, 1)
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for zero columns, got %v", err)
	}
}

func TestAggregateBadUnit(t *testing.T) {
	_, err := Aggregate([][]float64{{400}}, "Rankine", 1)
	var cfgErr *models.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError for unknown unit, got %v", err)
	}
}

func TestTemperatures(t *testing.T) {
	readings := []models.Reading{{LengthM: 1, TempK: 400}, {LengthM: 2, TempK: 410}}
	temps := Temperatures(readings)
	if len(temps) != 2 || temps[0] != 400 || temps[1] != 410 {
		t.Errorf("unexpected temperature series: %v", temps)
	}
}

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
