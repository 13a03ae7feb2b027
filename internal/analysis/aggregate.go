// Package analysis runs the shell audit pipeline: aggregate raw readings,
// estimate heat loss, flag outliers and model the repair economics.
package analysis

import (
	"fmt"

	"kiln-shell-audit/internal/models"
)

// Aggregate averages the per-location sensor columns of matrix into one
// representative reading per location, converts to Kelvin and attaches the
// length of each location along the kiln from the outlet side
// (interval, 2·interval, …). Rows must all have the same non-zero column
// count.
func Aggregate(matrix [][]float64, unit string, intervalM int) ([]models.Reading, error) {
	if unit != models.UnitCelsius && unit != models.UnitKelvin {
		return nil, &models.ConfigError{Field: "temp_unit", Value: unit, Reason: "must be Celsius or Kelvin"}
	}
	if len(matrix) == 0 {
		return nil, &models.ConfigError{Field: "readings", Value: 0, Reason: "no reading rows"}
	}

	columns := len(matrix[0])
	if columns == 0 {
		return nil, &models.ConfigError{Field: "readings", Value: 0, Reason: "no sensor columns"}
	}

	readings := make([]models.Reading, len(matrix))
	for i, row := range matrix {
		if len(row) != columns {
			return nil, &models.ConfigError{
				Field:  fmt.Sprintf("readings row %d", i+1),
				Value:  len(row),
				Reason: fmt.Sprintf("expected %d columns", columns),
			}
		}

		var sum float64
		for _, v := range row {
			sum += v
		}
		temp := sum / float64(columns)
		if unit == models.UnitCelsius {
			temp += models.CelsiusOffset
		}

		readings[i] = models.Reading{
			LengthM: float64(intervalM * (i + 1)),
			TempK:   temp,
		}
	}
	return readings, nil
}

// Temperatures extracts the Kelvin series from a reading sequence.
func Temperatures(readings []models.Reading) []float64 {
	temps := make([]float64, len(readings))
	for i, r := range readings {
		temps[i] = r.TempK
	}
	return temps
}
