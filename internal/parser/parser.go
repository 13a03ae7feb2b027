package parser

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"kiln-shell-audit/internal/models"
)

// Parser reads a raw reading matrix from a file. Rows are kiln locations
// (first row = first interval from the outlet), columns are repeat sensor
// passes over the same location.
type Parser struct {
	format string
}

// NewParser creates a parser for the given format (csv or json).
func NewParser(format string) *Parser {
	return &Parser{format: format}
}

// ParseFile reads the reading matrix from filename.
func (p *Parser) ParseFile(filename string) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(p.format) {
	case "csv":
		return p.parseCSV(file)
	case "json":
		return p.parseJSON(file)
	default:
		return nil, fmt.Errorf("unsupported format: %s", p.format)
	}
}

// parseCSV parses a headerless numeric matrix. Every cell must be a number;
// a non-numeric cell is a ConfigError naming its position.
func (p *Parser) parseCSV(r io.Reader) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // column-count mismatches are reported by the aggregator with row position
	reader.TrimLeadingSpace = true

	var matrix [][]float64
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error at line %d: %w", lineNum+1, err)
		}
		lineNum++

		row := make([]float64, len(record))
		for col, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, &models.ConfigError{
					Field:  fmt.Sprintf("row %d column %d", lineNum, col+1),
					Value:  cell,
					Reason: "not a number",
				}
			}
			row[col] = v
		}
		matrix = append(matrix, row)
	}

	return matrix, nil
}

// parseJSON parses the matrix as a JSON array of number arrays.
func (p *Parser) parseJSON(r io.Reader) ([][]float64, error) {
	var matrix [][]float64
	if err := json.NewDecoder(r).Decode(&matrix); err != nil {
		return nil, &models.ConfigError{
			Field:  "readings",
			Value:  p.format,
			Reason: fmt.Sprintf("invalid JSON matrix: %v", err),
		}
	}
	return matrix, nil
}
