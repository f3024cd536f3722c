// Package dataio reads regression data from CSV.
package dataio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrInvalidData is returned for malformed or non-numeric input
var ErrInvalidData = errors.New("invalid data")

// Dataset is a design matrix with its response
type Dataset struct {
	X        *mat.Dense
	Y        []float64
	Response string   // response column name
	Features []string // feature column names, in column order of X
}

// ReadFile reads a CSV file. See Read
func ReadFile(path, response string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}
	defer f.Close()

	return Read(f, response)
}

// Read parses a CSV stream with a header row. The column named response is
// the response, or the first column when response is empty; all other columns
// are features. Every cell must be a finite number.
func Read(r io.Reader, response string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty input", ErrInvalidData)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: need a response and at least one feature column, got %d columns", ErrInvalidData, len(header))
	}

	yCol := 0
	if response != "" {
		yCol = -1
		for j, name := range header {
			if strings.TrimSpace(name) == response {
				yCol = j
				break
			}
		}
		if yCol < 0 {
			return nil, fmt.Errorf("%w: response column %q not found", ErrInvalidData, response)
		}
	}

	ds := &Dataset{Response: strings.TrimSpace(header[yCol])}
	for j, name := range header {
		if j != yCol {
			ds.Features = append(ds.Features, strings.TrimSpace(name))
		}
	}

	p := len(ds.Features)
	var values []float64
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
		}
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				line, _ := cr.FieldPos(j)
				return nil, fmt.Errorf("%w: line %d column %q: %q is not a finite number", ErrInvalidData, line, header[j], cell)
			}
			if j == yCol {
				ds.Y = append(ds.Y, v)
			} else {
				values = append(values, v)
			}
		}
	}

	if len(ds.Y) == 0 {
		return nil, fmt.Errorf("%w: no observations", ErrInvalidData)
	}
	ds.X = mat.NewDense(len(ds.Y), p, values)
	return ds, nil
}
