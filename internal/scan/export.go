package scan

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

var csvHeader = []string{"t", "z", "left", "right", "iterations", "gram_index", "method"}

// WriteCSV writes zeros as CSV with a header row. Heights keep 15 decimals.
func WriteCSV(w io.Writer, zeros []Zero) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, z := range zeros {
		record := []string{
			strconv.FormatFloat(z.T, 'f', 15, 64),
			strconv.FormatFloat(z.Z, 'e', 10, 64),
			strconv.FormatFloat(z.Left, 'f', 15, 64),
			strconv.FormatFloat(z.Right, 'f', 15, 64),
			strconv.Itoa(z.Iterations),
			strconv.Itoa(z.GramIndex),
			z.Method,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write zero record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the format produced by WriteCSV.
func ReadCSV(r io.Reader) ([]Zero, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read zeros: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	zeros := make([]Zero, 0, len(records)-1)
	for line, rec := range records[1:] {
		if len(rec) != len(csvHeader) {
			return nil, fmt.Errorf("line %d: expected %d fields, got %d", line+2, len(csvHeader), len(rec))
		}
		var z Zero
		var perr error
		parseFloat := func(s string) float64 {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil && perr == nil {
				perr = err
			}
			return v
		}
		parseInt := func(s string) int {
			v, err := strconv.Atoi(s)
			if err != nil && perr == nil {
				perr = err
			}
			return v
		}
		z.T = parseFloat(rec[0])
		z.Z = parseFloat(rec[1])
		z.Left = parseFloat(rec[2])
		z.Right = parseFloat(rec[3])
		z.Iterations = parseInt(rec[4])
		z.GramIndex = parseInt(rec[5])
		z.Method = rec[6]
		if perr != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, perr)
		}
		zeros = append(zeros, z)
	}
	return zeros, nil
}
