package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
	"github.com/agbru/hardyz/pkg/models"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile receives the samples or zeros as CSV when set.
	OutputFile string
	// Quiet prints bare values, one per line.
	Quiet bool
	// JSON prints the result document instead of the tables.
	JSON bool
}

// WriteBlockCSV writes one "k,t,z" row per sample after a header row.
func WriteBlockCSV(w io.Writer, b zeta.Block, values []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"k", "t", "z"}); err != nil {
		return err
	}
	for k, z := range values {
		row := []string{
			strconv.Itoa(k),
			strconv.FormatFloat(b.At(k), 'g', -1, 64),
			strconv.FormatFloat(z, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// SaveToFile creates path, along with its parent directory, and fills it
// with write.
func SaveToFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// CountSignChanges returns the number of adjacent samples with opposite
// signs. Zero counts as positive.
func CountSignChanges(values []float64) int {
	n := 0
	for k := 1; k < len(values); k++ {
		if (values[k-1] < 0) != (values[k] < 0) {
			n++
		}
	}
	return n
}

// NewZResponse builds the JSON document of a single evaluation.
func NewZResponse(t, z float64, m zeta.Method, duration time.Duration) models.ZResponse {
	return models.ZResponse{
		T:        t,
		Z:        z,
		Theta:    zeta.Theta(t),
		Method:   m.Key(),
		Terms:    m.Terms(t),
		Duration: duration.String(),
	}
}

// NewBlockResponse builds the JSON document of a block evaluation.
func NewBlockResponse(b zeta.Block, values []float64, m zeta.Method, duration time.Duration) models.BlockResponse {
	return models.BlockResponse{
		Start:       b.Start,
		Length:      b.Length,
		Points:      b.Points,
		Method:      m.Key(),
		Values:      values,
		SignChanges: CountSignChanges(values),
		Duration:    duration.String(),
	}
}

// NewZerosResponse builds the JSON document of a scan.
func NewZerosResponse(res *scan.Result, step float64, source string) models.ZerosResponse {
	zeros := make([]models.Zero, len(res.Zeros))
	for i, z := range res.Zeros {
		zeros[i] = models.Zero{T: z.T, Z: z.Z, GramIndex: z.GramIndex, Iterations: z.Iterations}
	}
	return models.ZerosResponse{
		From:     res.From,
		To:       res.To,
		Step:     step,
		Method:   res.Method.Key(),
		Samples:  res.Samples,
		Zeros:    zeros,
		Duration: res.Duration.String(),
		Source:   source,
	}
}

// DisplayQuietResult prints the bare value of Z.
func DisplayQuietResult(out io.Writer, z float64) {
	fmt.Fprintln(out, FormatValue(z))
}

// DisplayResultWithConfig prints a single evaluation in the configured
// format.
func DisplayResultWithConfig(out io.Writer, t, z float64, m zeta.Method, duration time.Duration, cfg OutputConfig) error {
	switch {
	case cfg.JSON:
		return WriteJSON(out, NewZResponse(t, z, m, duration))
	case cfg.Quiet:
		DisplayQuietResult(out, z)
	default:
		DisplayResult(out, t, z, m, duration)
	}
	return nil
}

// DisplayBlockWithConfig prints a block in the configured format and saves
// it as CSV when an output file is set.
func DisplayBlockWithConfig(out io.Writer, b zeta.Block, values []float64, m zeta.Method, duration time.Duration, cfg OutputConfig) error {
	switch {
	case cfg.JSON:
		if err := WriteJSON(out, NewBlockResponse(b, values, m, duration)); err != nil {
			return err
		}
	case cfg.Quiet:
		for _, z := range values {
			DisplayQuietResult(out, z)
		}
	default:
		DisplayBlock(out, b, values, m, duration)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := SaveToFile(cfg.OutputFile, func(w io.Writer) error { return WriteBlockCSV(w, b, values) }); err != nil {
		return err
	}
	if !cfg.Quiet && !cfg.JSON {
		fmt.Fprintf(out, "\n%s✓ Samples saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}

// DisplayZerosWithConfig prints a scan result in the configured format and
// saves the zeros as CSV when an output file is set.
func DisplayZerosWithConfig(out io.Writer, res *scan.Result, step float64, cfg OutputConfig) error {
	switch {
	case cfg.JSON:
		if err := WriteJSON(out, NewZerosResponse(res, step, "scan")); err != nil {
			return err
		}
	case cfg.Quiet:
		for _, z := range res.Zeros {
			fmt.Fprintln(out, strconv.FormatFloat(z.T, 'f', 10, 64))
		}
	default:
		DisplayZeros(out, res)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := SaveToFile(cfg.OutputFile, func(w io.Writer) error { return scan.WriteCSV(w, res.Zeros) }); err != nil {
		return err
	}
	if !cfg.Quiet && !cfg.JSON {
		fmt.Fprintf(out, "\n%s✓ Zeros saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}
