package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/hardyz/internal/errors"
)

// FileConfig is the YAML configuration file. Absent keys leave the flag
// defaults untouched. Keys use the flag names:
//
//	method: rs
//	timeout: 30s
//	scan:
//	  from: 1000
//	  to: 1100
//	  window: 256
type FileConfig struct {
	T         *float64       `yaml:"t"`
	Method    *string        `yaml:"method"`
	Precision *int           `yaml:"precision"`
	Tolerance *float64       `yaml:"tolerance"`
	Timeout   *Duration      `yaml:"timeout"`
	Port      *string        `yaml:"port"`
	Store     *string        `yaml:"store"`
	LogLevel  *string        `yaml:"log-level"`
	NoColor   *bool          `yaml:"no-color"`
	Block     *BlockFile     `yaml:"block"`
	Scan      *ScanFile      `yaml:"scan"`
	Calibrate *CalibrateFile `yaml:"calibration"`
}

// BlockFile is the block section of the configuration file.
type BlockFile struct {
	Start  *float64 `yaml:"start"`
	Length *float64 `yaml:"length"`
	Points *int     `yaml:"points"`
}

// ScanFile is the scan section of the configuration file.
type ScanFile struct {
	From      *float64 `yaml:"from"`
	To        *float64 `yaml:"to"`
	Step      *float64 `yaml:"step"`
	Window    *int     `yaml:"window"`
	Workers   *int     `yaml:"workers"`
	RefineTol *float64 `yaml:"refine-tol"`
}

// CalibrateFile is the calibration section of the configuration file.
type CalibrateFile struct {
	Profile *string `yaml:"profile"`
}

// Duration is a time.Duration written as a Go duration string in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*d = Duration(v)
	return nil
}

// LoadFile reads and decodes a YAML configuration file. Unknown keys are
// rejected.
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewConfigError("reading config file: %v", err)
	}
	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}
	return &fc, nil
}

func setFrom[T any](fs *flag.FlagSet, name string, src *T, dst *T) {
	if src != nil && !isFlagSet(fs, name) {
		*dst = *src
	}
}

// apply copies every key present in the file into config unless the
// corresponding flag was set on the command line.
func (fc *FileConfig) apply(config *AppConfig, fs *flag.FlagSet) {
	setFrom(fs, "t", fc.T, &config.T)
	setFrom(fs, "method", fc.Method, &config.Method)
	setFrom(fs, "precision", fc.Precision, &config.Precision)
	setFrom(fs, "tolerance", fc.Tolerance, &config.Tolerance)
	setFrom(fs, "port", fc.Port, &config.Port)
	setFrom(fs, "store", fc.Store, &config.StorePath)
	setFrom(fs, "log-level", fc.LogLevel, &config.LogLevel)
	setFrom(fs, "no-color", fc.NoColor, &config.NoColor)
	if fc.Timeout != nil && !isFlagSet(fs, "timeout") {
		config.Timeout = time.Duration(*fc.Timeout)
	}
	if b := fc.Block; b != nil {
		setFrom(fs, "start", b.Start, &config.Start)
		setFrom(fs, "length", b.Length, &config.Length)
		setFrom(fs, "points", b.Points, &config.Points)
	}
	if s := fc.Scan; s != nil {
		setFrom(fs, "from", s.From, &config.From)
		setFrom(fs, "to", s.To, &config.To)
		setFrom(fs, "step", s.Step, &config.Step)
		setFrom(fs, "window", s.Window, &config.Window)
		setFrom(fs, "workers", s.Workers, &config.Workers)
		setFrom(fs, "refine-tol", s.RefineTol, &config.RefineTolerance)
	}
	if c := fc.Calibrate; c != nil {
		setFrom(fs, "calibration-profile", c.Profile, &config.CalibrationProfile)
	}
}
