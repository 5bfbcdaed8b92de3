package config

import (
	"errors"
	"flag"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/zeta"
)

var availableMethods = []string{"em", "os", "rs"}

func validConfig() AppConfig {
	return AppConfig{
		T:               DefaultT,
		Method:          "em",
		From:            DefaultScanFrom,
		To:              DefaultScanTo,
		Step:            scan.DefaultStep,
		Window:          scan.DefaultWindowPoints,
		RefineTolerance: scan.DefaultTolerance,
		Tolerance:       DefaultTolerance,
		Precision:       DefaultPrecision,
		Timeout:         time.Second,
		LogLevel:        "warn",
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("hardyz", nil, io.Discard, availableMethods)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.T != DefaultT || cfg.Method != DefaultMethod || cfg.Timeout != DefaultTimeout {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Precision != 64 || cfg.Window != scan.DefaultWindowPoints || cfg.Port != DefaultPort {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.Block(); got != zeta.Point(DefaultT) {
		t.Errorf("Block() = %+v, want a single point at %v", got, DefaultT)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	t.Parallel()
	args := []string{
		"-t", "1000",
		"-method", "RS",
		"-start", "1000", "-length", "5", "-points", "6",
		"-scan", "-from", "1000", "-to", "1010", "-step", "0.01", "-window", "64", "-workers", "2",
		"-precision", "32",
		"-timeout", "10s",
		"-q", "-o", "out.csv",
		"-log-level", "DEBUG",
	}
	cfg, err := ParseConfig("hardyz", args, io.Discard, availableMethods)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Method != "rs" {
		t.Errorf("Method = %q, want rs", cfg.Method)
	}
	if want := (zeta.Block{Start: 1000, Length: 5, Points: 6}); cfg.Block() != want {
		t.Errorf("Block() = %+v, want %+v", cfg.Block(), want)
	}
	o := cfg.ScanOptions()
	if o.From != 1000 || o.To != 1010 || o.Step != 0.01 || o.WindowPoints != 64 || o.Workers != 2 {
		t.Errorf("ScanOptions() = %+v", o)
	}
	if cfg.Precision != 32 || cfg.Timeout != 10*time.Second || !cfg.Quiet || cfg.OutputFile != "out.csv" || cfg.LogLevel != "debug" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-unknown"}},
		{"unknown method", []string{"-method", "fft"}},
		{"precision", []string{"-precision", "16"}},
		{"negative points", []string{"-points", "-1"}},
		{"empty scan interval", []string{"-scan", "-from", "50", "-to", "10"}},
		{"bad log level", []string{"-log-level", "loud"}},
		{"zero timeout", []string{"-timeout", "0s"}},
		{"missing config file", []string{"-config", "/does/not/exist.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseConfig("hardyz", tt.args, io.Discard, availableMethods); err == nil {
				t.Errorf("expected an error for %v", tt.args)
			}
		})
	}
}

func TestParseConfig_ValidationErrorIsConfigError(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	_, err := ParseConfig("hardyz", []string{"-method", "nope"}, &out, availableMethods)
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error %v is not a ConfigError", err)
	}
	if apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
		t.Errorf("ExitCode = %d, want %d", apperrors.ExitCode(err), apperrors.ExitErrorConfig)
	}
	if !strings.Contains(out.String(), "Usage:") {
		t.Error("usage was not printed")
	}
}

func TestParseConfig_Help(t *testing.T) {
	t.Parallel()
	var out strings.Builder
	_, err := ParseConfig("hardyz", []string{"-h"}, &out, availableMethods)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err = %v, want flag.ErrHelp", err)
	}
	for _, want := range []string{"-method", "-scan", "HARDYZ_"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("usage lacks %q", want)
		}
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"all methods", func(c *AppConfig) { c.Method = "all" }, false},
		{"unknown method", func(c *AppConfig) { c.Method = "zz" }, true},
		{"NaN height", func(c *AppConfig) { c.T = math.NaN() }, true},
		{"infinite start", func(c *AppConfig) { c.Start = math.Inf(1) }, true},
		{"negative tolerance", func(c *AppConfig) { c.Tolerance = -1 }, true},
		{"negative bernoulli", func(c *AppConfig) { c.Bernoulli = -1 }, true},
		{"negative workers", func(c *AppConfig) { c.Workers = -2 }, true},
		{"scan window too small", func(c *AppConfig) { c.Scan = true; c.Window = 1 }, true},
		{"scan valid", func(c *AppConfig) { c.Scan = true }, false},
		{"window ignored without scan", func(c *AppConfig) { c.Window = 1 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := validConfig()
			tt.mutate(&c)
			if err := c.Validate(availableMethods); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
