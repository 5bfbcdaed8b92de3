package config

import (
	"io"
	"testing"
	"time"
)

func TestParseConfig_EnvOverrides(t *testing.T) {
	env := map[string]string{
		"HARDYZ_T":           "1000.5",
		"HARDYZ_METHOD":      "os",
		"HARDYZ_POINTS":      "12",
		"HARDYZ_TIMEOUT":     "2m",
		"HARDYZ_PORT":        "3000",
		"HARDYZ_SERVER":      "yes",
		"HARDYZ_QUIET":       "1",
		"HARDYZ_NO_COLOR":    "true",
		"HARDYZ_REFINE_TOL":  "1e-8",
		"HARDYZ_LOG_LEVEL":   "info",
		"HARDYZ_STORE":       "/tmp/zeros",
		"HARDYZ_THETA_TABLE": "true",
	}
	for k, v := range env {
		t.Setenv(k, v)
	}

	cfg, err := ParseConfig("hardyz", nil, io.Discard, availableMethods)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.T != 1000.5 || cfg.Method != "os" || cfg.Points != 12 || cfg.Timeout != 2*time.Minute {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if cfg.Port != "3000" || !cfg.ServerMode || !cfg.Quiet || !cfg.NoColor || !cfg.ThetaTable {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if cfg.RefineTolerance != 1e-8 || cfg.LogLevel != "info" || cfg.StorePath != "/tmp/zeros" {
		t.Errorf("env values not applied: %+v", cfg)
	}
}

func TestParseConfig_FlagPrecedenceOverEnv(t *testing.T) {
	t.Setenv("HARDYZ_METHOD", "os")
	t.Setenv("HARDYZ_QUIET", "true")

	cfg, err := ParseConfig("hardyz", []string{"-method", "rs", "-q=false"}, io.Discard, availableMethods)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cfg.Method != "rs" || cfg.Quiet {
		t.Errorf("flags did not win over env: method=%q quiet=%v", cfg.Method, cfg.Quiet)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv(EnvPrefix+"TEST_INT", "42")
	t.Setenv(EnvPrefix+"TEST_BAD_INT", "forty")
	t.Setenv(EnvPrefix+"TEST_FLOAT", "0.25")
	t.Setenv(EnvPrefix+"TEST_BOOL", "No")
	t.Setenv(EnvPrefix+"TEST_DUR", "90s")

	if got := getEnvInt("TEST_INT", 0); got != 42 {
		t.Errorf("getEnvInt = %d", got)
	}
	if got := getEnvInt("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvInt with invalid value = %d, want default", got)
	}
	if got := getEnvFloat("TEST_FLOAT", 0); got != 0.25 {
		t.Errorf("getEnvFloat = %v", got)
	}
	if got := getEnvBool("TEST_BOOL", true); got {
		t.Error("getEnvBool(No) = true")
	}
	if got := getEnvBool("TEST_UNSET", true); !got {
		t.Error("getEnvBool without value should return the default")
	}
	if got := getEnvDuration("TEST_DUR", 0); got != 90*time.Second {
		t.Errorf("getEnvDuration = %v", got)
	}
	if got := getEnvString("TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("getEnvString = %q", got)
	}
}
