package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// getEnvString returns the value of EnvPrefix+key, or defaultVal if unset.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns EnvPrefix+key parsed as int, or defaultVal if unset or
// invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns EnvPrefix+key parsed as float64, or defaultVal if
// unset or invalid.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns EnvPrefix+key parsed as bool, or defaultVal if unset.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false
// (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns EnvPrefix+key parsed as time.Duration, or
// defaultVal if unset or invalid.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet reports whether any of names was explicitly set on the command
// line.
func isFlagSet(fs *flag.FlagSet, names ...string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		for _, name := range names {
			if f.Name == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides applies HARDYZ_* environment variables to every field
// whose flag was not set on the command line. The variable name is the flag
// name upper-cased with dashes turned into underscores (HARDYZ_REFINE_TOL,
// HARDYZ_LOG_LEVEL, ...); HARDYZ_T is the height.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)
	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	floats := []struct {
		flag, env string
		dst       *float64
	}{
		{"t", "T", &config.T},
		{"start", "START", &config.Start},
		{"length", "LENGTH", &config.Length},
		{"from", "FROM", &config.From},
		{"to", "TO", &config.To},
		{"step", "STEP", &config.Step},
		{"refine-tol", "REFINE_TOL", &config.RefineTolerance},
		{"tolerance", "TOLERANCE", &config.Tolerance},
	}
	for _, f := range floats {
		if !isFlagSet(fs, f.flag) {
			*f.dst = getEnvFloat(f.env, *f.dst)
		}
	}

	ints := []struct {
		flag, env string
		dst       *int
	}{
		{"points", "POINTS", &config.Points},
		{"window", "WINDOW", &config.Window},
		{"workers", "WORKERS", &config.Workers},
		{"bernoulli", "BERNOULLI", &config.Bernoulli},
		{"gram", "GRAM", &config.Gram},
		{"precision", "PRECISION", &config.Precision},
	}
	for _, f := range ints {
		if !isFlagSet(fs, f.flag) {
			*f.dst = getEnvInt(f.env, *f.dst)
		}
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "method") {
		config.Method = getEnvString("METHOD", config.Method)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output", "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
	if !isFlagSet(fs, "calibration-profile") {
		config.CalibrationProfile = getEnvString("CALIBRATION_PROFILE", config.CalibrationProfile)
	}
	if !isFlagSet(fs, "store") {
		config.StorePath = getEnvString("STORE", config.StorePath)
	}
	if !isFlagSet(fs, "log-level") {
		config.LogLevel = getEnvString("LOG_LEVEL", config.LogLevel)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	bools := []struct {
		flags []string
		env   string
		dst   *bool
	}{
		{[]string{"scan"}, "SCAN", &config.Scan},
		{[]string{"theta-table"}, "THETA_TABLE", &config.ThetaTable},
		{[]string{"server"}, "SERVER", &config.ServerMode},
		{[]string{"json"}, "JSON", &config.JSONOutput},
		{[]string{"quiet", "q"}, "QUIET", &config.Quiet},
		{[]string{"interactive"}, "INTERACTIVE", &config.Interactive},
		{[]string{"no-color"}, "NO_COLOR", &config.NoColor},
		{[]string{"calibrate"}, "CALIBRATE", &config.Calibrate},
	}
	for _, b := range bools {
		if !isFlagSet(fs, b.flags...) {
			*b.dst = getEnvBool(b.env, *b.dst)
		}
	}
}
