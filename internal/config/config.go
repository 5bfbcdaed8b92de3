// Package config provides the configuration management for the hardyz
// application. It defines the configuration structure, parses command-line
// flags, layers environment variables and an optional YAML file underneath
// them, and validates the result.
package config

import (
	"flag"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/zeta"
)

const (
	// EnvPrefix is the prefix for all environment variables used by hardyz.
	EnvPrefix = "HARDYZ_"
)

// Default configuration values.
const (
	// DefaultT is the default height on the critical line.
	DefaultT = 100.0
	// DefaultTimeout is the default evaluation timeout.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the default server port.
	DefaultPort = "8080"
	// DefaultMethod is the default method selection.
	DefaultMethod = "em"
	// DefaultPrecision is the default floating-point width in bits.
	DefaultPrecision = 64
	// DefaultTolerance is the largest spread between methods accepted in
	// comparison mode. Euler-Maclaurin and Riemann-Siegel differ by about
	// 0.1 near t=1000 with the default truncations.
	DefaultTolerance = 0.5
	// DefaultLogLevel is the default zerolog level.
	DefaultLogLevel = "warn"
	// DefaultScanFrom and DefaultScanTo bound the default scan interval.
	DefaultScanFrom = 10.0
	DefaultScanTo   = 50.0
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// T is the height evaluated in single-point mode.
	T float64
	// Method is "em", "rs", "os" or "all".
	Method string
	// Start, Length and Points describe block mode, active when Points > 0.
	Start  float64
	Length float64
	Points int

	// Scan enables zero scanning over [From, To].
	Scan    bool
	From    float64
	To      float64
	Step    float64
	Window  int
	Workers int
	// RefineTolerance is the bracket width at which bisection stops.
	RefineTolerance float64

	// Tolerance is the maximum spread between methods in comparison mode.
	Tolerance float64

	// ThetaTable prints θ(t) for t = 0, 0.1, ..., 0.9.
	ThetaTable bool
	// Bernoulli prints B_0..B_{Bernoulli-1} when positive.
	Bernoulli int
	// Gram prints the Gram points g_0..g_{Gram-1} when positive.
	Gram int

	// Precision selects float32 (32) or float64 (64) arithmetic.
	Precision int
	// Timeout sets the maximum duration of the run.
	Timeout time.Duration

	JSONOutput bool
	ServerMode bool
	Port       string
	// NoColor disables all color output. NO_COLOR is honored as well.
	NoColor bool
	// OutputFile, if specified, receives the result as CSV.
	OutputFile string
	// Quiet mode prints a single line per result for scripts.
	Quiet       bool
	Interactive bool
	// Completion generates a shell completion script (bash, zsh, fish,
	// powershell).
	Completion string

	Calibrate bool
	// CalibrationProfile is the path of the calibration profile. Empty means
	// ~/.hardyz_calibration.json.
	CalibrationProfile string

	// StorePath is the directory of the zero catalog. Empty disables it.
	StorePath string
	// ConfigFile is a YAML file providing defaults.
	ConfigFile string
	// LogLevel is the zerolog level name.
	LogLevel string
}

// Block returns the block evaluated in point or block mode.
func (c AppConfig) Block() zeta.Block {
	if c.Points > 0 {
		return zeta.Block{Start: c.Start, Length: c.Length, Points: c.Points}
	}
	return zeta.Point(c.T)
}

// ScanOptions converts the scan settings into scan.Options. Unset (zero)
// fields keep the scan package defaults.
func (c AppConfig) ScanOptions() scan.Options {
	o := scan.DefaultOptions(c.From, c.To)
	if c.Step != 0 {
		o.Step = c.Step
	}
	if c.Window != 0 {
		o.WindowPoints = c.Window
	}
	if c.RefineTolerance != 0 {
		o.Tolerance = c.RefineTolerance
	}
	if c.Workers > 0 {
		o.Workers = c.Workers
	}
	return o
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableMethods: The method keys the factory can build.
//
// Returns:
//   - error: A ConfigError describing the first problem found, nil otherwise.
func (c AppConfig) Validate(availableMethods []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Method != "all" && !slices.Contains(availableMethods, c.Method) {
		return apperrors.NewConfigError("unrecognized method: '%s'. Valid methods are: 'all' or [%s]", c.Method, strings.Join(availableMethods, ", "))
	}
	if !finite(c.T) || !finite(c.Start) || !finite(c.Length) {
		return apperrors.NewConfigError("heights must be finite numbers")
	}
	if c.Points < 0 {
		return apperrors.NewConfigError("points cannot be negative: %d", c.Points)
	}
	if c.Precision != 32 && c.Precision != 64 {
		return apperrors.NewConfigError("precision must be 32 or 64, got %d", c.Precision)
	}
	if c.Tolerance < 0 {
		return apperrors.NewConfigError("tolerance cannot be negative: %g", c.Tolerance)
	}
	if c.Bernoulli < 0 || c.Gram < 0 {
		return apperrors.NewConfigError("table sizes cannot be negative")
	}
	if c.Workers < 0 {
		return apperrors.NewConfigError("workers cannot be negative: %d", c.Workers)
	}
	if c.Scan {
		if err := c.ScanOptions().Validate(); err != nil {
			return apperrors.NewConfigError("%v", err)
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("invalid log level: '%s'", c.LogLevel)
	}
	return nil
}

// ParseConfig parses the command-line arguments into an AppConfig, applies
// the environment and file layers for every flag that was not set
// explicitly, and validates the result.
//
// Parameters:
//   - programName: The name of the program, used in the usage message.
//   - args: The command-line arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage information are printed.
//   - availableMethods: The valid method keys for validation.
//
// Returns:
//   - AppConfig: The populated configuration struct.
//   - error: flag.ErrHelp, a parsing error, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableMethods []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	methodHelp := fmt.Sprintf("Method to use: 'all' or one of [%s].", strings.Join(availableMethods, ", "))

	config := AppConfig{}
	fs.Float64Var(&config.T, "t", DefaultT, "Height t on the critical line.")
	fs.StringVar(&config.Method, "method", DefaultMethod, methodHelp)
	fs.Float64Var(&config.Start, "start", 0, "First height of the block.")
	fs.Float64Var(&config.Length, "length", 0, "Length of the block.")
	fs.IntVar(&config.Points, "points", 0, "Number of block samples (enables block mode when > 0).")
	fs.BoolVar(&config.Scan, "scan", false, "Scan [from, to] for zeros of Z.")
	fs.Float64Var(&config.From, "from", DefaultScanFrom, "Lower bound of the scan.")
	fs.Float64Var(&config.To, "to", DefaultScanTo, "Upper bound of the scan.")
	fs.Float64Var(&config.Step, "step", scan.DefaultStep, "Sampling step of the scan.")
	fs.IntVar(&config.Window, "window", scan.DefaultWindowPoints, "Samples per scan window.")
	fs.IntVar(&config.Workers, "workers", 0, "Concurrent scan workers (0 for one per CPU).")
	fs.Float64Var(&config.RefineTolerance, "refine-tol", scan.DefaultTolerance, "Bracket width at which zero refinement stops.")
	fs.Float64Var(&config.Tolerance, "tolerance", DefaultTolerance, "Maximum spread between methods when comparing.")
	fs.BoolVar(&config.ThetaTable, "theta-table", false, "Print θ(t) for t = 0, 0.1, ..., 0.9.")
	fs.IntVar(&config.Bernoulli, "bernoulli", 0, "Print the first N Bernoulli numbers.")
	fs.IntVar(&config.Gram, "gram", 0, "Print the first N Gram points.")
	fs.IntVar(&config.Precision, "precision", DefaultPrecision, "Floating-point width in bits (32 or 64).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.OutputFile, "output", "", "Write samples or zeros to this CSV file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Interactive, "interactive", false, "Start in interactive REPL mode.")
	fs.StringVar(&config.Completion, "completion", "", "Generate shell completion script (bash, zsh, fish, powershell).")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Measure the methods and tune the scan window size.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to calibration profile file (default: ~/.hardyz_calibration.json).")
	fs.StringVar(&config.StorePath, "store", "", "Directory of the zero catalog (disabled when empty).")
	fs.StringVar(&config.ConfigFile, "config", "", "YAML configuration file.")
	fs.StringVar(&config.LogLevel, "log-level", DefaultLogLevel, "Log level (debug, info, warn, error).")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	if !isFlagSet(fs, "config") {
		config.ConfigFile = getEnvString("CONFIG", config.ConfigFile)
	}
	if config.ConfigFile != "" {
		fc, err := LoadFile(config.ConfigFile)
		if err != nil {
			fmt.Fprintln(errorWriter, "Configuration error:", err)
			return AppConfig{}, err
		}
		fc.apply(&config, fs)
	}
	applyEnvOverrides(&config, fs)

	config.Method = strings.ToLower(config.Method)
	config.LogLevel = strings.ToLower(config.LogLevel)
	if err := config.Validate(availableMethods); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
