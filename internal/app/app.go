package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agbru/hardyz/internal/calibration"
	"github.com/agbru/hardyz/internal/cli"
	"github.com/agbru/hardyz/internal/config"
	apperrors "github.com/agbru/hardyz/internal/errors"
	"github.com/agbru/hardyz/internal/logging"
	"github.com/agbru/hardyz/internal/orchestration"
	"github.com/agbru/hardyz/internal/scan"
	"github.com/agbru/hardyz/internal/server"
	"github.com/agbru/hardyz/internal/store"
	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
	"github.com/agbru/hardyz/pkg/models"
)

// Application represents the hardyz application instance.
// It encapsulates the configuration and provides methods to run
// the application in its various modes.
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides access to the Hardy Z calculators.
	Factory zeta.CalculatorFactory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
	// Input feeds the REPL. Nil means os.Stdin.
	Input io.Reader

	logger zerolog.Logger
}

// New creates a new Application instance by parsing command-line arguments.
// It validates the configuration and returns an error if parsing or
// validation fails. A cached calibration profile, when valid for this
// machine, supplies the scan window and worker count the flags left unset.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := zeta.GlobalFactory()

	// args[0] is program name, args[1:] are the actual arguments
	programName := "hardyz"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else if cfg.Workers == 0 {
		cfg.Workers = calibration.EstimateOptimalWorkers()
	}

	var f zeta.CalculatorFactory = factory
	if cfg.Precision != config.DefaultPrecision {
		f = zeta.NewFactoryWithPrecision(cfg.Precision)
	}

	return &Application{
		Config:    cfg,
		Factory:   f,
		ErrWriter: errWriter,
		logger:    zerolog.Nop(),
	}, nil
}

// Run executes the application based on the configured mode and returns
// the process exit code. Modes are tried in this order: completion, server,
// REPL, calibration, tables, scan, then block or single-point evaluation.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	ui.InitTheme(a.Config.NoColor, ui.IsTerminal(out))

	level := a.Config.LogLevel
	if level == "" {
		level = config.DefaultLogLevel
	}
	logger, err := logging.Setup(level, a.ErrWriter)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Configuration error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	a.logger = logger

	switch {
	case a.Config.ServerMode:
		return a.runServer()
	case a.Config.Interactive:
		return a.runREPL(out)
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.ThetaTable || a.Config.Bernoulli > 0 || a.Config.Gram > 0:
		return a.runTables(out)
	case a.Config.Scan:
		return a.runScan(ctx, out)
	default:
		return a.runEvaluate(ctx, out)
	}
}

// runCompletion generates shell completion scripts.
func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

// openCatalog opens the zero catalog when a store path is configured.
// A nil catalog and error mean no store was requested.
func (a *Application) openCatalog() (*store.Catalog, error) {
	if a.Config.StorePath == "" {
		return nil, nil
	}
	cfg := store.DefaultConfig(a.Config.StorePath)
	cfg.Logger = &a.logger
	catalog, err := store.Open(cfg)
	if err != nil {
		return nil, apperrors.WrapError(err, "opening zero catalog %s", a.Config.StorePath)
	}
	return catalog, nil
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	opts := []server.Option{server.WithLogger(logging.NewZerologAdapter(a.logger.With().Str("component", "server").Logger()))}
	catalog, err := a.openCatalog()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if catalog != nil {
		defer catalog.Close()
		opts = append(opts, server.WithCatalog(catalog))
	}

	srv := server.NewServer(a.Factory, a.Config, opts...)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runREPL starts the interactive REPL mode.
func (a *Application) runREPL(out io.Writer) int {
	method := a.Config.Method
	if method == "all" {
		method = config.DefaultMethod
	}
	repl := cli.NewREPL(a.Factory.GetAll(), cli.REPLConfig{
		DefaultMethod: method,
		Timeout:       a.Config.Timeout,
		Tolerance:     a.Config.Tolerance,
	})
	if a.Input != nil {
		repl.SetInput(a.Input)
	}
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()
	return calibration.RunCalibrationWithOptions(ctx, out, a.Factory.GetAll(), calibration.CalibrationOptions{
		ProfilePath: a.Config.CalibrationProfile,
		SaveProfile: true,
		Timeout:     a.Config.Timeout,
	})
}

// runTables prints the requested reference tables, in a fixed order.
func (a *Application) runTables(out io.Writer) int {
	if a.Config.ThetaTable {
		cli.DisplayThetaTable(out)
	}
	if a.Config.Bernoulli > 0 {
		cli.DisplayBernoulliTable(out, a.Config.Bernoulli)
	}
	if a.Config.Gram > 0 {
		if err := cli.DisplayGramPoints(out, a.Config.Gram); err != nil {
			return apperrors.HandleEvaluationError(err, 0, out, cli.CLIColorProvider{})
		}
	}
	return apperrors.ExitSuccess
}

// outputConfig returns the display options of the CLI flags.
func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Quiet:      a.Config.Quiet,
		JSON:       a.Config.JSONOutput,
	}
}

// progressWriter is where progress goes: nowhere for scripts.
func (a *Application) progressWriter(out io.Writer) io.Writer {
	if a.Config.Quiet || a.Config.JSONOutput {
		return io.Discard
	}
	return out
}

// runScan scans [From, To] for zeros with the configured method and records
// them in the catalog when one is configured.
func (a *Application) runScan(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	method := a.Config.Method
	if method == "all" {
		method = config.DefaultMethod
	}
	calc, err := a.Factory.Get(method)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}

	opts := a.Config.ScanOptions()
	if !a.Config.Quiet && !a.Config.JSONOutput {
		fmt.Fprintf(out, "--- Execution Configuration ---\n")
		fmt.Fprintf(out, "Scanning %s[%s, %s]%s for zeros with %s%s%s (step %s, %d-sample windows, %d workers).\n",
			ui.ColorMagenta(), cli.FormatValue(opts.From), cli.FormatValue(opts.To), ui.ColorReset(),
			ui.ColorGreen(), calc.Name(), ui.ColorReset(),
			cli.FormatValue(opts.Step), opts.WindowPoints, opts.Workers)
	}

	progressChan := make(chan zeta.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	subject := zeta.NewProgressSubject()
	subject.Register(zeta.NewChannelObserver(progressChan))
	var wg sync.WaitGroup
	wg.Add(1)
	go cli.DisplayProgress(&wg, progressChan, 1, a.progressWriter(out))

	start := time.Now()
	res, err := scan.New(calc, scan.WithLogger(a.logger)).Scan(ctx, opts, subject)
	close(progressChan)
	wg.Wait()
	if err != nil {
		return apperrors.HandleEvaluationError(err, time.Since(start), out, cli.CLIColorProvider{})
	}

	if err := a.recordZeros(ctx, calc.Method(), res.Zeros); err != nil {
		fmt.Fprintf(a.ErrWriter, "Warning: %v\n", err)
	}

	if err := cli.DisplayZerosWithConfig(out, res, opts.Step, a.outputConfig()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing zeros: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// recordZeros stores zeros in the configured catalog, if any.
func (a *Application) recordZeros(ctx context.Context, m zeta.Method, zeros []scan.Zero) error {
	catalog, err := a.openCatalog()
	if err != nil || catalog == nil {
		return err
	}
	defer catalog.Close()
	if err := catalog.Put(ctx, m.Key(), zeros); err != nil {
		return apperrors.WrapError(err, "recording %d zeros", len(zeros))
	}
	a.logger.Info().Int("zeros", len(zeros)).Str("store", a.Config.StorePath).Msg("zeros recorded")
	return nil
}

// runEvaluate evaluates the configured point or block with every selected
// method.
func (a *Application) runEvaluate(ctx context.Context, out io.Writer) int {
	ctx, cancel := SetupLifecycle(ctx, a.Config.Timeout)
	defer cancel.Cleanup()

	calculators := cli.GetCalculatorsToRun(a.Config, a.Factory)
	if len(calculators) == 0 {
		fmt.Fprintf(a.ErrWriter, "Error: no calculator available for method %q\n", a.Config.Method)
		return apperrors.ExitErrorConfig
	}

	scripted := a.Config.Quiet || a.Config.JSONOutput
	if !scripted {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	results := orchestration.ExecuteEvaluations(ctx, calculators, a.Config, a.progressWriter(out))

	if scripted {
		return a.printScripted(results, out)
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, a.Config, out)
	if exitCode != apperrors.ExitSuccess || a.Config.OutputFile == "" {
		return exitCode
	}
	best := orchestration.Best(results)
	b := a.Config.Block()
	if err := cli.SaveToFile(a.Config.OutputFile, func(w io.Writer) error { return cli.WriteBlockCSV(w, b, best.Values) }); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	fmt.Fprintf(out, "\n%s✓ Samples saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), a.Config.OutputFile, ui.ColorReset())
	return exitCode
}

// printScripted writes the quiet or JSON rendering of the results. A JSON
// comparison of a single height prints every method and their spread.
func (a *Application) printScripted(results []orchestration.EvaluationResult, out io.Writer) int {
	best := orchestration.Best(results)
	if best == nil {
		return apperrors.HandleEvaluationError(firstError(results), 0, a.ErrWriter, nil)
	}

	b := a.Config.Block()
	if a.Config.JSONOutput && len(results) > 1 && b.Points == 1 {
		return a.printJSONComparison(results, out)
	}

	var err error
	if b.Points == 1 {
		err = cli.DisplayResultWithConfig(out, b.Start, best.Values[0], best.Method, best.Duration, a.outputConfig())
	} else {
		err = cli.DisplayBlockWithConfig(out, b, best.Values, best.Method, best.Duration, a.outputConfig())
	}
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error writing result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) printJSONComparison(results []orchestration.EvaluationResult, out io.Writer) int {
	t := a.Config.T
	doc := models.ComparisonResponse{T: t, Spread: orchestration.Spread(results)}
	for _, res := range results {
		r := models.ZResponse{T: t, Theta: zeta.Theta(t), Method: res.Method.Key(), Terms: res.Method.Terms(t), Duration: res.Duration.String()}
		if res.Err != nil {
			r.Error = res.Err.Error()
		} else {
			r.Z = res.Values[0]
		}
		doc.Results = append(doc.Results, r)
	}
	doc.Consistent = doc.Spread <= a.Config.Tolerance
	if err := cli.WriteJSON(out, doc); err != nil {
		return apperrors.ExitErrorGeneric
	}
	if !doc.Consistent {
		return apperrors.ExitErrorMismatch
	}
	return apperrors.ExitSuccess
}

func firstError(results []orchestration.EvaluationResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return errors.New("no result")
}

// IsHelpError checks if the error is a help flag error (--help was used).
// The application should exit with success after displaying help text.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// ExitCodeFor maps an error returned by New to the process exit code.
func ExitCodeFor(err error) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	return apperrors.ExitCode(err)
}
