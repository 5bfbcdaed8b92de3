package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/hardyz/internal/ui"
	"github.com/agbru/hardyz/internal/zeta"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// DefaultMethod is the key of the method used by "z" and bare heights.
	DefaultMethod string
	// Timeout bounds each command.
	Timeout time.Duration
	// Tolerance is the largest spread "compare" accepts between methods.
	Tolerance float64
}

// REPL is an interactive Hardy Z session.
type REPL struct {
	config        REPLConfig
	registry      map[string]zeta.Calculator
	currentMethod string
	in            io.Reader
	out           io.Writer
}

// NewREPL creates a REPL over the calculators in registry, keyed by method
// key.
func NewREPL(registry map[string]zeta.Calculator, config REPLConfig) *REPL {
	current := config.DefaultMethod
	if _, ok := registry[current]; !ok {
		current = zeta.DefaultMethod.Key()
		if _, ok := registry[current]; !ok && len(registry) > 0 {
			current = slices.Sorted(maps.Keys(registry))[0]
		}
	}
	if config.Timeout <= 0 {
		config.Timeout = time.Minute
	}
	return &REPL{
		config:        config,
		registry:      registry,
		currentMethod: current,
		in:            os.Stdin,
		out:           os.Stdout,
	}
}

// SetInput sets the input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput sets the output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start reads and runs commands until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	scanner := bufio.NewScanner(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"z> "+ui.ColorReset())
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			}
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s        %sHardy Z-function - Interactive Mode%s               %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	cmd := func(name, help string) {
		fmt.Fprintf(r.out, "  %s%-28s%s - %s\n", ui.ColorYellow(), name, ui.ColorReset(), help)
	}
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd("z <t> | <t>", "Evaluate Z(t) with the current method")
	cmd("method <key>", "Change method ("+strings.Join(r.methodKeys(), ", ")+")")
	cmd("compare <t>", "Evaluate Z(t) with every method")
	cmd("block <start> <length> <points>", "Evaluate a block of samples")
	cmd("theta <t>", "Evaluate the theta function")
	cmd("bernoulli <n>", "List the first n Bernoulli numbers")
	cmd("gram <n>", "Compute the Gram point g_n")
	cmd("list", "List available methods")
	cmd("status", "Display current configuration")
	cmd("help", "Display this help")
	cmd("exit | quit", "Exit interactive mode")
}

func (r *REPL) methodKeys() []string {
	return slices.Sorted(maps.Keys(r.registry))
}

func (r *REPL) errorf(format string, args ...any) {
	fmt.Fprintf(r.out, "%s"+format+"%s\n", append(append([]any{ui.ColorRed()}, args...), ui.ColorReset())...)
}

func (r *REPL) parseHeight(s string) (float64, bool) {
	t, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(t) || math.IsInf(t, 0) {
		r.errorf("Invalid height: %s", s)
		return 0, false
	}
	return t, true
}

// processCommand runs one command line and reports whether the session
// continues.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "z", "eval":
		if len(args) != 1 {
			r.errorf("Usage: z <t>")
			break
		}
		if t, ok := r.parseHeight(args[0]); ok {
			r.evaluate(t)
		}
	case "method", "m":
		r.cmdMethod(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "block", "b":
		r.cmdBlock(args)
	case "theta":
		if len(args) != 1 {
			r.errorf("Usage: theta <t>")
			break
		}
		if t, ok := r.parseHeight(args[0]); ok {
			fmt.Fprintf(r.out, "θ(%s) = %s%s%s\n", FormatValue(t), ui.ColorGreen(), FormatValue(zeta.Theta(t)), ui.ColorReset())
		}
	case "bernoulli":
		n, err := r.parseCount(args, "bernoulli <n>", 1)
		if err == nil {
			DisplayBernoulliTable(r.out, n)
		}
	case "gram":
		r.cmdGram(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if t, err := strconv.ParseFloat(cmd, 64); err == nil && !math.IsNaN(t) && !math.IsInf(t, 0) {
			r.evaluate(t)
			break
		}
		r.errorf("Unknown command: %s", cmd)
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

func (r *REPL) parseCount(args []string, usage string, minValue int) (int, error) {
	if len(args) != 1 {
		r.errorf("Usage: %s", usage)
		return 0, errors.New("usage")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < minValue {
		r.errorf("Invalid value: %s", args[0])
		return 0, errors.New("invalid")
	}
	return n, nil
}

func (r *REPL) current() (zeta.Calculator, bool) {
	calc, ok := r.registry[r.currentMethod]
	if !ok {
		r.errorf("Method not found: %s", r.currentMethod)
	}
	return calc, ok
}

// evaluate computes Z(t) with the current method.
func (r *REPL) evaluate(t float64) {
	calc, ok := r.current()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	start := time.Now()
	z, err := calc.Evaluate(ctx, t)
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	DisplayResult(r.out, t, z, calc.Method(), time.Since(start))
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdMethod(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: method <key>")
		fmt.Fprintf(r.out, "Available methods: %s\n", strings.Join(r.methodKeys(), ", "))
		return
	}
	key := strings.ToLower(args[0])
	if _, ok := r.registry[key]; !ok {
		if m, err := zeta.ParseMethod(key); err == nil {
			key = m.Key()
		}
	}
	calc, ok := r.registry[key]
	if !ok {
		r.errorf("Unknown method: %s", args[0])
		fmt.Fprintf(r.out, "Available methods: %s\n", strings.Join(r.methodKeys(), ", "))
		return
	}
	r.currentMethod = key
	fmt.Fprintf(r.out, "Method changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
}

// cmdCompare evaluates Z(t) with every method and flags a spread above the
// tolerance.
func (r *REPL) cmdCompare(args []string) {
	if len(args) != 1 {
		r.errorf("Usage: compare <t>")
		return
	}
	t, ok := r.parseHeight(args[0])
	if !ok {
		return
	}

	fmt.Fprintf(r.out, "\n%sComparison for Z(%s):%s\n", ui.ColorBold(), FormatValue(t), ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, key := range r.methodKeys() {
		calc := r.registry[key]
		ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
		start := time.Now()
		z, err := calc.Evaluate(ctx, t)
		duration := time.Since(start)
		cancel()

		if err != nil {
			fmt.Fprintf(r.out, "  %s%-20s%s: %sError - %v%s\n", ui.ColorYellow(), calc.Name(), ui.ColorReset(), ui.ColorRed(), err, ui.ColorReset())
			continue
		}
		lo, hi = min(lo, z), max(hi, z)
		fmt.Fprintf(r.out, "  %s%-20s%s: %s%22s%s %s%10s%s\n",
			ui.ColorYellow(), calc.Name(), ui.ColorReset(),
			ui.SignColor(z), FormatValue(z), ui.ColorReset(),
			ui.ColorCyan(), FormatExecutionDuration(duration), ui.ColorReset())
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())

	if hi >= lo {
		spread := hi - lo
		status := ui.ColorGreen() + "✓ consistent" + ui.ColorReset()
		if spread > r.config.Tolerance {
			status = ui.ColorRed() + "✗ spread above tolerance" + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "  Spread: %s (tolerance %s) %s\n\n", FormatValue(spread), FormatValue(r.config.Tolerance), status)
	}
}

func (r *REPL) cmdBlock(args []string) {
	if len(args) != 3 {
		r.errorf("Usage: block <start> <length> <points>")
		return
	}
	start, ok1 := r.parseHeight(args[0])
	length, ok2 := r.parseHeight(args[1])
	if !ok1 || !ok2 {
		return
	}
	points, err := strconv.Atoi(args[2])
	if err != nil || points < 1 {
		r.errorf("Invalid value: %s", args[2])
		return
	}
	calc, ok := r.current()
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	b := zeta.Block{Start: start, Length: length, Points: points}
	progressChan := make(chan zeta.ProgressUpdate, 16)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	begin := time.Now()
	values, err := calc.EvaluateBlock(ctx, progressChan, 0, b)
	duration := time.Since(begin)
	close(progressChan)
	wg.Wait()

	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	DisplayBlock(r.out, b, values, calc.Method(), duration)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdGram(args []string) {
	n, err := r.parseCount(args, "gram <n>", -1)
	if err != nil {
		return
	}
	g, err := zeta.GramPoint(n)
	if err != nil {
		r.errorf("Error: %v", err)
		return
	}
	fmt.Fprintf(r.out, "g_%d = %s%.12f%s\n", n, ui.ColorGreen(), g, ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable methods:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, key := range r.methodKeys() {
		marker := "  "
		if key == r.currentMethod {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-4s%s - %s\n", marker, ui.ColorYellow(), key, ui.ColorReset(), r.registry[key].Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Method:     %s%s%s\n", ui.ColorCyan(), r.currentMethod, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:    %s%s%s\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
	fmt.Fprintf(r.out, "  Tolerance:  %s%s%s\n", ui.ColorCyan(), FormatValue(r.config.Tolerance), ui.ColorReset())
	fmt.Fprintln(r.out)
}
