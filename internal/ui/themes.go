// Package ui holds the terminal color themes shared by the CLI and the error
// handler. Colors are plain ANSI escape codes; the NoColorTheme turns every
// one of them into the empty string.
package ui

import (
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

// Theme defines a color scheme for UI output.
type Theme struct {
	Name      string
	Primary   string
	Secondary string
	Success   string
	Warning   string
	Error     string
	Info      string
	// Positive and Negative color the sign of a Z(t) value.
	Positive  string
	Negative  string
	Bold      string
	Underline string
	Reset     string
}

var (
	// DarkTheme is tuned for dark terminal backgrounds.
	DarkTheme = Theme{
		Name:      "dark",
		Primary:   "\033[38;5;39m",
		Secondary: "\033[38;5;245m",
		Success:   "\033[38;5;82m",
		Warning:   "\033[38;5;220m",
		Error:     "\033[38;5;196m",
		Info:      "\033[38;5;141m",
		Positive:  "\033[38;5;45m",
		Negative:  "\033[38;5;209m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// LightTheme is tuned for light terminal backgrounds.
	LightTheme = Theme{
		Name:      "light",
		Primary:   "\033[38;5;27m",
		Secondary: "\033[38;5;240m",
		Success:   "\033[38;5;28m",
		Warning:   "\033[38;5;130m",
		Error:     "\033[38;5;124m",
		Info:      "\033[38;5;54m",
		Positive:  "\033[38;5;25m",
		Negative:  "\033[38;5;160m",
		Bold:      "\033[1m",
		Underline: "\033[4m",
		Reset:     "\033[0m",
	}

	// NoColorTheme disables all color output.
	NoColorTheme = Theme{Name: "none"}

	currentTheme = DarkTheme
	themeMutex   sync.RWMutex
)

// GetCurrentTheme returns the active theme.
func GetCurrentTheme() Theme {
	themeMutex.RLock()
	defer themeMutex.RUnlock()
	return currentTheme
}

// SetCurrentTheme replaces the active theme. Tests use it to restore state.
func SetCurrentTheme(t Theme) {
	themeMutex.Lock()
	defer themeMutex.Unlock()
	currentTheme = t
}

// SetTheme changes the active theme by name ("dark", "light" or "none").
// Unknown names select the dark theme.
func SetTheme(name string) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	switch name {
	case "light":
		currentTheme = LightTheme
	case "none":
		currentTheme = NoColorTheme
	default:
		currentTheme = DarkTheme
	}
}

// IsTerminal reports whether w is a file attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// InitTheme selects the startup theme. Colors are disabled when noColor is
// set, when NO_COLOR is present in the environment (https://no-color.org/)
// or when the output is not a terminal.
func InitTheme(noColor, terminal bool) {
	themeMutex.Lock()
	defer themeMutex.Unlock()

	if _, exists := os.LookupEnv("NO_COLOR"); noColor || exists || !terminal {
		currentTheme = NoColorTheme
		return
	}
	currentTheme = DarkTheme
}
