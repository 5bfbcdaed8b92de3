// Package cli renders evaluation progress and results on the terminal, writes
// CSV exports, generates shell completion scripts and runs the interactive
// REPL.
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/hardyz/internal/zeta"
)

const (
	// ProgressRefreshRate is the refresh interval of the spinner line.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
	// maxETA caps the displayed estimate.
	maxETA = 24 * time.Hour
	// etaSmoothing is the weight of the previous rate in the moving average.
	etaSmoothing = 0.7
)

// FormatExecutionDuration formats d with µs below a millisecond, ms below a
// second and the default representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "< 1µs"
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// Spinner abstracts the terminal spinner so DisplayProgress can be tested
// without a TTY.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// ProgressTracker aggregates the progress of concurrent evaluations and
// estimates the remaining time from a smoothed progress rate.
type ProgressTracker struct {
	values []float64

	start       time.Time
	lastUpdate  time.Time
	lastAverage float64
	rate        float64 // progress per second
	now         func() time.Time
}

// NewProgressTracker tracks n evaluations.
func NewProgressTracker(n int) *ProgressTracker {
	return newProgressTracker(n, time.Now)
}

func newProgressTracker(n int, now func() time.Time) *ProgressTracker {
	t := now()
	return &ProgressTracker{
		values:     make([]float64, max(n, 0)),
		start:      t,
		lastUpdate: t,
		now:        now,
	}
}

// Update records progress for evaluation index and returns the new average.
// Out-of-range indices are ignored.
func (p *ProgressTracker) Update(index int, value float64) float64 {
	if index >= 0 && index < len(p.values) {
		p.values[index] = min(max(value, 0), 1)
	}
	avg := p.Average()

	now := p.now()
	if now.Sub(p.start) < 100*time.Millisecond || avg <= 0.001 {
		p.lastUpdate, p.lastAverage = now, avg
		return avg
	}
	dt := now.Sub(p.lastUpdate).Seconds()
	if dt < 0.05 {
		return avg
	}
	if delta := avg - p.lastAverage; delta > 0 {
		instant := delta / dt
		if p.rate > 0 {
			p.rate = etaSmoothing*p.rate + (1-etaSmoothing)*instant
		} else {
			p.rate = avg / now.Sub(p.start).Seconds()
		}
	}
	p.lastUpdate, p.lastAverage = now, avg
	return avg
}

// Average returns the mean progress over all tracked evaluations.
func (p *ProgressTracker) Average() float64 {
	if len(p.values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.values {
		sum += v
	}
	return sum / float64(len(p.values))
}

// ETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressTracker) ETA() time.Duration {
	avg := p.Average()
	if p.rate <= 0 || avg >= 1 {
		return 0
	}
	eta := time.Duration((1 - avg) / p.rate * float64(time.Second))
	return min(eta, maxETA)
}

// FormatETA formats an estimate as "< 1s", "42s", "2m30s" or "1h15m".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "estimating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s > 0 {
			return fmt.Sprintf("%dm%ds", m, s)
		}
		return fmt.Sprintf("%dm", m)
	}
	h, m := int(eta.Hours()), int(eta.Minutes())%60
	if m > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}

// progressBar renders a bar of the given width for progress in [0, 1].
func progressBar(progress float64, width int) string {
	filled := int(min(max(progress, 0), 1) * float64(width))
	var b strings.Builder
	b.Grow(width * 3)
	b.WriteString(strings.Repeat("█", filled))
	b.WriteString(strings.Repeat("░", width-filled))
	return b.String()
}

// FormatProgressLine renders "label:  45.00% [████░░░░] ETA: 2m30s".
func FormatProgressLine(label string, progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("%s: %6.2f%% [%s] ETA: %s", label, progress*100, progressBar(progress, width), FormatETA(eta))
}

// DisplayProgress renders the spinner and the aggregated progress of n
// evaluations until progressChan is closed, then prints a final 100% line.
// It is meant to run in its own goroutine and calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan zeta.ProgressUpdate, n int, out io.Writer) {
	defer wg.Done()
	if n <= 0 {
		for range progressChan {
		}
		return
	}

	label := "Progress"
	if n > 1 {
		label = "Avg progress"
	}

	tracker := NewProgressTracker(n)
	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	stopped := false
	defer func() {
		if !stopped {
			s.Stop()
		}
	}()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.Stop()
				stopped = true
				fmt.Fprintln(out, FormatProgressLine(label, 1, time.Millisecond, ProgressBarWidth))
				return
			}
			tracker.Update(update.CalculatorIndex, update.Value)
		case <-ticker.C:
			s.UpdateSuffix(" " + FormatProgressLine(label, tracker.Average(), tracker.ETA(), ProgressBarWidth))
		}
	}
}
