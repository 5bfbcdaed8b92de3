package zeta

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// ─────────────────────────────────────────────────────────────────────────────
// Channel Observer
// ─────────────────────────────────────────────────────────────────────────────

// ChannelObserver forwards updates to a channel consumed by the CLI progress
// display.
type ChannelObserver struct {
	channel chan<- ProgressUpdate
}

// NewChannelObserver returns an observer sending to ch. A nil channel
// discards updates.
func NewChannelObserver(ch chan<- ProgressUpdate) *ChannelObserver {
	return &ChannelObserver{channel: ch}
}

// Update sends without blocking. When the channel is full the update is
// dropped; the next one supersedes it.
func (o *ChannelObserver) Update(calcIndex int, progress float64) {
	if o.channel == nil {
		return
	}
	progress = min(progress, 1.0)
	select {
	case o.channel <- ProgressUpdate{CalculatorIndex: calcIndex, Value: progress}:
	default:
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Logging Observer
// ─────────────────────────────────────────────────────────────────────────────

// LoggingObserver writes progress to zerolog at debug level, at most once per
// threshold of progress for each calculator.
type LoggingObserver struct {
	logger    zerolog.Logger
	threshold float64
	mu        sync.Mutex
	lastLog   map[int]float64
}

// NewLoggingObserver returns a logging observer. A non-positive threshold
// defaults to 0.1.
func NewLoggingObserver(logger zerolog.Logger, threshold float64) *LoggingObserver {
	if threshold <= 0 {
		threshold = 0.1
	}
	return &LoggingObserver{
		logger:    logger,
		threshold: threshold,
		lastLog:   make(map[int]float64),
	}
}

// Update logs the first update, completion, and every change of at least the
// threshold.
func (o *LoggingObserver) Update(calcIndex int, progress float64) {
	o.mu.Lock()
	defer o.mu.Unlock()

	last, seen := o.lastLog[calcIndex]
	if seen && progress < 1.0 && progress-last < o.threshold {
		return
	}
	o.logger.Debug().
		Int("calculator", calcIndex).
		Float64("progress", progress).
		Msg("evaluation progress")
	o.lastLog[calcIndex] = progress
}

// ─────────────────────────────────────────────────────────────────────────────
// Metrics Observer (Prometheus)
// ─────────────────────────────────────────────────────────────────────────────

var progressGauge = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "hardyz_block_progress",
		Help: "Current progress of Hardy Z block evaluations (0.0 to 1.0)",
	},
	[]string{"calculator_index"},
)

// MetricsObserver exports progress through a Prometheus gauge.
type MetricsObserver struct {
	gauge *prometheus.GaugeVec
}

// NewMetricsObserver returns an observer backed by hardyz_block_progress.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{gauge: progressGauge}
}

// Update sets the gauge for calcIndex.
func (o *MetricsObserver) Update(calcIndex int, progress float64) {
	o.gauge.WithLabelValues(strconv.Itoa(calcIndex)).Set(progress)
}

// ResetMetrics clears the gauge for every calculator.
func (o *MetricsObserver) ResetMetrics() {
	o.gauge.Reset()
}

// ─────────────────────────────────────────────────────────────────────────────
// No-Op Observer
// ─────────────────────────────────────────────────────────────────────────────

// NoOpObserver discards every update.
type NoOpObserver struct{}

// NewNoOpObserver returns a NoOpObserver.
func NewNoOpObserver() *NoOpObserver {
	return &NoOpObserver{}
}

// Update does nothing.
func (o *NoOpObserver) Update(int, float64) {}
