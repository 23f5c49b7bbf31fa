// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package report provides cond.Observer implementations for diagnostic
// consumers: a zap-backed structured logger and prometheus counters.
package report

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"code.hybscloud.com/cond"
)

// Logger is a cond.Observer writing structured log entries. Dispatch events
// go to Debug (suppressed unless cfg.Verbose); unhandled fatal conditions go
// to Error with the snapshot attached.
type Logger struct {
	log     *zap.Logger
	verbose bool
}

// NewLogger wraps a zap logger as an observer.
func NewLogger(log *zap.Logger, cfg Config) *Logger {
	return &Logger{log: log, verbose: cfg.Verbose}
}

// OnSignal implements cond.Observer.
func (l *Logger) OnSignal(c *cond.Condition) {
	if !l.verbose {
		return
	}
	l.log.Debug("condition signaled",
		zap.String("kind", c.Kind()),
		zap.String("severity", c.Severity().String()),
		zap.String("message", c.Message()),
	)
}

// OnHandled implements cond.Observer.
func (l *Logger) OnHandled(c *cond.Condition, d cond.Discipline) {
	if !l.verbose {
		return
	}
	l.log.Debug("condition handled",
		zap.String("kind", c.Kind()),
		zap.String("discipline", d.String()),
	)
}

// OnRestart implements cond.Observer.
func (l *Logger) OnRestart(name string) {
	if !l.verbose {
		return
	}
	l.log.Debug("restart invoked", zap.String("name", name))
}

// OnUnwind implements cond.Observer.
func (l *Logger) OnUnwind(frames int) {
	if !l.verbose {
		return
	}
	l.log.Debug("unwinding", zap.Int("frames", frames))
}

// OnFatal implements cond.Observer.
func (l *Logger) OnFatal(c *cond.Condition, snap cond.Snapshot) {
	l.log.Error("unhandled condition",
		zap.String("kind", c.Kind()),
		zap.String("severity", c.Severity().String()),
		zap.String("message", c.Message()),
		zap.String("origin", c.Origin().String()),
		zap.Uint64s("frame_ids", snap.FrameIDs),
		zap.Strings("active_restarts", snap.ActiveRestartNames),
	)
}

// Metrics is a cond.Observer recording prometheus metrics. Condition kinds
// are reduced to their root segment to bound label cardinality.
type Metrics struct {
	signals     *prometheus.CounterVec
	handled     *prometheus.CounterVec
	restarts    *prometheus.CounterVec
	fatals      prometheus.Counter
	unwindDepth prometheus.Histogram
}

// NewMetrics creates and registers the metric set on reg.
func NewMetrics(reg prometheus.Registerer, cfg Config) *Metrics {
	ns := cfg.Namespace
	if ns == "" {
		ns = "cond"
	}
	m := &Metrics{
		signals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "signals_total",
			Help:      "Conditions signaled, by kind root and severity.",
		}, []string{"root", "severity"}),
		handled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "handled_total",
			Help:      "Conditions matched to a handler, by discipline.",
		}, []string{"discipline"}),
		restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "restarts_invoked_total",
			Help:      "Restart invocations, by restart name.",
		}, []string{"name"}),
		fatals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "unhandled_fatal_total",
			Help:      "Error-severity conditions that reached the boundary unhandled.",
		}),
		unwindDepth: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "unwind_depth_frames",
			Help:      "Frames torn down per unwind.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
	}
	reg.MustRegister(m.signals, m.handled, m.restarts, m.fatals, m.unwindDepth)
	return m
}

// OnSignal implements cond.Observer.
func (m *Metrics) OnSignal(c *cond.Condition) {
	m.signals.WithLabelValues(kindRoot(c.Kind()), c.Severity().String()).Inc()
}

// OnHandled implements cond.Observer.
func (m *Metrics) OnHandled(_ *cond.Condition, d cond.Discipline) {
	m.handled.WithLabelValues(d.String()).Inc()
}

// OnRestart implements cond.Observer.
func (m *Metrics) OnRestart(name string) {
	m.restarts.WithLabelValues(name).Inc()
}

// OnUnwind implements cond.Observer.
func (m *Metrics) OnUnwind(frames int) {
	m.unwindDepth.Observe(float64(frames))
}

// OnFatal implements cond.Observer.
func (m *Metrics) OnFatal(*cond.Condition, cond.Snapshot) {
	m.fatals.Inc()
}

func kindRoot(kind string) string {
	for i := 0; i < len(kind); i++ {
		if kind[i] == '.' {
			return kind[:i]
		}
	}
	return kind
}

// Multi fans events out to several observers in order.
type Multi []cond.Observer

// OnSignal implements cond.Observer.
func (ms Multi) OnSignal(c *cond.Condition) {
	for _, o := range ms {
		o.OnSignal(c)
	}
}

// OnHandled implements cond.Observer.
func (ms Multi) OnHandled(c *cond.Condition, d cond.Discipline) {
	for _, o := range ms {
		o.OnHandled(c, d)
	}
}

// OnRestart implements cond.Observer.
func (ms Multi) OnRestart(name string) {
	for _, o := range ms {
		o.OnRestart(name)
	}
}

// OnUnwind implements cond.Observer.
func (ms Multi) OnUnwind(frames int) {
	for _, o := range ms {
		o.OnUnwind(frames)
	}
}

// OnFatal implements cond.Observer.
func (ms Multi) OnFatal(c *cond.Condition, snap cond.Snapshot) {
	for _, o := range ms {
		o.OnFatal(c, snap)
	}
}
