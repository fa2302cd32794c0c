//go:build !tinygo

package app

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/uber-go/tally/v4"

	"bozzard/bozos/kernel"
	"bozzard/hal"
	"bozzard/internal/config"
)

const metricsPrefix = "bozzard"

// metrics counts kernel activity into a tally scope.
type metrics struct {
	scope    tally.Scope
	closer   io.Closer
	ticks    tally.Counter
	calls    tally.Counter
	exits    tally.Counter
	crashes  tally.Counter
	depth    tally.Gauge
	dispatch map[kernel.DispatchKind]tally.Counter
}

func newMetrics(cfg *config.Config, logger hal.Logger) *metrics {
	if !cfg.Metrics.Enabled {
		return nil
	}
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:   metricsPrefix,
		Reporter: newLogReporter(logger),
	}, time.Duration(cfg.Metrics.IntervalMs)*time.Millisecond)
	return newMetricsOn(scope, closer)
}

func newMetricsOn(scope tally.Scope, closer io.Closer) *metrics {
	m := &metrics{
		scope:    scope,
		closer:   closer,
		ticks:    scope.Counter("ticks"),
		calls:    scope.Counter("app.calls"),
		exits:    scope.Counter("app.exits"),
		crashes:  scope.Counter("app.crashes"),
		depth:    scope.Gauge("stack.depth"),
		dispatch: make(map[kernel.DispatchKind]tally.Counter),
	}
	for k := kernel.DispatchInit; k <= kernel.DispatchSerial; k++ {
		m.dispatch[k] = scope.Tagged(map[string]string{"kind": k.String()}).Counter("dispatch")
	}
	return m
}

func (m *metrics) OnTick(uint32) { m.ticks.Inc(1) }

func (m *metrics) OnDispatch(kind kernel.DispatchKind) {
	if c, ok := m.dispatch[kind]; ok {
		c.Inc(1)
	}
}

func (m *metrics) OnCall(_ kernel.AppID, depth int) {
	m.calls.Inc(1)
	m.depth.Update(float64(depth))
}

func (m *metrics) OnExit(kernel.AppID, int) {
	m.exits.Inc(1)
}

func (m *metrics) OnCrash(kernel.CrashInfo) { m.crashes.Inc(1) }

// Close flushes the last interval.
func (m *metrics) Close() {
	if m.closer != nil {
		_ = m.closer.Close()
	}
}

// logReporter writes one line per reporting interval with every value that
// changed.
type logReporter struct {
	logger hal.Logger

	mu      sync.Mutex
	pending map[string]string
}

func newLogReporter(logger hal.Logger) *logReporter {
	return &logReporter{logger: logger, pending: map[string]string{}}
}

func (r *logReporter) Capabilities() tally.Capabilities { return r }
func (r *logReporter) Reporting() bool                  { return r.logger != nil }
func (r *logReporter) Tagging() bool                    { return true }

func (r *logReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.put(name, tags, fmt.Sprintf("%d", value))
}

func (r *logReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.put(name, tags, fmt.Sprintf("%g", value))
}

func (r *logReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.put(name, tags, interval.String())
}

func (r *logReporter) ReportHistogramValueSamples(name string, tags map[string]string, _ tally.Buckets, lower, upper float64, samples int64) {
	r.put(name, tags, fmt.Sprintf("[%g,%g):%d", lower, upper, samples))
}

func (r *logReporter) ReportHistogramDurationSamples(name string, tags map[string]string, _ tally.Buckets, lower, upper time.Duration, samples int64) {
	r.put(name, tags, fmt.Sprintf("[%s,%s):%d", lower, upper, samples))
}

func (r *logReporter) put(name string, tags map[string]string, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[metricKey(name, tags)] = value
}

// Flush writes the collected values, sorted by key.
func (r *logReporter) Flush() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 || r.logger == nil {
		return
	}
	r.logger.WriteLineString(r.line())
	r.pending = map[string]string{}
}

func (r *logReporter) line() string {
	keys := make([]string, 0, len(r.pending))
	for k := range r.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("metrics:")
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(r.pending[k])
	}
	return b.String()
}

func metricKey(name string, tags map[string]string) string {
	if len(tags) == 0 {
		return name
	}
	names := make([]string, 0, len(tags))
	for k := range tags {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = k + ":" + tags[k]
	}
	return name + "{" + strings.Join(parts, ",") + "}"
}
