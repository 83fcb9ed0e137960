package debug

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Profiler collects timing statistics for named sections.
type Profiler struct {
	mu           sync.RWMutex
	measurements map[string]*Measurement
	enabled      atomic.Bool
	maxSamples   int
}

// Measurement holds timing statistics for a profiled section.
type Measurement struct {
	count       uint64
	totalTime   time.Duration
	minTime     time.Duration
	maxTime     time.Duration
	lastTime    time.Duration
	samples     []time.Duration
	sampleIndex int
}

// DefaultProfiler is the global profiler instance.
var DefaultProfiler = NewProfiler(1000)

// NewProfiler creates a new profiler keeping the most recent
// maxSamples timings per section for percentile queries.
func NewProfiler(maxSamples int) *Profiler {
	p := &Profiler{
		measurements: make(map[string]*Measurement),
		maxSamples:   maxSamples,
	}
	p.enabled.Store(true)
	return p
}

// SetEnabled enables or disables profiling.
func (p *Profiler) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// IsEnabled returns whether profiling is enabled.
func (p *Profiler) IsEnabled() bool {
	return p.enabled.Load()
}

// Start begins timing a named section. The returned func stops the
// timer and records the measurement.
func (p *Profiler) Start(name string) func() {
	if !p.enabled.Load() {
		return func() {}
	}

	start := time.Now()

	return func() {
		elapsed := time.Since(start)
		p.record(name, elapsed)
	}
}

// Time measures the execution time of a function.
func (p *Profiler) Time(name string, fn func()) {
	stop := p.Start(name)
	defer stop()
	fn()
}

func (p *Profiler) record(name string, elapsed time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	m, exists := p.measurements[name]
	if !exists {
		m = &Measurement{
			minTime: elapsed,
			maxTime: elapsed,
			samples: make([]time.Duration, p.maxSamples),
		}
		p.measurements[name] = m
	}

	m.count++
	m.totalTime += elapsed
	m.lastTime = elapsed

	if elapsed < m.minTime {
		m.minTime = elapsed
	}
	if elapsed > m.maxTime {
		m.maxTime = elapsed
	}

	m.samples[m.sampleIndex] = elapsed
	m.sampleIndex = (m.sampleIndex + 1) % p.maxSamples
}

// GetMeasurement returns a copy of the measurement for a named section.
func (p *Profiler) GetMeasurement(name string) (*Measurement, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	m, exists := p.measurements[name]
	if !exists {
		return nil, false
	}

	c := *m
	c.samples = append([]time.Duration(nil), m.samples...)
	return &c, true
}

// GetAllMeasurements returns copies of all measurements.
func (p *Profiler) GetAllMeasurements() map[string]*Measurement {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make(map[string]*Measurement, len(p.measurements))
	for k, v := range p.measurements {
		c := *v
		c.samples = append([]time.Duration(nil), v.samples...)
		result[k] = &c
	}
	return result
}

// Reset clears all measurements.
func (p *Profiler) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.measurements = make(map[string]*Measurement)
}

// Report generates a performance report with sections in name order.
func (p *Profiler) Report() string {
	measurements := p.GetAllMeasurements()

	if len(measurements) == 0 {
		return "No measurements recorded"
	}

	names := make([]string, 0, len(measurements))
	for name := range measurements {
		names = append(names, name)
	}
	sort.Strings(names)

	report := "Performance Report:\n"
	report += "==================\n\n"

	for _, name := range names {
		m := measurements[name]
		report += fmt.Sprintf("%s:\n", name)
		report += fmt.Sprintf("  Count:   %d\n", m.count)
		report += fmt.Sprintf("  Total:   %v\n", m.totalTime)
		report += fmt.Sprintf("  Average: %v\n", m.Average())
		report += fmt.Sprintf("  Min:     %v\n", m.minTime)
		report += fmt.Sprintf("  Max:     %v\n", m.maxTime)
		report += fmt.Sprintf("  Last:    %v\n", m.lastTime)
		report += "\n"
	}

	return report
}

// Measurement methods

// Count returns the number of recorded timings.
func (m *Measurement) Count() uint64 {
	return m.count
}

// Total returns the summed time across all recorded timings.
func (m *Measurement) Total() time.Duration {
	return m.totalTime
}

// Average returns the average time for this measurement.
func (m *Measurement) Average() time.Duration {
	if m.count == 0 {
		return 0
	}
	return m.totalTime / time.Duration(m.count)
}

// Percentile returns the given percentile over the retained samples.
func (m *Measurement) Percentile(p float64) time.Duration {
	if m.count == 0 {
		return 0
	}

	n := len(m.samples)
	if uint64(n) > m.count {
		n = int(m.count)
	}
	valid := make([]time.Duration, 0, n)
	for _, s := range m.samples {
		if s > 0 {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return 0
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i] < valid[j] })

	index := int(float64(len(valid)-1) * p / 100.0)
	return valid[index]
}

// Global profiling functions

// Start begins timing a named section using the default profiler.
func Start(name string) func() {
	return DefaultProfiler.Start(name)
}

// Time measures the execution time of a function using the default profiler.
func Time(name string, fn func()) {
	DefaultProfiler.Time(name, fn)
}

// EnableProfiling enables the default profiler.
func EnableProfiling() {
	DefaultProfiler.SetEnabled(true)
}

// DisableProfiling disables the default profiler.
func DisableProfiling() {
	DefaultProfiler.SetEnabled(false)
}

// ResetProfiling clears all measurements in the default profiler.
func ResetProfiling() {
	DefaultProfiler.Reset()
}

// ProfilingReport returns a performance report from the default profiler.
func ProfilingReport() string {
	return DefaultProfiler.Report()
}

// RenderSection is the section name RenderProfiler records blocks under.
const RenderSection = "process"

// RenderProfiler profiles block processing during an offline render
// and reports how the render compares to realtime playback.
type RenderProfiler struct {
	*Profiler
	sampleRate float32
	frames     atomic.Uint64
}

// NewRenderProfiler creates a profiler for a render at the given rate.
func NewRenderProfiler(sampleRate float32) *RenderProfiler {
	return &RenderProfiler{
		Profiler:   NewProfiler(1000),
		sampleRate: sampleRate,
	}
}

// Block begins timing one processed block. The returned func stops the
// timer and accounts the rendered frames.
func (r *RenderProfiler) Block(nframes int) func() {
	stop := r.Start(RenderSection)
	return func() {
		stop()
		r.frames.Add(uint64(nframes))
	}
}

// Frames returns the total number of frames accounted so far.
func (r *RenderProfiler) Frames() uint64 {
	return r.frames.Load()
}

// RealtimeFactor returns rendered audio time divided by processing
// time. A factor above 1 means the render ran faster than realtime.
// Returns 0 until at least one block has been recorded.
func (r *RenderProfiler) RealtimeFactor() float64 {
	m, ok := r.GetMeasurement(RenderSection)
	if !ok || m.Total() <= 0 || r.sampleRate <= 0 {
		return 0
	}
	audio := float64(r.frames.Load()) / float64(r.sampleRate)
	return audio / m.Total().Seconds()
}

// RenderReport generates a report including render throughput.
func (r *RenderProfiler) RenderReport() string {
	report := r.Report()

	report += "\nRender stats:\n"
	report += fmt.Sprintf("  Sample rate: %.0f Hz\n", r.sampleRate)
	report += fmt.Sprintf("  Frames:      %d\n", r.frames.Load())
	if rf := r.RealtimeFactor(); rf > 0 {
		report += fmt.Sprintf("  Realtime:    %.1fx\n", rf)
	}

	return report
}
