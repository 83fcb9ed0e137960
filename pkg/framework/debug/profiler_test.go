package debug

import (
	"strings"
	"testing"
	"time"
)

func TestProfiler(t *testing.T) {
	t.Run("BasicProfiling", func(t *testing.T) {
		p := NewProfiler(100)

		stop := p.Start("test")
		time.Sleep(10 * time.Millisecond)
		stop()

		m, exists := p.GetMeasurement("test")
		if !exists {
			t.Fatal("Measurement not found")
		}

		if m.Count() != 1 {
			t.Errorf("Expected count 1, got %d", m.Count())
		}

		if m.lastTime < 10*time.Millisecond {
			t.Error("Timing seems too short")
		}
	})

	t.Run("MultipleRuns", func(t *testing.T) {
		p := NewProfiler(100)

		for i := 0; i < 5; i++ {
			stop := p.Start("multi")
			time.Sleep(time.Millisecond)
			stop()
		}

		m, exists := p.GetMeasurement("multi")
		if !exists {
			t.Fatal("Measurement not found")
		}

		if m.Count() != 5 {
			t.Errorf("Expected count 5, got %d", m.Count())
		}

		avg := m.Average()
		if m.minTime > avg || avg > m.maxTime {
			t.Error("Invalid min/avg/max relationship")
		}
	})

	t.Run("TimeFunction", func(t *testing.T) {
		p := NewProfiler(100)

		called := false
		p.Time("function", func() {
			called = true
			time.Sleep(5 * time.Millisecond)
		})

		if !called {
			t.Error("Function not called")
		}

		m, exists := p.GetMeasurement("function")
		if !exists {
			t.Fatal("Measurement not found")
		}

		if m.Count() != 1 {
			t.Error("Expected one measurement")
		}
	})

	t.Run("Disabled", func(t *testing.T) {
		p := NewProfiler(100)
		p.SetEnabled(false)

		stop := p.Start("disabled")
		time.Sleep(time.Millisecond)
		stop()

		_, exists := p.GetMeasurement("disabled")
		if exists {
			t.Error("Measurement should not exist when disabled")
		}
	})

	t.Run("Reset", func(t *testing.T) {
		p := NewProfiler(100)

		stop := p.Start("reset")
		stop()

		p.Reset()

		measurements := p.GetAllMeasurements()
		if len(measurements) != 0 {
			t.Error("Measurements not cleared")
		}
	})

	t.Run("Report", func(t *testing.T) {
		p := NewProfiler(100)

		p.Time("task1", func() {
			time.Sleep(time.Millisecond)
		})
		p.Time("task2", func() {
			time.Sleep(2 * time.Millisecond)
		})

		report := p.Report()

		if !strings.Contains(report, "task1") {
			t.Error("Report missing task1")
		}
		if !strings.Contains(report, "task2") {
			t.Error("Report missing task2")
		}
		if !strings.Contains(report, "Count:") {
			t.Error("Report missing count")
		}

		// Sections are listed in name order.
		if strings.Index(report, "task1") > strings.Index(report, "task2") {
			t.Error("Report sections not sorted")
		}
	})

	t.Run("Percentile", func(t *testing.T) {
		p := NewProfiler(100)

		for i := 1; i <= 100; i++ {
			p.record("spread", time.Duration(i)*time.Millisecond)
		}

		m, exists := p.GetMeasurement("spread")
		if !exists {
			t.Fatal("Measurement not found")
		}

		if got := m.Percentile(0); got != time.Millisecond {
			t.Errorf("P0 = %v, want 1ms", got)
		}
		if got := m.Percentile(50); got != 50*time.Millisecond {
			t.Errorf("P50 = %v, want 50ms", got)
		}
		if got := m.Percentile(100); got != 100*time.Millisecond {
			t.Errorf("P100 = %v, want 100ms", got)
		}
	})
}

func TestRenderProfiler(t *testing.T) {
	t.Run("RealtimeFactor", func(t *testing.T) {
		p := NewRenderProfiler(48000)

		if p.RealtimeFactor() != 0 {
			t.Error("Factor should be 0 before any block")
		}

		// Three blocks of 0.1s audio each, processed far faster
		// than realtime.
		for i := 0; i < 3; i++ {
			stop := p.Block(4800)
			time.Sleep(time.Millisecond)
			stop()
		}

		if got := p.Frames(); got != 14400 {
			t.Errorf("Frames = %d, want 14400", got)
		}

		factor := p.RealtimeFactor()
		if factor <= 1 {
			t.Errorf("RealtimeFactor = %.2f, expected faster than realtime", factor)
		}
	})

	t.Run("RenderReport", func(t *testing.T) {
		p := NewRenderProfiler(44100)

		stop := p.Block(256)
		stop()

		report := p.RenderReport()

		if !strings.Contains(report, "44100 Hz") {
			t.Error("Report missing sample rate")
		}
		if !strings.Contains(report, "Frames:") {
			t.Error("Report missing frame count")
		}
		if !strings.Contains(report, RenderSection) {
			t.Error("Report missing process section")
		}
	})
}

func TestGlobalProfiler(t *testing.T) {
	ResetProfiling()
	EnableProfiling()

	stop := Start("global")
	time.Sleep(time.Millisecond)
	stop()

	Time("global2", func() {
		time.Sleep(time.Millisecond)
	})

	report := ProfilingReport()
	if !strings.Contains(report, "global") {
		t.Error("Global profiling not working")
	}
}

func BenchmarkProfiler(b *testing.B) {
	p := NewProfiler(1000)

	b.Run("StartStop", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			stop := p.Start("bench")
			stop()
		}
	})

	b.Run("Disabled", func(b *testing.B) {
		p.SetEnabled(false)
		for i := 0; i < b.N; i++ {
			stop := p.Start("bench")
			stop()
		}
	})
}
