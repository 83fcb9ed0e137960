package debug

import (
	"fmt"
	"math"
)

// Analyzer inspects audio buffers for common defects. Thresholds may
// be adjusted before use; the zero value is not valid, use NewAnalyzer.
type Analyzer struct {
	ClipThreshold    float32
	DCThreshold      float32
	SilenceThreshold float32
}

// NewAnalyzer creates an analyzer with default thresholds.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		ClipThreshold:    0.99,
		DCThreshold:      0.01,
		SilenceThreshold: 0.0001,
	}
}

// Stats summarizes an analyzed buffer. NaN and Inf samples are counted
// but excluded from Peak, RMS and DC.
type Stats struct {
	Peak          float32
	RMS           float32
	DC            float32
	Clipped       int
	NaNs          int
	Infs          int
	ZeroCrossings int
	Silent        bool
}

// accum carries running sums across channels so RMS and DC keep
// float64 precision over long buffers.
type accum struct {
	stats      Stats
	sum        float64
	sumSquares float64
	samples    int
}

// Analyze scans a single channel.
func (a *Analyzer) Analyze(buffer []float32) Stats {
	var ac accum
	a.scan(buffer, &ac)
	return a.finish(&ac)
}

// AnalyzeChannels scans a planar buffer and aggregates the result:
// peak is the maximum over all channels, RMS and DC span all samples,
// counts are summed. Zero crossings are counted per channel.
func (a *Analyzer) AnalyzeChannels(channels [][]float32) Stats {
	var ac accum
	for _, ch := range channels {
		a.scan(ch, &ac)
	}
	return a.finish(&ac)
}

func (a *Analyzer) scan(buffer []float32, ac *accum) {
	s := &ac.stats
	var lastSample float32
	for i, sample := range buffer {
		f := float64(sample)
		if math.IsNaN(f) {
			s.NaNs++
			continue
		}
		if math.IsInf(f, 0) {
			s.Infs++
			continue
		}

		abs := sample
		if abs < 0 {
			abs = -abs
		}
		if abs > s.Peak {
			s.Peak = abs
		}
		if abs >= a.ClipThreshold {
			s.Clipped++
		}

		ac.sum += f
		ac.sumSquares += f * f
		ac.samples++

		if i > 0 && ((lastSample < 0 && sample >= 0) || (lastSample >= 0 && sample < 0)) {
			s.ZeroCrossings++
		}
		lastSample = sample
	}
}

func (a *Analyzer) finish(ac *accum) Stats {
	s := ac.stats
	if ac.samples == 0 {
		return s
	}
	s.RMS = float32(math.Sqrt(ac.sumSquares / float64(ac.samples)))
	s.DC = float32(ac.sum / float64(ac.samples))
	s.Silent = s.RMS < a.SilenceThreshold
	return s
}

// CompareBuffers compares two audio buffers and reports differences.
func CompareBuffers(a, b []float32, tolerance float32) string {
	if len(a) != len(b) {
		return fmt.Sprintf("Buffer length mismatch: %d vs %d", len(a), len(b))
	}

	var maxDiff float32
	var maxDiffIndex int
	var totalDiff float64
	var diffCount int

	for i := 0; i < len(a); i++ {
		diff := a[i] - b[i]
		if diff < 0 {
			diff = -diff
		}
		if diff > tolerance {
			diffCount++
			totalDiff += float64(diff)
			if diff > maxDiff {
				maxDiff = diff
				maxDiffIndex = i
			}
		}
	}

	if diffCount == 0 {
		return "Buffers are identical within tolerance"
	}

	avgDiff := totalDiff / float64(diffCount)

	return fmt.Sprintf("Buffer differences:\n"+
		"  Samples different: %d / %d (%.1f%%)\n"+
		"  Max difference: %.6f at sample %d\n"+
		"  Average difference: %.6f\n"+
		"  Tolerance: %.6f",
		diffCount, len(a), float64(diffCount)/float64(len(a))*100,
		maxDiff, maxDiffIndex,
		avgDiff,
		tolerance)
}

// CheckBuffer runs sanity checks on a buffer and returns a list of
// human-readable issues, empty when the buffer is healthy.
func CheckBuffer(buffer []float32, name string) []string {
	var issues []string

	analyzer := NewAnalyzer()
	stats := analyzer.Analyze(buffer)

	if stats.NaNs > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d NaN samples", name, stats.NaNs))
	}
	if stats.Infs > 0 {
		issues = append(issues, fmt.Sprintf("%s: contains %d Inf samples", name, stats.Infs))
	}
	if stats.Clipped > 0 {
		issues = append(issues, fmt.Sprintf("%s: clipping detected (%d samples)", name, stats.Clipped))
	}
	if math.Abs(float64(stats.DC)) > float64(analyzer.DCThreshold) {
		issues = append(issues, fmt.Sprintf("%s: DC offset detected (%.3f)", name, stats.DC))
	}
	if stats.Peak > 1.0 {
		issues = append(issues, fmt.Sprintf("%s: peak exceeds 1.0 (%.3f)", name, stats.Peak))
	}

	return issues
}

// Global audio debugging functions

var defaultAnalyzer = NewAnalyzer()

// AnalyzeBuffer analyzes a buffer using the default analyzer.
func AnalyzeBuffer(buffer []float32) Stats {
	return defaultAnalyzer.Analyze(buffer)
}

// CheckAudioBuffer runs CheckBuffer and logs each issue as a warning.
func CheckAudioBuffer(buffer []float32, name string) {
	issues := CheckBuffer(buffer, name)
	for _, issue := range issues {
		Warn("%s", issue)
	}
}

// LogBufferStats logs statistics about an audio buffer.
func LogBufferStats(buffer []float32, name string) {
	stats := defaultAnalyzer.Analyze(buffer)

	Info("Audio buffer '%s' stats:", name)
	Info("  Samples: %d", len(buffer))
	Info("  Peak: %.3f", stats.Peak)
	Info("  RMS: %.3f", stats.RMS)
	Info("  DC: %.6f", stats.DC)

	if stats.Clipped > 0 {
		Warn("  Clipping: %d samples", stats.Clipped)
	}
	if stats.Silent {
		Info("  Status: Silent")
	}
	if stats.NaNs > 0 {
		Error("  NaN values: %d", stats.NaNs)
	}
	if stats.Infs > 0 {
		Error("  Inf values: %d", stats.Infs)
	}
}
