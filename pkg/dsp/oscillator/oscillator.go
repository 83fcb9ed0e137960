// Package oscillator generates periodic waveforms for the example
// instruments.
package oscillator

import "math"

// Shape selects a waveform.
type Shape uint8

const (
	Sine Shape = iota
	Saw
	Square
	Triangle

	NumShapes = 4
)

func (s Shape) String() string {
	switch s {
	case Sine:
		return "Sine"
	case Saw:
		return "Saw"
	case Square:
		return "Square"
	case Triangle:
		return "Triangle"
	}
	return "Unknown"
}

// Osc is a phase accumulator oscillator. The phase runs 0..1; all
// shapes evaluate from the same accumulator, so a caller can render
// two shapes at one phase and crossfade between them.
type Osc struct {
	sampleRate float64
	freq       float64
	phase      float64
	inc        float64
}

// New creates an oscillator at 440 Hz.
func New(sampleRate float64) *Osc {
	o := &Osc{sampleRate: sampleRate}
	o.SetFrequency(440.0)
	return o
}

// SetSampleRate changes the sample rate, keeping the frequency.
func (o *Osc) SetSampleRate(rate float64) {
	o.sampleRate = rate
	o.SetFrequency(o.freq)
}

// SetFrequency sets the frequency in Hz.
func (o *Osc) SetFrequency(freq float64) {
	o.freq = freq
	if o.sampleRate > 0 {
		o.inc = freq / o.sampleRate
	}
}

// Frequency returns the current frequency in Hz.
func (o *Osc) Frequency() float64 {
	return o.freq
}

// SetPhase sets the phase, wrapped to 0..1.
func (o *Osc) SetPhase(phase float64) {
	o.phase = phase - math.Floor(phase)
}

// Phase returns the current phase in 0..1, for callers that warp the
// phase before shaping it themselves.
func (o *Osc) Phase() float64 {
	return o.phase
}

// Reset returns the phase to 0.
func (o *Osc) Reset() {
	o.phase = 0
}

// Sample evaluates shape at the current phase without advancing.
func (o *Osc) Sample(shape Shape) float32 {
	switch shape {
	case Saw:
		return float32(2.0*o.phase - 1.0)
	case Square:
		if o.phase < 0.5 {
			return 1.0
		}
		return -1.0
	case Triangle:
		if o.phase < 0.5 {
			return float32(4.0*o.phase - 1.0)
		}
		return float32(3.0 - 4.0*o.phase)
	}
	return float32(math.Sin(2.0 * math.Pi * o.phase))
}

// Advance moves the phase one sample without producing output.
func (o *Osc) Advance() {
	o.phase += o.inc
	if o.phase >= 1.0 {
		o.phase -= math.Floor(o.phase)
	}
}

// Next evaluates shape at the current phase and advances.
func (o *Osc) Next(shape Shape) float32 {
	sample := o.Sample(shape)
	o.Advance()
	return sample
}

// Process fills buffer with shape.
func (o *Osc) Process(buffer []float32, shape Shape) {
	for i := range buffer {
		buffer[i] = o.Next(shape)
	}
}
