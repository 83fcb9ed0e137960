// Package filter provides the filters the example plugins build on.
package filter

import "math"

// DefaultQ is the Butterworth resonance.
const DefaultQ = 0.707

// Mode selects which response Process writes.
type Mode uint8

const (
	Lowpass Mode = iota
	Bandpass
	Highpass
	Notch
)

func (m Mode) String() string {
	switch m {
	case Lowpass:
		return "Lowpass"
	case Bandpass:
		return "Bandpass"
	case Highpass:
		return "Highpass"
	case Notch:
		return "Notch"
	}
	return "Unknown"
}

// SVF is a state variable filter in the zero delay feedback topology,
// following Simper's trapezoidal derivation. One instance filters any
// number of channels, each with its own integrator state, so stereo
// processing shares a single coefficient set.
type SVF struct {
	g float32
	k float32

	ic1eq []float32
	ic2eq []float32
}

// New creates a filter for the given channel count at DefaultQ.
func New(channels int) *SVF {
	s := &SVF{
		ic1eq: make([]float32, channels),
		ic2eq: make([]float32, channels),
	}
	s.SetQ(DefaultQ)
	return s
}

// Reset clears all integrator state.
func (s *SVF) Reset() {
	for i := range s.ic1eq {
		s.ic1eq[i] = 0
		s.ic2eq[i] = 0
	}
}

// SetCutoff sets the cutoff frequency, prewarped for the sample rate.
// Cheap enough to call per sample while the cutoff ramps.
func (s *SVF) SetCutoff(freq, sampleRate float32) {
	s.g = float32(math.Tan(math.Pi * float64(freq) / float64(sampleRate)))
}

// SetQ sets the resonance.
func (s *SVF) SetQ(q float32) {
	s.k = 1.0 / q
}

// SetResonance sets the resonance on a 0..1 scale, where 0 is heavy
// damping and 1 is self-oscillation.
func (s *SVF) SetResonance(r float32) {
	s.k = 2.0 - 2.0*r
}

// Outputs holds the simultaneous filter responses for one sample.
type Outputs struct {
	Lowpass  float32
	Bandpass float32
	Highpass float32
	Notch    float32
}

// Pick returns the response selected by mode.
func (o Outputs) Pick(mode Mode) float32 {
	switch mode {
	case Bandpass:
		return o.Bandpass
	case Highpass:
		return o.Highpass
	case Notch:
		return o.Notch
	}
	return o.Lowpass
}

// Tick advances one sample on channel and returns all responses.
func (s *SVF) Tick(input float32, channel int) Outputs {
	g, k := s.g, s.k
	a1 := 1.0 / (1.0 + g*(g+k))
	a2 := g * a1
	a3 := g * a2

	ic1 := s.ic1eq[channel]
	ic2 := s.ic2eq[channel]

	v3 := input - ic2
	v1 := a1*ic1 + a2*v3
	v2 := ic2 + a2*ic1 + a3*v3

	s.ic1eq[channel] = 2*v1 - ic1
	s.ic2eq[channel] = 2*v2 - ic2

	return Outputs{
		Lowpass:  v2,
		Bandpass: v1,
		Highpass: input - k*v1 - v2,
		Notch:    input - k*v1,
	}
}

// Process filters buffer in place on channel, writing the mode
// response.
func (s *SVF) Process(buffer []float32, channel int, mode Mode) {
	for i := range buffer {
		buffer[i] = s.Tick(buffer[i], channel).Pick(mode)
	}
}
