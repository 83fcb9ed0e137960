package host

import (
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	vecmath "github.com/cwbudde/algo-vecmath"
	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/plugrt/plugrt/pkg/dsp"
)

// DefaultFFTSize is the analysis window when the caller does not pick
// one.
const DefaultFFTSize = 4096

// Spectrum is a single-channel magnitude spectrum over bins 0 to
// Nyquist, amplitude normalized so a full-scale sine reads 1.0 at its
// bin.
type Spectrum struct {
	Rate float32
	Bins []float64
	size int
}

// BinWidth returns the frequency step between bins in Hz.
func (s *Spectrum) BinWidth() float64 {
	return float64(s.Rate) / float64(s.size)
}

// Frequency returns the center frequency of bin i.
func (s *Spectrum) Frequency(i int) float64 {
	return float64(i) * s.BinWidth()
}

// Peak returns the strongest bin and its amplitude.
func (s *Spectrum) Peak() (bin int, amplitude float64) {
	for i, m := range s.Bins {
		if m > amplitude {
			amplitude = m
			bin = i
		}
	}
	return bin, amplitude
}

// PeakFrequency returns the frequency of the strongest bin.
func (s *Spectrum) PeakFrequency() float64 {
	bin, _ := s.Peak()
	return s.Frequency(bin)
}

// PeakDb returns the strongest bin's amplitude in decibels.
func (s *Spectrum) PeakDb() float32 {
	_, amp := s.Peak()
	return dsp.LinearToDb(float32(amp))
}

// Analyze computes the Hann-windowed magnitude spectrum of the first
// size samples. size must be a power of two; 0 means DefaultFFTSize.
func Analyze(samples []float32, rate float32, size int) (*Spectrum, error) {
	if size == 0 {
		size = DefaultFFTSize
	}
	if size < 2 || size&(size-1) != 0 {
		return nil, errors.Errorf("fft size %v not a power of two", size)
	}
	if len(samples) < size {
		return nil, errors.Errorf("need %v samples, have %v", size, len(samples))
	}

	// Hann window, tracking its sum for amplitude scaling.
	in := make([]complex128, size)
	var windowSum float64
	for i := 0; i < size; i++ {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(size-1)))
		windowSum += w
		in[i] = complex(float64(samples[i])*w, 0)
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return nil, errors.Wrapf(err, "fft plan %v", size)
	}
	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return nil, errors.Wrapf(err, "fft forward")
	}

	// Keep bins 0..Nyquist; unpack for the vector magnitude kernel.
	bins := size/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)
	for i := 0; i < bins; i++ {
		re[i] = real(out[i])
		im[i] = imag(out[i])
	}
	mags := make([]float64, bins)
	vecmath.Magnitude(mags, re, im)

	// A sine of amplitude A contributes A*windowSum/2 to its bin.
	scale := 2 / windowSum
	for i := range mags {
		mags[i] *= scale
	}

	return &Spectrum{Rate: rate, Bins: mags, size: size}, nil
}

// AnalyzeClip runs Analyze over the tail of one channel, where a
// rendered signal has settled.
func AnalyzeClip(clip *Clip, channel, size int) (*Spectrum, error) {
	if err := clip.validate(); err != nil {
		return nil, err
	}
	if channel < 0 || channel >= len(clip.Channels) {
		return nil, errors.Errorf("no channel %v", channel)
	}
	if size == 0 {
		size = DefaultFFTSize
	}
	samples := clip.Channels[channel]
	if len(samples) > size {
		samples = samples[len(samples)-size:]
	}
	return Analyze(samples, clip.Rate, size)
}
