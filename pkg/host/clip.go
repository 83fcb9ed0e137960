// Package host runs plugins offline: it decodes audio, drives a
// plugin instance block by block with automation and MIDI schedules,
// encodes the result and reports on it.
package host

import (
	"time"

	"github.com/ossrs/go-oryx-lib/errors"
)

// Clip is decoded audio: planar float32 channels at one sample rate.
type Clip struct {
	Rate     float32
	Channels [][]float32
}

// NewClip allocates a silent clip.
func NewClip(rate float32, channels, frames int) *Clip {
	c := &Clip{
		Rate:     rate,
		Channels: make([][]float32, channels),
	}
	for i := range c.Channels {
		c.Channels[i] = make([]float32, frames)
	}
	return c
}

// Frames returns the per-channel length.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}
	return len(c.Channels[0])
}

// Duration returns the clip length as wall time.
func (c *Clip) Duration() time.Duration {
	if c.Rate <= 0 {
		return 0
	}
	return time.Duration(float64(c.Frames()) / float64(c.Rate) * float64(time.Second))
}

// Peak returns the largest absolute sample across all channels.
func (c *Clip) Peak() float32 {
	var peak float32
	for _, ch := range c.Channels {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	return peak
}

func (c *Clip) validate() error {
	if c == nil || len(c.Channels) == 0 {
		return errors.New("empty clip")
	}
	if c.Rate <= 0 {
		return errors.Errorf("bad sample rate %v", c.Rate)
	}
	n := len(c.Channels[0])
	for i, ch := range c.Channels[1:] {
		if len(ch) != n {
			return errors.Errorf("channel %v has %v frames, channel 0 has %v", i+1, len(ch), n)
		}
	}
	return nil
}

// planar splits interleaved samples into per-channel buffers.
func planar(interleaved []float32, channels int) [][]float32 {
	frames := len(interleaved) / channels
	out := make([][]float32, channels)
	for ch := range out {
		out[ch] = make([]float32, frames)
		for i := 0; i < frames; i++ {
			out[ch][i] = interleaved[i*channels+ch]
		}
	}
	return out
}
