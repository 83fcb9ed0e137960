// Package process gives plugins their per-subblock view of a process
// call: sliced audio buffers, the transport position, scratch storage
// and a hook for emitting output events.
package process

import (
	"github.com/plugrt/plugrt/pkg/framework/event"
)

// Context is the plugin-facing side of one scheduled subblock. The
// scheduler repoints the buffer views and frame count between
// subblocks; everything here is pre-allocated, so processing stays
// free of allocations.
type Context struct {
	// NFrames is the subblock length. All buffer views hold exactly
	// this many samples.
	NFrames    int
	SampleRate float32

	Input  [][]float32
	Output [][]float32

	// Transport is the musical time at the first frame of this
	// subblock.
	Transport Transport

	workBuffer []float32
	tempBuffer []float32

	enqueue func(event.Event)
}

// NewContext creates a context with scratch buffers sized for the
// largest possible subblock. Events passed to Enqueue are handed to
// enqueue, which may be nil for plugins that never emit events.
func NewContext(maxBlockSize int, enqueue func(event.Event)) *Context {
	return &Context{
		workBuffer: make([]float32, maxBlockSize),
		tempBuffer: make([]float32, maxBlockSize),
		enqueue:    enqueue,
	}
}

// Enqueue emits an output event, for example MIDI out. The event's
// frame is relative to the start of the current subblock; the scheduler
// translates it to the position within the full process call.
func (c *Context) Enqueue(ev event.Event) {
	if c.enqueue != nil {
		c.enqueue(ev)
	}
}

// NumInputChannels returns the number of input channels.
func (c *Context) NumInputChannels() int {
	return len(c.Input)
}

// NumOutputChannels returns the number of output channels.
func (c *Context) NumOutputChannels() int {
	return len(c.Output)
}

// WorkBuffer returns the pre-allocated scratch buffer sized to the
// current subblock.
func (c *Context) WorkBuffer() []float32 {
	return c.workBuffer[:c.NFrames]
}

// TempBuffer returns a second scratch buffer sized to the current
// subblock, for algorithms that need two.
func (c *Context) TempBuffer() []float32 {
	return c.tempBuffer[:c.NFrames]
}

// PassThrough copies input to output on every connected channel.
func (c *Context) PassThrough() {
	for ch := 0; ch < c.NumChannels(); ch++ {
		copy(c.Output[ch], c.Input[ch])
	}
}

// Clear zeroes the output buffers.
func (c *Context) Clear() {
	for ch := range c.Output {
		out := c.Output[ch]
		for i := range out {
			out[i] = 0
		}
	}
}

// NumChannels returns the number of channels connected on both sides.
func (c *Context) NumChannels() int {
	n := len(c.Input)
	if len(c.Output) < n {
		n = len(c.Output)
	}
	return n
}
