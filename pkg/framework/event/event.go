// Package event carries sample-accurate events through a process call.
// Events are timed by frame offset and held in bounded, frame-sorted
// queues: one for input events feeding the scheduler, one mirrored
// queue for events the plugin emits during processing.
package event

import (
	"github.com/plugrt/plugrt/pkg/framework/param"
)

// Kind discriminates event payloads.
type Kind uint8

const (
	// MIDI is a raw 3-byte MIDI message.
	MIDI Kind = iota
	// Parameter is a parameter change routed through the audio thread.
	Parameter
)

func (k Kind) String() string {
	switch k {
	case Parameter:
		return "Parameter"
	default:
		return "MIDI"
	}
}

// Event is a single timed event. Frame is the offset from the start of
// the current process call. The payload fields selected by Kind are
// meaningful; the rest stay zero. NotifyUI marks parameter changes that
// the host adapter should reflect back to the UI when it drains the
// output queue.
type Event struct {
	Frame int
	Kind  Kind

	// Data holds the raw bytes of a MIDI event.
	Data [3]byte

	// Param and Value describe a parameter change event. Value is the
	// normalized value to apply.
	Param    *param.Param
	Value    float32
	NotifyUI bool
}
