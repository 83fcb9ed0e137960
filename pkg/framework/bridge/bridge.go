// Package bridge shuttles messages between the UI thread and the audio
// thread without blocking either. Each direction is a bounded channel:
// sends never wait, and a full channel drops the message and counts it,
// because stalling the audio thread is worse than losing a stale UI
// update.
package bridge

import (
	"sync/atomic"
)

// ToUIKind discriminates audio-to-UI messages.
type ToUIKind uint8

const (
	// UIParam reports a parameter change the UI should reflect.
	UIParam ToUIKind = iota
	// UIProgram reports that a whole program (preset) was swapped in.
	UIProgram
	// UIClose asks the UI to shut down.
	UIClose
)

// ToUI is a message from the audio side to the UI. Program is only set
// for UIProgram messages and carries the full plain model.
type ToUI[M any] struct {
	Kind ToUIKind

	ParamIdx   int
	Normalized float32

	Program *M
}

// ToDSPKind discriminates UI-to-audio messages.
type ToDSPKind uint8

const (
	// DSPParam carries a parameter change from the UI.
	DSPParam ToDSPKind = iota
	// DSPClosed signals that the UI has gone away.
	DSPClosed
)

// ToDSP is a message from the UI to the audio side.
type ToDSP struct {
	Kind ToDSPKind

	ParamIdx   int
	Normalized float32
}

// Bridge is a pair of bounded single-producer single-consumer message
// channels between the UI and audio threads.
type Bridge[M any] struct {
	toUI  chan ToUI[M]
	toDSP chan ToDSP

	uiDrops  atomic.Uint64
	dspDrops atomic.Uint64
}

// New creates a bridge with the given per-direction depth. Depths
// below one fall back to a small default.
func New[M any](depth int) *Bridge[M] {
	if depth < 1 {
		depth = 64
	}
	return &Bridge[M]{
		toUI:  make(chan ToUI[M], depth),
		toDSP: make(chan ToDSP, depth),
	}
}

// SendToUI queues a message for the UI thread. Returns false if the
// channel is full, in which case the message is dropped and counted.
func (b *Bridge[M]) SendToUI(m ToUI[M]) bool {
	select {
	case b.toUI <- m:
		return true
	default:
		b.uiDrops.Add(1)
		return false
	}
}

// UI returns the channel the UI thread drains.
func (b *Bridge[M]) UI() <-chan ToUI[M] {
	return b.toUI
}

// SendToDSP queues a message for the audio thread. Returns false if
// the channel is full, in which case the message is dropped and
// counted.
func (b *Bridge[M]) SendToDSP(m ToDSP) bool {
	select {
	case b.toDSP <- m:
		return true
	default:
		b.dspDrops.Add(1)
		return false
	}
}

// DSP returns the channel the audio thread drains.
func (b *Bridge[M]) DSP() <-chan ToDSP {
	return b.toDSP
}

// UIDrops returns how many UI-bound messages have been dropped.
func (b *Bridge[M]) UIDrops() uint64 {
	return b.uiDrops.Load()
}

// DSPDrops returns how many audio-bound messages have been dropped.
func (b *Bridge[M]) DSPDrops() uint64 {
	return b.dspDrops.Load()
}
