package wrapper

import (
	"github.com/plugrt/plugrt/pkg/framework/bridge"
	"github.com/plugrt/plugrt/pkg/framework/event"
	"github.com/plugrt/plugrt/pkg/framework/process"
	"github.com/plugrt/plugrt/pkg/framework/smooth"
)

// Process runs one host buffer through the plugin. The buffer is split
// into subblocks so that every queued event is dispatched exactly at
// its frame and no subblock exceeds the smoothing buffer size. Buses
// are planar slices of at least nframes samples per channel; shorter
// slices are a caller bug.
//
// Events left in the input queue past nframes are discarded when the
// call returns.
func (w *Wrapped[M, S]) Process(t process.Transport, in, out [][]float32, nframes int) {
	w.drainBridge()

	w.ctx.SampleRate = w.sampleRate
	w.ctx.Transport = t

	start := 0
	evIdx := 0

	for nframes > 0 {
		for evIdx < w.events.Len() {
			ev := w.events.At(evIdx)
			if ev.Frame > start {
				break
			}
			w.dispatch(ev)
			evIdx++
		}

		block := nframes
		if evIdx < w.events.Len() {
			if d := w.events.At(evIdx).Frame - start; d < block {
				block = d
			}
		}
		if block > smooth.MaxBlockSize {
			block = smooth.MaxBlockSize
		}

		end := start + block
		w.inViews = w.inViews[:0]
		for _, ch := range in {
			w.inViews = append(w.inViews, ch[start:end])
		}
		w.outViews = w.outViews[:0]
		for _, ch := range out {
			w.outViews = append(w.outViews, ch[start:end])
		}
		w.ctx.Input = w.inViews
		w.ctx.Output = w.outViews
		w.ctx.NFrames = block
		w.subblockStart = start

		w.cfg.Model.Process(block)
		w.plug.Process(w.cfg.Model, w.ctx)

		w.ctx.Transport.StepBySamples(block, w.sampleRate)

		nframes -= block
		start += block
	}

	w.events.Clear()
}

// drainBridge applies queued UI messages before the buffer starts, so
// UI-originated changes land as frame-0 events.
func (w *Wrapped[M, S]) drainBridge() {
	if w.br == nil {
		return
	}
	for {
		select {
		case msg := <-w.br.DSP():
			switch msg.Kind {
			case bridge.DSPParam:
				w.SetParameter(msg.ParamIdx, msg.Normalized)
			case bridge.DSPClosed:
				w.uiOpen = false
			}
		default:
			return
		}
	}
}

func (w *Wrapped[M, S]) dispatch(ev *event.Event) {
	switch ev.Kind {
	case event.Parameter:
		p := ev.Param
		if p == nil {
			return
		}
		p.SetNormalized(ev.Value)
		if p.NotifyDSP && w.listener != nil {
			w.listener.ParamChanged(p.Info.Idx)
		}
		if ev.NotifyUI && w.uiOpen && w.br != nil {
			w.br.SendToUI(bridge.ToUI[M]{
				Kind:       bridge.UIParam,
				ParamIdx:   p.Info.Idx,
				Normalized: p.LastNormalized(),
			})
		}
	case event.MIDI:
		if w.midi == nil {
			return
		}
		// MIDI hooks see mid-ramp values, not destinations.
		w.midiScratch = w.cfg.Model.Snapshot()
		w.midi.MIDIInput(&w.midiScratch, ev.Data)
	}
}
