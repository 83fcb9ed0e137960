package host

import (
	"sort"

	"github.com/ossrs/go-oryx-lib/errors"

	"github.com/plugrt/plugrt/pkg/framework/debug"
	"github.com/plugrt/plugrt/pkg/framework/event"
	"github.com/plugrt/plugrt/pkg/framework/process"
	"github.com/plugrt/plugrt/pkg/framework/wrapper"
)

const defaultBlockSize = 512

// Automation is one scheduled normalized parameter change.
type Automation struct {
	Frame int
	Param int
	Value float32
}

// ScheduledMIDI is one scheduled raw MIDI message.
type ScheduledMIDI struct {
	Frame int
	Data  [3]byte
}

// Renderer drives a plugin instance over a clip in fixed blocks,
// landing automation and MIDI messages on their exact frames.
// Schedule entries past the end of the clip never fire.
type Renderer struct {
	inst      wrapper.Instance
	blockSize int
	transport process.Transport
	auto      []Automation
	midi      []ScheduledMIDI
	output    []event.Event
	profiler  *debug.RenderProfiler
}

// NewRenderer creates a renderer around inst with the default block
// size and a stopped 120 BPM transport.
func NewRenderer(inst wrapper.Instance) *Renderer {
	return &Renderer{
		inst:      inst,
		blockSize: defaultBlockSize,
		transport: process.Transport{BPM: 120},
	}
}

// SetBlockSize sets the processing block size.
func (r *Renderer) SetBlockSize(n int) {
	if n > 0 {
		r.blockSize = n
	}
}

// SetTempo sets the musical transport for the render. The beat
// counter only advances while playing.
func (r *Renderer) SetTempo(bpm float64, playing bool) {
	r.transport.BPM = bpm
	r.transport.Playing = playing
}

// Automate schedules a normalized parameter change.
func (r *Renderer) Automate(frame, param int, normalized float32) {
	r.auto = append(r.auto, Automation{Frame: frame, Param: param, Value: normalized})
}

// AddMIDI schedules a raw MIDI message.
func (r *Renderer) AddMIDI(frame int, data [3]byte) {
	r.midi = append(r.midi, ScheduledMIDI{Frame: frame, Data: data})
}

// OutputEvents returns the events the plugin emitted during the last
// render, with frames absolute in the clip.
func (r *Renderer) OutputEvents() []event.Event {
	return r.output
}

// Profile returns timing for the last render, or nil before one ran.
func (r *Renderer) Profile() *debug.RenderProfiler {
	return r.profiler
}

// Render runs the plugin over in and returns the processed clip.
func (r *Renderer) Render(in *Clip) (*Clip, error) {
	if err := in.validate(); err != nil {
		return nil, errors.Wrapf(err, "render input")
	}

	r.inst.SetSampleRate(in.Rate)
	r.profiler = debug.NewRenderProfiler(in.Rate)
	r.output = r.output[:0]

	sort.SliceStable(r.auto, func(i, j int) bool { return r.auto[i].Frame < r.auto[j].Frame })
	sort.SliceStable(r.midi, func(i, j int) bool { return r.midi[i].Frame < r.midi[j].Frame })

	channels := len(in.Channels)
	frames := in.Frames()
	out := NewClip(in.Rate, channels, frames)

	inViews := make([][]float32, channels)
	outViews := make([][]float32, channels)

	tr := r.transport
	nextAuto, nextMIDI := 0, 0

	for pos := 0; pos < frames; pos += r.blockSize {
		block := r.blockSize
		if rem := frames - pos; rem < block {
			block = rem
		}

		for nextAuto < len(r.auto) && r.auto[nextAuto].Frame < pos+block {
			a := r.auto[nextAuto]
			frame := a.Frame - pos
			if frame < 0 {
				frame = 0
			}
			r.inst.EnqueueParameter(a.Param, a.Value, frame, false)
			nextAuto++
		}
		for nextMIDI < len(r.midi) && r.midi[nextMIDI].Frame < pos+block {
			m := r.midi[nextMIDI]
			frame := m.Frame - pos
			if frame < 0 {
				frame = 0
			}
			r.inst.MIDIInput(frame, m.Data)
			nextMIDI++
		}

		for ch := 0; ch < channels; ch++ {
			inViews[ch] = in.Channels[ch][pos : pos+block]
			outViews[ch] = out.Channels[ch][pos : pos+block]
		}

		stop := r.profiler.Block(block)
		r.inst.Process(tr, inViews, outViews, block)
		stop()

		r.inst.DrainOutputEvents(func(ev event.Event) {
			ev.Frame += pos
			r.output = append(r.output, ev)
		})

		tr.StepBySamples(block, in.Rate)
	}

	r.reportDrops()
	return out, nil
}

// reportDrops surfaces queue overflow counters once per render, off
// the processing loop.
func (r *Renderer) reportDrops() {
	d := r.inst.Drops()
	debug.WarnIf(d.InputEvents > 0, "render: %d input events dropped", d.InputEvents)
	debug.WarnIf(d.OutputEvents > 0, "render: %d output events dropped", d.OutputEvents)
	debug.WarnIf(d.UIMessages > 0, "render: %d UI messages dropped", d.UIMessages)
	debug.WarnIf(d.DSPMessages > 0, "render: %d DSP messages dropped", d.DSPMessages)
}
