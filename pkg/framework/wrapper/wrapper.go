// Package wrapper binds a plugin implementation to the runtime. A
// Wrapped instance owns the smoothed model, the parameter table and
// the event queues, and schedules processing in sample-accurate
// subblocks. Hosts drive instances through the non-generic Instance
// interface; plugins implement Plugin plus the optional MIDI and
// change-notification contracts.
package wrapper

import (
	"encoding/json"

	"github.com/plugrt/plugrt/pkg/framework/bridge"
	"github.com/plugrt/plugrt/pkg/framework/debug"
	"github.com/plugrt/plugrt/pkg/framework/event"
	"github.com/plugrt/plugrt/pkg/framework/model"
	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/framework/plugin"
	"github.com/plugrt/plugrt/pkg/framework/process"
	"github.com/plugrt/plugrt/pkg/framework/smooth"
)

// Queue capacities. Input holds host automation and MIDI for one
// buffer; output holds what the plugin emits during it. Full queues
// drop and count instead of allocating.
const (
	inputQueueCap  = 512
	outputQueueCap = 256
)

// Plugin is the audio-processing contract. Process receives the
// smoothed model facade and a context viewing the current subblock.
// It runs on the audio thread and must not allocate or block.
type Plugin[M any, S model.Smoothed[M]] interface {
	Process(model S, ctx *process.Context)
}

// MIDIReceiver is implemented by plugins that consume MIDI input. The
// model passed in holds current (mid-ramp) values snapshotted at the
// event's frame.
type MIDIReceiver[M any] interface {
	MIDIInput(model *M, data [3]byte)
}

// ChangeListener is implemented by plugins that need an audio-thread
// hook when a parameter built with DSPNotify lands.
type ChangeListener interface {
	ParamChanged(index int)
}

// Config assembles everything New needs to wrap a plugin.
type Config[M any, S model.Smoothed[M]] struct {
	Info   plugin.Info
	Params *param.Table

	// Model is the registered smoothed model. Its state at
	// construction is the initial plain model.
	Model S

	// New creates the plugin's DSP state for a sample rate and
	// starting model. It runs once at construction with rate 0 and
	// again on every SetSampleRate.
	New func(sampleRate float32, m *M) Plugin[M, S]
}

// Drops holds cumulative counts of messages refused by full queues.
// Counters only grow; hosts log deltas off the audio thread.
type Drops struct {
	InputEvents  uint64
	OutputEvents uint64
	UIMessages   uint64
	DSPMessages  uint64
}

// Instance is the non-generic host-facing surface of a wrapped plugin.
// pkg/host drives instances without knowing their model types.
type Instance interface {
	Info() plugin.Info
	SetSampleRate(rate float32)
	Reset()
	NumParams() int
	Param(index int) *param.Param
	GetParameter(index int) float32
	SetParameter(index int, normalized float32)
	EnqueueParameter(index int, normalized float32, frame int, notifyUI bool)
	ParameterDisplay(index int) string
	WantsMIDI() bool
	MIDIInput(frame int, data [3]byte)
	Serialise() ([]byte, error)
	Deserialise(data []byte)
	Process(t process.Transport, in, out [][]float32, nframes int)
	DrainOutputEvents(fn func(event.Event))
	Drops() Drops
}

// Wrapped is a plugin instance bound to the runtime.
type Wrapped[M any, S model.Smoothed[M]] struct {
	cfg Config[M, S]

	plug     Plugin[M, S]
	midi     MIDIReceiver[M]
	listener ChangeListener

	events *event.Queue
	output *event.Queue
	ctx    *process.Context

	sampleRate float32

	br     *bridge.Bridge[M]
	uiOpen bool

	// Reused across process calls so the audio path never allocates.
	inViews       [][]float32
	outViews      [][]float32
	subblockStart int
	midiScratch   M
}

// New wraps a plugin. Panics when the config has no factory or no
// parameter table; those are definition-time mistakes.
func New[M any, S model.Smoothed[M]](cfg Config[M, S]) *Wrapped[M, S] {
	if cfg.New == nil {
		panic("wrapper: config has no plugin factory")
	}
	if cfg.Params == nil {
		panic("wrapper: config has no parameter table")
	}

	w := &Wrapped[M, S]{
		cfg:      cfg,
		events:   event.NewQueue(inputQueueCap),
		output:   event.NewQueue(outputQueueCap),
		inViews:  make([][]float32, 0, 8),
		outViews: make([][]float32, 0, 8),
	}
	w.ctx = process.NewContext(smooth.MaxBlockSize, w.enqueueOutput)

	m := cfg.Model.Model()
	w.adoptPlugin(cfg.New(w.sampleRate, &m))

	return w
}

// adoptPlugin installs a plugin instance and re-derives its optional
// capabilities. Runs at construction and again on every Reset, since
// the factory returns a fresh instance each time.
func (w *Wrapped[M, S]) adoptPlugin(p Plugin[M, S]) {
	w.plug = p
	w.midi, _ = p.(MIDIReceiver[M])
	w.listener, _ = p.(ChangeListener)
}

// Info returns the plugin metadata.
func (w *Wrapped[M, S]) Info() plugin.Info { return w.cfg.Info }

// NumParams returns the number of parameters.
func (w *Wrapped[M, S]) NumParams() int { return w.cfg.Params.Count() }

// Param returns the parameter at index, nil when out of range.
func (w *Wrapped[M, S]) Param(index int) *param.Param { return w.cfg.Params.Get(index) }

// GetParameter returns the last normalized value applied at index, 0
// when out of range. Lock-free; safe from any thread.
func (w *Wrapped[M, S]) GetParameter(index int) float32 {
	p := w.cfg.Params.Get(index)
	if p == nil {
		return 0
	}
	return p.LastNormalized()
}

// SetParameter applies a normalized value. Parameters built with
// DSPNotify route through a frame-0 event so the plugin's change hook
// runs at a defined point in the block; others retarget their
// smoothing directly.
func (w *Wrapped[M, S]) SetParameter(index int, normalized float32) {
	p := w.cfg.Params.Get(index)
	if p == nil {
		return
	}
	if p.NotifyDSP {
		w.events.Push(event.Event{Kind: event.Parameter, Param: p, Value: normalized})
		return
	}
	p.SetNormalized(normalized)
}

// EnqueueParameter schedules a normalized parameter change at a frame
// offset within the next process call, for hosts with sample-accurate
// automation. notifyUI reflects the change to an attached UI bridge
// when it dispatches.
func (w *Wrapped[M, S]) EnqueueParameter(index int, normalized float32, frame int, notifyUI bool) {
	p := w.cfg.Params.Get(index)
	if p == nil {
		return
	}
	w.events.Push(event.Event{
		Frame:    frame,
		Kind:     event.Parameter,
		Param:    p,
		Value:    normalized,
		NotifyUI: notifyUI,
	})
}

// ParameterDisplay renders the value at index for display. Returns ""
// when the index is out of range or formatting fails.
func (w *Wrapped[M, S]) ParameterDisplay(index int) string {
	p := w.cfg.Params.Get(index)
	if p == nil {
		return ""
	}
	return p.DisplayText()
}

// WantsMIDI reports whether the wrapped plugin consumes MIDI input.
func (w *Wrapped[M, S]) WantsMIDI() bool { return w.midi != nil }

// MIDIInput enqueues a raw MIDI event at a frame offset within the
// next process call.
func (w *Wrapped[M, S]) MIDIInput(frame int, data [3]byte) {
	w.events.Push(event.Event{Frame: frame, Kind: event.MIDI, Data: data})
}

// SetSampleRate retunes every smoothing coefficient for the new rate
// and rebuilds the DSP state. Destination values survive; in-flight
// ramps do not.
func (w *Wrapped[M, S]) SetSampleRate(rate float32) {
	w.sampleRate = rate
	w.cfg.Model.SetSampleRate(rate)
	w.Reset()
}

// Reset recreates the plugin from the current model destinations and
// snaps all smoothing state to them.
func (w *Wrapped[M, S]) Reset() {
	m := w.cfg.Model.Model()
	w.adoptPlugin(w.cfg.New(w.sampleRate, &m))
	w.cfg.Model.Reset(&m)
}

// Serialise renders the canonical model (destination values of every
// registered field plus configuration fields) as JSON.
func (w *Wrapped[M, S]) Serialise() ([]byte, error) {
	return json.Marshal(w.cfg.Model.Model())
}

// Deserialise loads a serialised model, smoothing every registered
// field toward the loaded values and refreshing the parameter mirrors.
// Malformed blobs leave the model unchanged. Call with processing
// suspended.
func (w *Wrapped[M, S]) Deserialise(data []byte) {
	var m M
	if err := json.Unmarshal(data, &m); err != nil {
		debug.Warn("wrapper: discarding malformed state blob (%d bytes): %v", len(data), err)
		return
	}
	w.cfg.Model.Set(&m)
	for i := 0; i < w.cfg.Params.Count(); i++ {
		w.cfg.Params.Get(i).SyncMirror()
	}
	if w.br != nil && w.uiOpen {
		w.br.SendToUI(bridge.ToUI[M]{Kind: bridge.UIProgram, Program: &m})
	}
}

// AttachBridge connects a UI message bridge. The wrapper drains the
// DSP direction at the start of every process call and reports flagged
// parameter changes back through the UI direction.
func (w *Wrapped[M, S]) AttachBridge(b *bridge.Bridge[M]) {
	w.br = b
	w.uiOpen = b != nil
}

// DrainOutputEvents hands every event the plugin emitted during the
// last process call to fn in frame order, then clears the queue.
func (w *Wrapped[M, S]) DrainOutputEvents(fn func(event.Event)) {
	for i := 0; i < w.output.Len(); i++ {
		fn(*w.output.At(i))
	}
	w.output.Clear()
}

// Drops returns the cumulative queue-overflow counters.
func (w *Wrapped[M, S]) Drops() Drops {
	d := Drops{
		InputEvents:  w.events.Dropped(),
		OutputEvents: w.output.Dropped(),
	}
	if w.br != nil {
		d.UIMessages = w.br.UIDrops()
		d.DSPMessages = w.br.DSPDrops()
	}
	return d
}

// enqueueOutput is the context's event hook. Frames arrive relative to
// the running subblock and are translated to buffer offsets here.
func (w *Wrapped[M, S]) enqueueOutput(ev event.Event) {
	ev.Frame += w.subblockStart
	w.output.Push(ev)
}
