package wrapper

import (
	"math"
	"testing"

	"github.com/plugrt/plugrt/pkg/framework/bridge"
	"github.com/plugrt/plugrt/pkg/framework/event"
	"github.com/plugrt/plugrt/pkg/framework/param"
	"github.com/plugrt/plugrt/pkg/framework/plugin"
	"github.com/plugrt/plugrt/pkg/framework/process"
)

func TestProcessSubblockSizing(t *testing.T) {
	w, tp, _ := newTestRig()
	in, out := stereoBuffers(300, 1)

	w.MIDIInput(150, [3]byte{0x90, 60, 100})
	w.Process(process.Transport{}, in, out, 300)

	want := []int{128, 22, 128, 22}
	if len(tp.blocks) != len(want) {
		t.Fatalf("blocks = %v, want %v", tp.blocks, want)
	}
	for i := range want {
		if tp.blocks[i] != want[i] {
			t.Fatalf("blocks = %v, want %v", tp.blocks, want)
		}
	}

	if len(tp.midi) != 1 || tp.midi[0] != [3]byte{0x90, 60, 100} {
		t.Errorf("midi events = %v, want the frame-150 note", tp.midi)
	}
}

func TestEnqueueParameterSampleAccurate(t *testing.T) {
	w, tp, _ := newTestRig()
	in, out := stereoBuffers(256, 1)

	w.EnqueueParameter(0, 0, 100, false)
	w.Process(process.Transport{}, in, out, 256)

	want := []int{100, 128, 28}
	for i := range want {
		if i >= len(tp.blocks) || tp.blocks[i] != want[i] {
			t.Fatalf("blocks = %v, want %v", tp.blocks, want)
		}
	}

	// Gain holds its resting value until the event frame, then ramps.
	if got := out[0][99]; got != 1 {
		t.Errorf("out[99] = %v, want 1 before the event", got)
	}
	if got := out[0][100]; got >= 1 {
		t.Errorf("out[100] = %v, want ramping below 1", got)
	}
	if out[0][255] >= out[0][100] {
		t.Errorf("ramp not monotonic: out[100]=%v out[255]=%v", out[0][100], out[0][255])
	}
}

func TestOutputEventFrameOffset(t *testing.T) {
	w, tp, _ := newTestRig()
	tp.emitAtBlock = 1
	in, out := stereoBuffers(300, 0)

	w.Process(process.Transport{}, in, out, 300)

	var got []event.Event
	w.DrainOutputEvents(func(ev event.Event) { got = append(got, ev) })

	if len(got) != 1 {
		t.Fatalf("drained %d output events, want 1", len(got))
	}
	// Emitted at frame 3 of the subblock starting at 128.
	if got[0].Frame != 131 {
		t.Errorf("output event frame = %d, want 131", got[0].Frame)
	}
	if got[0].Data != [3]byte{0x90, 60, 100} {
		t.Errorf("output event data = %v", got[0].Data)
	}

	w.DrainOutputEvents(func(ev event.Event) {
		t.Errorf("output queue not cleared, drained %+v", ev)
	})
}

func TestProcessAdvancesTransport(t *testing.T) {
	w, tp, _ := newTestRig()
	in, out := stereoBuffers(24000, 0)

	tr := process.Transport{BPM: 120, Playing: true}
	w.Process(tr, in, out, 24000)

	if tp.beats[0] != 0 {
		t.Errorf("first subblock beat = %v, want 0", tp.beats[0])
	}

	// Last subblock starts at frame 23936; at 120 BPM and 48kHz that
	// is 23936/48000*2 beats in.
	last := tp.beats[len(tp.beats)-1]
	want := float64(23936) / 48000 * 2
	if math.Abs(last-want) > 1e-9 {
		t.Errorf("last subblock beat = %v, want %v", last, want)
	}

	// The caller's transport is taken by value.
	if tr.Beat != 0 {
		t.Errorf("caller transport advanced: %v", tr.Beat)
	}
}

func TestProcessStoppedTransport(t *testing.T) {
	w, tp, _ := newTestRig()
	in, out := stereoBuffers(1024, 0)

	w.Process(process.Transport{BPM: 120, Playing: false}, in, out, 1024)

	for i, b := range tp.beats {
		if b != 0 {
			t.Fatalf("beat advanced while stopped at subblock %d: %v", i, b)
		}
	}
}

func TestMIDISnapshotMidRamp(t *testing.T) {
	w, tp, _ := newTestRig()
	in, out := stereoBuffers(256, 0)

	w.SetParameter(0, 0)
	w.MIDIInput(128, [3]byte{0x90, 64, 127})
	w.Process(process.Transport{}, in, out, 256)

	if len(tp.midiGain) != 1 {
		t.Fatalf("midi events = %d, want 1", len(tp.midi))
	}
	// The hook sees the ramping value, not the destination.
	if g := tp.midiGain[0]; g <= 0 || g >= 1 {
		t.Errorf("snapshot gain = %v, want strictly mid-ramp", g)
	}
}

func TestLeftoverEventsDiscarded(t *testing.T) {
	w, tp, _ := newTestRig()
	in, out := stereoBuffers(64, 0)

	w.MIDIInput(1000, [3]byte{0x90, 60, 100})
	w.Process(process.Transport{}, in, out, 64)

	if len(tp.midi) != 0 {
		t.Errorf("event beyond the buffer dispatched: %v", tp.midi)
	}
	if w.events.Len() != 0 {
		t.Errorf("input queue holds %d events after process", w.events.Len())
	}

	w.Process(process.Transport{}, in, out, 64)
	if len(tp.midi) != 0 {
		t.Error("discarded event resurfaced in a later call")
	}
}

func TestBridgeIntegration(t *testing.T) {
	w, _, s := newTestRig()
	b := bridge.New[testModel](8)
	w.AttachBridge(b)

	// UI to DSP: applied before the block starts.
	b.SendToDSP(bridge.ToDSP{Kind: bridge.DSPParam, ParamIdx: 0, Normalized: 0.5})

	in, out := stereoBuffers(64, 0)
	w.Process(process.Transport{}, in, out, 64)

	if got := s.gain.Dest(); got != 0.5 {
		t.Errorf("gain dest = %v after bridge drain, want 0.5", got)
	}

	// DSP to UI: flagged automation reflects back on dispatch.
	w.EnqueueParameter(0, 0.75, 0, true)
	w.Process(process.Transport{}, in, out, 64)

	select {
	case msg := <-b.UI():
		if msg.Kind != bridge.UIParam {
			t.Fatalf("message kind = %v, want UIParam", msg.Kind)
		}
		if msg.ParamIdx != 0 || msg.Normalized != 0.75 {
			t.Errorf("notification = {%d %v}, want {0 0.75}", msg.ParamIdx, msg.Normalized)
		}
	default:
		t.Fatal("no UI notification for flagged change")
	}
}

func TestProcessAllocFree(t *testing.T) {
	s := newTestSmoothed(testModel{Gain: 1})
	params := param.NewTable(param.New("Gain").Target(s.gain))
	w := New(Config[testModel, *testSmoothed]{
		Info:   plugin.Info{ID: "com.plugrt.quiet", Name: "Quiet"},
		Params: params,
		Model:  s,
		New: func(rate float32, m *testModel) Plugin[testModel, *testSmoothed] {
			return quietPlugin{}
		},
	})
	w.SetSampleRate(48000)

	in, out := stereoBuffers(512, 0.5)
	tr := process.Transport{BPM: 120, Playing: true}

	norm := float32(0)
	allocs := testing.AllocsPerRun(100, func() {
		norm = 1 - norm
		w.SetParameter(0, norm)
		w.MIDIInput(200, [3]byte{0x90, 60, 100})
		w.Process(tr, in, out, 512)
	})
	if allocs != 0 {
		t.Errorf("Process allocates: %v allocs/run", allocs)
	}
}

func BenchmarkProcess(b *testing.B) {
	s := newTestSmoothed(testModel{Gain: 1})
	params := param.NewTable(param.New("Gain").Target(s.gain))
	w := New(Config[testModel, *testSmoothed]{
		Info:   plugin.Info{ID: "com.plugrt.bench", Name: "Bench"},
		Params: params,
		Model:  s,
		New: func(rate float32, m *testModel) Plugin[testModel, *testSmoothed] {
			return quietPlugin{}
		},
	})
	w.SetSampleRate(48000)

	in, out := stereoBuffers(512, 0.5)
	tr := process.Transport{BPM: 120, Playing: true}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.SetParameter(0, float32(i&1))
		w.Process(tr, in, out, 512)
	}
}
