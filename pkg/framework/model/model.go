// Package model connects a plugin's plain parameter model to its
// smoothed runtime state. The plain model M is an ordinary struct of
// parameter values, suitable for serialization; Fields[M] holds the
// smoothing machinery for each registered field and can project itself
// back onto M at either the destination values (for state saves) or
// the current values (for event dispatch).
//
// Fields are registered once at construction time through AddSmooth,
// AddDeclick and AddRaw, each returning the live handle the plugin
// reads during processing. Struct fields of M that are never
// registered are treated as fixed configuration: they keep the value
// given to NewFields and are ignored by Set and Reset.
package model

import (
	"github.com/plugrt/plugrt/pkg/framework/smooth"
)

// DefaultSmoothMs is the smoothing time constant, in milliseconds,
// that registered fields use unless given an explicit one.
const DefaultSmoothMs = 5.0

// Smoothed is the runtime counterpart of a plain model M. A plugin's
// smoothed model type embeds *Fields[M] to satisfy it.
type Smoothed[M any] interface {
	// SetSampleRate rederives every field's filter coefficients.
	SetSampleRate(rate float32)
	// Set retargets every registered field toward the values in m,
	// smoothing each transition.
	Set(m *M)
	// Reset snaps every registered field to the values in m with no
	// transition.
	Reset(m *M)
	// Model projects the destination values onto a plain model.
	Model() M
	// Snapshot projects the current (mid-transition) values onto a
	// plain model.
	Snapshot() M
	// Process advances every field's filter by nframes samples.
	Process(nframes int)
}

type fieldOps[M any] struct {
	setRate      func(rate float32)
	set          func(m *M)
	reset        func(m *M)
	writeDest    func(m *M)
	writeCurrent func(m *M)
	process      func(nframes int)
}

// Fields is the registry of a model's smoothed state. It is owned by
// the audio thread once processing starts; all methods assume a single
// caller.
type Fields[M any] struct {
	plain   M
	scratch M

	ops []fieldOps[M]
}

// NewFields creates an empty registry around the given initial model.
func NewFields[M any](initial M) *Fields[M] {
	return &Fields[M]{plain: initial}
}

// AddSmooth registers a per-sample smoothed field selected by field and
// returns its filter. The initial value is taken from the model passed
// to NewFields.
func AddSmooth[M any, F smooth.Float](f *Fields[M], field func(*M) *F) *smooth.Smooth[F] {
	return AddSmoothMs(f, field, DefaultSmoothMs)
}

// AddSmoothMs is AddSmooth with an explicit smoothing time constant.
func AddSmoothMs[M any, F smooth.Float](f *Fields[M], field func(*M) *F, ms float32) *smooth.Smooth[F] {
	s := smooth.New(*field(&f.plain))

	f.ops = append(f.ops, fieldOps[M]{
		setRate:      func(rate float32) { s.SetSpeedMs(F(rate), F(ms)) },
		set:          func(m *M) { s.Set(*field(m)) },
		reset:        func(m *M) { s.Reset(*field(m)) },
		writeDest:    func(m *M) { *field(m) = s.Dest() },
		writeCurrent: func(m *M) { *field(m) = s.CurrentValue() },
		process:      s.Process,
	})

	return s
}

// AddDeclick registers a discrete field that crossfades between values
// instead of interpolating them, and returns its declicker.
func AddDeclick[M any, T comparable](f *Fields[M], field func(*M) *T) *smooth.Declick[T] {
	return AddDeclickMs(f, field, DefaultSmoothMs)
}

// AddDeclickMs is AddDeclick with an explicit fade time constant.
func AddDeclickMs[M any, T comparable](f *Fields[M], field func(*M) *T, ms float32) *smooth.Declick[T] {
	d := smooth.NewDeclick(*field(&f.plain))

	f.ops = append(f.ops, fieldOps[M]{
		setRate:      func(rate float32) { d.SetSpeedMs(rate, ms) },
		set:          func(m *M) { d.Set(*field(m)) },
		reset:        func(m *M) { d.Reset(*field(m)) },
		writeDest:    func(m *M) { *field(m) = d.Dest() },
		writeCurrent: func(m *M) { *field(m) = d.CurrentValue() },
		process:      d.Process,
	})

	return d
}

// AddRaw registers an unsmoothed field and returns a stable pointer to
// its live value. Writes through the pointer take effect immediately;
// single-writer discipline is the caller's responsibility.
func AddRaw[M any, T any](f *Fields[M], field func(*M) *T) *T {
	ptr := field(&f.plain)

	f.ops = append(f.ops, fieldOps[M]{
		set:   func(m *M) { *ptr = *field(m) },
		reset: func(m *M) { *ptr = *field(m) },
	})

	return ptr
}

// SetSampleRate rederives filter coefficients for every field.
func (f *Fields[M]) SetSampleRate(rate float32) {
	for i := range f.ops {
		if op := &f.ops[i]; op.setRate != nil {
			op.setRate(rate)
		}
	}
}

// Set retargets every field toward the values in m.
func (f *Fields[M]) Set(m *M) {
	for i := range f.ops {
		f.ops[i].set(m)
	}
}

// Reset snaps every field to the values in m.
func (f *Fields[M]) Reset(m *M) {
	for i := range f.ops {
		f.ops[i].reset(m)
	}
}

// Model returns a plain model holding every field's destination value.
// Unregistered fields keep their initial values.
func (f *Fields[M]) Model() M {
	f.scratch = f.plain
	for i := range f.ops {
		if op := &f.ops[i]; op.writeDest != nil {
			op.writeDest(&f.scratch)
		}
	}
	return f.scratch
}

// Snapshot returns a plain model holding every field's current value,
// which differs from Model while transitions are in flight.
func (f *Fields[M]) Snapshot() M {
	f.scratch = f.plain
	for i := range f.ops {
		if op := &f.ops[i]; op.writeCurrent != nil {
			op.writeCurrent(&f.scratch)
		}
	}
	return f.scratch
}

// Process advances every field's filter by nframes samples.
func (f *Fields[M]) Process(nframes int) {
	for i := range f.ops {
		if op := &f.ops[i]; op.process != nil {
			op.process(nframes)
		}
	}
}
