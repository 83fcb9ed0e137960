package smooth

// declickSettle is the completion epsilon for crossfade envelopes. The
// envelope is a [0,1] mix ratio rather than a signal level, so a coarser
// threshold than the numeric settle default is appropriate.
const declickSettle = 0.001

// DeclickOutput is the borrowed per-block view over a crossfade: mix
// Fade[i] of To against (1-Fade[i]) of From. When Status is Inactive the
// fade is complete and From == To.
type DeclickOutput[T comparable] struct {
	From T
	To   T

	Fade   []float32
	Status Status
}

// IsSmoothing reports whether a crossfade is still in progress.
func (o DeclickOutput[T]) IsSmoothing() bool {
	return o.Status.isActive()
}

// Declick transitions between discrete values of type T by crossfading,
// so that switching an oscillator waveform or a filter topology never
// produces a hard discontinuity. At most one crossfade is in flight; one
// further value may be staged behind it. Staging a value while another is
// already staged replaces the staged value, so rapid-fire changes cost at
// most two fades.
type Declick[T comparable] struct {
	current   T
	next      T
	staged    T
	hasNext   bool
	hasStaged bool

	fade *Smooth[float32]
}

// NewDeclick returns a declicker resting at the given value.
func NewDeclick[T comparable](initial T) *Declick[T] {
	return &Declick[T]{
		current: initial,
		fade:    New[float32](0),
	}
}

// Reset collapses to the given value: no fade in flight, nothing staged.
func (d *Declick[T]) Reset(to T) {
	var zero T
	d.current = to
	d.next, d.hasNext = zero, false
	d.staged, d.hasStaged = zero, false

	d.fade.Reset(0)
}

// Set requests a transition to the given value. Setting the value the
// declicker is already headed for is a no-op. If a fade is in flight the
// value is staged and begins fading once the current fade completes.
func (d *Declick[T]) Set(to T) {
	if d.Dest() == to {
		return
	}

	if !d.hasNext {
		d.next, d.hasNext = to, true

		d.fade.Reset(0)
		d.fade.Set(1)
	} else {
		d.staged, d.hasStaged = to, true
	}
}

// SetSpeedMs sets the crossfade duration time constant.
func (d *Declick[T]) SetSpeedMs(sampleRate, ms float32) {
	d.fade.SetSpeedMs(sampleRate, ms)
}

// Output returns the borrowed block view over the fade in flight. Without
// a fade in flight both From and To are the current value.
func (d *Declick[T]) Output() DeclickOutput[T] {
	fade := d.fade.Output()

	to := d.current
	if d.hasNext {
		to = d.next
	}

	return DeclickOutput[T]{
		From:   d.current,
		To:     to,
		Fade:   fade.Values,
		Status: fade.Status,
	}
}

// CurrentValue returns the settled value, ignoring any fade in flight.
func (d *Declick[T]) CurrentValue() T {
	return d.current
}

// Dest returns the most future value: staged if present, else the fade
// target, else the current value.
func (d *Declick[T]) Dest() T {
	switch {
	case d.hasStaged:
		return d.staged
	case d.hasNext:
		return d.next
	default:
		return d.current
	}
}

// IsActive reports whether a transition is in flight.
func (d *Declick[T]) IsActive() bool {
	return d.hasNext
}

// Process advances the fade by nframes samples. Completion is checked
// before the fade advances: a finished fade must promote the staged value
// before any further samples are produced in the same block.
func (d *Declick[T]) Process(nframes int) {
	d.UpdateStatus()
	d.fade.Process(nframes)
}

// UpdateStatus detects fade completion and promotes values: the fade
// target becomes current, and a staged value (if any) immediately arms a
// fresh fade so that no requested value is ever skipped.
func (d *Declick[T]) UpdateStatus() {
	if !d.hasNext {
		return
	}

	d.fade.UpdateStatusWithEpsilon(declickSettle)

	if d.fade.IsActive() {
		return
	}

	var zero T
	d.current = d.next
	d.next, d.hasNext = d.staged, d.hasStaged
	d.staged, d.hasStaged = zero, false

	if d.hasNext {
		d.fade.Reset(0)
		d.fade.Set(1)
	}
}
