// Package smooth provides block-rate parameter smoothing primitives.
//
// Smooth ramps a continuous value toward a target with a single-pole
// lowpass filter, writing one value per sample into a fixed-size block
// buffer. Declick crossfades between discrete values using a Smooth fade
// envelope. Both are allocation-free after construction and sized for the
// audio thread: every buffer is MaxBlockSize long and callers never
// process more than MaxBlockSize frames at once.
package smooth

import "math"

// MaxBlockSize is the fixed capacity of every smoothing buffer. Process
// schedulers subdivide larger host blocks so that no single call exceeds
// this many frames.
const MaxBlockSize = 128

// settle is the default epsilon for deciding a ramp has reached its
// target. It is a signal-level threshold, well below audibility for
// normalized and coefficient-range values.
const settle = 0.00001

// Float constrains the sample types a Smooth can ramp.
type Float interface {
	~float32 | ~float64
}

// Status describes where a smoother is in its lifecycle.
type Status uint8

const (
	// Inactive means the output is constant and equal to the target.
	Inactive Status = iota
	// Active means the output is still ramping toward the target.
	Active
	// Deactivating means the ramp has settled; the output holds the exact
	// target for one more block before the smoother reports Inactive.
	Deactivating
)

func (s Status) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Active:
		return "Active"
	case Deactivating:
		return "Deactivating"
	default:
		return "Unknown"
	}
}

// isActive reports whether output values are still worth reading
// per-sample.
func (s Status) isActive() bool {
	return s != Inactive
}

// Output is a borrowed per-block view over a smoother's buffer. Values
// spans the full MaxBlockSize capacity; only the first nframes entries of
// the most recent Process call are meaningful.
type Output[F Float] struct {
	Values []F
	Status Status
}

// IsSmoothing reports whether the values still carry a ramp. When false
// the whole buffer is a constant and callers may read a single sample
// instead of iterating.
func (o Output[F]) IsSmoothing() bool {
	return o.Status.isActive()
}

// Smooth ramps values of type F toward a target using the recurrence
// out[i] = input*a + out[i-1]*b. Coefficients derive from a time constant
// via SetSpeedMs; until then a=1, b=0 and ramps complete in one sample.
type Smooth[F Float] struct {
	output [MaxBlockSize]F
	input  F

	status Status

	a, b       F
	lastOutput F
}

// New returns a smoother resting at the given value.
func New[F Float](initial F) *Smooth[F] {
	s := &Smooth[F]{a: 1, b: 0}
	s.Reset(initial)
	return s
}

// Reset collapses all ramp state to val: output becomes constant val,
// the target becomes val and the status returns to Inactive. Filter
// coefficients are preserved.
func (s *Smooth[F]) Reset(val F) {
	for i := range s.output {
		s.output[i] = val
	}
	s.input = val
	s.status = Inactive
	s.lastOutput = val
}

// Set arms a new target. The ramp itself only advances on Process.
func (s *Smooth[F]) Set(val F) {
	s.input = val
	s.status = Active
}

// Dest returns the current target value.
func (s *Smooth[F]) Dest() F {
	return s.input
}

// CurrentValue returns the most recently produced sample, the value that
// carries over into the next block.
func (s *Smooth[F]) CurrentValue() F {
	return s.lastOutput
}

// Status returns the smoother's lifecycle state.
func (s *Smooth[F]) Status() Status {
	return s.status
}

// Output returns the borrowed block view over the ramp buffer.
func (s *Smooth[F]) Output() Output[F] {
	return Output[F]{
		Values: s.output[:],
		Status: s.status,
	}
}

// UpdateStatus advances the settle state machine with the default
// epsilon.
func (s *Smooth[F]) UpdateStatus() Status {
	return s.UpdateStatusWithEpsilon(F(settle))
}

// UpdateStatusWithEpsilon demotes Active to Deactivating once the start
// of the output buffer is within epsilon of the target, quantizing all
// state to the exact target so no floating-point residue lingers.
// Deactivating demotes to Inactive on the following call, leaving the
// settled output readable for one extra block.
func (s *Smooth[F]) UpdateStatusWithEpsilon(epsilon F) Status {
	switch s.status {
	case Active:
		if abs(s.input-s.output[0]) < epsilon {
			s.Reset(s.input)
			s.status = Deactivating
		}
	case Deactivating:
		s.status = Inactive
	}

	return s.status
}

// Process advances the ramp by nframes samples. A smoother that is not
// Active leaves its buffer untouched. nframes is clamped to MaxBlockSize.
func (s *Smooth[F]) Process(nframes int) {
	if s.status != Active {
		return
	}

	if nframes > MaxBlockSize {
		nframes = MaxBlockSize
	}

	input := s.input * s.a

	s.output[0] = input + s.lastOutput*s.b
	for i := 1; i < nframes; i++ {
		s.output[i] = input + s.output[i-1]*s.b
	}

	s.lastOutput = s.output[nframes-1]
}

// IsActive reports whether the smoother still produces a ramp.
func (s *Smooth[F]) IsActive() bool {
	return s.status.isActive()
}

// SetSpeedMs derives the filter coefficients from a time constant: after
// ms milliseconds at the given sample rate the ramp covers ~63% of the
// distance to the target.
func (s *Smooth[F]) SetSpeedMs(sampleRate, ms F) {
	s.b = F(math.Exp(float64(-1 / (ms * (sampleRate / 1000)))))
	s.a = 1 - s.b
}

func abs[F Float](v F) F {
	if v < 0 {
		return -v
	}
	return v
}
