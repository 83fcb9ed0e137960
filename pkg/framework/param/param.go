// Package param describes plugin parameters and translates between the
// three value spaces a parameter lives in: the host-facing normalized
// range [0,1], the human-facing unit range (decibels, hertz), and the
// DSP value the processing code actually consumes (linear coefficients).
// Parameters are built fluently, bound to smoothed-model fields through
// the Target interface, and collected into an index-addressed Table.
package param

import (
	"io"
	"math"
	"strings"
	"sync/atomic"
)

// Unit is the unit-space interpretation of a parameter's display range.
type Unit uint8

const (
	// Generic passes unit values through to the DSP unchanged.
	Generic Unit = iota
	// Decibels converts the unit value (dB) to a linear coefficient.
	Decibels
)

func (u Unit) String() string {
	switch u {
	case Decibels:
		return "Decibels"
	default:
		return "Generic"
	}
}

// DSPFromUnit converts a unit-space value to the DSP-space value.
func (u Unit) DSPFromUnit(v float32) float32 {
	if u == Decibels {
		return DBToCoeff(v)
	}
	return v
}

// UnitFromDSP converts a DSP-space value back to unit space.
func (u Unit) UnitFromDSP(v float32) float32 {
	if u == Decibels {
		return CoeffToDB(v)
	}
	return v
}

// Info is a parameter's immutable descriptor.
type Info struct {
	Name      string
	ShortName string
	Label     string

	Unit  Unit
	Range Range

	Idx int
}

// DisplayName returns the short name when present, else the full name.
func (i Info) DisplayName() string {
	if i.ShortName != "" {
		return i.ShortName
	}
	return i.Name
}

// Target binds a parameter to the smoothed-model field it drives. Set
// receives DSP-space values; Dest reports the field's destination value
// in DSP space. *smooth.Smooth[float32] satisfies Target directly.
type Target interface {
	Set(dsp float32)
	Dest() float32
}

// Direct adapts a raw, unsmoothed model field as a Target. The field is
// written immediately on Set; single-writer discipline is the caller's
// responsibility.
type Direct struct {
	V *float32
}

func (d Direct) Set(v float32) { *d.V = v }

func (d Direct) Dest() float32 { return *d.V }

// DisplayFunc renders a parameter's current value for humans.
type DisplayFunc func(p *Param, w io.Writer) error

// Param is a single parameter: descriptor, bound target, display
// formatting and the atomic mirror UI threads read from. Immutable after
// table construction except for the mirror.
type Param struct {
	Info Info

	// NotifyDSP routes changes through a frame-0 event so the plugin's
	// audio-thread change hook runs when the value lands.
	NotifyDSP bool

	target  Target
	display DisplayFunc

	mirror atomic.Uint32
}

// SetNormalized translates a normalized value through the unit range and
// unit conversion into DSP space and hands it to the bound target.
func (p *Param) SetNormalized(v float32) {
	p.target.Set(p.DSPFromNormal(v))
	p.mirror.Store(math.Float32bits(clampNorm(v)))
}

// Normalized reads the target's destination value back into normalized
// space. Call only from the thread that owns the model.
func (p *Param) Normalized() float32 {
	return p.NormalFromDSP(p.target.Dest())
}

// LastNormalized returns the most recent normalized value set on this
// parameter. Lock-free; safe from any thread.
func (p *Param) LastNormalized() float32 {
	return math.Float32frombits(p.mirror.Load())
}

// SyncMirror refreshes the lock-free mirror from the bound target's
// destination. Call after writing model fields directly, e.g. after a
// state load.
func (p *Param) SyncMirror() {
	p.mirror.Store(math.Float32bits(p.Normalized()))
}

// Dest returns the bound target's destination value in DSP space.
func (p *Param) Dest() float32 {
	return p.target.Dest()
}

// DSPFromNormal translates normalized -> unit -> DSP.
func (p *Param) DSPFromNormal(normalized float32) float32 {
	return p.Info.Unit.DSPFromUnit(p.Info.Range.UnitFromNormal(normalized))
}

// NormalFromDSP translates DSP -> unit -> normalized.
func (p *Param) NormalFromDSP(dsp float32) float32 {
	return p.Info.Range.NormalFromUnit(p.Info.Unit.UnitFromDSP(dsp))
}

// Display writes the parameter's current value through its display
// function.
func (p *Param) Display(w io.Writer) error {
	return p.display(p, w)
}

// DisplayText renders the display value as a string. Formatting failures
// yield an empty string rather than an error.
func (p *Param) DisplayText() string {
	var sb strings.Builder
	if err := p.display(p, &sb); err != nil {
		return ""
	}
	return sb.String()
}
