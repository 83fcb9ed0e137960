package param

import "fmt"

// Builder assembles a parameter fluently. Builders are finalized by
// NewTable, which assigns the index and validates the configuration.
type Builder struct {
	p *Param
}

// New starts a parameter named name with a linear [0,1] range and
// generic unit.
func New(name string) *Builder {
	return &Builder{
		p: &Param{
			Info: Info{
				Name:  name,
				Range: Range{Min: 0, Max: 1, Gradient: Linear},
			},
		},
	}
}

// Short sets the abbreviated name hosts show in tight layouts.
func (b *Builder) Short(name string) *Builder {
	b.p.Info.ShortName = name
	return b
}

// Label sets the display label appended after the value, e.g. "dB".
func (b *Builder) Label(label string) *Builder {
	b.p.Info.Label = label
	return b
}

// Unit sets the unit-space interpretation.
func (b *Builder) Unit(u Unit) *Builder {
	b.p.Info.Unit = u
	return b
}

// Range sets the unit-space span.
func (b *Builder) Range(min, max float32) *Builder {
	b.p.Info.Range.Min = min
	b.p.Info.Range.Max = max
	return b
}

// Power selects the power response curve with the given exponent.
func (b *Builder) Power(exponent float32) *Builder {
	b.p.Info.Range.Gradient = Power
	b.p.Info.Range.Exponent = exponent
	return b
}

// Exponential selects the log-space response curve.
func (b *Builder) Exponential() *Builder {
	b.p.Info.Range.Gradient = Exponential
	return b
}

// DSPNotify routes changes through the audio thread so the plugin's
// change hook observes them at a defined point in the block.
func (b *Builder) DSPNotify() *Builder {
	b.p.NotifyDSP = true
	return b
}

// Target binds the smoothed-model field this parameter drives.
func (b *Builder) Target(t Target) *Builder {
	b.p.target = t
	return b
}

// Display overrides the unit-derived default display function.
func (b *Builder) Display(f DisplayFunc) *Builder {
	b.p.display = f
	return b
}

// build validates and finalizes the parameter at table position idx.
// Configuration mistakes are programmer errors and panic here, at
// model-definition time, rather than surfacing during processing.
func (b *Builder) build(idx int) *Param {
	p := b.p

	if p.target == nil {
		panic(fmt.Sprintf("param: %q has no target bound", p.Info.Name))
	}
	if p.Info.Range.Gradient == Exponential && p.Info.Range.Min <= 0 {
		panic(fmt.Sprintf("param: %q: exponential gradient needs min > 0, got %g", p.Info.Name, p.Info.Range.Min))
	}
	if p.Info.Range.Gradient == Power && p.Info.Range.Exponent <= 0 {
		panic(fmt.Sprintf("param: %q: power gradient needs a positive exponent", p.Info.Name))
	}

	if p.display == nil {
		switch p.Info.Unit {
		case Decibels:
			p.display = DecibelDisplay
		default:
			p.display = GenericDisplay
		}
	}

	p.Info.Idx = idx
	p.SyncMirror()

	return p
}
