package param

import "math"

// Gradient selects the response curve mapping normalized values onto the
// unit range.
type Gradient uint8

const (
	// Linear maps normalized values straight onto the range.
	Linear Gradient = iota
	// Power applies normalized^exponent before mapping, giving finer
	// resolution near the low end for exponents below 1.
	Power
	// Exponential interpolates between Min and Max in log2 space, for
	// ranges like frequencies where ratios matter more than differences.
	// Requires Min > 0.
	Exponential
)

func (g Gradient) String() string {
	switch g {
	case Power:
		return "Power"
	case Exponential:
		return "Exponential"
	default:
		return "Linear"
	}
}

// Range is a parameter's unit-space span together with its response
// curve. Exponent applies to the Power gradient only.
type Range struct {
	Min, Max float32

	Gradient Gradient
	Exponent float32
}

// UnitFromNormal maps a normalized value onto the unit range through the
// response curve. The input is clamped to [0,1] first (NaN counts as 0).
// Exponential returns the exact endpoints for 0 and 1 so log rounding
// never distorts the range edges.
func (r Range) UnitFromNormal(normalized float32) float32 {
	n := clampNorm(normalized)

	span := func(x float32) float32 {
		return x*(r.Max-r.Min) + r.Min
	}

	switch r.Gradient {
	case Power:
		return span(powf(n, r.Exponent))

	case Exponential:
		switch n {
		case 0:
			return r.Min
		case 1:
			return r.Max
		}
		minl := log2f(r.Min)
		return exp2f(n*(log2f(r.Max)-minl) + minl)

	default:
		return span(n)
	}
}

// NormalFromUnit is the exact inverse of UnitFromNormal per gradient,
// saturating at the range edges: values at or below Min return 0, at or
// above Max return 1.
func (r Range) NormalFromUnit(unitValue float32) float32 {
	if unitValue <= r.Min {
		return 0
	}
	if unitValue >= r.Max {
		return 1
	}

	unspan := func(x float32) float32 {
		return (x - r.Min) / (r.Max - r.Min)
	}

	switch r.Gradient {
	case Power:
		return powf(unspan(unitValue), 1/r.Exponent)

	case Exponential:
		minl := log2f(r.Min)
		return (log2f(unitValue) - minl) / (log2f(r.Max) - minl)

	default:
		return unspan(unitValue)
	}
}

func clampNorm(n float32) float32 {
	if math.IsNaN(float64(n)) || n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}

func powf(x, y float32) float32 {
	return float32(math.Pow(float64(x), float64(y)))
}

func log2f(x float32) float32 {
	return float32(math.Log2(float64(x)))
}

func exp2f(x float32) float32 {
	return float32(math.Exp2(float64(x)))
}

func log10f(x float32) float32 {
	return float32(math.Log10(float64(x)))
}
