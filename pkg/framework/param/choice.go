package param

import "github.com/plugrt/plugrt/pkg/framework/smooth"

// Discrete parameters map a [0,1] float onto one of n variants. The
// bucket policy is pinned here because hosts hit the boundaries: the
// input is clamped to [0,1] with NaN counting as 0, then bucketed into n
// equal widths with inclusive lower bounds, so exactly 1.0 selects the
// last variant. The float representation of variant i spreads variants
// evenly with the first at 0 and the last at 1, which lands every
// variant strictly inside its own bucket and makes the round trip immune
// to float rounding.

// ChoiceIndex maps a float onto a variant index in [0, n).
func ChoiceIndex(v float32, n int) int {
	if n <= 1 {
		return 0
	}
	i := int(clampNorm(v) * float32(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// ChoiceValue is the float representation of variant i of n.
func ChoiceValue(i, n int) float32 {
	if n <= 1 {
		return 0
	}
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return float32(i) / float32(n-1)
}

// Integer constrains enum-like discrete parameter types.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Choice adapts a declicked discrete field as a parameter Target. The
// conversion closures define how the field's type maps to and from the
// parameter's DSP float.
type Choice[T comparable] struct {
	D       *smooth.Declick[T]
	FromDSP func(float32) T
	ToDSP   func(T) float32
}

func (c Choice[T]) Set(v float32) { c.D.Set(c.FromDSP(v)) }

func (c Choice[T]) Dest() float32 { return c.ToDSP(c.D.Dest()) }

// EnumChoice wires an integer-kinded enum with n variants (numbered from
// zero) to a declicker using the bucket policy above.
func EnumChoice[T Integer](d *smooth.Declick[T], n int) Choice[T] {
	return Choice[T]{
		D: d,
		FromDSP: func(v float32) T {
			return T(ChoiceIndex(v, n))
		},
		ToDSP: func(t T) float32 {
			return ChoiceValue(int(t), n)
		},
	}
}
