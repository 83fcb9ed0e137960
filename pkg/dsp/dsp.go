// Package dsp carries the small conversions shared by the example
// plugins and the offline host.
package dsp

import "math"

// MinDB is the decibel floor treated as silence in conversions.
const MinDB = -200.0

// LinearToDb converts amplitude to decibels. Values at or below zero
// return MinDB.
func LinearToDb(linear float32) float32 {
	if linear <= 0 {
		return MinDB
	}
	return 20 * float32(math.Log10(float64(linear)))
}

// DbToLinear converts decibels to amplitude. Values at or below MinDB
// return 0.
func DbToLinear(db float32) float32 {
	if db <= MinDB {
		return 0
	}
	return float32(math.Pow(10, float64(db)/20))
}

// Clamp bounds x to [lo, hi].
func Clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// HardClip bounds a sample to the range ±limit.
func HardClip(sample, limit float32) float32 {
	if sample > limit {
		return limit
	}
	if sample < -limit {
		return -limit
	}
	return sample
}
