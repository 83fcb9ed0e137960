package param

// The -90 dB floor marks the point where a gain parameter is treated as
// fully off. dbFloorCoeff is the linear coefficient at exactly -90 dB;
// coefficients at or below it display and convert as the floor.
const (
	dbFloor      float32 = -90.0
	dbFloorCoeff float32 = 0.00003162278
)

// DBToCoeff converts decibels to a linear gain coefficient. Values below
// the -90 dB floor collapse to exactly zero, representing silence.
func DBToCoeff(db float32) float32 {
	if db < dbFloor {
		return 0
	}
	return powf(10, 0.05*db)
}

// CoeffToDB converts a linear gain coefficient to decibels, flooring at
// -90 dB for coefficients at or below the floor threshold. The floor is
// a saturation, not an inverse: everything from silence up to the
// threshold reads as exactly -90.
func CoeffToDB(coeff float32) float32 {
	if coeff <= dbFloorCoeff {
		return dbFloor
	}
	return 20 * log10f(coeff)
}
