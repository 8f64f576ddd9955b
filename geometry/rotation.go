package geometry

// NormalizeRotation maps any multiple of 90 degrees into {0, 90, 180, 270}.
// Values that are not multiples of 90 are truncated toward zero first.
func NormalizeRotation(deg int) int {
	r := ((deg/90)*90)%360 + 360
	return r % 360
}

// RotationSteps returns the number of clockwise quarter turns for deg.
func RotationSteps(deg int) int {
	return NormalizeRotation(deg) / 90
}

// RotatedSize returns the axis-aligned footprint of a w×h rectangle rotated by
// deg. Quarter and three-quarter turns swap the dimensions.
func RotatedSize(w, h float64, deg int) (float64, float64) {
	if RotationSteps(deg)%2 == 1 {
		return h, w
	}
	return w, h
}
