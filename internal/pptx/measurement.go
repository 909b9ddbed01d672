package pptx

import "math"

// EMU (English Metric Units) conversion helpers.
// 1 inch = 914400 EMU, 1 point = 12700 EMU.

const (
	emuPerInch  = 914400
	emuPerPoint = 12700
	// maxEMU is the maximum safe EMU value to prevent overflow.
	maxEMU = math.MaxInt64 / 2

	// Slide size bounds accepted by PowerPoint.
	minSlideEMU = 914400
	maxSlideEMU = 51206400
)

// Inch converts inches to EMU.
func Inch(n float64) int64 {
	return clampEMU(n * emuPerInch)
}

// Point converts points to EMU.
func Point(n float64) int64 {
	return clampEMU(n * emuPerPoint)
}

// EMUToInch converts EMU to inches.
func EMUToInch(emu int64) float64 {
	return float64(emu) / emuPerInch
}

// angle converts degrees to DrawingML's 60000ths of a degree, normalised to
// [0, 360).
func angle(deg float64) int64 {
	const full = 360 * 60000
	a := int64(math.Round(math.Mod(deg, 360) * 60000))
	a %= full
	if a < 0 {
		a += full
	}
	return a
}

// percent converts a 0-100 percentage to DrawingML's 1000ths of a percent.
func percent(p float64) int64 {
	return int64(math.Round(math.Max(0, math.Min(100, p)) * 1000))
}

func clampEMU(v float64) int64 {
	if v > float64(maxEMU) {
		return maxEMU
	}
	if v < -float64(maxEMU) {
		return -maxEMU
	}
	return int64(math.Round(v))
}

func clampSlide(v int64) int64 {
	return min(max(v, minSlideEMU), maxSlideEMU)
}
