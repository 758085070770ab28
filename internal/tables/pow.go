package tables

import "math"

// ExponentPowerBias offsets exponent levels into ExponentPower.
const ExponentPowerBias = 60

// ExponentPower maps an exponent level e (-60 <= e < 156) to 10^(e/16),
// stored at index e+ExponentPowerBias.
var ExponentPower = func() [216]float32 {
	var t [216]float32
	for i := range t {
		t[i] = float32(math.Pow(10, float64(i-ExponentPowerBias)/16))
	}
	return t
}()
