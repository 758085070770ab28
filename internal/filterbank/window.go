package filterbank

import "math"

// SineWindow returns the rising half of a sine window for blocks of n
// samples: w[i] = sin((i + 0.5) * pi / (2n)).
func SineWindow(n int) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = float32(math.Sin((float64(i) + 0.5) * math.Pi / float64(2*n)))
	}
	return w
}
