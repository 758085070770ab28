package mdct

import (
	"math"

	"github.com/llehouerou/go-wma/internal/fft"
)

// sinCosTable computes the pre/post rotation factors for an MDCT with n
// output samples. Entry k (0 <= k < n/4) is exp(-i*pi*(k+1/8)/(n/2)).
func sinCosTable(n int) []fft.Complex {
	m := float64(n / 2)
	tab := make([]fft.Complex, n/4)
	for k := range tab {
		a := -math.Pi * (float64(k) + 0.125) / m
		tab[k] = fft.Complex{Re: float32(math.Cos(a)), Im: float32(math.Sin(a))}
	}
	return tab
}
