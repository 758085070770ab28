package fft

import (
	"math"
	"math/bits"
)

// CFFT holds state for an in-place complex FFT of a fixed power of two size.
type CFFT struct {
	N   int
	Tab []Complex // exp(-2*pi*i*k/N) for k < N/2
	rev []int
}

// NewCFFT creates a CFFT for size n. It panics if n is not a power of two.
func NewCFFT(n int) *CFFT {
	if n <= 0 || n&(n-1) != 0 {
		panic("fft: size must be a power of two")
	}
	c := &CFFT{
		N:   n,
		Tab: make([]Complex, n/2),
		rev: make([]int, n),
	}
	for k := range c.Tab {
		a := -2 * math.Pi * float64(k) / float64(n)
		c.Tab[k] = Complex{Re: float32(math.Cos(a)), Im: float32(math.Sin(a))}
	}
	shift := bits.UintSize - bits.Len(uint(n-1))
	for i := range c.rev {
		if n > 1 {
			c.rev[i] = int(bits.Reverse(uint(i)) >> shift)
		}
	}
	return c
}

// Forward computes X[k] = sum x[j]*exp(-2*pi*i*j*k/N) in place.
func (c *CFFT) Forward(x []Complex) {
	n := c.N
	x = x[:n]
	for i, j := range c.rev {
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size >> 1
		step := n / size
		for start := 0; start < n; start += size {
			for k := 0; k < half; k++ {
				w := c.Tab[k*step]
				a := x[start+k]
				b := Mul(x[start+k+half], w)
				x[start+k] = Complex{Re: a.Re + b.Re, Im: a.Im + b.Im}
				x[start+k+half] = Complex{Re: a.Re - b.Re, Im: a.Im - b.Im}
			}
		}
	}
}
