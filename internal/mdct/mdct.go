// Package mdct implements the inverse modified discrete cosine transform.
package mdct

import (
	"sync"

	"github.com/llehouerou/go-wma/internal/fft"
)

// MDCT holds state for inverse transforms of one size.
//
// N is the number of output samples. The transform consumes N/2
// coefficients and computes
//
//	y[n] = sum_k X[k] * cos(pi/M * (n + 1/2 + M/2) * (k + 1/2))
//
// with M = N/2, without any additional scaling.
type MDCT struct {
	N      int           // Output length
	N2     int           // Coefficient count
	N4     int           // Complex FFT size
	cfft   *fft.CFFT     // Complex FFT of size N/4
	sincos []fft.Complex // Pre/post twiddle factors (N/4 entries)

	u   []float32
	buf []fft.Complex
}

// NewMDCT creates an MDCT with n output samples. n must be a power of two
// and at least 4.
func NewMDCT(n int) *MDCT {
	if n < 4 || n&(n-1) != 0 {
		panic("mdct: size must be a power of two >= 4")
	}
	m := &MDCT{
		N:  n,
		N2: n >> 1,
		N4: n >> 2,
	}
	m.cfft = fft.NewCFFT(m.N4)
	m.sincos = sinCosTable(n)
	m.u = make([]float32, m.N2)
	m.buf = make([]fft.Complex, m.N4)
	return m
}

var (
	cacheMu sync.Mutex
	cache   = map[int]*sharedTables{}
)

type sharedTables struct {
	cfft   *fft.CFFT
	sincos []fft.Complex
}

// Shared returns an MDCT of size n whose FFT and twiddle tables are built
// once per process and shared. The scratch buffers are private to the
// returned value, so it must not be used from more than one goroutine.
func Shared(n int) *MDCT {
	cacheMu.Lock()
	st, ok := cache[n]
	if !ok {
		m := NewMDCT(n)
		st = &sharedTables{cfft: m.cfft, sincos: m.sincos}
		cache[n] = st
		cacheMu.Unlock()
		return m
	}
	cacheMu.Unlock()
	return &MDCT{
		N:      n,
		N2:     n >> 1,
		N4:     n >> 2,
		cfft:   st.cfft,
		sincos: st.sincos,
		u:      make([]float32, n>>1),
		buf:    make([]fft.Complex, n>>2),
	}
}

// IMDCT transforms N/2 coefficients from input into N samples in output.
func (m *MDCT) IMDCT(input, output []float32) {
	n2, n4 := m.N2, m.N4
	x := input[:n2]
	out := output[:m.N]
	z := m.buf

	// Pre-twiddle: pack even and reversed odd coefficients.
	for j := 0; j < n4; j++ {
		z[j] = fft.Mul(fft.Complex{Re: x[2*j], Im: x[n2-1-2*j]}, m.sincos[j])
	}

	m.cfft.Forward(z)

	// Post-twiddle gives the DCT-IV of x.
	u := m.u
	for q := 0; q < n4; q++ {
		w := fft.Mul(z[q], m.sincos[q])
		u[2*q] = w.Re
		u[n2-1-2*q] = -w.Im
	}

	// Unfold the DCT-IV into the full time-domain aliased output.
	half := n2 >> 1
	for i := range out {
		p := i + half
		switch {
		case p < n2:
			out[i] = u[p]
		case p < 2*n2:
			out[i] = -u[2*n2-1-p]
		default:
			out[i] = -u[p-2*n2]
		}
	}
}
