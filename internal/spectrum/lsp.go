package spectrum

import (
	"math"

	"github.com/llehouerou/go-wma/internal/tables"
)

const lspPowBits = 7

// Tables for x^-0.25: an exponent table and linear interpolation
// coefficients over the top mantissa bits.
var (
	lspPowE  [256]float32
	lspPowM1 [1 << lspPowBits]float32
	lspPowM2 [1 << lspPowBits]float32
)

func init() {
	for i := range lspPowE {
		lspPowE[i] = float32(math.Exp2(float64(i-126) * -0.25))
	}
	b := 1.0
	for i := 1<<lspPowBits - 1; i >= 0; i-- {
		m := 1<<lspPowBits + i
		a := float64(m) * (0.5 / (1 << lspPowBits))
		a = 1 / math.Sqrt(math.Sqrt(a))
		lspPowM1[i] = float32(2*a - b)
		lspPowM2[i] = float32(b - a)
		b = a
	}
}

// powM14 approximates x^-0.25 for positive x.
//
// Ported from: pow_m1_4() in FFmpeg libavcodec/wmadec.c
func powM14(x float32) float32 {
	u := math.Float32bits(x)
	e := u >> 23
	m := (u >> (23 - lspPowBits)) & (1<<lspPowBits - 1)
	// 1 <= t < 2
	t := math.Float32frombits((u<<lspPowBits)&(1<<23-1) | 127<<23)
	return lspPowE[e] * (lspPowM1[m] + lspPowM2[m]*t)
}

// LSP evaluates line spectral pair envelopes.
type LSP struct {
	cos []float32 // 2*cos(pi*i/frameLen)
}

// NewLSP creates an LSP evaluator for frames of frameLen samples.
func NewLSP(frameLen int) *LSP {
	l := &LSP{cos: make([]float32, frameLen)}
	wdel := math.Pi / float64(frameLen)
	for i := range l.cos {
		l.cos[i] = float32(2 * math.Cos(wdel*float64(i)))
	}
	return l
}

// Curve fills out with the envelope of lsp and returns the largest value.
// The curve is sampled on the frame length grid for every block size, so a
// short block covers the low end of the frame-length curve.
//
// Ported from: wma_lsp_to_curve() in FFmpeg libavcodec/wmadec.c
func (l *LSP) Curve(out []float32, lsp *[tables.LSPCoefs]float32) float32 {
	var maxVal float32
	for i := range out {
		w := l.cos[i]
		p, q := float32(0.5), float32(0.5)
		for j := 1; j < tables.LSPCoefs; j += 2 {
			q *= w - lsp[j-1]
			p *= w - lsp[j]
		}
		p *= p * (2 - w)
		q *= q * (2 + w)
		v := powM14(p + q)
		if v > maxVal {
			maxVal = v
		}
		out[i] = v
	}
	return maxVal
}
