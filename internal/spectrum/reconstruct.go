package spectrum

import "math"

// MaxHighBands bounds the number of noise bands per block size.
const MaxHighBands = 16

// Layout describes the coefficient regions of one block size.
type Layout struct {
	BlockLen      int
	Bsize         int // log2(frameLen / BlockLen)
	CoefsStart    int
	CoefsEnd      int
	HighBandStart int
	HighBands     []int // widths of the noise bands from HighBandStart to CoefsEnd
}

// Channel carries the decoded data of one coded channel in a block.
type Channel struct {
	// Quantized coefficients, in transmission order. Noise coded high
	// bands have no entries.
	Coefs []float32

	// Spectral envelope at the resolution of the block it was decoded
	// in: len(Exponents) == frameLen >> ExpBsize.
	Exponents   []float32
	ExpBsize    int
	MaxExponent float32

	HighBandCoded  []bool
	HighBandValues []int
}

// Params holds the per-block scaling of the reconstruction.
type Params struct {
	TotalGain   int
	Norm        float32 // IMDCT normalization
	NoiseCoding bool
	NoiseMult   float32
}

// Reconstruct computes the MDCT input of a coded channel into
// out[:l.BlockLen]. The envelope is looked up at the absolute coefficient
// position, so an envelope decoded for a larger or smaller block is
// resampled by the block size ratio.
func Reconstruct(out []float32, ch *Channel, l *Layout, p Params, noise *Noise) {
	out = out[:l.BlockLen]
	exp := func(c int) float32 {
		return ch.Exponents[(c<<l.Bsize)>>ch.ExpBsize]
	}
	mult := float32(math.Pow(10, float64(p.TotalGain)*0.05)) / ch.MaxExponent * p.Norm

	if !p.NoiseCoding {
		clear(out[:l.CoefsStart])
		n := l.CoefsEnd - l.CoefsStart
		for i := 0; i < n; i++ {
			c := l.CoefsStart + i
			out[c] = ch.Coefs[i] * exp(c) * mult
		}
		clear(out[l.CoefsEnd:])
		return
	}

	// Very low frequencies are noise.
	for c := 0; c < l.CoefsStart; c++ {
		out[c] = noise.Next() * exp(c) * mult
	}

	// Mean envelope power of each noise coded band.
	var expPower [MaxHighBands]float32
	lastHighBand := 0
	c := l.HighBandStart
	for j, n := range l.HighBands {
		if ch.HighBandCoded[j] {
			var e2 float32
			for i := 0; i < n; i++ {
				v := exp(c + i)
				e2 += v * v
			}
			expPower[j] = e2 / float32(n)
			lastHighBand = j
		}
		c += n
	}

	// Main frequencies and high bands.
	c = l.CoefsStart
	q := ch.Coefs
	for j := -1; j < len(l.HighBands); j++ {
		var n int
		if j < 0 {
			n = l.HighBandStart - l.CoefsStart
		} else {
			n = l.HighBands[j]
		}
		if j >= 0 && ch.HighBandCoded[j] {
			mult1 := float32(math.Sqrt(float64(expPower[j] / expPower[lastHighBand])))
			mult1 *= float32(math.Pow(10, float64(ch.HighBandValues[j])*0.05))
			mult1 /= ch.MaxExponent * p.NoiseMult
			mult1 *= p.Norm
			for i := 0; i < n; i++ {
				out[c] = noise.Next() * exp(c) * mult1
				c++
			}
			continue
		}
		// Coded values plus a little noise.
		for i := 0; i < n; i++ {
			out[c] = (q[i] + noise.Next()) * exp(c) * mult
			c++
		}
		q = q[n:]
	}

	// Very high frequencies are noise at the level of the last coefficient.
	mult1 := mult * exp(l.CoefsEnd-1)
	for c := l.CoefsEnd; c < l.BlockLen; c++ {
		out[c] = noise.Next() * mult1
	}
}
