// Package filterbank implements the WMA synthesis filter bank: IMDCT,
// sine windowing with block size transitions, and overlap-add.
package filterbank

import (
	"github.com/llehouerou/go-wma/internal/mdct"
)

// FilterBank holds the transforms and windows for every block size of a
// stream. Sizes are indexed by bsize = frameLenBits - blockLenBits.
type FilterBank struct {
	frameLenBits int
	mdcts        []*mdct.MDCT
	windows      [][]float32

	// IMDCT output of the last transformed block (2*blockLen samples)
	output []float32
}

// Block describes the block lengths around the block being synthesized,
// as log2 values.
type Block struct {
	LenBits     int
	PrevLenBits int
	NextLenBits int
}

// NewFilterBank creates a FilterBank for blocks of 2^frameLenBits down to
// 2^(frameLenBits-sizes+1) samples.
func NewFilterBank(frameLenBits, sizes int) *FilterBank {
	fb := &FilterBank{
		frameLenBits: frameLenBits,
		mdcts:        make([]*mdct.MDCT, sizes),
		windows:      make([][]float32, sizes),
		output:       make([]float32, 2<<frameLenBits),
	}
	for i := 0; i < sizes; i++ {
		blockLen := 1 << (frameLenBits - i)
		fb.mdcts[i] = mdct.Shared(2 * blockLen)
		fb.windows[i] = SineWindow(blockLen)
	}
	return fb
}

// Transform runs the IMDCT of blockLen coefficients for a block of
// 2^lenBits samples. The result stays in the filter bank until the next
// Transform or Clear.
func (fb *FilterBank) Transform(coefs []float32, lenBits int) {
	bsize := fb.frameLenBits - lenBits
	m := fb.mdcts[bsize]
	m.IMDCT(coefs[:m.N2], fb.output[:m.N])
}

// Clear zeroes the transform output, for channels with no coded data.
func (fb *FilterBank) Clear() {
	clear(fb.output)
}

// Overlap windows the current transform output and adds it into out,
// which must start at the block's left edge in the frame output and hold
// at least 2*blockLen samples. The left half overlaps with the previous
// block. The right half overwrites out for the next block to overlap.
//
// Ported from: wma_window() in FFmpeg libavcodec/wmadec.c
func (fb *FilterBank) Overlap(out []float32, b Block) {
	blockLen := 1 << b.LenBits
	in := fb.output[:2*blockLen]

	if b.LenBits <= b.PrevLenBits {
		w := fb.windows[fb.frameLenBits-b.LenBits]
		vectorFmulAdd(out[:blockLen], in[:blockLen], w)
	} else {
		prevLen := 1 << b.PrevLenBits
		n := (blockLen - prevLen) / 2
		w := fb.windows[fb.frameLenBits-b.PrevLenBits]
		vectorFmulAdd(out[n:n+prevLen], in[n:n+prevLen], w)
		copy(out[n+prevLen:blockLen], in[n+prevLen:blockLen])
	}

	out = out[blockLen : 2*blockLen]
	in = in[blockLen:]

	if b.LenBits <= b.NextLenBits {
		w := fb.windows[fb.frameLenBits-b.LenBits]
		vectorFmulReverse(out, in, w)
	} else {
		nextLen := 1 << b.NextLenBits
		n := (blockLen - nextLen) / 2
		w := fb.windows[fb.frameLenBits-b.NextLenBits]
		copy(out[:n], in[:n])
		vectorFmulReverse(out[n:n+nextLen], in[n:n+nextLen], w)
		clear(out[n+nextLen:])
	}
}

// vectorFmulAdd computes out[i] = in[i]*w[i] + out[i].
func vectorFmulAdd(out, in, w []float32) {
	for i := range out {
		out[i] += in[i] * w[i]
	}
}

// vectorFmulReverse computes out[i] = in[i]*w[len-1-i].
func vectorFmulReverse(out, in, w []float32) {
	last := len(out) - 1
	for i := range out {
		out[i] = in[i] * w[last-i]
	}
}
