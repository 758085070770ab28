// Package huffmantest writes the codes of the static Huffman
// specifications, for tests that assemble bitstreams.
package huffmantest

import (
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/huffman"
)

// Writer emits the canonical codes of one specification.
type Writer struct {
	name    string
	codes   []uint32
	lengths []uint8
}

// NewWriter assigns codes to s the way huffman.Build does. s must be a
// valid specification.
func NewWriter(s huffman.Spec) *Writer {
	maxSym := 0
	for _, sym := range s.Symbols {
		maxSym = max(maxSym, int(sym))
	}
	w := &Writer{
		name:    s.Name,
		codes:   make([]uint32, maxSym+1),
		lengths: make([]uint8, maxSym+1),
	}
	code := uint32(0)
	idx := 0
	for l, n := range s.Counts {
		for i := 0; i < int(n); i++ {
			sym := s.Symbols[idx]
			w.codes[sym] = code
			w.lengths[sym] = uint8(l + 1)
			code++
			idx++
		}
		code <<= 1
	}
	return w
}

// Put writes the code of sym to bw.
func (w *Writer) Put(bw *bits.Writer, sym int) error {
	if sym < 0 || sym >= len(w.lengths) || w.lengths[sym] == 0 {
		return fmt.Errorf("%w: %s: symbol %d", huffman.ErrNoCode, w.name, sym)
	}
	bw.PutBits(w.codes[sym], uint(w.lengths[sym]))
	return nil
}

// Set holds a Writer for every table of huffman.Set.
type Set struct {
	Exponent *Writer
	HighGain *Writer
	Coef     [2 * huffman.CoefTableSets]*Writer
}

// Tables returns writers for the static specifications.
func Tables() *Set {
	s := &Set{
		Exponent: NewWriter(huffman.ExponentSpec),
		HighGain: NewWriter(huffman.HighGainSpec),
	}
	for i := range s.Coef {
		s.Coef[i] = NewWriter(huffman.CoefSpecs[i])
	}
	return s
}
