package syntax

import (
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/huffman"
	"github.com/llehouerou/go-wma/internal/tables"
)

// DecodeExponentsHuffman reads a Huffman coded spectral envelope.
//
// bands holds the exponent band widths of the block, which together cover
// len(exps) coefficients. Each band is filled with its linear scale and the
// largest scale is returned. Version 1 streams code the first band as a
// 5-bit absolute value; version 2 starts every envelope from level 36.
func DecodeExponentsHuffman(r *bits.Reader, t *huffman.Table, bands []uint16, version int, exps []float32) (float32, error) {
	var maxScale float32
	lastExp := 36
	pos := 0

	if version == 1 {
		v, err := r.GetBits(5)
		if err != nil {
			return 0, fmt.Errorf("exponent baseline: %w", err)
		}
		lastExp = int(v) + 10
		scale := tables.ExponentPower[lastExp+tables.ExponentPowerBias]
		maxScale = scale
		pos = fill(exps, pos, int(bands[0]), scale)
		bands = bands[1:]
	}

	for _, width := range bands {
		if pos >= len(exps) {
			break
		}
		code, err := t.Decode(r)
		if err != nil {
			return 0, fmt.Errorf("exponent: %w", err)
		}
		lastExp += code - huffman.ExponentBias
		idx := lastExp + tables.ExponentPowerBias
		if idx < 0 || idx >= len(tables.ExponentPower) {
			return 0, fmt.Errorf("%w: level %d", ErrExponentRange, lastExp)
		}
		scale := tables.ExponentPower[idx]
		if scale > maxScale {
			maxScale = scale
		}
		pos = fill(exps, pos, int(width), scale)
	}
	return maxScale, nil
}

func fill(dst []float32, pos, n int, v float32) int {
	end := min(pos+n, len(dst))
	for i := pos; i < end; i++ {
		dst[i] = v
	}
	return end
}

// ReadLSP reads the line spectral pair indices of an envelope and returns
// the codebook values.
func ReadLSP(r *bits.Reader) ([tables.LSPCoefs]float32, error) {
	var lsp [tables.LSPCoefs]float32
	for i := range lsp {
		idx, err := r.GetBits(tables.LSPIndexBits(i))
		if err != nil {
			return lsp, fmt.Errorf("lsp %d: %w", i, err)
		}
		lsp[i] = tables.LSPCodebook[i][idx]
	}
	return lsp, nil
}
