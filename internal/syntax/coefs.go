package syntax

import (
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/huffman"
)

// CoefTable pairs a coefficient Huffman table with the run and level of
// each of its symbols.
type CoefTable struct {
	Huff  *huffman.Table
	Run   []uint16
	Level []uint16
}

// NewCoefTable lays out run/level pairs for t. levels[i] is the number of
// direct runs for level i+1; symbols enumerate runs 0..levels[i]-1 for
// level 1, then level 2, and so on.
func NewCoefTable(t *huffman.Table, levels []uint16) CoefTable {
	n := huffman.CoefFirstPair
	for _, c := range levels {
		n += int(c)
	}
	ct := CoefTable{
		Huff:  t,
		Run:   make([]uint16, n),
		Level: make([]uint16, n),
	}
	sym := huffman.CoefFirstPair
	for i, c := range levels {
		for run := uint16(0); run < c; run++ {
			ct.Run[sym] = run
			ct.Level[sym] = uint16(i + 1)
			sym++
		}
	}
	return ct
}

// RunLevel holds the stream parameters run-level decoding depends on.
type RunLevel struct {
	FrameLenBits uint
	CoefNbBits   uint
}

// DecodeRunLevel decodes quantized coefficients into out[:numCoefs], which
// must be zeroed by the caller. Decoding stops at the end-of-block code or
// when numCoefs positions have been covered.
//
// Ported from: ff_wma_run_level_decode() in FFmpeg libavcodec/wma.c
func DecodeRunLevel(r *bits.Reader, ct *CoefTable, p RunLevel, out []float32, numCoefs int) error {
	for offset := 0; offset < numCoefs; offset++ {
		code, err := ct.Huff.Decode(r)
		if err != nil {
			return fmt.Errorf("coefficient at %d: %w", offset, err)
		}

		var level uint32
		switch {
		case code >= huffman.CoefFirstPair:
			offset += int(ct.Run[code])
			level = uint32(ct.Level[code])

		case code == huffman.CoefEnd:
			return nil

		default:
			skip, lv, err := readEscape(r, p)
			if err != nil {
				return fmt.Errorf("coefficient escape at %d: %w", offset, err)
			}
			offset += skip
			level = lv
		}

		positive, err := r.GetBool()
		if err != nil {
			return fmt.Errorf("coefficient sign at %d: %w", offset, err)
		}
		if offset >= numCoefs {
			return fmt.Errorf("%w: offset %d, %d coefficients", ErrRunOverflow, offset, numCoefs)
		}
		if positive {
			out[offset] = float32(level)
		} else {
			out[offset] = -float32(level)
		}
	}
	return nil
}

// readEscape reads an escaped level and the run preceding it, both as raw
// fields. The run field is frameLenBits wide whatever the block length.
//
// Ported from: ff_wma_run_level_decode() in FFmpeg libavcodec/wma.c, as
// called by the WMA v1/v2 decoder (version 0, no large-value escapes).
func readEscape(r *bits.Reader, p RunLevel) (run int, level uint32, err error) {
	if level, err = r.GetBits(p.CoefNbBits); err != nil {
		return 0, 0, err
	}
	v, err := r.GetBits(p.FrameLenBits)
	if err != nil {
		return 0, 0, err
	}
	return int(v), level, nil
}
