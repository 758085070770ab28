package syntax

import (
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/huffman"
)

// ReadHighBandFlags reads one flag per high band into coded. A coded band
// is synthesized from noise, so its coefficients are not transmitted; the
// number of coefficients removed this way is returned.
func ReadHighBandFlags(r *bits.Reader, widths []int, coded []bool) (int, error) {
	removed := 0
	for i, w := range widths {
		b, err := r.GetBool()
		if err != nil {
			return 0, fmt.Errorf("high band flag %d: %w", i, err)
		}
		coded[i] = b
		if b {
			removed += w
		}
	}
	return removed, nil
}

// ReadHighBandValues reads the noise gains of the coded high bands. The
// first gain is a 7-bit value offset by 19; later ones are Huffman coded
// deltas.
func ReadHighBandValues(r *bits.Reader, t *huffman.Table, coded []bool, values []int) error {
	first := true
	val := 0
	for i, c := range coded {
		if !c {
			continue
		}
		if first {
			v, err := r.GetBits(7)
			if err != nil {
				return fmt.Errorf("high band gain: %w", err)
			}
			val = int(v) - 19
			first = false
		} else {
			code, err := t.Decode(r)
			if err != nil {
				return fmt.Errorf("high band gain: %w", err)
			}
			val += code - huffman.HighGainBias
		}
		values[i] = val
	}
	return nil
}
