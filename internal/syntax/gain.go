package syntax

import (
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
)

// ReadTotalGain reads the block gain. The gain starts at 1 and is extended
// by 7-bit fields for as long as each field is 127.
func ReadTotalGain(r *bits.Reader) (int, error) {
	gain := 1
	for {
		a, err := r.GetBits(7)
		if err != nil {
			return 0, fmt.Errorf("total gain: %w", err)
		}
		gain += int(a)
		if a != 127 {
			return gain, nil
		}
	}
}

// CoefNbBits returns the width of escaped coefficient levels for a gain.
// Louder blocks need fewer bits because quantization is coarser.
func CoefNbBits(totalGain int) uint {
	switch {
	case totalGain < 15:
		return 13
	case totalGain < 32:
		return 12
	case totalGain < 40:
		return 11
	case totalGain < 45:
		return 10
	default:
		return 9
	}
}
