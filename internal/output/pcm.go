// Package output provides PCM output conversion and the decoded sample
// queue.
package output

import "math"

// clip16 clips and rounds a float32 to int16 range, rounding half to even.
func clip16(sample float32) int16 {
	if sample >= 32767.0 {
		return 32767
	}
	if sample <= -32768.0 {
		return -32768
	}
	return int16(math.RoundToEven(float64(sample)))
}

// ToPCM16Bit interleaves the first n samples of each channel in input into
// output as clipped 16-bit PCM. output must hold n*len(input) samples.
func ToPCM16Bit(input [][]float32, n int, output []int16) {
	channels := len(input)
	switch channels {
	case 1:
		for i, s := range input[0][:n] {
			output[i] = clip16(s)
		}
	case 2:
		left, right := input[0][:n], input[1][:n]
		for i := range left {
			output[2*i] = clip16(left[i])
			output[2*i+1] = clip16(right[i])
		}
	default:
		for ch, in := range input {
			for i, s := range in[:n] {
				output[i*channels+ch] = clip16(s)
			}
		}
	}
}
