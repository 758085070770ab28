package huffman

import "sync"

// Exponent deltas are coded as symbol = delta + 60, deltas -60..60.
const ExponentBias = 60

// Noise gain deltas are coded as symbol = delta + 18, deltas -18..18.
const HighGainBias = 18

// Coefficient symbols below CoefFirstPair are control codes.
const (
	CoefEscape    = 0
	CoefEnd       = 1
	CoefFirstPair = 2
)

// ExponentSpec codes exponent deltas. Small deltas dominate, so 0 gets a
// one-bit code and the tail is spread over 15 and 16 bit codes.
var ExponentSpec = Spec{
	Name:   "exponent",
	Counts: []uint8{1, 0, 2, 2, 2, 2, 2, 2, 2, 2, 0, 0, 0, 0, 24, 80},
	Symbols: []uint16{
		60, 59, 61, 58, 62, 57, 63, 56, 64, 55, 65, 54, 66, 53, 67, 52,
		68, 51, 69, 50, 70, 49, 71, 48, 72, 47, 73, 46, 74, 45, 75, 44,
		76, 43, 77, 42, 78, 41, 79, 40, 80, 39, 81, 38, 82, 37, 83, 36,
		84, 35, 85, 34, 86, 33, 87, 32, 88, 31, 89, 30, 90, 29, 91, 28,
		92, 27, 93, 26, 94, 25, 95, 24, 96, 23, 97, 22, 98, 21, 99, 20,
		100, 19, 101, 18, 102, 17, 103, 16, 104, 15, 105, 14, 106, 13, 107, 12,
		108, 11, 109, 10, 110, 9, 111, 8, 112, 7, 113, 6, 114, 5, 115, 4,
		116, 3, 117, 2, 118, 1, 119, 0, 120,
	},
}

// HighGainSpec codes noise sub-band gain deltas.
var HighGainSpec = Spec{
	Name:   "high band gain",
	Counts: []uint8{1, 0, 2, 2, 2, 2, 2, 2, 0, 0, 8, 16},
	Symbols: []uint16{
		18, 17, 19, 16, 20, 15, 21, 14, 22, 13, 23, 12, 24, 11, 25, 10,
		26, 9, 27, 8, 28, 7, 29, 6, 30, 5, 31, 4, 32, 3, 33, 2,
		34, 1, 35, 0, 36,
	},
}

// CoefTableSets is the number of coefficient table pairs. A stream uses
// one pair, chosen from its sample rate and bit rate per sample.
const CoefTableSets = 3

// CoefSpecs code run/level pairs. Pair k is CoefSpecs[2k] for mono and
// the mid channel and CoefSpecs[2k+1] for the side channel of a mid/side
// block. Pairs for higher rates hold more levels with direct codes.
//
// Symbol 0 is the escape code, symbol 1 ends the block, and symbols from 2
// on enumerate (run, level) pairs as laid out by CoefLevels.
var CoefSpecs = [2 * CoefTableSets]Spec{
	{
		Name:   "coefficients 0",
		Counts: []uint8{0, 2, 2, 2, 2, 2, 2, 2, 0, 6, 4},
		Symbols: []uint16{
			1, 2, 3, 12, 4, 0, 5, 13, 17, 6, 7, 14, 8, 9, 10, 11,
			15, 16, 18, 19, 20, 21, 22, 23,
		},
	},
	{
		Name:   "coefficients 1",
		Counts: []uint8{0, 2, 2, 2, 2, 2, 2, 2, 4},
		Symbols: []uint16{
			1, 2, 3, 10, 4, 0, 5, 11, 14, 6, 7, 12, 8, 9, 13, 15,
			16, 17,
		},
	},
	{
		Name:   "coefficients 2",
		Counts: []uint8{0, 2, 2, 2, 2, 2, 2, 2, 0, 0, 0, 32},
		Symbols: []uint16{
			1, 2, 3, 18, 4, 0, 5, 19, 26, 6, 7, 20, 8, 9, 10, 11,
			12, 13, 14, 15, 16, 17, 21, 22, 23, 24, 25, 27, 28, 29, 30, 31,
			32, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45,
		},
	},
	{
		Name:   "coefficients 3",
		Counts: []uint8{0, 2, 2, 2, 2, 2, 2, 2, 0, 0, 15, 2},
		Symbols: []uint16{
			1, 2, 3, 14, 4, 0, 5, 15, 20, 6, 7, 16, 8, 9, 10, 11,
			12, 13, 17, 18, 19, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30,
		},
	},
	{
		Name:   "coefficients 4",
		Counts: []uint8{0, 2, 2, 2, 2, 2, 2, 2, 0, 0, 0, 17, 30},
		Symbols: []uint16{
			1, 2, 3, 22, 4, 0, 5, 23, 32, 6, 7, 24, 8, 9, 10, 11,
			12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 25, 26, 27, 28, 29, 30,
			31, 33, 34, 35, 36, 37, 38, 39, 40, 41, 42, 43, 44, 45, 46, 47,
			48, 49, 50, 51, 52, 53, 54, 55, 56, 57, 58, 59, 60,
		},
	},
	{
		Name:   "coefficients 5",
		Counts: []uint8{0, 2, 2, 2, 2, 2, 2, 2, 0, 0, 9, 14},
		Symbols: []uint16{
			1, 2, 3, 16, 4, 0, 5, 17, 23, 6, 7, 18, 8, 9, 10, 11,
			12, 13, 14, 15, 19, 20, 21, 22, 24, 25, 26, 27, 28, 29, 30, 31,
			32, 33, 34, 35, 36,
		},
	},
}

// CoefLevels gives, for each level starting at 1, how many runs (0, 1, ...)
// have a direct code. The sum plus CoefFirstPair is the symbol count.
var CoefLevels = [2 * CoefTableSets][]uint16{
	{10, 5, 3, 2, 1, 1},
	{8, 4, 2, 1, 1},
	{16, 8, 6, 4, 3, 2, 2, 1, 1, 1},
	{12, 6, 4, 3, 2, 1, 1},
	{20, 10, 8, 6, 4, 3, 2, 2, 1, 1, 1, 1},
	{14, 7, 5, 3, 2, 2, 1, 1},
}

// Set holds every decode table a stream needs.
type Set struct {
	Exponent *Table
	HighGain *Table
	Coef     [2 * CoefTableSets]*Table
}

var (
	setOnce sync.Once
	set     *Set
	setErr  error
)

// Tables returns the shared decode tables, building them on first use.
func Tables() (*Set, error) {
	setOnce.Do(func() {
		s := &Set{}
		if s.Exponent, setErr = Build(ExponentSpec); setErr != nil {
			return
		}
		if s.HighGain, setErr = Build(HighGainSpec); setErr != nil {
			return
		}
		for i := range CoefSpecs {
			if s.Coef[i], setErr = Build(CoefSpecs[i]); setErr != nil {
				return
			}
		}
		set = s
	})
	return set, setErr
}
