package spectrum

import (
	"math"
	"sync"
)

// NoiseTableSize is the length of the noise table. It is a power of two so
// the cursor wraps with a mask.
const NoiseTableSize = 8192

var noiseTables sync.Map // float32 multiplier -> []float32

// noiseTable returns the shared noise table for a multiplier. Values come
// from a 32-bit linear congruential generator and are scaled so that their
// RMS is close to mult.
func noiseTable(mult float32) []float32 {
	if t, ok := noiseTables.Load(mult); ok {
		return t.([]float32)
	}
	norm := float32(1.0 / float64(int64(1)<<31) * math.Sqrt(3) * float64(mult))
	t := make([]float32, NoiseTableSize)
	seed := uint32(1)
	for i := range t {
		seed = seed*314159 + 1
		t[i] = float32(int32(seed)) * norm
	}
	actual, _ := noiseTables.LoadOrStore(mult, t)
	return actual.([]float32)
}

// Noise reads the noise table through a cursor that wraps around. The
// cursor carries over from block to block.
type Noise struct {
	table []float32
	index int
}

// NewNoise creates a Noise source for the given multiplier.
func NewNoise(mult float32) *Noise {
	return &Noise{table: noiseTable(mult)}
}

// Next returns the next noise value and advances the cursor.
func (n *Noise) Next() float32 {
	v := n.table[n.index]
	n.index = (n.index + 1) & (NoiseTableSize - 1)
	return v
}

// Index returns the cursor position.
func (n *Noise) Index() int {
	return n.index
}

// Reset rewinds the cursor to the start of the table.
func (n *Noise) Reset() {
	n.index = 0
}
