// Package bits implements MSB-first bit reading and writing over byte buffers.
package bits

import (
	"errors"
	"fmt"
)

// ErrTruncated is returned when a read would cross the end of the buffer.
var ErrTruncated = errors.New("bits: read past end of buffer")

// ErrBitCount is returned for a read width outside 1-32.
var ErrBitCount = errors.New("bits: bit count out of range")

// Reader reads bits MSB-first from a byte buffer.
//
// The reader is bounded by a bit limit which may fall inside the last byte,
// so a frame that ends mid-byte cannot read into the bits that follow it.
// No method allocates.
type Reader struct {
	data  []byte // Backing buffer, trimmed to the bytes covering limit
	pos   int    // Absolute bit position of the next read
	limit int    // Number of readable bits
}

// NewReader creates a Reader over all bits of data.
func NewReader(data []byte) *Reader {
	return NewReaderBits(data, len(data)*8)
}

// NewReaderBits creates a Reader over the first nbits bits of data.
// nbits is clamped to the size of data.
func NewReaderBits(data []byte, nbits int) *Reader {
	if nbits < 0 {
		nbits = 0
	}
	if nbits > len(data)*8 {
		nbits = len(data) * 8
	}
	return &Reader{
		data:  data[:(nbits+7)>>3],
		limit: nbits,
	}
}

// Position returns the number of bits consumed so far.
func (r *Reader) Position() int {
	return r.pos
}

// BitsRemaining returns the number of unread bits.
func (r *Reader) BitsRemaining() int {
	return r.limit - r.pos
}

// window returns the n bits at the current position, zero-padded past the
// limit. n must be 1-32.
func (r *Reader) window(n uint) uint32 {
	off := r.pos >> 3
	var w uint64
	for i := 0; i < 5; i++ {
		w <<= 8
		if off+i < len(r.data) {
			w |= uint64(r.data[off+i])
		}
	}

	// w holds 40 bits starting at byte off; pos&7 + n <= 39.
	shift := 40 - uint(r.pos&7) - n
	v := uint32(w >> shift)
	if n < 32 {
		v &= 1<<n - 1
	}

	// Bits beyond the limit read as zero even when the byte holds data.
	if over := r.pos + int(n) - r.limit; over > 0 {
		if over >= int(n) {
			return 0
		}
		v &^= 1<<uint(over) - 1
	}
	return v
}

// ShowBits returns the next n bits without consuming them.
// Bits past the end read as zero, which lets table-driven decoders look
// ahead by their full lookup width near the end of a frame.
// n must be 0-32.
func (r *Reader) ShowBits(n uint) uint32 {
	if n == 0 || n > 32 {
		return 0
	}
	return r.window(n)
}

// PeekBits returns the next n bits without consuming them.
// It fails if fewer than n bits remain.
func (r *Reader) PeekBits(n uint) (uint32, error) {
	if n == 0 || n > 32 {
		return 0, fmt.Errorf("%w: %d", ErrBitCount, n)
	}
	if r.pos+int(n) > r.limit {
		return 0, fmt.Errorf("%w: need %d bits, have %d", ErrTruncated, n, r.BitsRemaining())
	}
	return r.window(n), nil
}

// GetBits reads and returns the next n bits.
// n must be 1-32. The position is not advanced on failure.
func (r *Reader) GetBits(n uint) (uint32, error) {
	v, err := r.PeekBits(n)
	if err != nil {
		return 0, err
	}
	r.pos += int(n)
	return v, nil
}

// Get1Bit reads a single bit.
func (r *Reader) Get1Bit() (uint32, error) {
	if r.pos >= r.limit {
		return 0, fmt.Errorf("%w: need 1 bit, have 0", ErrTruncated)
	}
	b := (r.data[r.pos>>3] >> (7 - uint(r.pos&7))) & 1
	r.pos++
	return uint32(b), nil
}

// GetBool reads a single bit as a flag.
func (r *Reader) GetBool() (bool, error) {
	b, err := r.Get1Bit()
	return b != 0, err
}

// FlushBits skips n bits.
func (r *Reader) FlushBits(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", ErrBitCount, n)
	}
	if r.pos+n > r.limit {
		return fmt.Errorf("%w: skip %d bits, have %d", ErrTruncated, n, r.BitsRemaining())
	}
	r.pos += n
	return nil
}

// ByteAlign skips to the next byte boundary of the underlying buffer.
func (r *Reader) ByteAlign() error {
	if rem := r.pos & 7; rem != 0 {
		return r.FlushBits(8 - rem)
	}
	return nil
}
