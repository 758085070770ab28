package bits

// Writer appends bits MSB-first to a byte buffer.
type Writer struct {
	buf   []byte
	nbits int
}

// NewWriter creates a Writer that appends after the bytes already in buf.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf, nbits: len(buf) * 8}
}

// PutBits appends the low n bits of v. n must be 0-32.
func (w *Writer) PutBits(v uint32, n uint) {
	for i := int(n) - 1; i >= 0; i-- {
		if w.nbits&7 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>uint(i)&1 != 0 {
			w.buf[w.nbits>>3] |= 0x80 >> uint(w.nbits&7)
		}
		w.nbits++
	}
}

// PutBool appends a single flag bit.
func (w *Writer) PutBool(b bool) {
	if b {
		w.PutBits(1, 1)
	} else {
		w.PutBits(0, 1)
	}
}

// Len returns the number of bits written, including the initial bytes.
func (w *Writer) Len() int {
	return w.nbits
}

// Bytes returns the buffer. A partial last byte is zero-padded.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// PadToByte appends zero bits up to the next byte boundary.
func (w *Writer) PadToByte() {
	if rem := w.nbits & 7; rem != 0 {
		w.PutBits(0, uint(8-rem))
	}
}

// CopyBits moves n bits from r to w, whole bytes at a time where possible.
func CopyBits(w *Writer, r *Reader, n int) error {
	if n > r.BitsRemaining() {
		return ErrTruncated
	}
	for n >= 8 {
		v, err := r.GetBits(8)
		if err != nil {
			return err
		}
		w.PutBits(v, 8)
		n -= 8
	}
	if n > 0 {
		v, err := r.GetBits(uint(n))
		if err != nil {
			return err
		}
		w.PutBits(v, uint(n))
	}
	return nil
}
