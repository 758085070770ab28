// Package huffman builds canonical prefix-code tables and decodes symbols
// from a bit reader.
package huffman

import (
	"errors"
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
)

var (
	// ErrInvalidSpec indicates a code specification that is over-subscribed,
	// incomplete, or whose symbol list does not match its length counts.
	ErrInvalidSpec = errors.New("huffman: invalid code specification")

	// ErrNoCode indicates that no code matched before the length ceiling.
	ErrNoCode = errors.New("huffman: no code matched")
)

// MaxCodeLen is the longest code length a specification may use.
const MaxCodeLen = 24

// maxLookupBits bounds the first-step lookup table width.
const maxLookupBits = 9

// Spec describes a canonical prefix code.
//
// Counts[i] is the number of codes of length i+1. Codes are assigned in
// canonical order (shorter first, then in Symbols order), so the lengths
// alone determine the bit patterns.
type Spec struct {
	Name    string
	Counts  []uint8
	Symbols []uint16
}

// entry is a first-step lookup entry. length 0 marks a code longer than
// the lookup width.
type entry struct {
	symbol uint16
	length uint8
}

// Table decodes one canonical prefix code.
// A built Table is read-only and safe for concurrent use.
type Table struct {
	name       string
	maxLen     int
	lookupBits uint
	lookup     []entry

	// Canonical layout per code length, used for codes that do not fit
	// the lookup width.
	first  [MaxCodeLen + 1]uint32
	count  [MaxCodeLen + 1]uint16
	offset [MaxCodeLen + 1]uint16

	symbols []uint16

	// Per-symbol code and length, used to fill the lookup table.
	codes   []uint32
	lengths []uint8
}

// Build builds a decode table from s.
// It fails with ErrInvalidSpec unless every bit pattern up to the longest
// code length decodes to exactly one symbol.
func Build(s Spec) (*Table, error) {
	maxLen := len(s.Counts)
	if maxLen == 0 || maxLen > MaxCodeLen {
		return nil, fmt.Errorf("%w: %s: %d code lengths", ErrInvalidSpec, s.Name, maxLen)
	}

	total := 0
	for _, c := range s.Counts {
		total += int(c)
	}
	if total != len(s.Symbols) {
		return nil, fmt.Errorf("%w: %s: counts cover %d symbols, have %d",
			ErrInvalidSpec, s.Name, total, len(s.Symbols))
	}

	maxSym := 0
	for _, sym := range s.Symbols {
		if int(sym) > maxSym {
			maxSym = int(sym)
		}
	}

	t := &Table{
		name:    s.Name,
		maxLen:  maxLen,
		symbols: s.Symbols,
		codes:   make([]uint32, maxSym+1),
		lengths: make([]uint8, maxSym+1),
	}

	code := uint32(0)
	idx := 0
	for l := 1; l <= maxLen; l++ {
		n := int(s.Counts[l-1])
		t.first[l] = code
		t.count[l] = uint16(n)
		t.offset[l] = uint16(idx)

		for i := 0; i < n; i++ {
			sym := s.Symbols[idx]
			if t.lengths[sym] != 0 {
				return nil, fmt.Errorf("%w: %s: symbol %d listed twice", ErrInvalidSpec, s.Name, sym)
			}
			t.codes[sym] = code
			t.lengths[sym] = uint8(l)
			code++
			idx++
		}

		if code > 1<<uint(l) {
			return nil, fmt.Errorf("%w: %s: over-subscribed at length %d", ErrInvalidSpec, s.Name, l)
		}
		if l < maxLen {
			code <<= 1
		}
	}
	if code != 1<<uint(maxLen) {
		return nil, fmt.Errorf("%w: %s: incomplete code (%d of %d leaves)",
			ErrInvalidSpec, s.Name, code, uint32(1)<<uint(maxLen))
	}

	t.lookupBits = uint(min(maxLen, maxLookupBits))
	t.lookup = make([]entry, 1<<t.lookupBits)
	for _, sym := range s.Symbols {
		l := uint(t.lengths[sym])
		if l > t.lookupBits {
			continue
		}
		shift := t.lookupBits - l
		base := t.codes[sym] << shift
		for j := uint32(0); j < 1<<shift; j++ {
			t.lookup[base+j] = entry{symbol: sym, length: uint8(l)}
		}
	}

	return t, nil
}

// Decode reads one code from r and returns its symbol.
func (t *Table) Decode(r *bits.Reader) (int, error) {
	e := t.lookup[r.ShowBits(t.lookupBits)]
	if e.length != 0 {
		if err := r.FlushBits(int(e.length)); err != nil {
			return 0, err
		}
		return int(e.symbol), nil
	}

	// Longer than the lookup width: walk the canonical ranges.
	code := uint32(0)
	for l := 1; l <= t.maxLen; l++ {
		b, err := r.Get1Bit()
		if err != nil {
			return 0, err
		}
		code = code<<1 | b
		if code >= t.first[l] && code-t.first[l] < uint32(t.count[l]) {
			return int(t.symbols[int(t.offset[l])+int(code-t.first[l])]), nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrNoCode, t.name)
}
