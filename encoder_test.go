package wma

import (
	"slices"
	"testing"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/huffman"
	"github.com/llehouerou/go-wma/internal/huffman/huffmantest"
	"github.com/llehouerou/go-wma/internal/syntax"
	"github.com/llehouerou/go-wma/internal/tables"
)

// testCoef is a nonzero quantized coefficient. pos counts transmitted
// coefficients, so noise coded bands are skipped.
type testCoef struct {
	pos   int
	level int
}

type testChannel struct {
	coded bool

	// Huffman envelope: absolute level per exponent band. The last level
	// repeats for the remaining bands.
	expLevels []int
	// LSP envelope: codebook index per coefficient.
	lsp []int

	highCoded []bool
	highVals  []int
	coefs     []testCoef
}

type testBlock struct {
	bsize    int
	ms       bool
	gain     int
	reuseExp bool // keep the previous envelope; short blocks only
	ch       []testChannel
}

type testFrame []testBlock

// frameBits is an encoded frame and its exact length in bits.
type frameBits struct {
	data []byte
	n    int
}

// testEncoder writes the bitstream the decoder reads, for streams built
// from explicit block descriptions.
type testEncoder struct {
	t   *testing.T
	cfg Config
	set *huffmantest.Set
	ct  [2]syntax.CoefTable // run/level layout of the stream's table pair
	cw  [2]*huffmantest.Writer
}

func newTestEncoder(t *testing.T, cfg Config) *testEncoder {
	t.Helper()
	dec, err := huffman.Tables()
	if err != nil {
		t.Fatalf("huffman.Tables() error = %v", err)
	}
	e := &testEncoder{t: t, cfg: cfg, set: huffmantest.Tables()}
	for i := range e.ct {
		k := 2*cfg.CoefTableSet + i
		e.ct[i] = syntax.NewCoefTable(dec.Coef[k], huffman.CoefLevels[k])
		e.cw[i] = e.set.Coef[k]
	}
	return e
}

func (e *testEncoder) put(w *bits.Writer, hw *huffmantest.Writer, sym int) {
	e.t.Helper()
	if err := hw.Put(w, sym); err != nil {
		e.t.Fatalf("encode: %v", err)
	}
}

// encodeFrames encodes a stream of frames. The first block of the stream
// carries explicit block lengths.
func (e *testEncoder) encodeFrames(frames []testFrame) []frameBits {
	e.t.Helper()
	var all []testBlock
	for _, f := range frames {
		all = append(all, f...)
	}

	out := make([]frameBits, 0, len(frames))
	i := 0
	for _, f := range frames {
		w := bits.NewWriter(nil)
		for range f {
			prev, next := all[i].bsize, all[i].bsize
			if i > 0 {
				prev = all[i-1].bsize
			}
			if i+1 < len(all) {
				next = all[i+1].bsize
			}
			e.writeBlock(w, all[i], prev, next, i == 0)
			i++
		}
		out = append(out, frameBits{data: w.Bytes(), n: w.Len()})
	}
	return out
}

// packets returns one packet per frame, for streams without a bit
// reservoir.
func (e *testEncoder) packets(frames []testFrame) [][]byte {
	e.t.Helper()
	var pkts [][]byte
	for _, f := range e.encodeFrames(frames) {
		pkts = append(pkts, f.data)
	}
	return pkts
}

func (e *testEncoder) writeBlock(w *bits.Writer, b testBlock, prev, next int, reset bool) {
	e.t.Helper()
	cfg := e.cfg
	if cfg.VariableBlocks {
		n := uint(log2(cfg.BlockSizes-1) + 1)
		if reset {
			w.PutBits(uint32(prev), n)
			w.PutBits(uint32(b.bsize), n)
		}
		w.PutBits(uint32(next), n)
	}
	if cfg.Channels == 2 {
		w.PutBool(b.ms)
	}
	anyCoded := false
	for ch := 0; ch < cfg.Channels; ch++ {
		w.PutBool(b.ch[ch].coded)
		anyCoded = anyCoded || b.ch[ch].coded
	}
	if !anyCoded {
		return
	}

	rem := b.gain - 1
	for rem >= 127 {
		w.PutBits(127, 7)
		rem -= 127
	}
	w.PutBits(uint32(rem), 7)

	layout := &cfg.layouts[b.bsize]
	var nbCoefs [MaxChannels]int
	for ch := 0; ch < cfg.Channels; ch++ {
		nbCoefs[ch] = layout.CoefsEnd - layout.CoefsStart
	}
	if cfg.NoiseCoding {
		for ch := 0; ch < cfg.Channels; ch++ {
			c := b.ch[ch]
			if !c.coded {
				continue
			}
			for j, width := range layout.HighBands {
				coded := j < len(c.highCoded) && c.highCoded[j]
				w.PutBool(coded)
				if coded {
					nbCoefs[ch] -= width
				}
			}
		}
		for ch := 0; ch < cfg.Channels; ch++ {
			c := b.ch[ch]
			if !c.coded {
				continue
			}
			first := true
			last := 0
			vi := 0
			for j := range layout.HighBands {
				if j >= len(c.highCoded) || !c.highCoded[j] {
					continue
				}
				v := c.highVals[vi]
				vi++
				if first {
					w.PutBits(uint32(v+19), 7)
					first = false
				} else {
					e.put(w, e.set.HighGain, v-last+huffman.HighGainBias)
				}
				last = v
			}
		}
	}

	if b.bsize != 0 {
		w.PutBool(!b.reuseExp)
	}
	if b.bsize == 0 || !b.reuseExp {
		for ch := 0; ch < cfg.Channels; ch++ {
			if b.ch[ch].coded {
				e.writeEnvelope(w, b.ch[ch], layout)
			}
		}
	}

	for ch := 0; ch < cfg.Channels; ch++ {
		c := b.ch[ch]
		if !c.coded {
			continue
		}
		tindex := 0
		if ch == 1 && b.ms {
			tindex = 1
		}
		e.writeCoefs(w, &e.ct[tindex], e.cw[tindex], c.coefs, nbCoefs[ch], syntax.CoefNbBits(b.gain))
		if cfg.Version == Version1 && cfg.Channels >= 2 {
			w.PadToByte()
		}
	}
}

func (e *testEncoder) writeEnvelope(w *bits.Writer, c testChannel, layout *blockLayout) {
	e.t.Helper()
	if !e.cfg.ExpHuffman {
		for i := 0; i < tables.LSPCoefs; i++ {
			w.PutBits(uint32(c.lsp[i]), tables.LSPIndexBits(i))
		}
		return
	}
	level := func(i int) int {
		return c.expLevels[min(i, len(c.expLevels)-1)]
	}
	last := 36
	start := 0
	if e.cfg.Version == Version1 {
		last = level(0)
		w.PutBits(uint32(last-10), 5)
		start = 1
	}
	for i := start; i < len(layout.expBands); i++ {
		e.put(w, e.set.Exponent, level(i)-last+huffman.ExponentBias)
		last = level(i)
	}
}

// writeCoefs run-level codes coefs, using direct codes where the table
// has one and escapes otherwise.
func (e *testEncoder) writeCoefs(w *bits.Writer, ct *syntax.CoefTable, hw *huffmantest.Writer, coefs []testCoef, nbCoefs int, coefNbBits uint) {
	e.t.Helper()
	coefs = slices.Clone(coefs)
	slices.SortFunc(coefs, func(a, b testCoef) int { return a.pos - b.pos })

	off := 0
	for _, c := range coefs {
		run := c.pos - off
		mag := max(c.level, -c.level)
		if sym, ok := pairSymbol(ct, run, mag); ok {
			e.put(w, hw, sym)
		} else {
			e.put(w, hw, huffman.CoefEscape)
			e.writeEscape(w, run, mag, coefNbBits)
		}
		w.PutBool(c.level > 0)
		off = c.pos + 1
	}
	if off < nbCoefs {
		e.put(w, hw, huffman.CoefEnd)
	}
}

// writeEscape writes an escaped level and its run as raw fields. Levels
// must fit coefNbBits.
func (e *testEncoder) writeEscape(w *bits.Writer, run, level int, coefNbBits uint) {
	e.t.Helper()
	if level >= 1<<coefNbBits {
		e.t.Fatalf("level %d does not fit %d bits", level, coefNbBits)
	}
	w.PutBits(uint32(level), coefNbBits)
	w.PutBits(uint32(run), uint(e.cfg.FrameLenBits))
}

func pairSymbol(ct *syntax.CoefTable, run, level int) (int, bool) {
	for sym := huffman.CoefFirstPair; sym < len(ct.Run); sym++ {
		if int(ct.Run[sym]) == run && int(ct.Level[sym]) == level {
			return sym, true
		}
	}
	return 0, false
}

// superframes splits frames into bit reservoir packets of size bytes.
//
// The frames form one continuous bit sequence. A packet either carries the
// superframe header followed by the rest of the frame in progress, the
// whole frames that fit and the start of the next one, or only extends the
// frame in progress. The second form cannot complete a frame, so a frame
// whose remaining bits fall between the two payload sizes cannot be
// packed; ok is false then.
func (e *testEncoder) superframes(frames []frameBits, size int) (pkts [][]byte, ok bool) {
	e.t.Helper()
	stream := bits.NewWriter(nil)
	starts := make([]int, 0, len(frames)+1)
	for _, f := range frames {
		starts = append(starts, stream.Len())
		if err := bits.CopyBits(stream, bits.NewReaderBits(f.data, f.n), f.n); err != nil {
			e.t.Fatalf("CopyBits() error = %v", err)
		}
	}
	total := stream.Len()
	starts = append(starts, total)
	data := stream.Bytes()

	offsetBits := uint(e.cfg.ByteOffsetBits + 3)
	packetBits := size * 8
	payload := packetBits - 8 - int(offsetBits)

	copyBits := func(w *bits.Writer, from, n int) {
		n = min(n, total-from)
		if n <= 0 {
			return
		}
		r := bits.NewReaderBits(data, total)
		if err := r.FlushBits(from); err != nil {
			e.t.Fatalf("FlushBits() error = %v", err)
		}
		if err := bits.CopyBits(w, r, n); err != nil {
			e.t.Fatalf("CopyBits() error = %v", err)
		}
	}

	pos := 0
	for index := 0; pos < total; index++ {
		w := bits.NewWriter(nil)
		w.PutBits(uint32(index&15), 4)

		// First frame starting at or after pos.
		fi, _ := slices.BinarySearch(starts, pos)
		pending := starts[fi] - pos
		rest := pending
		if pending == 0 {
			rest = starts[fi+1] - pos
		}

		switch {
		case rest <= payload:
			k := 0
			for j := fi; j < len(frames) && starts[j+1] <= pos+payload; j++ {
				k++
			}
			if k+1 > 15 {
				e.t.Fatalf("packet %d holds %d frames", index, k)
			}
			if pending >= 1<<offsetBits {
				e.t.Fatalf("bit offset %d does not fit %d bits", pending, offsetBits)
			}
			w.PutBits(uint32(k+1), 4)
			w.PutBits(uint32(pending), offsetBits)
			copyBits(w, pos, payload)
			pos += payload

		case rest > packetBits-8:
			count := 0
			if pending == 0 {
				count = 1
			}
			w.PutBits(uint32(count), 4)
			copyBits(w, pos, packetBits-8)
			pos += packetBits - 8

		default:
			return nil, false
		}

		pkt := make([]byte, size)
		copy(pkt, w.Bytes())
		pkts = append(pkts, pkt)
	}
	return pkts, true
}
