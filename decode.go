package wma

import (
	"fmt"
	"math"
	"slices"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/filterbank"
	"github.com/llehouerou/go-wma/internal/output"
	"github.com/llehouerou/go-wma/internal/spectrum"
	"github.com/llehouerou/go-wma/internal/syntax"
)

// decodePacket decodes every frame a packet completes and returns their
// interleaved PCM.
func (d *Decoder) decodePacket(packet []byte) ([]int16, error) {
	d.state = StateReadingSuperframeHeader

	// An empty packet marks a discontinuity.
	if len(packet) == 0 {
		d.overhang = d.overhang[:0]
		return nil, nil
	}
	if ba := d.config.BlockAlign; ba > 0 {
		if len(packet) < ba {
			err := fmt.Errorf("%w: packet of %d bytes, block align %d", bits.ErrTruncated, len(packet), ba)
			return nil, d.newError(StageSuperframeHeader, err)
		}
		packet = packet[:ba]
	}

	if !d.config.BitReservoir {
		return d.decodeFrame(bits.NewReader(packet), nil)
	}
	return d.decodeSuperframe(packet)
}

// decodeSuperframe decodes a packet of a bit reservoir stream. The packet
// first completes the frame carried over from the previous packet, then
// holds whole frames, then the start of the next frame.
//
// Ported from: wma_decode_superframe() in FFmpeg libavcodec/wmadec.c
func (d *Decoder) decodeSuperframe(packet []byte) ([]int16, error) {
	r := bits.NewReader(packet)
	if _, err := r.GetBits(4); err != nil { // superframe index
		return nil, d.newError(StageSuperframeHeader, err)
	}
	count, err := r.GetBits(4)
	if err != nil {
		return nil, d.newError(StageSuperframeHeader, err)
	}

	nbFrames := int(count)
	if len(d.overhang) == 0 {
		nbFrames--
	}
	if nbFrames <= 0 {
		// The packet only extends the frame in progress.
		if nbFrames < 0 {
			return nil, d.newError(StageSuperframeHeader, fmt.Errorf("%w: %d with no pending frame", errFrameCount, count))
		}
		if r.BitsRemaining() <= 8 {
			return nil, d.newError(StageSuperframeHeader, fmt.Errorf("%w: %d with %d payload bits", errFrameCount, count, r.BitsRemaining()))
		}
		if len(d.overhang)+len(packet)-1 > MaxSuperframeSize {
			return nil, d.newError(StageReservoir, fmt.Errorf("%w: %d bytes pending, %d more", errReservoirOverflow, len(d.overhang), len(packet)-1))
		}
		d.overhang = append(d.overhang, packet[1:]...)
		return nil, nil
	}

	headerBits := 8 + d.config.ByteOffsetBits + 3
	v, err := r.GetBits(uint(d.config.ByteOffsetBits + 3))
	if err != nil {
		return nil, d.newError(StageSuperframeHeader, err)
	}
	bitOffset := int(v)
	if bitOffset > r.BitsRemaining() {
		return nil, d.newError(StageSuperframeHeader, fmt.Errorf("%w: %d bits, %d left", errBitOffset, bitOffset, r.BitsRemaining()))
	}

	var pcm []int16
	if len(d.overhang) > 0 {
		if len(d.overhang)+(bitOffset+7)>>3 > MaxSuperframeSize {
			return nil, d.newError(StageReservoir, fmt.Errorf("%w: %d bytes pending, %d bits more", errReservoirOverflow, len(d.overhang), bitOffset))
		}
		nbits := len(d.overhang)*8 + bitOffset
		w := bits.NewWriter(d.overhang)
		if err := bits.CopyBits(w, r, bitOffset); err != nil {
			return nil, d.newError(StageReservoir, err)
		}
		d.overhang = w.Bytes()

		fr := bits.NewReaderBits(d.overhang, nbits)
		if err := fr.FlushBits(d.lastBitOffset); err != nil {
			return nil, d.newError(StageReservoir, err)
		}
		if pcm, err = d.decodeFrame(fr, pcm); err != nil {
			return nil, err
		}
		nbFrames--
	}

	pos := bitOffset + headerBits
	if pos >= MaxSuperframeSize*8 || pos > len(packet)*8 {
		return nil, d.newError(StageSuperframeHeader, fmt.Errorf("%w: frames start at bit %d", errBitOffset, pos))
	}
	r = bits.NewReader(packet)
	if err := r.FlushBits(pos); err != nil {
		return nil, d.newError(StageSuperframeHeader, err)
	}

	d.resetBlockLengths = true
	for ; nbFrames > 0; nbFrames-- {
		if pcm, err = d.decodeFrame(r, pcm); err != nil {
			return nil, err
		}
	}

	// Keep the start of the next frame.
	pos = r.Position()
	rest := packet[pos>>3:]
	if len(rest) > MaxSuperframeSize {
		return nil, d.newError(StageReservoir, fmt.Errorf("%w: %d bytes left in packet", errReservoirOverflow, len(rest)))
	}
	d.lastBitOffset = pos & 7
	d.overhang = append(d.overhang[:0], rest...)
	return pcm, nil
}

// decodeFrame decodes the blocks of one frame from r and appends the
// frame's PCM to pcm.
//
// Ported from: wma_decode_frame() in FFmpeg libavcodec/wmadec.c
func (d *Decoder) decodeFrame(r *bits.Reader, pcm []int16) ([]int16, error) {
	frameLen := d.config.FrameLen()
	d.blockPos = 0
	for d.blockPos < frameLen {
		d.state = StateDecodingBlock
		if err := d.decodeBlock(r); err != nil {
			return pcm, err
		}
	}

	d.state = StateEmittingFrame
	start := len(pcm)
	n := frameLen * d.config.Channels
	pcm = slices.Grow(pcm, n)[:start+n]
	output.ToPCM16Bit(d.outputs, frameLen, pcm[start:])

	for ch := 0; ch < d.config.Channels; ch++ {
		out := d.channels[ch].frameOut
		copy(out, out[frameLen:])
		clear(out[frameLen:])
	}
	d.frame++
	return pcm, nil
}

// readBlockLengths advances the block length state. The first block after
// a reset carries the previous and current lengths explicitly; every block
// carries the length of the next one.
func (d *Decoder) readBlockLengths(r *bits.Reader) error {
	n := uint(log2(d.config.BlockSizes-1) + 1)
	read := func() (int, error) {
		v, err := r.GetBits(n)
		if err != nil {
			return 0, err
		}
		if int(v) >= d.config.BlockSizes {
			return 0, fmt.Errorf("%w: size index %d of %d", errBlockLength, v, d.config.BlockSizes)
		}
		return d.config.FrameLenBits - int(v), nil
	}

	var err error
	if d.resetBlockLengths {
		d.resetBlockLengths = false
		if d.prevBlockLenBits, err = read(); err != nil {
			return err
		}
		if d.blockLenBits, err = read(); err != nil {
			return err
		}
	} else {
		d.prevBlockLenBits = d.blockLenBits
		d.blockLenBits = d.nextBlockLenBits
	}
	d.nextBlockLenBits, err = read()
	return err
}

// decodeBlock decodes one block of every channel and overlap-adds it into
// the frame output.
//
// Ported from: wma_decode_block() in FFmpeg libavcodec/wmadec.c
func (d *Decoder) decodeBlock(r *bits.Reader) error {
	cfg := &d.config
	frameLen := cfg.FrameLen()

	if cfg.VariableBlocks {
		if err := d.readBlockLengths(r); err != nil {
			return d.newError(StageBlockLength, err)
		}
	} else {
		d.prevBlockLenBits = cfg.FrameLenBits
		d.blockLenBits = cfg.FrameLenBits
		d.nextBlockLenBits = cfg.FrameLenBits
	}
	blockLen := 1 << d.blockLenBits
	if d.blockPos+blockLen > frameLen {
		return d.newError(StageBlockLength, fmt.Errorf("%w: block of %d at %d", errBlockOverrun, blockLen, d.blockPos))
	}
	bsize := cfg.FrameLenBits - d.blockLenBits
	layout := &cfg.layouts[bsize]

	var err error
	d.msStereo = false
	if cfg.Channels == 2 {
		if d.msStereo, err = r.GetBool(); err != nil {
			return d.newError(StageBlockHeader, err)
		}
	}
	anyCoded := false
	for ch := 0; ch < cfg.Channels; ch++ {
		c := &d.channels[ch]
		if c.coded, err = r.GetBool(); err != nil {
			return d.newError(StageBlockHeader, err)
		}
		anyCoded = anyCoded || c.coded
	}

	if anyCoded {
		if err := d.decodeSpectrum(r, layout); err != nil {
			return err
		}
	}

	index := frameLen/2 + d.blockPos - blockLen/2
	blk := filterbank.Block{
		LenBits:     d.blockLenBits,
		PrevLenBits: d.prevBlockLenBits,
		NextLenBits: d.nextBlockLenBits,
	}
	for ch := 0; ch < cfg.Channels; ch++ {
		c := &d.channels[ch]
		switch {
		case c.coded:
			d.fb.Transform(c.coefs[:blockLen], d.blockLenBits)
		case d.msStereo && ch == 1:
			// Side is silent: the right channel repeats the left transform.
		default:
			d.fb.Clear()
		}
		d.fb.Overlap(c.frameOut[index:], blk)
	}

	d.blockPos += blockLen
	return nil
}

// decodeSpectrum reads the gain, noise, envelope and coefficients of the
// coded channels of a block and computes their MDCT input.
func (d *Decoder) decodeSpectrum(r *bits.Reader, layout *blockLayout) error {
	cfg := &d.config
	blockLen := layout.BlockLen
	nbHigh := len(layout.HighBands)

	gain, err := syntax.ReadTotalGain(r)
	if err != nil {
		return d.newError(StageBlockHeader, err)
	}

	var nbCoefs [MaxChannels]int
	for ch := 0; ch < cfg.Channels; ch++ {
		nbCoefs[ch] = layout.CoefsEnd - layout.CoefsStart
	}

	if cfg.NoiseCoding {
		for ch := 0; ch < cfg.Channels; ch++ {
			c := &d.channels[ch]
			if !c.coded {
				continue
			}
			removed, err := syntax.ReadHighBandFlags(r, layout.HighBands, c.highBandCoded[:nbHigh])
			if err != nil {
				return d.newError(StageNoise, err)
			}
			nbCoefs[ch] -= removed
		}
		for ch := 0; ch < cfg.Channels; ch++ {
			c := &d.channels[ch]
			if !c.coded {
				continue
			}
			if err := syntax.ReadHighBandValues(r, d.huff.HighGain, c.highBandCoded[:nbHigh], c.highBandValues[:nbHigh]); err != nil {
				return d.newError(StageNoise, err)
			}
		}
	}

	// Short blocks may keep the previous envelope.
	readExp := d.blockLenBits == cfg.FrameLenBits
	if !readExp {
		if readExp, err = r.GetBool(); err != nil {
			return d.newError(StageExponents, err)
		}
	}
	for ch := 0; ch < cfg.Channels; ch++ {
		c := &d.channels[ch]
		if !c.coded {
			continue
		}
		if readExp {
			if err := d.decodeExponents(r, c, layout); err != nil {
				return d.newError(StageExponents, err)
			}
		}
		if !c.expValid {
			return d.newError(StageExponents, fmt.Errorf("%w: channel %d", errNoExponents, ch))
		}
	}

	rl := syntax.RunLevel{
		FrameLenBits: uint(cfg.FrameLenBits),
		CoefNbBits:   syntax.CoefNbBits(gain),
	}
	for ch := 0; ch < cfg.Channels; ch++ {
		c := &d.channels[ch]
		if !c.coded {
			continue
		}
		tindex := 0
		if ch == 1 && d.msStereo {
			tindex = 1
		}
		clear(c.coefs1[:blockLen])
		if err := syntax.DecodeRunLevel(r, &d.coefTabs[tindex], rl, c.coefs1, nbCoefs[ch]); err != nil {
			return d.newError(StageCoefficients, fmt.Errorf("channel %d: %w", ch, err))
		}
		if cfg.Version == Version1 && cfg.Channels >= 2 {
			if err := r.ByteAlign(); err != nil {
				return d.newError(StageCoefficients, err)
			}
		}
	}

	n4 := blockLen / 2
	norm := 1 / float32(n4)
	if cfg.Version == Version1 {
		norm *= float32(math.Sqrt(float64(n4)))
	}
	params := spectrum.Params{
		TotalGain:   gain,
		Norm:        norm,
		NoiseCoding: cfg.NoiseCoding,
		NoiseMult:   cfg.NoiseMult,
	}
	frameLen := cfg.FrameLen()
	for ch := 0; ch < cfg.Channels; ch++ {
		c := &d.channels[ch]
		if !c.coded {
			continue
		}
		sc := spectrum.Channel{
			Coefs:          c.coefs1,
			Exponents:      c.exponents[:frameLen>>c.expBsize],
			ExpBsize:       c.expBsize,
			MaxExponent:    c.maxExponent,
			HighBandCoded:  c.highBandCoded[:nbHigh],
			HighBandValues: c.highBandValues[:nbHigh],
		}
		spectrum.Reconstruct(c.coefs, &sc, &layout.Layout, params, d.noise)
	}

	if d.msStereo && d.channels[1].coded {
		left, right := &d.channels[0], &d.channels[1]
		if !left.coded {
			clear(left.coefs[:blockLen])
			left.coded = true
		}
		spectrum.MSDecode(left.coefs[:blockLen], right.coefs[:blockLen])
	}
	return nil
}

// decodeExponents reads the envelope of channel c for a block.
func (d *Decoder) decodeExponents(r *bits.Reader, c *channelState, layout *blockLayout) error {
	exps := c.exponents[:layout.BlockLen]
	if d.config.ExpHuffman {
		m, err := syntax.DecodeExponentsHuffman(r, d.huff.Exponent, layout.expBands, d.config.Version, exps)
		if err != nil {
			return err
		}
		c.maxExponent = m
	} else {
		lsp, err := syntax.ReadLSP(r)
		if err != nil {
			return err
		}
		c.maxExponent = d.lsp.Curve(exps, &lsp)
	}
	c.expBsize = layout.Bsize
	c.expValid = true
	return nil
}

// newError tags err with the failing stage and the current frame.
func (d *Decoder) newError(stage Stage, err error) *DecodeError {
	return &DecodeError{
		Frame: d.frame,
		Stage: stage,
		Kind:  classify(err),
		Err:   err,
	}
}
