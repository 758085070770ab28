package wma

import (
	"encoding/binary"
	"fmt"
	"math/bits"

	"github.com/llehouerou/go-wma/internal/spectrum"
	"github.com/llehouerou/go-wma/internal/tables"
)

// Extra data flag bits.
const (
	FlagExpHuffman     = 0x0001 // Huffman coded exponents; LSP otherwise
	FlagBitReservoir   = 0x0002 // Frames may span packets
	FlagVariableBlocks = 0x0004 // Block length varies within a frame
)

// blockMinBits is log2 of the smallest block length.
const blockMinBits = 7

// maxCacheBits bounds the superframe bit offset field.
const maxCacheBits = 25

// Config is the immutable decoding configuration derived from the stream
// parameters.
type Config struct {
	Version    int
	SampleRate uint32
	Channels   int
	BitRate    uint32
	BlockAlign int
	Flags      uint16

	ExpHuffman     bool // Huffman exponents instead of LSP
	BitReservoir   bool
	VariableBlocks bool
	NoiseCoding    bool

	FrameLenBits   int
	BlockSizes     int // Number of block sizes, from frame length down
	ByteOffsetBits int
	CoefsStart     int
	HighFreq       float32 // Start of the noise coded region in Hz
	NoiseMult      float32
	CoefTableSet   int // Coefficient Huffman table pair, 0 to huffman.CoefTableSets-1

	layouts []blockLayout // indexed by bsize
}

// blockLayout holds the band layout of one block size.
type blockLayout struct {
	spectrum.Layout
	expBands []uint16 // exponent band widths covering the block
}

// FrameLen returns the number of samples per channel in a frame.
func (c Config) FrameLen() int {
	return 1 << c.FrameLenBits
}

// NewConfig validates p and derives the decoding configuration.
func NewConfig(p StreamParams) (Config, error) {
	c := Config{
		Version:    p.Version,
		SampleRate: p.SampleRate,
		Channels:   p.Channels,
		BitRate:    p.BitRate,
		BlockAlign: p.BlockAlign,
	}

	switch {
	case p.Version != Version1 && p.Version != Version2:
		return Config{}, fmt.Errorf("%w: version %d", ErrConfiguration, p.Version)
	case p.SampleRate == 0 || p.SampleRate > tables.MaxSampleRate:
		return Config{}, fmt.Errorf("%w: sample rate %d", ErrConfiguration, p.SampleRate)
	case p.Channels < 1 || p.Channels > MaxChannels:
		return Config{}, fmt.Errorf("%w: %d channels", ErrConfiguration, p.Channels)
	case p.BitRate == 0:
		return Config{}, fmt.Errorf("%w: bit rate 0", ErrConfiguration)
	case p.BlockAlign < 0:
		return Config{}, fmt.Errorf("%w: block align %d", ErrConfiguration, p.BlockAlign)
	}

	flags, err := parseExtraData(p.Version, p.ExtraData)
	if err != nil {
		return Config{}, err
	}
	c.Flags = flags
	c.ExpHuffman = flags&FlagExpHuffman != 0
	c.BitReservoir = flags&FlagBitReservoir != 0
	c.VariableBlocks = flags&FlagVariableBlocks != 0

	c.FrameLenBits = tables.FrameLenBits(p.SampleRate, p.Version)
	frameLen := c.FrameLen()

	c.BlockSizes = 1
	if c.VariableBlocks {
		nb := int(flags>>3&3) + 1
		if p.BitRate/uint32(p.Channels) >= 32000 {
			nb += 2
		}
		nb = min(nb, c.FrameLenBits-blockMinBits)
		c.BlockSizes = nb + 1
	}

	rate := p.SampleRate
	if p.Version == Version2 {
		rate = tables.NormalizeSampleRate(rate)
	}

	bps := float32(p.BitRate) / float32(uint32(p.Channels)*p.SampleRate)
	c.ByteOffsetBits = log2(int(bps*float32(frameLen)/8+0.5)) + 2
	if c.ByteOffsetBits+3 > maxCacheBits {
		return Config{}, fmt.Errorf("%w: %d byte offset bits", ErrConfiguration, c.ByteOffsetBits)
	}

	c.NoiseCoding, c.HighFreq = noiseParams(rate, p.SampleRate, p.Channels, bps)
	c.CoefTableSet = coefTableSet(p.SampleRate, p.Channels, bps)

	if p.Version == Version1 {
		c.CoefsStart = 3
	}
	if c.ExpHuffman {
		c.NoiseMult = 0.02
	} else {
		c.NoiseMult = 0.04
	}

	c.layouts = make([]blockLayout, c.BlockSizes)
	for k := range c.layouts {
		if err := c.buildLayout(k); err != nil {
			return Config{}, err
		}
	}
	return c, nil
}

// parseExtraData extracts the flags word from the codec private data.
func parseExtraData(version int, extra []byte) (uint16, error) {
	if len(extra) == 0 {
		return 0, nil
	}
	off := 2
	if version == Version2 {
		off = 4
	}
	if len(extra) < off+2 {
		return 0, fmt.Errorf("%w: %d bytes of extra data for version %d", ErrConfiguration, len(extra), version)
	}
	return binary.LittleEndian.Uint16(extra[off:]), nil
}

func log2(v int) int {
	if v <= 0 {
		return 0
	}
	return bits.Len(uint(v)) - 1
}

// coefTableSet picks the coefficient table pair. Streams below 32 kHz
// always use the last pair.
//
// Ported from: wma_init() in FFmpeg libavcodec/wma.c
func coefTableSet(sampleRate uint32, channels int, bps float32) int {
	bps1 := bps
	if channels == 2 {
		bps1 = bps * 1.6
	}
	if sampleRate >= 32000 {
		switch {
		case bps1 < 0.72:
			return 0
		case bps1 < 1.16:
			return 1
		}
	}
	return 2
}

// noiseParams decides whether noise coding is used and where the noise
// region starts. rate is the normalized rate class for version 2 streams.
func noiseParams(rate, sampleRate uint32, channels int, bps float32) (bool, float32) {
	highFreq := float32(sampleRate) * 0.5
	bps1 := bps
	if channels == 2 {
		bps1 = bps * 1.6
	}

	switch rate {
	case 44100:
		if bps1 >= 0.61 {
			return false, highFreq
		}
		highFreq *= 0.4
	case 22050:
		switch {
		case bps1 >= 1.16:
			return false, highFreq
		case bps1 >= 0.72:
			highFreq *= 0.7
		default:
			highFreq *= 0.6
		}
	case 16000:
		if bps > 0.5 {
			highFreq *= 0.5
		} else {
			highFreq *= 0.3
		}
	case 11025:
		highFreq *= 0.7
	case 8000:
		switch {
		case bps <= 0.625:
			highFreq *= 0.5
		case bps > 0.75:
			return false, highFreq
		default:
			highFreq *= 0.65
		}
	default:
		switch {
		case bps >= 0.8:
			highFreq *= 0.75
		case bps >= 0.6:
			highFreq *= 0.6
		default:
			highFreq *= 0.5
		}
	}
	return true, highFreq
}

// buildLayout computes the exponent and noise bands of block size k.
func (c *Config) buildLayout(k int) error {
	frameLen := c.FrameLen()
	blockLen := frameLen >> k
	rate := int(c.SampleRate)
	l := &c.layouts[k]

	var bands []uint16
	if c.Version == Version2 {
		bands = tables.HardcodedExponentBands(c.SampleRate, c.FrameLenBits-blockMinBits-k)
	}
	if bands == nil {
		lpos := 0
		for _, f := range tables.CriticalFreqs {
			var pos int
			if c.Version == Version1 {
				pos = (blockLen*2*int(f) + rate/2) / rate
			} else {
				pos = (blockLen*2*int(f) + rate*2) / (4 * rate) << 2
			}
			pos = min(pos, blockLen)
			if pos > lpos {
				bands = append(bands, uint16(pos-lpos))
			}
			if pos >= blockLen {
				break
			}
			lpos = pos
		}
		// Above 49 kHz the last critical band ends below Nyquist.
		if n := sumBands(bands); n < blockLen {
			bands = append(bands, uint16(blockLen-n))
		}
	}
	l.expBands = bands

	l.BlockLen = blockLen
	l.Bsize = k
	l.CoefsStart = c.CoefsStart
	l.CoefsEnd = (frameLen - frameLen*9/100) >> k
	l.HighBandStart = min(int(float32(blockLen*2)*c.HighFreq/float32(rate)+0.5), l.CoefsEnd)
	l.HighBandStart = max(l.HighBandStart, l.CoefsStart)

	pos := 0
	for _, w := range bands {
		start := max(pos, l.HighBandStart)
		pos += int(w)
		end := min(pos, l.CoefsEnd)
		if end > start {
			l.HighBands = append(l.HighBands, end-start)
		}
	}
	if c.NoiseCoding && len(l.HighBands) > spectrum.MaxHighBands {
		return fmt.Errorf("%w: %d noise bands for block length %d", ErrConfiguration, len(l.HighBands), blockLen)
	}
	return nil
}

func sumBands(bands []uint16) int {
	n := 0
	for _, w := range bands {
		n += int(w)
	}
	return n
}
