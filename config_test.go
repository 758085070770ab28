package wma

import (
	"errors"
	"math"
	"testing"

	"github.com/llehouerou/go-wma/internal/huffman"
	"github.com/llehouerou/go-wma/internal/spectrum"
)

func TestNewConfig(t *testing.T) {
	tests := []struct {
		name           string
		params         StreamParams
		frameLenBits   int
		blockSizes     int
		byteOffsetBits int
		coefsStart     int
		noise          bool
		noiseMult      float32
		highFreq       float32
	}{
		{
			name:           "8 kHz mono",
			params:         lowRateParams(1, FlagExpHuffman),
			frameLenBits:   9,
			blockSizes:     1,
			byteOffsetBits: 9,
			noiseMult:      0.02,
			highFreq:       4000,
		},
		{
			name:           "44.1 kHz stereo variable blocks",
			params:         variableParams(),
			frameLenBits:   11,
			blockSizes:     4,
			byteOffsetBits: 10,
			noiseMult:      0.02,
			highFreq:       22050,
		},
		{
			name: "22.05 kHz stereo low rate",
			params: StreamParams{
				Version:    Version2,
				SampleRate: 22050,
				Channels:   2,
				BitRate:    20000,
			},
			frameLenBits:   10,
			blockSizes:     1,
			byteOffsetBits: 7,
			noise:          true,
			noiseMult:      0.04,
			highFreq:       11025 * 0.7,
		},
		{
			name: "version 1 32 kHz",
			params: StreamParams{
				Version:    Version1,
				SampleRate: 32000,
				Channels:   1,
				BitRate:    32000,
				ExtraData:  extraData(Version1, FlagExpHuffman|FlagVariableBlocks|3<<3),
			},
			frameLenBits:   10,
			blockSizes:     4,
			byteOffsetBits: 9,
			coefsStart:     3,
			noise:          true,
			noiseMult:      0.02,
			highFreq:       16000 * 0.75,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConfig(tt.params)
			if err != nil {
				t.Fatalf("NewConfig() error = %v", err)
			}
			if c.FrameLenBits != tt.frameLenBits {
				t.Errorf("FrameLenBits = %d, want %d", c.FrameLenBits, tt.frameLenBits)
			}
			if c.BlockSizes != tt.blockSizes {
				t.Errorf("BlockSizes = %d, want %d", c.BlockSizes, tt.blockSizes)
			}
			if c.ByteOffsetBits != tt.byteOffsetBits {
				t.Errorf("ByteOffsetBits = %d, want %d", c.ByteOffsetBits, tt.byteOffsetBits)
			}
			if c.CoefsStart != tt.coefsStart {
				t.Errorf("CoefsStart = %d, want %d", c.CoefsStart, tt.coefsStart)
			}
			if c.NoiseCoding != tt.noise {
				t.Errorf("NoiseCoding = %v, want %v", c.NoiseCoding, tt.noise)
			}
			if c.NoiseMult != tt.noiseMult {
				t.Errorf("NoiseMult = %v, want %v", c.NoiseMult, tt.noiseMult)
			}
			if math.Abs(float64(c.HighFreq-tt.highFreq)) > 0.01 {
				t.Errorf("HighFreq = %v, want %v", c.HighFreq, tt.highFreq)
			}
			if len(c.layouts) != c.BlockSizes {
				t.Errorf("%d layouts, want %d", len(c.layouts), c.BlockSizes)
			}
		})
	}
}

func TestNewConfig_Layouts(t *testing.T) {
	params := []StreamParams{
		lowRateParams(1, FlagExpHuffman),
		variableParams(),
		{Version: Version2, SampleRate: 22050, Channels: 2, BitRate: 20000},
		{Version: Version2, SampleRate: 32000, Channels: 2, BitRate: 64000, ExtraData: extraData(Version2, FlagVariableBlocks|1<<3)},
		{Version: Version1, SampleRate: 44100, Channels: 2, BitRate: 128000, ExtraData: extraData(Version1, FlagVariableBlocks|3<<3)},
		{Version: Version1, SampleRate: 11025, Channels: 1, BitRate: 8000},
		{Version: Version2, SampleRate: 48000, Channels: 2, BitRate: 96000},
	}
	for _, p := range params {
		c, err := NewConfig(p)
		if err != nil {
			t.Fatalf("NewConfig(%+v) error = %v", p, err)
		}
		frameLen := c.FrameLen()
		for k, l := range c.layouts {
			if l.BlockLen != frameLen>>k || l.Bsize != k {
				t.Errorf("v%d %d Hz size %d: BlockLen = %d, Bsize = %d", p.Version, p.SampleRate, k, l.BlockLen, l.Bsize)
			}
			if got := sumBands(l.expBands); got != l.BlockLen {
				t.Errorf("v%d %d Hz size %d: exponent bands cover %d, want %d", p.Version, p.SampleRate, k, got, l.BlockLen)
			}
			for i, w := range l.expBands {
				if w == 0 {
					t.Errorf("v%d %d Hz size %d: exponent band %d is empty", p.Version, p.SampleRate, k, i)
				}
			}
			if l.CoefsStart > l.HighBandStart || l.HighBandStart > l.CoefsEnd || l.CoefsEnd > l.BlockLen {
				t.Errorf("v%d %d Hz size %d: start %d, high %d, end %d, len %d out of order",
					p.Version, p.SampleRate, k, l.CoefsStart, l.HighBandStart, l.CoefsEnd, l.BlockLen)
			}
			high := 0
			for _, w := range l.HighBands {
				high += w
			}
			if high != l.CoefsEnd-l.HighBandStart {
				t.Errorf("v%d %d Hz size %d: high bands cover %d, want %d", p.Version, p.SampleRate, k, high, l.CoefsEnd-l.HighBandStart)
			}
			if c.NoiseCoding && len(l.HighBands) > spectrum.MaxHighBands {
				t.Errorf("v%d %d Hz size %d: %d high bands", p.Version, p.SampleRate, k, len(l.HighBands))
			}
		}
	}
}

func TestNewConfig_CoefTableSet(t *testing.T) {
	tests := []struct {
		name     string
		rate     uint32
		channels int
		bitRate  uint32
		want     int
	}{
		{"44.1 kHz mono low rate", 44100, 1, 20000, 0},
		{"44.1 kHz mono mid rate", 44100, 1, 44100, 1},
		{"44.1 kHz mono high rate", 44100, 1, 64000, 2},
		{"44.1 kHz stereo scaled below 0.72", 44100, 2, 32000, 0},
		{"44.1 kHz stereo scaled to mid", 44100, 2, 48000, 1},
		{"44.1 kHz stereo scaled above 1.16", 44100, 2, 96000, 2},
		{"32 kHz at 0.72 bits per sample", 32000, 1, 23040, 1},
		{"32 kHz just below 0.72", 32000, 1, 23000, 0},
		{"32 kHz at 1.16 bits per sample", 32000, 1, 37120, 2},
		{"22.05 kHz low rate", 22050, 1, 8000, 2},
		{"8 kHz", 8000, 1, 16000, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConfig(StreamParams{
				Version:    Version2,
				SampleRate: tt.rate,
				Channels:   tt.channels,
				BitRate:    tt.bitRate,
				ExtraData:  extraData(Version2, FlagExpHuffman),
			})
			if err != nil {
				t.Fatalf("NewConfig() error = %v", err)
			}
			if c.CoefTableSet != tt.want {
				t.Errorf("CoefTableSet = %d, want %d", c.CoefTableSet, tt.want)
			}
		})
	}
}

func TestNewDecoder_CoefTablePair(t *testing.T) {
	// Bit rates selecting each pair at 44.1 kHz mono.
	rates := [huffman.CoefTableSets]uint32{20000, 44100, 64000}
	for set := 0; set < huffman.CoefTableSets; set++ {
		d := newTestDecoder(t, StreamParams{
			Version:    Version2,
			SampleRate: 44100,
			Channels:   1,
			BitRate:    rates[set],
			ExtraData:  extraData(Version2, FlagExpHuffman),
		})
		for i, ct := range d.coefTabs {
			if want := huffman.CoefLevels[2*set+i]; len(ct.Run) != huffman.CoefFirstPair+sumLevels(want) {
				t.Errorf("set %d table %d: %d symbols, want levels %v", set, i, len(ct.Run), want)
			}
			if ct.Huff != d.huff.Coef[2*set+i] {
				t.Errorf("set %d table %d: wrong Huffman table", set, i)
			}
		}
	}
}

func sumLevels(levels []uint16) int {
	n := 0
	for _, v := range levels {
		n += int(v)
	}
	return n
}

func TestNewConfig_Errors(t *testing.T) {
	valid := lowRateParams(1, FlagExpHuffman)
	tests := []struct {
		name   string
		modify func(p *StreamParams)
	}{
		{"version 3", func(p *StreamParams) { p.Version = 3 }},
		{"zero sample rate", func(p *StreamParams) { p.SampleRate = 0 }},
		{"sample rate above 50 kHz", func(p *StreamParams) { p.SampleRate = 96000 }},
		{"no channels", func(p *StreamParams) { p.Channels = 0 }},
		{"three channels", func(p *StreamParams) { p.Channels = 3 }},
		{"zero bit rate", func(p *StreamParams) { p.BitRate = 0 }},
		{"negative block align", func(p *StreamParams) { p.BlockAlign = -1 }},
		{"short extra data", func(p *StreamParams) { p.ExtraData = []byte{0, 0, 0, 0} }},
		{"byte offset too wide", func(p *StreamParams) { p.BitRate = 2000000000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.modify(&p)
			if _, err := NewConfig(p); !errors.Is(err, ErrConfiguration) {
				t.Errorf("NewConfig() error = %v, want %v", err, ErrConfiguration)
			}
			if _, err := NewDecoder(p); !errors.Is(err, ErrConfiguration) {
				t.Errorf("NewDecoder() error = %v, want %v", err, ErrConfiguration)
			}
		})
	}
}

func TestParseExtraData(t *testing.T) {
	tests := []struct {
		name    string
		version int
		extra   []byte
		want    uint16
	}{
		{"empty", Version2, nil, 0},
		{"version 1", Version1, []byte{9, 9, 0x05, 0x00}, 0x0005},
		{"version 2", Version2, []byte{9, 9, 9, 9, 0x0f, 0x01}, 0x010f},
		{"version 2 longer blob", Version2, []byte{0, 0, 0, 0, 0x03, 0x00, 0xff, 0xff}, 0x0003},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseExtraData(tt.version, tt.extra)
			if err != nil {
				t.Fatalf("parseExtraData() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseExtraData() = %#x, want %#x", got, tt.want)
			}
		})
	}
}
