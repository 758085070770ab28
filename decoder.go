package wma

import (
	"fmt"

	"github.com/llehouerou/go-wma/internal/filterbank"
	"github.com/llehouerou/go-wma/internal/huffman"
	"github.com/llehouerou/go-wma/internal/output"
	"github.com/llehouerou/go-wma/internal/spectrum"
	"github.com/llehouerou/go-wma/internal/syntax"
)

// Decoder is a WMA version 1 and 2 decoder for a single stream.
//
// Packets are pushed in stream order with QueuePacket and the decoded PCM is
// pulled with ReadBuffer, or a packet is decoded directly with DecodeFrame.
// A Decoder must not be used from several goroutines at once; distinct
// decoders share only read-only tables.
type Decoder struct {
	config Config

	huff     *huffman.Set
	coefTabs [2]syntax.CoefTable
	fb       *filterbank.FilterBank
	lsp      *spectrum.LSP
	noise    *spectrum.Noise
	queue    *output.Queue

	state State
	frame int // Frames decoded so far

	// Block length state, as log2 lengths.
	resetBlockLengths bool
	blockLenBits      int
	prevBlockLenBits  int
	nextBlockLenBits  int
	blockPos          int

	channels [MaxChannels]channelState
	outputs  [][]float32 // frameOut of each channel, for PCM conversion
	msStereo bool

	// Bits of the frame that started in the previous packet.
	overhang      []byte
	lastBitOffset int
}

// channelState is the per-channel decoding state kept across blocks.
type channelState struct {
	coded bool

	// Envelope of the last block that carried one.
	exponents   []float32
	expBsize    int
	expValid    bool
	maxExponent float32

	highBandCoded  [spectrum.MaxHighBands]bool
	highBandValues [spectrum.MaxHighBands]int

	coefs1   []float32 // quantized coefficients
	coefs    []float32 // MDCT input
	frameOut []float32 // two frames of overlap-add output
}

// NewDecoder validates p and creates a decoder for the stream.
func NewDecoder(p StreamParams) (*Decoder, error) {
	cfg, err := NewConfig(p)
	if err != nil {
		return nil, err
	}
	set, err := huffman.Tables()
	if err != nil {
		return nil, fmt.Errorf("wma: %w: %w", ErrInvalidHuffmanSpec, err)
	}

	frameLen := cfg.FrameLen()
	d := &Decoder{
		config:   cfg,
		huff:     set,
		fb:       filterbank.NewFilterBank(cfg.FrameLenBits, cfg.BlockSizes),
		noise:    spectrum.NewNoise(cfg.NoiseMult),
		queue:    output.NewQueue(),
		overhang: make([]byte, 0, MaxSuperframeSize),
	}
	for i := range d.coefTabs {
		k := 2*cfg.CoefTableSet + i
		d.coefTabs[i] = syntax.NewCoefTable(set.Coef[k], huffman.CoefLevels[k])
	}
	if !cfg.ExpHuffman {
		d.lsp = spectrum.NewLSP(frameLen)
	}
	for ch := 0; ch < cfg.Channels; ch++ {
		c := &d.channels[ch]
		c.exponents = make([]float32, frameLen)
		c.coefs1 = make([]float32, frameLen)
		c.coefs = make([]float32, frameLen)
		c.frameOut = make([]float32, 2*frameLen)
		d.outputs = append(d.outputs, c.frameOut)
	}
	d.reset()
	return d, nil
}

// reset returns the decoding state to the start of a stream.
func (d *Decoder) reset() {
	d.state = StateAwaitingPacket
	d.frame = 0
	d.resetBlockLengths = true
	d.blockLenBits = d.config.FrameLenBits
	d.prevBlockLenBits = d.config.FrameLenBits
	d.nextBlockLenBits = d.config.FrameLenBits
	d.blockPos = 0
	d.msStereo = false
	d.overhang = d.overhang[:0]
	d.lastBitOffset = 0
	d.noise.Reset()
	for ch := 0; ch < d.config.Channels; ch++ {
		c := &d.channels[ch]
		c.expValid = false
		clear(c.frameOut)
	}
}

// Config returns the decoding configuration.
func (d *Decoder) Config() Config {
	if d == nil {
		return Config{}
	}
	return d.config
}

// State returns the position of the decoder in its packet cycle.
func (d *Decoder) State() State {
	if d == nil {
		return StateFinished
	}
	return d.state
}

// Channels returns the number of output channels.
func (d *Decoder) Channels() int {
	if d == nil {
		return 0
	}
	return d.config.Channels
}

// Rate returns the output sample rate in Hz.
func (d *Decoder) Rate() int {
	if d == nil {
		return 0
	}
	return int(d.config.SampleRate)
}

// FrameLength returns the number of samples per channel in a frame.
func (d *Decoder) FrameLength() int {
	if d == nil {
		return 0
	}
	return d.config.FrameLen()
}

// DecodeFrame decodes one packet and returns its interleaved PCM. The
// result may be empty when the packet completes no frame.
//
// A decode error finishes the stream; no PCM of the failed packet is
// returned.
func (d *Decoder) DecodeFrame(packet []byte) ([]int16, error) {
	if d == nil {
		return nil, ErrNilDecoder
	}
	if d.state == StateFinished {
		return nil, ErrFinished
	}
	pcm, err := d.decodePacket(packet)
	if err != nil {
		d.fail()
		return nil, err
	}
	d.state = StateAwaitingPacket
	return pcm, nil
}

// QueuePacket decodes a packet and queues its PCM for ReadBuffer.
func (d *Decoder) QueuePacket(packet []byte) error {
	if d == nil {
		return ErrNilDecoder
	}
	if d.state == StateFinished || d.queue.IsFinished() {
		return ErrFinished
	}
	pcm, err := d.decodePacket(packet)
	if err != nil {
		d.fail()
		return err
	}
	d.queue.Push(pcm)
	d.state = StateAwaitingPacket
	return nil
}

// fail ends the stream after a decode error. Samples queued by earlier
// packets stay readable.
func (d *Decoder) fail() {
	d.state = StateFinished
	d.overhang = d.overhang[:0]
	d.queue.Finish()
}

// ReadBuffer copies up to len(buf) queued samples into buf and returns the
// number copied.
func (d *Decoder) ReadBuffer(buf []int16) int {
	if d == nil {
		return 0
	}
	return d.queue.Read(buf)
}

// EndOfData reports whether no samples are queued.
func (d *Decoder) EndOfData() bool {
	if d == nil {
		return true
	}
	return d.queue.EndOfData()
}

// EndOfStream reports whether the stream is finished and every queued
// sample has been read.
func (d *Decoder) EndOfStream() bool {
	if d == nil {
		return true
	}
	return d.queue.EndOfStream()
}

// Finish signals that no more packets will be queued. Bits carried over
// for an incomplete frame are dropped.
func (d *Decoder) Finish() {
	if d == nil {
		return
	}
	d.state = StateFinished
	d.overhang = d.overhang[:0]
	d.queue.Finish()
}

// IsFinished reports whether Finish was called or decoding failed.
func (d *Decoder) IsFinished() bool {
	if d == nil {
		return true
	}
	return d.queue.IsFinished()
}

// Reset discards all stream state and queued samples so decoding can
// restart, for instance after a seek. The configuration is kept.
func (d *Decoder) Reset() {
	if d == nil {
		return
	}
	d.queue = output.NewQueue()
	d.reset()
}
