// Package wma provides a pure Go decoder for WMA-style transform audio.
// Ported from FFmpeg: libavcodec/wmadec.c
package wma

// Stream format versions.
const (
	Version1 = 1
	Version2 = 2
)

// Stream limits.
const (
	// MaxChannels is the largest supported channel count.
	MaxChannels = 2

	// MaxSuperframeSize bounds the bytes a superframe may carry over from
	// one packet to the next.
	MaxSuperframeSize = 16384
)

// StreamParams describes a stream as reported by its container.
type StreamParams struct {
	Version    int    // Version1 or Version2
	SampleRate uint32 // Hz
	Channels   int    // 1 or 2
	BitRate    uint32 // Nominal bits per second
	BlockAlign int    // Packet size in bytes; 0 means one packet per call
	ExtraData  []byte // Codec private data from the container
}

// State is the position of the decoder in its packet cycle.
type State uint8

// Decoder states.
const (
	StateAwaitingPacket State = iota
	StateReadingSuperframeHeader
	StateDecodingBlock
	StateEmittingFrame
	StateFinished
)

var stateNames = [...]string{
	"awaiting packet",
	"reading superframe header",
	"decoding block",
	"emitting frame",
	"finished",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Codec decodes one packet at a time and returns its PCM directly.
type Codec interface {
	// DecodeFrame decodes a packet into interleaved 16-bit PCM.
	DecodeFrame(packet []byte) ([]int16, error)
}

// PacketizedStream accepts packets and queues their PCM for reading.
type PacketizedStream interface {
	// QueuePacket decodes a packet and queues its samples.
	QueuePacket(packet []byte) error

	// ReadBuffer copies up to len(buf) interleaved samples into buf and
	// returns the number copied.
	ReadBuffer(buf []int16) int

	// EndOfData reports whether no samples are currently queued.
	EndOfData() bool

	// EndOfStream reports whether the stream is finished and drained.
	EndOfStream() bool

	// Finish signals that no more packets will be queued.
	Finish()

	// IsFinished reports whether Finish was called or decoding failed.
	IsFinished() bool

	Channels() int
	Rate() int
}

var (
	_ Codec            = (*Decoder)(nil)
	_ PacketizedStream = (*Decoder)(nil)
)
