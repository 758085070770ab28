package wma

import (
	"errors"
	"fmt"

	"github.com/llehouerou/go-wma/internal/bits"
	"github.com/llehouerou/go-wma/internal/huffman"
)

// Error represents a WMA decoder error class.
type Error int

// Error classes.
const (
	ErrNone               Error = 0
	ErrConfiguration      Error = 1
	ErrTruncatedStream    Error = 2
	ErrMalformedBitstream Error = 3
	ErrInvalidHuffmanSpec Error = 4
)

var errMessages = [5]string{
	"No error",
	"Unsupported stream configuration",
	"Bitstream truncated",
	"Malformed bitstream",
	"Invalid huffman table specification",
}

// Error implements the error interface.
func (e Error) Error() string {
	return GetErrorMessage(e)
}

// GetErrorMessage returns the message for an error class.
func GetErrorMessage(code Error) string {
	if code >= 0 && int(code) < len(errMessages) {
		return errMessages[code]
	}
	return "unknown error"
}

// Lifecycle errors.
var (
	// ErrFinished is returned when a packet is pushed after Finish or after
	// a decode failure ended the stream.
	ErrFinished = errors.New("wma: stream finished")

	// ErrNilDecoder is returned when a method is called on a nil *Decoder.
	ErrNilDecoder = errors.New("wma: nil decoder")
)

// Superframe and block framing errors. All are malformed bitstreams.
var (
	errFrameCount        = errors.New("wma: invalid superframe frame count")
	errBitOffset         = errors.New("wma: invalid last frame bit offset")
	errReservoirOverflow = errors.New("wma: bit reservoir overflow")
	errBlockLength       = errors.New("wma: block length index out of range")
	errBlockOverrun      = errors.New("wma: block runs past end of frame")
	errNoExponents       = errors.New("wma: coded channel without exponents")
)

// Stage identifies the decoding step that failed.
type Stage int

// Decoding stages.
const (
	StageSuperframeHeader Stage = iota
	StageReservoir
	StageBlockLength
	StageBlockHeader
	StageNoise
	StageExponents
	StageCoefficients
)

var stageNames = [...]string{
	"superframe header",
	"bit reservoir",
	"block length",
	"block header",
	"noise",
	"exponents",
	"coefficients",
}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// DecodeError describes a failure while decoding a packet.
//
// errors.Is matches both the error class (ErrTruncatedStream,
// ErrMalformedBitstream, ...) and the underlying cause.
type DecodeError struct {
	Frame int   // Index of the frame being decoded
	Stage Stage // Step that failed
	Kind  Error // Error class
	Err   error // Underlying cause
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("wma: frame %d: %s: %s: %v", e.Frame, e.Stage, e.Kind, e.Err)
}

// Unwrap returns the error class and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// classify maps an internal error to its error class.
func classify(err error) Error {
	switch {
	case errors.Is(err, bits.ErrTruncated):
		return ErrTruncatedStream
	case errors.Is(err, huffman.ErrInvalidSpec):
		return ErrInvalidHuffmanSpec
	default:
		return ErrMalformedBitstream
	}
}
