// Package wma provides a pure Go decoder for a transform audio codec laid
// out like Windows Media Audio version 1 and 2: the same superframe and
// block syntax, envelopes, noise substitution and MDCT synthesis.
//
// The decoder handles the codec layer only. The caller supplies the stream
// parameters and cuts the stream into packets of BlockAlign bytes.
//
// # Basic Usage
//
//	dec, err := wma.NewDecoder(wma.StreamParams{
//	    Version:    wma.Version2,
//	    SampleRate: 44100,
//	    Channels:   2,
//	    BitRate:    128000,
//	    BlockAlign: 5945,
//	    ExtraData:  extra, // codec private data from the container
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, pkt := range packets {
//	    if err := dec.QueuePacket(pkt); err != nil {
//	        log.Fatal(err)
//	    }
//	    for !dec.EndOfData() {
//	        n := dec.ReadBuffer(buf)
//	        // Use buf[:n], interleaved 16-bit PCM...
//	    }
//	}
//	dec.Finish()
//
// DecodeFrame is the direct alternative to QueuePacket and ReadBuffer: it
// decodes one packet and returns its PCM.
//
// # Supported Features
//
// Huffman and LSP coded envelopes, noise substitution of high bands,
// mid/side stereo, variable block lengths and the bit reservoir, where
// frames span packets.
//
// # Code Tables
//
// The exponent, noise gain and coefficient Huffman codes and the LSP
// codebook are this package's own (internal/huffman, internal/tables).
// They follow the shape of the WMA tables (symbol biases, run/level
// layout, three coefficient table pairs chosen by bit rate) but not their
// bit patterns, so streams produced by a Windows Media encoder do not
// decode. Streams written with the same tables do.
//
// # Errors
//
// Every decode failure is a *DecodeError naming the frame and the step
// that failed. errors.Is matches its class: ErrTruncatedStream,
// ErrMalformedBitstream or ErrInvalidHuffmanSpec. Invalid stream parameters
// match ErrConfiguration. A decode failure finishes the stream; samples
// queued before it stay readable.
//
// # Thread Safety
//
// Decoder instances are NOT safe for concurrent use. Each goroutine should
// have its own Decoder. Decoders share only read-only tables.
//
// # Reference
//
// Ported from FFmpeg: libavcodec/wmadec.c and libavcodec/wma.c
package wma
