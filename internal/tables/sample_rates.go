package tables

// MaxSampleRate is the highest sample rate version 1 and 2 streams use.
const MaxSampleRate = 50000

// NormalizeSampleRate snaps a sample rate down to the rate class used to
// pick noise coding parameters. Rates below 8000 are returned unchanged.
func NormalizeSampleRate(rate uint32) uint32 {
	switch {
	case rate >= 44100:
		return 44100
	case rate >= 22050:
		return 22050
	case rate >= 16000:
		return 16000
	case rate >= 11025:
		return 11025
	case rate >= 8000:
		return 8000
	default:
		return rate
	}
}

// FrameLenBits returns log2 of the frame length for a sample rate.
func FrameLenBits(rate uint32, version int) int {
	switch {
	case rate <= 16000:
		return 9
	case rate <= 22050 || (rate <= 32000 && version == 1):
		return 10
	default:
		return 11
	}
}
