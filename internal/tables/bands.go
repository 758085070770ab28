package tables

// CriticalFreqs are the upper edges in Hz of the critical bands used to lay
// out exponent bands when no hard-coded layout applies.
var CriticalFreqs = [25]uint32{
	100, 200, 300, 400, 510, 630, 770, 920,
	1080, 1270, 1480, 1720, 2000, 2320, 2700, 3150,
	3700, 4400, 5300, 6400, 7700, 9500, 12000, 15500,
	24500,
}

// Hard-coded version 2 exponent band widths, indexed by block size class:
// 0 for 128-sample blocks, 1 for 256, 2 for 512. Each row sums to its
// block length.
var (
	ExponentBands22050 = [3][]uint16{
		{4, 8, 4, 8, 8, 12, 20, 24, 24, 16},
		{4, 8, 8, 4, 12, 12, 16, 24, 16, 20, 24, 32, 40, 36},
		{4, 4, 4, 8, 4, 4, 8, 8, 8, 8, 8, 12, 12, 16, 16, 24, 24, 32, 44, 48, 60, 84, 72},
	}

	ExponentBands32000 = [3][]uint16{
		{4, 4, 8, 4, 4, 12, 16, 24, 20, 28, 4},
		{4, 8, 4, 4, 8, 8, 16, 20, 12, 20, 20, 28, 40, 56, 8},
		{8, 4, 8, 8, 12, 16, 20, 24, 40, 32, 32, 44, 56, 80, 112, 16},
	}

	ExponentBands44100 = [3][]uint16{
		{4, 4, 4, 4, 4, 8, 8, 8, 12, 16, 20, 36},
		{4, 8, 4, 8, 8, 4, 8, 8, 12, 12, 12, 24, 28, 40, 76},
		{4, 8, 8, 4, 12, 12, 8, 8, 24, 16, 20, 24, 32, 40, 60, 80, 152},
	}
)

// HardcodedExponentBands returns the hard-coded band widths for a sample
// rate and size class, or nil when the layout must be derived from
// CriticalFreqs.
func HardcodedExponentBands(rate uint32, class int) []uint16 {
	if class < 0 || class > 2 {
		return nil
	}
	switch {
	case rate >= 44100:
		return ExponentBands44100[class]
	case rate >= 32000:
		return ExponentBands32000[class]
	case rate >= 22050:
		return ExponentBands22050[class]
	default:
		return nil
	}
}
