package spectrum

// MSDecode converts a mid/side pair back to left/right in place:
// L = M + S, R = M - S.
func MSDecode(mid, side []float32) {
	side = side[:len(mid)]
	for i, m := range mid {
		s := side[i]
		mid[i] = m + s
		side[i] = m - s
	}
}
