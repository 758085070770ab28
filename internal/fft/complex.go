package fft

// Complex is a single precision complex number.
type Complex struct {
	Re float32
	Im float32
}

// Mul returns a*b.
func Mul(a, b Complex) Complex {
	return Complex{
		Re: a.Re*b.Re - a.Im*b.Im,
		Im: a.Re*b.Im + a.Im*b.Re,
	}
}
