// Package spectrum implements spectral reconstruction for WMA decoding.
//
// This includes the LSP envelope curve, the noise generator, the
// combination of exponents, gains, noise and quantized coefficients into
// MDCT input, and mid/side stereo.
package spectrum
