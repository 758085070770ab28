// Package tables contains the static tables for WMA decoding.
//
// This includes sample rate classing, critical band edges, the
// hard-coded exponent band layouts, the LSP codebook and the exponent
// power table.
package tables
