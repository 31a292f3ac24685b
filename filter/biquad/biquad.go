// Package biquad implements a single second-order IIR filter section in
// Direct Form II Transposed, with RBJ cookbook designs for the pass filters
// used by the effect framework.
package biquad

import "math"

// Type selects the filter response SetParams designs.
type Type int

const (
	// HighPass attenuates frequencies below the cutoff.
	HighPass Type = iota

	// LowPass attenuates frequencies above the cutoff.
	LowPass
)

// Coefficients holds the transfer function coefficients for a single
// second-order section. a0 is normalized to 1 and not stored.
//
// The sign convention follows Direct Form II Transposed:
//
//	y  = B0*x + d0
//	d0 = B1*x - A1*y + d1
//	d1 = B2*x - A2*y
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// Filter is a single biquad section with coefficients and delay-line state.
type Filter struct {
	Coefficients

	d0, d1 float64
}

// RcpQFromBandwidth converts a bandwidth in octaves at the normalized
// frequency f0norm (cutoff / sample rate) into a reciprocal quality factor.
func RcpQFromBandwidth(f0norm, bandwidth float64) float64 {
	w0 := 2 * math.Pi * f0norm
	return 2 * math.Sinh(math.Ln2/2*bandwidth*w0/math.Sin(w0))
}

// SetParams designs the section for the given response type, normalized
// frequency f0norm in (0, 0.5), and reciprocal quality factor. The delay
// line is left untouched so coefficients can change mid-stream.
func (f *Filter) SetParams(t Type, f0norm, rcpQ float64) {
	w0 := 2 * math.Pi * f0norm
	sinW0 := math.Sin(w0)
	cosW0 := math.Cos(w0)
	alpha := sinW0 / 2 * rcpQ

	var b [3]float64

	var a [3]float64

	switch t {
	case HighPass:
		b[0] = (1 + cosW0) / 2
		b[1] = -(1 + cosW0)
		b[2] = (1 + cosW0) / 2
		a[0] = 1 + alpha
		a[1] = -2 * cosW0
		a[2] = 1 - alpha

	case LowPass:
		b[0] = (1 - cosW0) / 2
		b[1] = 1 - cosW0
		b[2] = (1 - cosW0) / 2
		a[0] = 1 + alpha
		a[1] = -2 * cosW0
		a[2] = 1 - alpha
	}

	f.B0 = b[0] / a[0]
	f.B1 = b[1] / a[0]
	f.B2 = b[2] / a[0]
	f.A1 = a[1] / a[0]
	f.A2 = a[2] / a[0]
}

// CopyParamsFrom copies the coefficients of other, leaving the delay-line
// state of f untouched. All channels of a multichannel bank share one filter
// shape but keep independent state.
func (f *Filter) CopyParamsFrom(other *Filter) {
	f.Coefficients = other.Coefficients
}

// Clear zeroes the delay line.
func (f *Filter) Clear() {
	f.d0 = 0
	f.d1 = 0
}

// ProcessSample filters one input sample and returns the output.
func (f *Filter) ProcessSample(x float64) float64 {
	y := f.B0*x + f.d0
	f.d0 = f.B1*x - f.A1*y + f.d1
	f.d1 = f.B2*x - f.A2*y

	return y
}

// ProcessBlockTo filters src into dst. Both slices must have the same
// length. Zero-alloc.
func (f *Filter) ProcessBlockTo(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	_ = dst[len(src)-1] // bounds check hint

	b0, b1, b2 := f.B0, f.B1, f.B2
	a1, a2 := f.A1, f.A2
	d0, d1 := f.d0, f.d1

	for i, x := range src {
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		dst[i] = y
	}

	f.d0, f.d1 = d0, d1
}

// State returns the current delay-line state [d0, d1].
func (f *Filter) State() [2]float64 {
	return [2]float64{f.d0, f.d1}
}
