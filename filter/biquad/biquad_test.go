package biquad

import (
	"math"
	"testing"
)

func highpass(f0norm float64) *Filter {
	f := &Filter{}
	f.SetParams(HighPass, f0norm, RcpQFromBandwidth(f0norm, 0.75))

	return f
}

// TestHighPassBlocksDC verifies a high-pass section drives a constant input
// toward zero.
func TestHighPassBlocksDC(t *testing.T) {
	f := highpass(0.05)

	var y float64
	for i := 0; i < 8192; i++ {
		y = f.ProcessSample(1)
	}

	if math.Abs(y) > 1e-6 {
		t.Errorf("DC output after settling = %v, want ~0", y)
	}
}

// TestHighPassPassband verifies a tone well above the cutoff passes with
// near-unity magnitude.
func TestHighPassPassband(t *testing.T) {
	const (
		n      = 8192
		fNorm  = 0.25   // tone at fs/4
		cutoff = 1.0 / 512
	)

	f := highpass(cutoff)

	var peak float64
	for i := 0; i < n; i++ {
		y := f.ProcessSample(math.Sin(2 * math.Pi * fNorm * float64(i)))
		if i > n/2 && math.Abs(y) > peak {
			peak = math.Abs(y)
		}
	}

	if peak < 0.95 || peak > 1.05 {
		t.Errorf("passband peak = %v, want ~1", peak)
	}
}

func TestLowPassBlocksHighFrequency(t *testing.T) {
	f := &Filter{}
	f.SetParams(LowPass, 0.01, RcpQFromBandwidth(0.01, 0.75))

	var peak float64
	for i := 0; i < 8192; i++ {
		// Nyquist-rate alternation.
		x := 1.0
		if i%2 == 1 {
			x = -1.0
		}

		y := f.ProcessSample(x)
		if i > 4096 && math.Abs(y) > peak {
			peak = math.Abs(y)
		}
	}

	if peak > 0.05 {
		t.Errorf("stopband peak = %v, want ~0", peak)
	}
}

func TestRcpQFromBandwidth(t *testing.T) {
	// Closed form: 2*sinh(ln2/2 * bw * w0/sin(w0)).
	f0norm := 0.1
	bw := 0.75
	w0 := 2 * math.Pi * f0norm
	want := 2 * math.Sinh(math.Ln2/2*bw*w0/math.Sin(w0))

	got := RcpQFromBandwidth(f0norm, bw)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("RcpQFromBandwidth = %v, want %v", got, want)
	}

	// Narrow bandwidth means higher Q, so smaller reciprocal.
	if RcpQFromBandwidth(0.1, 0.25) >= RcpQFromBandwidth(0.1, 1.0) {
		t.Error("rcpQ should grow with bandwidth")
	}
}

func TestCopyParamsFrom(t *testing.T) {
	src := highpass(0.1)
	src.ProcessSample(1) // dirty the delay line

	dst := &Filter{}
	dst.ProcessSample(0.5)
	before := dst.State()

	dst.CopyParamsFrom(src)

	if dst.Coefficients != src.Coefficients {
		t.Error("coefficients not copied")
	}

	if dst.State() != before {
		t.Error("CopyParamsFrom must not copy delay-line state")
	}
}

func TestClear(t *testing.T) {
	f := highpass(0.1)
	f.ProcessSample(1)
	f.ProcessSample(-1)

	f.Clear()

	if f.State() != ([2]float64{}) {
		t.Errorf("state after Clear = %v, want zeros", f.State())
	}
}

func TestProcessBlockToMatchesPerSample(t *testing.T) {
	a := highpass(0.03)
	b := highpass(0.03)

	src := make([]float64, 257)
	for i := range src {
		src[i] = math.Sin(0.37 * float64(i))
	}

	dst := make([]float64, len(src))
	a.ProcessBlockTo(dst, src)

	for i, x := range src {
		want := b.ProcessSample(x)
		if math.Abs(dst[i]-want) > 1e-12 {
			t.Fatalf("sample %d: block %v, per-sample %v", i, dst[i], want)
		}
	}
}

func BenchmarkProcessBlockTo128(b *testing.B) {
	f := highpass(0.02)
	src := make([]float64, 128)
	dst := make([]float64, 128)

	for i := range src {
		src[i] = math.Sin(0.1 * float64(i))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		f.ProcessBlockTo(dst, src)
	}
}
