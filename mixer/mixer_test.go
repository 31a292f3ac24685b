package mixer

import (
	"math"
	"testing"
)

func TestDeviceValidate(t *testing.T) {
	tests := []struct {
		name    string
		device  *Device
		wantErr bool
	}{
		{"valid stereo", &Device{SampleRate: 48000, Channels: 2}, false},
		{"valid max channels", &Device{SampleRate: 44100, Channels: MaxOutputChannels}, false},
		{"nil device", nil, true},
		{"zero rate", &Device{SampleRate: 0, Channels: 2}, true},
		{"negative rate", &Device{SampleRate: -1, Channels: 2}, true},
		{"NaN rate", &Device{SampleRate: math.NaN(), Channels: 2}, true},
		{"Inf rate", &Device{SampleRate: math.Inf(1), Channels: 2}, true},
		{"zero channels", &Device{SampleRate: 48000, Channels: 0}, true},
		{"too many channels", &Device{SampleRate: 48000, Channels: MaxOutputChannels + 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.device.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAmbiIdentityRow(t *testing.T) {
	for i := 0; i < MaxAmbiChannels; i++ {
		coeffs := AmbiIdentityRow(i)
		for k, c := range coeffs {
			want := 0.0
			if k == i {
				want = 1.0
			}

			if c != want {
				t.Errorf("AmbiIdentityRow(%d)[%d] = %v, want %v", i, k, c, want)
			}
		}
	}

	if coeffs := AmbiIdentityRow(-1); coeffs != ([MaxAmbiChannels]float64{}) {
		t.Error("AmbiIdentityRow(-1) should be all zero")
	}

	if coeffs := AmbiIdentityRow(MaxAmbiChannels); coeffs != ([MaxAmbiChannels]float64{}) {
		t.Errorf("AmbiIdentityRow(%d) should be all zero", MaxAmbiChannels)
	}
}

func TestComputePanGains(t *testing.T) {
	target := Target{Channels: 4}
	coeffs := AmbiIdentityRow(1)

	gains := make([]float64, MaxOutputChannels)
	for i := range gains {
		gains[i] = 99 // poison
	}

	ComputePanGains(target, coeffs[:], 0.5, gains)

	for k, g := range gains {
		want := 0.0
		if k == 1 {
			want = 0.5
		}

		if g != want {
			t.Errorf("gains[%d] = %v, want %v", k, g, want)
		}
	}
}

func TestComputePanGainsShortCoeffs(t *testing.T) {
	target := Target{Channels: 4}
	gains := make([]float64, MaxOutputChannels)

	ComputePanGains(target, []float64{1, 2}, 1, gains)

	want := []float64{1, 2, 0, 0}
	for k := 0; k < 4; k++ {
		if gains[k] != want[k] {
			t.Errorf("gains[%d] = %v, want %v", k, gains[k], want[k])
		}
	}
}

// TestMixSamplesRampExact verifies the ramp reaches the target exactly after
// counter samples and moves monotonically in between.
func TestMixSamplesRampExact(t *testing.T) {
	const n = 64

	data := make([]float64, n)
	for i := range data {
		data[i] = 1
	}

	out := [][]float64{make([]float64, n)}
	current := []float64{0.25}
	target := []float64{1.0}

	MixSamples(data, 1, out, current, target, n, 0)

	if current[0] != 1.0 {
		t.Fatalf("post-ramp current gain = %v, want exactly 1.0", current[0])
	}

	// With unit input, out holds the per-sample gain values. They must be
	// strictly increasing from g0 toward g1.
	prev := 0.25
	for i, v := range out[0] {
		if v <= prev-1e-12 || v > 1.0+1e-12 {
			t.Fatalf("sample %d: gain %v not monotonic in (0.25, 1.0]", i, v)
		}

		prev = v
	}
}

// TestMixSamplesSubBlockContinuity verifies two sub-block calls sharing one
// block-relative counter produce a single continuous ramp.
func TestMixSamplesSubBlockContinuity(t *testing.T) {
	const total = 128
	const half = total / 2

	data := make([]float64, half)
	for i := range data {
		data[i] = 1
	}

	whole := [][]float64{make([]float64, total)}
	current := []float64{0}
	target := []float64{1}

	MixSamples(data, 1, whole, current, target, total, 0)
	MixSamples(data, 1, whole, current, target, total-half, half)

	if current[0] != 1 {
		t.Fatalf("current gain after full ramp = %v, want 1", current[0])
	}

	step := 1.0 / total
	for i, v := range whole[0] {
		want := step * float64(i+1)
		if math.Abs(v-want) > 1e-9 {
			t.Fatalf("sample %d = %v, want %v (discontinuous ramp)", i, v, want)
		}
	}
}

func TestMixSamplesAccumulates(t *testing.T) {
	data := []float64{1, 1, 1, 1}
	out := [][]float64{{10, 10, 10, 10}}
	current := []float64{0.5}
	target := []float64{0.5}

	MixSamples(data, 1, out, current, target, 4, 0)

	for i, v := range out[0] {
		if v != 10.5 {
			t.Errorf("sample %d = %v, want 10.5 (accumulate, never overwrite)", i, v)
		}
	}
}

func TestMixSamplesSilentChannelSkipped(t *testing.T) {
	data := []float64{1, 1}
	out := [][]float64{{0, 0}}
	current := []float64{0}
	target := []float64{0}

	MixSamples(data, 1, out, current, target, 2, 0)

	for i, v := range out[0] {
		if v != 0 {
			t.Errorf("sample %d = %v, want 0 (silent gain must be skipped)", i, v)
		}
	}
}

func TestMixSamplesZeroCounterSnapsToTarget(t *testing.T) {
	data := []float64{1, 1}
	out := [][]float64{{0, 0}}
	current := []float64{0.2}
	target := []float64{0.8}

	MixSamples(data, 1, out, current, target, 0, 0)

	if current[0] != 0.8 {
		t.Fatalf("current gain = %v, want snap to 0.8", current[0])
	}

	for i, v := range out[0] {
		if v != 0.8 {
			t.Errorf("sample %d = %v, want 0.8", i, v)
		}
	}
}

func BenchmarkMixSamples(b *testing.B) {
	data := make([]float64, 128)
	for i := range data {
		data[i] = 0.5
	}

	out := make([][]float64, 2)
	for c := range out {
		out[c] = make([]float64, BufferSize)
	}

	current := []float64{0.4, 0.6}
	target := []float64{0.6, 0.4}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		MixSamples(data, 2, out, current, target, BufferSize, 0)
	}
}
