// Package modulator implements ring/amplitude modulation: a synthesized
// carrier waveform multiplies the input after a per-channel high-pass
// pre-filter. Carrier phase lives in a 24-bit fixed-point accumulator so
// wraparound is exact modulo one full cycle.
package modulator

import (
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-vecmath"

	"github.com/coronalabs/openal-soft/core"
	"github.com/coronalabs/openal-soft/effects"
	"github.com/coronalabs/openal-soft/filter/biquad"
	"github.com/coronalabs/openal-soft/mixer"
)

const (
	// maxUpdateSamples bounds the per-sub-block carrier and filter scratch
	// buffers.
	maxUpdateSamples = 128

	waveformFracBits = 24
	waveformFracOne  = 1 << waveformFracBits
	waveformFracMask = waveformFracOne - 1

	// Parameter domains.
	MinFrequency = 0.0
	MaxFrequency = 8000.0
	MinCutoff    = 0.0
	MaxCutoff    = 24000.0

	// Bandwidth of the high-pass pre-filter, in octaves.
	filterBandwidth = 0.75
)

// Default parameter values.
const (
	DefaultFrequency = 440.0
	DefaultCutoff    = 800.0
	DefaultWaveform  = effects.WaveformSinusoid
)

func modulateSin(dst []float64, index, step int) {
	for i := range dst {
		index = (index + step) & waveformFracMask
		dst[i] = math.Sin(float64(index) * (2 * math.Pi / waveformFracOne))
	}
}

func modulateSaw(dst []float64, index, step int) {
	for i := range dst {
		index = (index + step) & waveformFracMask
		dst[i] = float64(index)*(2.0/waveformFracOne) - 1
	}
}

func modulateSquare(dst []float64, index, step int) {
	for i := range dst {
		index = (index + step) & waveformFracMask
		dst[i] = float64((index>>(waveformFracBits-2))&2) - 1
	}
}

// modulateOne is the bypass generator used when the phase step rounds to
// zero: the carrier degenerates to a constant 1 instead of a stuck
// oscillator.
func modulateOne(dst []float64, _, _ int) {
	for i := range dst {
		dst[i] = 1
	}
}

type channelState struct {
	filter biquad.Filter

	currentGains [mixer.MaxOutputChannels]float64
	targetGains  [mixer.MaxOutputChannels]float64
}

// State is the per-slot ring modulator instance.
type State struct {
	getSamples func(dst []float64, index, step int)

	index int
	step  int

	chans [mixer.MaxAmbiChannels]channelState
}

// NewState returns a modulator state that has seen no DeviceUpdate yet.
func NewState() *State {
	return &State{
		getSamples: modulateOne,
		step:       1,
	}
}

// DeviceUpdate clears every channel's filter state and zeroes the current
// pan gains; the next Update rebuilds all sample-rate-derived coefficients.
func (s *State) DeviceUpdate(device *mixer.Device) error {
	if err := device.Validate(); err != nil {
		return fmt.Errorf("%w: %w", effects.ErrDeviceUpdate, err)
	}

	for c := range s.chans {
		s.chans[c].filter.Clear()
		s.chans[c].currentGains = [mixer.MaxOutputChannels]float64{}
	}

	return nil
}

// Update derives the fixed-point phase step and carrier generator from the
// modulation frequency, designs the shared high-pass filter from the cutoff,
// and recomputes each wet channel's target pan gains.
func (s *State) Update(ctx *effects.Context, slot *mixer.Slot, props *effects.Props, target mixer.Target) {
	sampleRate := ctx.Device.SampleRate

	step := props.Modulator.Frequency / sampleRate
	s.step = int(core.Clamp(step*waveformFracOne, 0, waveformFracOne-1))

	switch {
	case s.step == 0:
		s.getSamples = modulateOne
	case props.Modulator.Waveform == effects.WaveformSinusoid:
		s.getSamples = modulateSin
	case props.Modulator.Waveform == effects.WaveformSawtooth:
		s.getSamples = modulateSaw
	default:
		s.getSamples = modulateSquare
	}

	wet := slot.WetChannels
	if wet > mixer.MaxAmbiChannels {
		wet = mixer.MaxAmbiChannels
	}

	// All channels share one filter shape; only the delay-line state is
	// independent. Channel 0 gets the design, the rest copy it.
	f0norm := core.Clamp(props.Modulator.HighPassCutoff/sampleRate, 1.0/512, 0.49)
	s.chans[0].filter.SetParams(biquad.HighPass, f0norm, biquad.RcpQFromBandwidth(f0norm, filterBandwidth))

	for i := 1; i < wet; i++ {
		s.chans[i].filter.CopyParamsFrom(&s.chans[0].filter)
	}

	for i := 0; i < wet; i++ {
		coeffs := mixer.AmbiIdentityRow(i)
		mixer.ComputePanGains(target, coeffs[:], slot.Gain, s.chans[i].targetGains[:])
	}
}

// Process generates the carrier per sub-block, high-pass filters each input
// channel, ring-modulates it against the carrier, and mixes the result into
// the output with per-channel gain ramps.
func (s *State) Process(samplesToDo int, samplesIn [][]float64, numInput int, samplesOut [][]float64, numOutput int) {
	step := s.step

	for base := 0; base < samplesToDo; {
		var carrier [maxUpdateSamples]float64

		td := samplesToDo - base
		if td > maxUpdateSamples {
			td = maxUpdateSamples
		}

		s.getSamples(carrier[:td], s.index, step)

		// The accumulator advances once per sub-block.
		s.index = (s.index + step*td) & waveformFracMask

		for c := 0; c < numInput; c++ {
			var temps [maxUpdateSamples]float64

			s.chans[c].filter.ProcessBlockTo(temps[:td], samplesIn[c][base:base+td])
			vecmath.MulBlockInPlace(temps[:td], carrier[:td])

			mixer.MixSamples(temps[:td], numOutput, samplesOut,
				s.chans[c].currentGains[:], s.chans[c].targetGains[:],
				samplesToDo-base, base)
		}

		base += td
	}
}

// Step returns the fixed-point phase step cached by the last Update. Test
// hook; the render path never calls it.
func (s *State) Step() int { return s.step }

func setParamf(props *effects.Props, param effects.Param, val float64) error {
	switch param {
	case effects.ParamModulatorFrequency:
		if !(val >= MinFrequency && val <= MaxFrequency) {
			return fmt.Errorf("%w: modulator frequency %g not in [%g, %g]",
				effects.ErrInvalidValue, val, MinFrequency, MaxFrequency)
		}

		props.Modulator.Frequency = val

		return nil

	case effects.ParamModulatorHighPassCutoff:
		if !(val >= MinCutoff && val <= MaxCutoff) {
			return fmt.Errorf("%w: modulator high-pass cutoff %g not in [%g, %g]",
				effects.ErrInvalidValue, val, MinCutoff, MaxCutoff)
		}

		props.Modulator.HighPassCutoff = val

		return nil

	default:
		return fmt.Errorf("%w: invalid modulator float property 0x%04x", effects.ErrInvalidEnum, int(param))
	}
}

func setParamfv(props *effects.Props, param effects.Param, vals []float64) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: empty modulator float vector", effects.ErrInvalidValue)
	}

	return setParamf(props, param, vals[0])
}

func setParami(props *effects.Props, param effects.Param, val int) error {
	switch param {
	case effects.ParamModulatorFrequency, effects.ParamModulatorHighPassCutoff:
		// Numeric cross-shape coercion.
		return setParamf(props, param, float64(val))

	case effects.ParamModulatorWaveform:
		w := effects.Waveform(val)
		if w < effects.WaveformSinusoid || w > effects.WaveformSquare {
			return fmt.Errorf("%w: invalid modulator waveform %d", effects.ErrInvalidValue, val)
		}

		props.Modulator.Waveform = w

		return nil

	default:
		return fmt.Errorf("%w: invalid modulator integer property 0x%04x", effects.ErrInvalidEnum, int(param))
	}
}

func setParamiv(props *effects.Props, param effects.Param, vals []int) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: empty modulator integer vector", effects.ErrInvalidValue)
	}

	return setParami(props, param, vals[0])
}

func getParami(props *effects.Props, param effects.Param, val *int) error {
	switch param {
	case effects.ParamModulatorFrequency:
		*val = int(props.Modulator.Frequency)
		return nil
	case effects.ParamModulatorHighPassCutoff:
		*val = int(props.Modulator.HighPassCutoff)
		return nil
	case effects.ParamModulatorWaveform:
		*val = int(props.Modulator.Waveform)
		return nil
	default:
		return fmt.Errorf("%w: invalid modulator integer property 0x%04x", effects.ErrInvalidEnum, int(param))
	}
}

func getParamiv(props *effects.Props, param effects.Param, vals []int) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: empty modulator integer vector", effects.ErrInvalidValue)
	}

	return getParami(props, param, &vals[0])
}

func getParamf(props *effects.Props, param effects.Param, val *float64) error {
	switch param {
	case effects.ParamModulatorFrequency:
		*val = props.Modulator.Frequency
		return nil
	case effects.ParamModulatorHighPassCutoff:
		*val = props.Modulator.HighPassCutoff
		return nil
	default:
		return fmt.Errorf("%w: invalid modulator float property 0x%04x", effects.ErrInvalidEnum, int(param))
	}
}

func getParamfv(props *effects.Props, param effects.Param, vals []float64) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: empty modulator float vector", effects.ErrInvalidValue)
	}

	return getParamf(props, param, &vals[0])
}

var vtable = &effects.Vtable{
	SetParami:  setParami,
	SetParamiv: setParamiv,
	SetParamf:  setParamf,
	SetParamfv: setParamfv,
	GetParami:  getParami,
	GetParamiv: getParamiv,
	GetParamf:  getParamf,
	GetParamfv: getParamfv,
}

type stateFactory struct{}

func (stateFactory) Create() effects.State { return NewState() }

func (stateFactory) DefaultProps() effects.Props {
	return effects.Props{Modulator: effects.ModulatorProps{
		Frequency:      DefaultFrequency,
		HighPassCutoff: DefaultCutoff,
		Waveform:       DefaultWaveform,
	}}
}

func (stateFactory) Vtable() *effects.Vtable { return vtable }

var factoryOnce = sync.OnceValue(func() effects.StateFactory { return stateFactory{} })

// Factory returns the process-wide modulator state factory, constructed on
// first use and alive for the process lifetime.
func Factory() effects.StateFactory { return factoryOnce() }
