// Package compressor implements automatic dynamic-range compression driven
// by an asymmetric envelope follower. The follower tracks the first input
// channel's amplitude within fixed envelope bounds and the reciprocal of the
// envelope normalizes the signal toward unit amplitude: peaks are compressed
// and quiet passages boosted up to the envelope floor.
package compressor

import (
	"fmt"
	"math"
	"sync"

	"github.com/coronalabs/openal-soft/core"
	"github.com/coronalabs/openal-soft/effects"
	"github.com/coronalabs/openal-soft/mixer"
)

const (
	// Envelope amplitude bounds.
	ampEnvelopeMin = 0.5
	ampEnvelopeMax = 2.0

	// attackTime is the time for the envelope to rise from the minimum to
	// the maximum bound, in seconds.
	attackTime = 0.1

	// releaseTime is the time for the envelope to drop from the maximum to
	// the minimum bound, in seconds.
	releaseTime = 0.2

	// maxUpdateSamples bounds the per-sub-block scratch gain buffer.
	maxUpdateSamples = 256
)

// State is the per-slot compressor instance.
type State struct {
	// Pan gain for each (ambisonic in, output) channel pair.
	gains [mixer.MaxAmbiChannels][mixer.MaxOutputChannels]float64

	enabled     bool
	attackMult  float64
	releaseMult float64
	envFollower float64
}

// NewState returns a compressor state that has seen no DeviceUpdate yet.
func NewState() *State {
	return &State{
		enabled:     true,
		attackMult:  1,
		releaseMult: 1,
		envFollower: 1,
	}
}

// DeviceUpdate recomputes the per-sample attack and release multipliers for
// the device sample rate. Repeated application of a multiplier over the
// attack/release duration traverses the envelope bounds exactly. The
// envelope itself is left untouched so a device change stays glitch-free.
func (s *State) DeviceUpdate(device *mixer.Device) error {
	if err := device.Validate(); err != nil {
		return fmt.Errorf("%w: %w", effects.ErrDeviceUpdate, err)
	}

	// Number of samples for a full attack and release. Non-integer counts
	// are fine.
	attackCount := device.SampleRate * attackTime
	releaseCount := device.SampleRate * releaseTime

	s.attackMult = envMultiplier(ampEnvelopeMax/ampEnvelopeMin, attackCount)
	s.releaseMult = envMultiplier(ampEnvelopeMin/ampEnvelopeMax, releaseCount)

	return nil
}

// Update copies the on/off flag and recomputes the pan gain of every wet
// ambisonic channel into the target layout, scaled by the slot gain.
func (s *State) Update(_ *effects.Context, slot *mixer.Slot, props *effects.Props, target mixer.Target) {
	s.enabled = props.Compressor.OnOff

	wet := slot.WetChannels
	if wet > mixer.MaxAmbiChannels {
		wet = mixer.MaxAmbiChannels
	}

	for i := 0; i < wet; i++ {
		coeffs := mixer.AmbiIdentityRow(i)
		mixer.ComputePanGains(target, coeffs[:], slot.Gain, s.gains[i][:])
	}
}

// Process runs the envelope follower over the first input channel and
// accumulates every input channel into the output through the cached pan
// gains, in sub-blocks of up to 256 samples.
func (s *State) Process(samplesToDo int, samplesIn [][]float64, numInput int, samplesOut [][]float64, numOutput int) {
	for base := 0; base < samplesToDo; {
		var gains [maxUpdateSamples]float64

		td := samplesToDo - base
		if td > maxUpdateSamples {
			td = maxUpdateSamples
		}

		env := s.envFollower

		if s.enabled {
			in := samplesIn[0]
			for i := 0; i < td; i++ {
				// Clamp the absolute amplitude to the envelope limits,
				// then attack or release the envelope to reach it.
				amplitude := core.Clamp(math.Abs(in[base+i]), ampEnvelopeMin, ampEnvelopeMax)
				if amplitude > env {
					env = math.Min(env*s.attackMult, amplitude)
				} else if amplitude < env {
					env = math.Max(env*s.releaseMult, amplitude)
				}

				// The reciprocal of the envelope normalizes the volume.
				gains[i] = 1 / env
			}
		} else {
			// Same follower with the amplitude forced to 1, so the
			// envelope settles near unity and re-enabling is glitch-free.
			const amplitude = 1.0
			for i := 0; i < td; i++ {
				if amplitude > env {
					env = math.Min(env*s.attackMult, amplitude)
				} else if amplitude < env {
					env = math.Max(env*s.releaseMult, amplitude)
				}

				gains[i] = 1 / env
			}
		}

		s.envFollower = env

		for j := 0; j < numInput; j++ {
			in := samplesIn[j]
			for k := 0; k < numOutput; k++ {
				gain := s.gains[j][k]
				if !(math.Abs(gain) > mixer.GainSilenceThreshold) {
					continue
				}

				out := samplesOut[k]
				for i := 0; i < td; i++ {
					out[base+i] += in[base+i] * gains[i] * gain
				}
			}
		}

		base += td
	}
}

// Envelope returns the current envelope follower value. Test hook; the
// render path never calls it.
func (s *State) Envelope() float64 { return s.envFollower }

// Multipliers returns the cached per-sample attack and release multipliers.
func (s *State) Multipliers() (attack, release float64) {
	return s.attackMult, s.releaseMult
}

func setParami(props *effects.Props, param effects.Param, val int) error {
	switch param {
	case effects.ParamCompressorOnOff:
		if val < 0 || val > 1 {
			return fmt.Errorf("%w: compressor state %d not in {0, 1}", effects.ErrInvalidValue, val)
		}

		props.Compressor.OnOff = val == 1

		return nil
	default:
		return fmt.Errorf("%w: invalid compressor integer property 0x%04x", effects.ErrInvalidEnum, int(param))
	}
}

func setParamiv(props *effects.Props, param effects.Param, vals []int) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: empty compressor integer vector", effects.ErrInvalidValue)
	}

	return setParami(props, param, vals[0])
}

func setParamf(_ *effects.Props, param effects.Param, _ float64) error {
	return fmt.Errorf("%w: invalid compressor float property 0x%04x", effects.ErrInvalidEnum, int(param))
}

func setParamfv(_ *effects.Props, param effects.Param, _ []float64) error {
	return fmt.Errorf("%w: invalid compressor float-vector property 0x%04x", effects.ErrInvalidEnum, int(param))
}

func getParami(props *effects.Props, param effects.Param, val *int) error {
	switch param {
	case effects.ParamCompressorOnOff:
		if props.Compressor.OnOff {
			*val = 1
		} else {
			*val = 0
		}

		return nil
	default:
		return fmt.Errorf("%w: invalid compressor integer property 0x%04x", effects.ErrInvalidEnum, int(param))
	}
}

func getParamiv(props *effects.Props, param effects.Param, vals []int) error {
	if len(vals) == 0 {
		return fmt.Errorf("%w: empty compressor integer vector", effects.ErrInvalidValue)
	}

	return getParami(props, param, &vals[0])
}

func getParamf(_ *effects.Props, param effects.Param, _ *float64) error {
	return fmt.Errorf("%w: invalid compressor float property 0x%04x", effects.ErrInvalidEnum, int(param))
}

func getParamfv(_ *effects.Props, param effects.Param, _ []float64) error {
	return fmt.Errorf("%w: invalid compressor float-vector property 0x%04x", effects.ErrInvalidEnum, int(param))
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
	return effects.Props{Compressor: effects.CompressorProps{OnOff: true}}
}

func (stateFactory) Vtable() *effects.Vtable { return vtable }

var factoryOnce = sync.OnceValue(func() effects.StateFactory { return stateFactory{} })

// Factory returns the process-wide compressor state factory, constructed on
// first use and alive for the process lifetime.
func Factory() effects.StateFactory { return factoryOnce() }
