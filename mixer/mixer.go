// Package mixer holds the render-side value types and mixing primitives the
// effect framework is built on: the device and slot descriptors supplied by
// the mixing graph, ambisonic-to-output pan gain computation, and the
// gain-ramped accumulate used by every effect's process path.
package mixer

import (
	"fmt"
	"math"
)

const (
	// MaxAmbiChannels is the maximum number of ambisonic channels feeding
	// an effect (third-order ambisonics).
	MaxAmbiChannels = 16

	// MaxOutputChannels is the maximum number of device output channels.
	MaxOutputChannels = 16

	// BufferSize is the maximum block length a single process call may see.
	BufferSize = 1024

	// GainSilenceThreshold is the gain magnitude below which a channel
	// contribution is treated as silent and skipped.
	GainSilenceThreshold = 0.00001
)

// Device describes the render device an effect runs on. Effects read it only
// inside DeviceUpdate.
type Device struct {
	// SampleRate is the device sample rate in Hz.
	SampleRate float64

	// Channels is the device output channel count.
	Channels int
}

// Validate reports whether the device descriptor can drive an effect.
func (d *Device) Validate() error {
	if d == nil {
		return fmt.Errorf("mixer: nil device")
	}

	if d.SampleRate <= 0 || math.IsNaN(d.SampleRate) || math.IsInf(d.SampleRate, 0) {
		return fmt.Errorf("mixer: device sample rate must be positive and finite: %f", d.SampleRate)
	}

	if d.Channels < 1 || d.Channels > MaxOutputChannels {
		return fmt.Errorf("mixer: device channel count must be in [1, %d]: %d", MaxOutputChannels, d.Channels)
	}

	return nil
}

// Slot carries the effect-slot state an effect consumes during Update: the
// ambisonic channel count of the wet path and the slot output gain folded
// into the pan coefficients.
type Slot struct {
	// WetChannels is the number of ambisonic channels feeding the effect.
	WetChannels int

	// Gain is the slot-level output gain.
	Gain float64
}

// Target describes the destination mix bus for the duration of one Update
// call. The effect never owns the buffer.
type Target struct {
	// Buffer is the destination multichannel sample buffer, one slice per
	// output channel.
	Buffer [][]float64

	// Channels is the number of valid output channels in Buffer.
	Channels int
}
