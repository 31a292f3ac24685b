// Package engine glues the effect framework to a render loop: it wires the
// built-in effect factories into a registry and runs one effect per slot
// with a lock-free parameter handoff between the control path and the
// render thread.
package engine

import (
	"fmt"
	"sync/atomic"

	"github.com/coronalabs/openal-soft/effects"
	"github.com/coronalabs/openal-soft/effects/compressor"
	"github.com/coronalabs/openal-soft/effects/modulator"
	"github.com/coronalabs/openal-soft/mixer"
)

// DefaultRegistry returns a Registry pre-populated with every built-in
// effect factory.
func DefaultRegistry() *effects.Registry {
	r := effects.NewRegistry()
	r.MustRegister(effects.TypeCompressor, compressor.Factory())
	r.MustRegister(effects.TypeModulator, modulator.Factory())

	return r
}

// Slot owns one effect state and serializes parameter updates against
// processing: the control path publishes a props snapshot with SetProps and
// the render thread consumes it at the next block boundary, so Update and
// Process always run on the render thread and never concurrently.
type Slot struct {
	device mixer.Device
	slot   mixer.Slot
	target mixer.Target

	state effects.State
	props effects.Props

	// pending holds the latest snapshot published by the control path.
	// A newer snapshot simply replaces an unconsumed older one.
	pending atomic.Pointer[effects.Props]

	disabled bool
}

// NewSlot creates a slot running the factory's effect on the given device,
// configured with the factory's default props. The returned slot is fully
// configured: Process may be called immediately.
func NewSlot(factory effects.StateFactory, device *mixer.Device, wet mixer.Slot, target mixer.Target) (*Slot, error) {
	if factory == nil {
		return nil, fmt.Errorf("engine: nil effect factory")
	}

	state := factory.Create()
	if err := state.DeviceUpdate(device); err != nil {
		return nil, fmt.Errorf("engine: bind effect to device: %w", err)
	}

	s := &Slot{
		device: *device,
		slot:   wet,
		target: target,
		state:  state,
		props:  factory.DefaultProps(),
	}

	s.state.Update(&effects.Context{Device: &s.device}, &s.slot, &s.props, s.target)

	return s, nil
}

// SetProps publishes a new parameter snapshot from the control path. The
// render thread applies it before the next block. Safe to call from any
// goroutine; the snapshot is copied, never retained by reference.
func (s *Slot) SetProps(props effects.Props) {
	p := props
	s.pending.Store(&p)
}

// DeviceChanged rebinds the effect after a device change. Render thread
// only. On failure the slot disables itself: Process becomes a no-op until
// a later DeviceChanged succeeds.
func (s *Slot) DeviceChanged(device *mixer.Device) error {
	if err := s.state.DeviceUpdate(device); err != nil {
		s.disabled = true
		return err
	}

	s.device = *device
	s.disabled = false
	s.state.Update(&effects.Context{Device: &s.device}, &s.slot, &s.props, s.target)

	return nil
}

// Process applies any pending parameter snapshot and runs the effect over
// one block. Render thread only.
func (s *Slot) Process(samplesToDo int, samplesIn [][]float64, numInput int, samplesOut [][]float64, numOutput int) {
	if p := s.pending.Swap(nil); p != nil {
		s.props = *p
		s.state.Update(&effects.Context{Device: &s.device}, &s.slot, &s.props, s.target)
	}

	if s.disabled {
		return
	}

	s.state.Process(samplesToDo, samplesIn, numInput, samplesOut, numOutput)
}

// Disabled reports whether the slot shut itself down after a failed device
// update.
func (s *Slot) Disabled() bool { return s.disabled }
