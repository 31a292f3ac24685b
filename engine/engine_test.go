package engine

import (
	"errors"
	"testing"

	"github.com/coronalabs/openal-soft/effects"
	"github.com/coronalabs/openal-soft/mixer"
)

type callLog struct {
	deviceUpdates int
	updates       int
	processes     int
	failDevice    bool
	lastProps     effects.Props
}

type recordingState struct{ log *callLog }

func (r recordingState) DeviceUpdate(*mixer.Device) error {
	r.log.deviceUpdates++
	if r.log.failDevice {
		return effects.ErrDeviceUpdate
	}

	return nil
}

func (r recordingState) Update(_ *effects.Context, _ *mixer.Slot, props *effects.Props, _ mixer.Target) {
	r.log.updates++
	r.log.lastProps = *props
}

func (r recordingState) Process(int, [][]float64, int, [][]float64, int) {
	r.log.processes++
}

type recordingFactory struct{ log *callLog }

func (f recordingFactory) Create() effects.State       { return recordingState{log: f.log} }
func (f recordingFactory) DefaultProps() effects.Props { return effects.Props{} }
func (f recordingFactory) Vtable() *effects.Vtable     { return &effects.Vtable{} }

func testParts() (*mixer.Device, mixer.Slot, mixer.Target) {
	return &mixer.Device{SampleRate: 48000, Channels: 2},
		mixer.Slot{WetChannels: 1, Gain: 1},
		mixer.Target{Channels: 2}
}

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()

	for _, typ := range []effects.Type{effects.TypeCompressor, effects.TypeModulator} {
		factory := r.Lookup(typ)
		if factory == nil {
			t.Fatalf("Lookup(%s) = nil", typ)
		}

		state := factory.Create()
		if state == nil {
			t.Fatalf("%s factory created nil state", typ)
		}

		if factory.Vtable() == nil {
			t.Fatalf("%s factory has nil vtable", typ)
		}
	}

	if r.Lookup(effects.TypeNull) != nil {
		t.Error("Lookup(TypeNull) should be nil")
	}
}

func TestNewSlotConfiguresImmediately(t *testing.T) {
	log := &callLog{}
	device, wet, target := testParts()

	slot, err := NewSlot(recordingFactory{log: log}, device, wet, target)
	if err != nil {
		t.Fatalf("NewSlot() error = %v", err)
	}

	if log.deviceUpdates != 1 || log.updates != 1 {
		t.Fatalf("after NewSlot: deviceUpdates %d, updates %d; want 1, 1", log.deviceUpdates, log.updates)
	}

	slot.Process(64, nil, 0, nil, 0)

	if log.processes != 1 {
		t.Errorf("processes = %d, want 1", log.processes)
	}
}

func TestNewSlotPropagatesDeviceFailure(t *testing.T) {
	log := &callLog{failDevice: true}
	device, wet, target := testParts()

	_, err := NewSlot(recordingFactory{log: log}, device, wet, target)
	if !errors.Is(err, effects.ErrDeviceUpdate) {
		t.Fatalf("NewSlot() error = %v, want ErrDeviceUpdate", err)
	}
}

// A published snapshot is applied exactly once, at the next block boundary,
// before the block is processed.
func TestSetPropsAppliedAtBlockBoundary(t *testing.T) {
	log := &callLog{}
	device, wet, target := testParts()

	slot, err := NewSlot(recordingFactory{log: log}, device, wet, target)
	if err != nil {
		t.Fatalf("NewSlot() error = %v", err)
	}

	props := effects.Props{Compressor: effects.CompressorProps{OnOff: true}}
	slot.SetProps(props)

	if log.updates != 1 {
		t.Fatalf("SetProps must not call Update on the control path (updates = %d)", log.updates)
	}

	slot.Process(64, nil, 0, nil, 0)

	if log.updates != 2 {
		t.Fatalf("updates after first block = %d, want 2", log.updates)
	}

	if !log.lastProps.Compressor.OnOff {
		t.Error("pending props not visible to Update")
	}

	slot.Process(64, nil, 0, nil, 0)

	if log.updates != 2 {
		t.Errorf("updates after second block = %d, want still 2 (snapshot applied once)", log.updates)
	}
}

// A newer snapshot replaces an unconsumed older one; only the latest is
// applied.
func TestSetPropsCoalesces(t *testing.T) {
	log := &callLog{}
	device, wet, target := testParts()

	slot, err := NewSlot(recordingFactory{log: log}, device, wet, target)
	if err != nil {
		t.Fatalf("NewSlot() error = %v", err)
	}

	slot.SetProps(effects.Props{Modulator: effects.ModulatorProps{Frequency: 100}})
	slot.SetProps(effects.Props{Modulator: effects.ModulatorProps{Frequency: 200}})

	slot.Process(64, nil, 0, nil, 0)

	if log.updates != 2 {
		t.Fatalf("updates = %d, want 2 (coalesced)", log.updates)
	}

	if log.lastProps.Modulator.Frequency != 200 {
		t.Errorf("applied frequency = %v, want 200", log.lastProps.Modulator.Frequency)
	}
}

func TestDeviceChangedFailureDisablesSlot(t *testing.T) {
	log := &callLog{}
	device, wet, target := testParts()

	slot, err := NewSlot(recordingFactory{log: log}, device, wet, target)
	if err != nil {
		t.Fatalf("NewSlot() error = %v", err)
	}

	log.failDevice = true

	if err := slot.DeviceChanged(device); err == nil {
		t.Fatal("DeviceChanged() should fail")
	}

	if !slot.Disabled() {
		t.Fatal("slot should be disabled after device failure")
	}

	before := log.processes
	slot.Process(64, nil, 0, nil, 0)

	if log.processes != before {
		t.Error("disabled slot must not process")
	}

	// Recovery re-enables the slot.
	log.failDevice = false

	if err := slot.DeviceChanged(device); err != nil {
		t.Fatalf("DeviceChanged() recovery error = %v", err)
	}

	if slot.Disabled() {
		t.Error("slot should be enabled after successful device update")
	}
}
