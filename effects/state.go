package effects

import "github.com/coronalabs/openal-soft/mixer"

// Type identifies an effect algorithm in the registry.
type Type int

const (
	// TypeNull is the zero value; no factory registers it.
	TypeNull Type = iota

	// TypeCompressor is the automatic dynamic-range compressor.
	TypeCompressor

	// TypeModulator is the ring/amplitude modulator.
	TypeModulator
)

// String returns the registry name of the effect type.
func (t Type) String() string {
	switch t {
	case TypeCompressor:
		return "compressor"
	case TypeModulator:
		return "modulator"
	case TypeNull:
		return "null"
	default:
		return "unknown"
	}
}

// Context carries the environment an Update call needs beyond the slot and
// target; today that is only the render device.
type Context struct {
	Device *mixer.Device
}

// State is the lifecycle contract every effect implements. One instance
// serves one effect-slot assignment and is owned exclusively by that slot.
//
// DeviceUpdate recomputes every constant that depends on the device sample
// rate. A non-nil error is fatal for this instance on this device: the
// owning slot must disable the effect rather than call Process with stale
// constants.
//
// Update recomputes per-channel gain and filter coefficients from the latest
// parameter values, the slot's ambisonic layout, and the render target. It
// must not retain props or target beyond the call.
//
// Process consumes samplesToDo samples from each of the first numInput
// channels of samplesIn and accumulates (adds, never overwrites) into the
// first numOutput channels of samplesOut. It must not allocate, lock, or
// fail; all fallible work belongs in DeviceUpdate and Update. Callers
// guarantee Update and Process never run concurrently for one instance.
type State interface {
	DeviceUpdate(device *mixer.Device) error
	Update(ctx *Context, slot *mixer.Slot, props *Props, target mixer.Target)
	Process(samplesToDo int, samplesIn [][]float64, numInput int, samplesOut [][]float64, numOutput int)
}

// StateFactory manufactures states for one effect type. Implementations are
// process-wide singletons, immutable after construction and safe to read
// from any goroutine.
type StateFactory interface {
	// Create returns a freshly constructed State that has seen no
	// DeviceUpdate yet.
	Create() State

	// DefaultProps returns the canonical default parameter values for the
	// type, used when a slot first activates the effect.
	DefaultProps() Props

	// Vtable returns the type's parameter-protocol dispatch table.
	Vtable() *Vtable
}
