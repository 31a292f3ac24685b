// Package backend abstracts the OS-level audio sinks the render loop feeds.
// The effect framework itself only ever reads the device sample rate; this
// package exists so the engine can be driven by a real output, or by a
// clocked null sink when no audio hardware is wanted.
package backend

import (
	"errors"
	"fmt"

	"github.com/coronalabs/openal-soft/mixer"
)

// Type distinguishes playback from capture backends.
type Type int

const (
	Playback Type = iota
	Capture
)

// RenderFunc fills out with frames samples per channel. The slices are
// reused between calls; implementations must not retain them.
type RenderFunc func(out [][]float64, frames int)

// Factory reports support for a class of backend, enumerates its device
// names, and constructs backend instances bound to a device.
type Factory interface {
	// Init prepares the factory. Called once before any other method.
	Init() error

	// QuerySupport reports whether the factory can build backends of the
	// given type.
	QuerySupport(t Type) bool

	// Probe returns the device names available for the given type.
	Probe(t Type) []string

	// Create constructs a backend bound to the device descriptor.
	Create(device *mixer.Device, t Type) (Backend, error)
}

// Backend is one opened audio sink.
type Backend interface {
	// Open claims the named device. An empty name selects the default.
	Open(name string) error

	// Start begins pulling audio through render until Stop.
	Start(render RenderFunc) error

	// Stop halts rendering. Safe to call when not started.
	Stop()

	// Close releases the device. The backend cannot be reused afterwards.
	Close() error
}

var (
	// ErrUnsupported reports a backend type the factory cannot build.
	ErrUnsupported = errors.New("backend: unsupported backend type")

	// ErrBadDeviceName reports an Open with a name the backend does not
	// expose.
	ErrBadDeviceName = errors.New("backend: unknown device name")
)

func validateDevice(device *mixer.Device) error {
	if err := device.Validate(); err != nil {
		return fmt.Errorf("backend: %w", err)
	}

	return nil
}
