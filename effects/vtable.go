package effects

import "errors"

// Parameter-protocol error taxonomy. Set and get operations report these
// synchronously to the caller; none of them ever crosses the render
// boundary, and a failed set leaves the props unmodified.
var (
	// ErrInvalidValue reports a set whose numeric argument falls outside
	// the parameter's declared domain.
	ErrInvalidValue = errors.New("effects: parameter value out of range")

	// ErrInvalidEnum reports an unrecognized parameter identifier, or a
	// value shape the parameter cannot accept.
	ErrInvalidEnum = errors.New("effects: invalid parameter")

	// ErrDeviceUpdate reports that DeviceUpdate could not compute required
	// per-device constants. Fatal for the effect instance: the owning slot
	// must disable the effect.
	ErrDeviceUpdate = errors.New("effects: device update failed")
)

// Vtable is the fixed 8-entry parameter dispatch table of one effect type:
// set/get crossed with {int, int vector, float, float vector}. Tables are
// stateless package-level constants, built once and safe to share across
// goroutines.
//
// Vector entries of arity 1 delegate to their scalar counterparts. A set in
// the "wrong" numeric shape coerces by numeric conversion where the target
// parameter is numeric; categorical parameters validate their enumerated
// domain regardless of the incoming shape.
type Vtable struct {
	SetParami  func(props *Props, param Param, val int) error
	SetParamiv func(props *Props, param Param, vals []int) error
	SetParamf  func(props *Props, param Param, val float64) error
	SetParamfv func(props *Props, param Param, vals []float64) error

	GetParami  func(props *Props, param Param, val *int) error
	GetParamiv func(props *Props, param Param, vals []int) error
	GetParamf  func(props *Props, param Param, val *float64) error
	GetParamfv func(props *Props, param Param, vals []float64) error
}
