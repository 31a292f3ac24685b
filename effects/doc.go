// Package effects defines the effect-processing framework contract: the
// per-effect state machine every DSP effect implements, the typed parameter
// protocol a control surface drives it through, and the factory/registry
// surface the mixing graph looks effects up by.
//
// Concrete effects live in subpackages:
//   - github.com/coronalabs/openal-soft/effects/compressor
//   - github.com/coronalabs/openal-soft/effects/modulator
//
// Lifecycle: a freshly created State must receive DeviceUpdate before
// anything else, Update at least once after that, and only then Process.
// DeviceUpdate may recur at any time (device change) and invalidates every
// sample-rate-derived constant until the next Update. Update and Process for
// one instance must never run concurrently; the engine package provides a
// slot runtime that serializes them at block boundaries.
package effects
