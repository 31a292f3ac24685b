package effects

// Param is a symbolic parameter identifier. Identifier values form a closed
// set per effect type; the same numeric value may name different parameters
// on different types.
type Param int

// Compressor parameters.
const (
	// ParamCompressorOnOff enables or disables gain compression.
	// Integer-valued; domain {0, 1}.
	ParamCompressorOnOff Param = 0x0001
)

// Ring modulator parameters.
const (
	// ParamModulatorFrequency is the carrier frequency in Hz.
	// Float-valued; domain [0, 8000].
	ParamModulatorFrequency Param = 0x0001

	// ParamModulatorHighPassCutoff is the pre-filter cutoff in Hz.
	// Float-valued; domain [0, 24000].
	ParamModulatorHighPassCutoff Param = 0x0002

	// ParamModulatorWaveform selects the carrier shape.
	// Categorical; domain {WaveformSinusoid, WaveformSawtooth, WaveformSquare}.
	ParamModulatorWaveform Param = 0x0003
)

// Waveform enumerates the modulator carrier shapes.
type Waveform int

const (
	WaveformSinusoid Waveform = iota
	WaveformSawtooth
	WaveformSquare
)

// CompressorProps holds the user-visible compressor parameters.
type CompressorProps struct {
	OnOff bool
}

// ModulatorProps holds the user-visible ring modulator parameters.
type ModulatorProps struct {
	Frequency      float64
	HighPassCutoff float64
	Waveform       Waveform
}

// Props is the tagged-union value type holding the parameters for exactly
// one effect type. It is immutable from the effect's point of view: states
// copy what they need during Update and never retain a pointer into it.
type Props struct {
	Compressor CompressorProps
	Modulator  ModulatorProps
}
