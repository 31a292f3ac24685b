package mixer

// AmbiIdentityRow returns row i of the identity decode matrix: the
// coefficient set that passes ambisonic channel i straight through.
func AmbiIdentityRow(i int) [MaxAmbiChannels]float64 {
	var coeffs [MaxAmbiChannels]float64
	if i >= 0 && i < MaxAmbiChannels {
		coeffs[i] = 1
	}

	return coeffs
}

// ComputePanGains projects one ambisonic channel's decode coefficients onto
// the target's output channels, scaled by inGain. gains must hold at least
// MaxOutputChannels entries; entries past the target channel count are
// zeroed.
func ComputePanGains(target Target, coeffs []float64, inGain float64, gains []float64) {
	n := target.Channels
	if n > len(gains) {
		n = len(gains)
	}

	for k := 0; k < n; k++ {
		if k < len(coeffs) {
			gains[k] = coeffs[k] * inGain
		} else {
			gains[k] = 0
		}
	}

	for k := n; k < len(gains); k++ {
		gains[k] = 0
	}
}
