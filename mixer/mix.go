package mixer

import "math"

// MixSamples accumulates data into the first numOutput channels of out,
// starting at sample offset outPos, while ramping each channel's gain
// linearly from currentGains toward targetGains.
//
// counter is the number of samples remaining in the whole block being
// processed, not just in data. Ramp progress is therefore continuous across
// consecutive sub-block calls within one process invocation: each call
// advances the same ramp and persists the reached gain back into
// currentGains. Once a ramp completes the current gain equals the target
// exactly.
func MixSamples(data []float64, numOutput int, out [][]float64, currentGains, targetGains []float64, counter, outPos int) {
	todo := len(data)

	for c := 0; c < numOutput; c++ {
		gain := currentGains[c]
		target := targetGains[c]
		pos := 0

		if counter > 0 && math.Abs(target-gain) > GainSilenceThreshold {
			step := (target - gain) / float64(counter)

			n := todo
			if counter < n {
				n = counter
			}

			dst := out[c][outPos:]
			for ; pos < n; pos++ {
				gain += step
				dst[pos] += data[pos] * gain
			}

			if counter <= todo {
				gain = target
			}

			currentGains[c] = gain
		} else if counter == 0 {
			gain = target
			currentGains[c] = gain
		}

		if !(math.Abs(gain) > GainSilenceThreshold) {
			continue
		}

		dst := out[c][outPos:]
		for ; pos < todo; pos++ {
			dst[pos] += data[pos] * gain
		}
	}
}
