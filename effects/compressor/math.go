//go:build !fastmath

package compressor

import "math"

// envMultiplier computes the per-sample multiplicative step ratio^(1/count)
// using standard library math.
func envMultiplier(ratio, count float64) float64 {
	return math.Pow(ratio, 1/count)
}
