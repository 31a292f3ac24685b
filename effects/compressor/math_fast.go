//go:build fastmath

package compressor

import "github.com/meko-christian/algo-approx"

// envMultiplier computes the per-sample multiplicative step ratio^(1/count)
// using fast approximation. Uses the identity x^y = e^(y*ln(x)).
func envMultiplier(ratio, count float64) float64 {
	return approx.FastExp(approx.FastLog(ratio) / count)
}
