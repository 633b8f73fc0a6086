package spod

import (
	"fmt"

	"gonum.org/v1/gonum/mathext"
)

// ConfidenceMultipliers returns the chi-squared-derived multipliers that
// bound spectral eigenvalue estimates over nBlocks realizations at the
// given confidence level: 2*P^-1(nBlocks, 1-level) and
// 2*P^-1(nBlocks, level), with P^-1 the inverse regularized lower
// incomplete gamma function. Consumers divide 2*nBlocks by these to form
// the upper and lower bounds.
func ConfidenceMultipliers(nBlocks int, level float64) (upper, lower float64, err error) {
	if nBlocks < 2 {
		return 0, 0, fmt.Errorf("confidence multipliers need at least 2 blocks, got %d", nBlocks)
	}
	if level <= 0 || level >= 1 {
		return 0, 0, fmt.Errorf("confidence level must lie in (0, 1), got %g", level)
	}

	upper = 2 * mathext.GammaIncRegInv(float64(nBlocks), 1-level)
	lower = 2 * mathext.GammaIncRegInv(float64(nBlocks), level)
	return upper, lower, nil
}
