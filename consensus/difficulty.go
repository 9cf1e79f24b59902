package consensus

import "math/big"

// NextTarget retargets difficulty over a window of timestamps ordered
// oldest to newest (DifficultyWindow+1 = 61 entries in normal operation).
// Intermediate multiplications use arbitrary precision so no u64 overflow
// can occur; the final result is clamped back into [1, u64::MAX] and can
// change by at most MaxAdjustmentFactor in either direction per window.
func NextTarget(timestamps []uint64, currentTarget uint64) (uint64, error) {
	if len(timestamps) < 2 {
		return 0, txerr(BlockErrInvalidDifficulty, "retarget: need at least 2 timestamps")
	}
	first := timestamps[0]
	last := timestamps[len(timestamps)-1]

	var actual uint64
	if last > first {
		actual = last - first
	}
	expected := uint64(len(timestamps)-1) * BlockTimeSecs
	if expected == 0 {
		return 0, txerr(BlockErrInvalidDifficulty, "retarget: expected interval is zero")
	}

	lowerBound := expected / MaxAdjustmentFactor
	upperBound := expected * MaxAdjustmentFactor
	clampedActual := actual
	if clampedActual < lowerBound {
		clampedActual = lowerBound
	}
	if clampedActual > upperBound {
		clampedActual = upperBound
	}

	num := new(big.Int).Mul(new(big.Int).SetUint64(currentTarget), new(big.Int).SetUint64(clampedActual))
	newTarget := new(big.Int).Div(num, new(big.Int).SetUint64(expected))

	maxU64 := new(big.Int).SetUint64(^uint64(0))
	if newTarget.Cmp(maxU64) > 0 {
		newTarget = maxU64
	}
	if newTarget.Sign() < 1 {
		return 1, nil
	}
	return newTarget.Uint64(), nil
}
