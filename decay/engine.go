package decay

import "math/big"

// bigMulDiv computes floor(a*b/c) using arbitrary precision so a and b
// together can exceed 64 bits without overflowing, matching the reference
// semantics of doing every intermediate in u128.
func bigMulDiv(a, b, c uint64) uint64 {
	if c == 0 {
		return 0
	}
	num := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	num.Div(num, new(big.Int).SetUint64(c))
	return num.Uint64()
}

// DecayRatePPB maps a UTXO's cluster concentration (parts per billion of
// circulating supply, precision ConcentrationPrecision) to a per-block
// decay rate with denominator Precision. Zero at or below the threshold;
// otherwise RMaxPPB * sigmoid(K * (concentration - threshold) / ConcentrationPrecision).
func DecayRatePPB(concentrationPPB uint64) uint64 {
	if concentrationPPB <= CThresholdPPB {
		return 0
	}
	diff := concentrationPPB - CThresholdPPB
	argNumerator := K * diff
	s := sigmoidPositive(argNumerator, ConcentrationPrecision)
	return bigMulDiv(RMaxPPB, s, sigmoidPrecision)
}

// fixedPow computes (baseNumerator/Precision)^exponent, itself scaled by
// Precision, via binary exponentiation. All intermediates are carried in
// arbitrary precision to rule out overflow regardless of how large
// exponent (blocks held) grows.
func fixedPow(baseNumerator uint64, exponent uint64) uint64 {
	precision := new(big.Int).SetUint64(Precision)
	result := new(big.Int).Set(precision) // scale-1.0
	base := new(big.Int).SetUint64(baseNumerator)

	for exponent > 0 {
		if exponent&1 == 1 {
			result.Mul(result, base)
			result.Div(result, precision)
		}
		base.Mul(base, base)
		base.Div(base, precision)
		exponent >>= 1
	}
	return result.Uint64()
}

// ComputeDecay returns the decay applied to nominal after blocksHeld blocks
// at the given concentration. It is always the case that
// effectiveValue(nominal, concentration, blocksHeld) + ComputeDecay(...) == nominal.
func ComputeDecay(nominal uint64, concentrationPPB uint64, blocksHeld uint64) (uint64, error) {
	return ComputeDecayWithConduct(nominal, concentrationPPB, blocksHeld, BPSPrecision)
}

// ComputeDecayWithConduct is ComputeDecay with the rate scaled by
// conductMultiplierBps/BPSPrecision before compounding, modelling a
// behavioral-score adjustment. The scaled rate is capped at Precision.
func ComputeDecayWithConduct(nominal uint64, concentrationPPB uint64, blocksHeld uint64, conductMultiplierBps uint64) (uint64, error) {
	rate := DecayRatePPB(concentrationPPB)
	if blocksHeld == 0 || rate == 0 {
		return 0, nil
	}

	adjustedRate := bigMulDiv(rate, conductMultiplierBps, BPSPrecision)
	if adjustedRate >= Precision {
		return nominal, nil
	}

	base := Precision - adjustedRate
	factor := fixedPow(base, blocksHeld)
	effective := bigMulDiv(nominal, factor, Precision)
	if effective > nominal {
		return 0, decayErr("effective value exceeds nominal")
	}
	return nominal - effective, nil
}

// DecayPoolRelease returns the fraction of poolBalance released to the
// coinbase each block: poolBalance * PoolReleaseBPS / BPSPrecision.
func DecayPoolRelease(poolBalance uint64) uint64 {
	return bigMulDiv(poolBalance, PoolReleaseBPS, BPSPrecision)
}
