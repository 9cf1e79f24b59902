package decay

// sigmoidTable holds sigmoid(x) = 1/(1+e^-x) for x = 0.00, 0.25, 0.50, ...,
// 20.00, scaled by sigmoidPrecision. The argument to decay_rate is always
// non-negative by construction (concentration is only evaluated above
// threshold), so only the positive half of the sigmoid is ever needed.
// Beyond the table's range the curve has saturated to 1.0 well within
// rounding error, so lookups past the last entry return it.
var sigmoidTable = [...]uint64{
	500000000, 562176501, 622459331, 679178699, 731058579, 777299861, 817574476, 851952802,
	880797078, 904650535, 924141820, 939913350, 952574127, 962673113, 970687769, 977022630,
	982013790, 985936373, 989013057, 991422515, 993307149, 994779874, 995929862, 996827317,
	997527377, 998073265, 998498818, 998830490, 999088949, 999290330, 999447221, 999569443,
	999664650, 999738810, 999796573, 999841564, 999876605, 999903898, 999925154, 999941709,
	999954602, 999964644, 999972464, 999978555, 999983299, 999986993, 999989870, 999992111,
	999993856, 999995215, 999996273, 999997098, 999997740, 999998240, 999998629, 999998932,
	999999168, 999999352, 999999496, 999999607, 999999694, 999999762, 999999814, 999999856,
	999999887, 999999912, 999999932, 999999947, 999999959, 999999968, 999999975, 999999980,
	999999985, 999999988, 999999991, 999999993, 999999994, 999999996, 999999997, 999999997,
	999999998,
}

// sigmoidPositive evaluates sigmoid(argNumerator/argDenominator) scaled by
// sigmoidPrecision, for a non-negative argument, by linear interpolation
// between adjacent table entries.
func sigmoidPositive(argNumerator, argDenominator uint64) uint64 {
	if argDenominator == 0 {
		return sigmoidTable[len(sigmoidTable)-1]
	}
	// quarterUnits = arg * 4, i.e. the fractional table index scaled by 4.
	quarterUnits := mulDivFloor(argNumerator, 4, argDenominator)
	idx := quarterUnits / 4
	if idx >= uint64(len(sigmoidTable)-1) {
		return sigmoidTable[len(sigmoidTable)-1]
	}
	frac := quarterUnits % 4 // in [0,4)
	lo := sigmoidTable[idx]
	hi := sigmoidTable[idx+1]
	return lo + (hi-lo)*frac/4
}

// mulDivFloor computes floor(a*b/c) without overflowing uint64 for the
// magnitudes this package deals with, by promoting to a 128-bit-equivalent
// big.Int product.
func mulDivFloor(a, b, c uint64) uint64 {
	return bigMulDiv(a, b, c)
}
