// Package decay implements RillCoin's concentration-dependent value-decay
// function: a sigmoid maps a UTXO's cluster concentration to a per-block
// decay rate, and that rate is compounded over the number of blocks held
// using fixed-point binary exponentiation so the result is bit-exact across
// implementations. Floating point never touches a consensus-relevant value;
// the sigmoid itself is the one place an irrational function is needed, so
// it is baked into a precomputed table instead.
package decay

const (
	CThresholdPPB          = 1_000_000
	ConcentrationPrecision = 1_000_000_000
	RMaxPPB                = 1_500_000_000
	Precision              = 10_000_000_000
	K                      = 2000
	PoolReleaseBPS         = 100
	BPSPrecision           = 10_000

	// sigmoidPrecision is the fixed-point scale of the sigmoidTable entries.
	sigmoidPrecision = 1_000_000_000
	// sigmoidStepQuarters is the table's step size expressed as quarters of
	// a unit argument (table index i covers argument i*0.25).
	sigmoidStepQuarters = 1
)
