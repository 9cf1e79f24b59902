// Package conduct implements RillCoin's behavioral-score ("Conduct") math:
// pure functions that track a peer or UTXO cluster's good/bad behavior over
// time and translate it into a multiplier the decay engine can apply to its
// base rate. As spec.md's Open Questions note, this is exercised as tested
// pure math only — nothing in engine or chainstate calls it from the core
// validation path.
package conduct

const (
	MaxScore     = 10_000
	NeutralScore = 5_000

	MultiplierMinBPS = 5_000
	MultiplierMaxBPS = 20_000

	deltaDoubleSpendAttempt = -500
	deltaStaleBlock         = -50
	deltaValidBlock         = 5
)

type Score uint32

type Event int

const (
	EventDoubleSpendAttempt Event = iota
	EventStaleBlock
	EventValidBlock
)

// Observe applies event's fixed delta to score, saturating at [0, MaxScore].
func Observe(score Score, event Event) Score {
	var delta int64
	switch event {
	case EventDoubleSpendAttempt:
		delta = deltaDoubleSpendAttempt
	case EventStaleBlock:
		delta = deltaStaleBlock
	case EventValidBlock:
		delta = deltaValidBlock
	}
	next := int64(score) + delta
	if next < 0 {
		return 0
	}
	if next > MaxScore {
		return MaxScore
	}
	return Score(next)
}

// Multiplier maps score linearly onto [MultiplierMinBPS, MultiplierMaxBPS].
func Multiplier(score Score) uint64 {
	if score > MaxScore {
		score = MaxScore
	}
	span := uint64(MultiplierMaxBPS - MultiplierMinBPS)
	return MultiplierMinBPS + uint64(score)*span/MaxScore
}
