package conduct

import "testing"

func TestObserveSaturatesAtBounds(t *testing.T) {
	score := Score(0)
	for i := 0; i < 1000; i++ {
		score = Observe(score, EventDoubleSpendAttempt)
	}
	if score != 0 {
		t.Fatalf("score should saturate at 0, got %d", score)
	}
	score = Score(MaxScore)
	for i := 0; i < 1000; i++ {
		score = Observe(score, EventValidBlock)
	}
	if score != MaxScore {
		t.Fatalf("score should saturate at MaxScore, got %d", score)
	}
}

func TestMultiplierRange(t *testing.T) {
	if Multiplier(0) != MultiplierMinBPS {
		t.Fatalf("multiplier at 0 = %d, want %d", Multiplier(0), MultiplierMinBPS)
	}
	if Multiplier(MaxScore) != MultiplierMaxBPS {
		t.Fatalf("multiplier at MaxScore = %d, want %d", Multiplier(MaxScore), MultiplierMaxBPS)
	}
	mid := Multiplier(NeutralScore)
	if mid <= MultiplierMinBPS || mid >= MultiplierMaxBPS {
		t.Fatalf("multiplier at neutral score %d out of expected open range", mid)
	}
}

func TestDecayInvariantPreservedWithConduct(t *testing.T) {
	// Exercises the contract called out in spec.md's Open Questions: any
	// conduct-derived multiplier fed into the decay engine must still
	// satisfy effective + decay = nominal. This package has no dependency
	// on decay, so the check here is limited to Multiplier staying within
	// the bps bounds decay.ComputeDecayWithConduct expects.
	for s := Score(0); s <= MaxScore; s += 500 {
		m := Multiplier(s)
		if m < MultiplierMinBPS || m > MultiplierMaxBPS {
			t.Fatalf("multiplier %d for score %d out of bounds", m, s)
		}
	}
}
