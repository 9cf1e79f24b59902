package consensus

// BlockReward computes block_reward(h) = INITIAL_REWARD >> (h / HalvingInterval),
// saturating to 0 once h/HalvingInterval reaches 64 (a uint64 shift that wide
// is already all zero bits, but the explicit guard documents the intent).
func BlockReward(height uint64) uint64 {
	halvings := height / HalvingInterval
	if halvings >= 64 {
		return 0
	}
	return InitialReward >> halvings
}
