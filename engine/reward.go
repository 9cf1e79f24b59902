package engine

import (
	"github.com/rillcoin/rilld/consensus"
	"github.com/rillcoin/rilld/decay"
)

// TotalReward is block_reward(h) plus the decay pool's release at the
// current pool balance, the new coin a miner may claim in the coinbase
// output at height h.
func (e *Engine) TotalReward(height uint64) (uint64, error) {
	poolBalance, err := e.store.DecayPoolBalance()
	if err != nil {
		return 0, err
	}
	return consensus.BlockReward(height) + decay.DecayPoolRelease(poolBalance), nil
}
