package engine

import "github.com/rillcoin/rilld/consensus"

// ValidateBlock composes chain-state lookups into a BlockContext and
// delegates to the block-contextual validator.
func (e *Engine) ValidateBlock(block *consensus.Block) (totalFees uint64, coinbaseValue uint64, err error) {
	tipHeight, tipHash, err := e.store.ChainTip()
	if err != nil {
		return 0, 0, err
	}
	empty, err := e.store.IsEmpty()
	if err != nil {
		return 0, 0, err
	}
	height := tipHeight + 1
	if empty {
		height = 0
	}

	target, err := e.DifficultyAtHeight(height)
	if err != nil {
		return 0, 0, err
	}
	totalReward, err := e.TotalReward(height)
	if err != nil {
		return 0, 0, err
	}

	var parentTimestamp uint64
	if !empty {
		parentHeader, ok, herr := e.store.GetBlockHeader(tipHash)
		if herr != nil {
			return 0, 0, herr
		}
		if ok {
			parentTimestamp = parentHeader.Timestamp
		}
	}

	ctx := consensus.BlockContext{
		Height:             height,
		ExpectedPrevHash:   tipHash,
		ParentTimestamp:    parentTimestamp,
		ExpectedDifficulty: target,
		CurrentTime:        e.Now(),
		ExpectedBaseReward: totalReward,
	}
	return consensus.ValidateBlockContextual(block, ctx, e.store.Lookup())
}
