package engine

import "github.com/rillcoin/rilld/consensus"

// DifficultyAtHeight returns the target a block at height must claim.
// Heights 0 and 1 use the engine's configured initial target; every later
// height retargets over the timestamps of up to DifficultyWindow+1 blocks
// ending at height-1, against the target that block claimed.
func (e *Engine) DifficultyAtHeight(height uint64) (uint64, error) {
	if height <= 1 {
		return e.initialTarget, nil
	}

	parentHeight := height - 1
	parentHash, ok, err := e.store.GetBlockHash(parentHeight)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, engineErr(ErrTemplateBuild, "missing block at parent height for retarget")
	}
	parentHeader, ok, err := e.store.GetBlockHeader(parentHash)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, engineErr(ErrTemplateBuild, "missing parent header for retarget")
	}

	timestamps, err := e.store.RecentTimestamps(parentHeight, consensus.DifficultyWindow+1)
	if err != nil {
		return 0, err
	}
	return consensus.NextTarget(timestamps, parentHeader.DifficultyTarget)
}
