package consensus

// BlockContext carries the chain-state-derived expectations a candidate
// block must match to pass contextual validation.
type BlockContext struct {
	Height               uint64
	ExpectedPrevHash     Hash256
	ParentTimestamp      uint64
	ExpectedDifficulty   uint64
	CurrentTime          uint64
	ExpectedBaseReward   uint64
}

// ValidateBlockStructural performs context-free block checks: version,
// coinbase placement, uniqueness, merkle commitment, size, and PoW.
func ValidateBlockStructural(b *Block) error {
	if b.Header.Version != 1 {
		return blockerr(BlockErrParse, "block version must be 1")
	}
	if len(b.Transactions) == 0 {
		return blockerr(BlockErrNoCoinbase, "block must contain at least one transaction")
	}
	if !b.Transactions[0].IsCoinbase() {
		return blockerr(BlockErrFirstNotCoinbase, "first transaction must be coinbase")
	}

	txids := make([]Hash256, len(b.Transactions))
	seen := make(map[Hash256]struct{}, len(b.Transactions))
	for i, tx := range b.Transactions {
		if i > 0 && tx.IsCoinbase() {
			return blockerr(BlockErrMultipleCoinbase, "only the first transaction may be coinbase")
		}
		if err := ValidateTransactionStructural(tx); err != nil {
			return wrappedTxErr(i, err)
		}
		id := Txid(tx)
		if _, dup := seen[id]; dup {
			return blockerr(BlockErrDuplicateTxid, "duplicate txid in block")
		}
		seen[id] = struct{}{}
		txids[i] = id
	}

	root, err := MerkleRootTxids(txids)
	if err != nil {
		return err
	}
	if root != b.Header.MerkleRoot {
		return blockerr(BlockErrInvalidMerkleRoot, "merkle_root mismatch")
	}

	size := len(EncodeBlock(nil, b))
	if size > MaxBlockSize {
		return blockerr(BlockErrOversized, "block exceeds MAX_BLOCK_SIZE")
	}

	if err := PowCheck(b.Header); err != nil {
		return err
	}
	return nil
}

// ValidateBlockContextual composes structural validation with
// chain-state-dependent checks, returning total fees and the coinbase
// output value.
func ValidateBlockContextual(b *Block, ctx BlockContext, lookup UtxoLookup) (totalFees uint64, coinbaseValue uint64, err error) {
	if err := ValidateBlockStructural(b); err != nil {
		return 0, 0, err
	}
	if b.Header.PrevHash != ctx.ExpectedPrevHash {
		return 0, 0, blockerr(BlockErrInvalidPrevHash, "prev_hash mismatch")
	}
	if b.Header.DifficultyTarget != ctx.ExpectedDifficulty {
		return 0, 0, blockerr(BlockErrInvalidDifficulty, "difficulty_target mismatch")
	}
	if b.Header.Timestamp <= ctx.ParentTimestamp {
		return 0, 0, blockerr(BlockErrTimestampNotAfterParent, "timestamp must be after parent")
	}
	if b.Header.Timestamp > ctx.CurrentTime+MaxFutureBlockTime {
		return 0, 0, blockerr(BlockErrTimestampTooFarFuture, "timestamp too far in the future")
	}

	spentInBlock := make(map[OutPoint]struct{})
	var sumFees uint64
	for i, tx := range b.Transactions {
		if i == 0 {
			continue
		}
		for _, in := range tx.Inputs {
			if _, dup := spentInBlock[in.PreviousOutput]; dup {
				return 0, 0, blockerr(BlockErrDoubleSpendWithinBlock, "outpoint spent twice within block")
			}
			spentInBlock[in.PreviousOutput] = struct{}{}
		}
		_, _, fee, txErr := ValidateTransactionContextual(tx, ctx.Height, lookup)
		if txErr != nil {
			return 0, 0, wrappedTxErr(i, txErr)
		}
		sumFees, err = addUint64(sumFees, fee)
		if err != nil {
			return 0, 0, err
		}
	}

	coinbaseValue, err = b.Transactions[0].TotalOutputValue()
	if err != nil {
		return 0, 0, err
	}
	limit, err := addUint64(ctx.ExpectedBaseReward, sumFees)
	if err != nil {
		return 0, 0, err
	}
	if coinbaseValue > limit {
		return 0, 0, blockerr(BlockErrInvalidReward, "coinbase output exceeds block_reward + fees")
	}

	return sumFees, coinbaseValue, nil
}
