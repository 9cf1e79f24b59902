package engine

import "github.com/rillcoin/rilld/consensus"

// CreateBlockTemplateWithTxs builds an unsolved (nonce=0) block extending
// the current tip, paying coinbasePubkeyHash the total reward plus fees
// from every pending transaction that survives inclusion (§4.7 step 3):
// transactions claiming to be coinbase, referencing a nonexistent UTXO,
// spending an immature coinbase, double-spending an outpoint already
// selected, overflowing input-value arithmetic, or paying out more than
// they take in are skipped rather than aborting the template.
func (e *Engine) CreateBlockTemplateWithTxs(coinbasePubkeyHash consensus.Hash256, timestamp uint64, pending []*consensus.Transaction) (*consensus.Block, error) {
	tipHeight, tipHash, err := e.store.ChainTip()
	if err != nil {
		return nil, err
	}
	empty, err := e.store.IsEmpty()
	if err != nil {
		return nil, err
	}
	height := tipHeight + 1
	if empty {
		height = 0
	}

	target, err := e.DifficultyAtHeight(height)
	if err != nil {
		return nil, err
	}
	totalReward, err := e.TotalReward(height)
	if err != nil {
		return nil, err
	}

	parentTimestamp := uint64(0)
	if !empty {
		parentHeader, ok, herr := e.store.GetBlockHeader(tipHash)
		if herr != nil {
			return nil, herr
		}
		if ok {
			parentTimestamp = parentHeader.Timestamp
		}
	}
	if timestamp <= parentTimestamp {
		timestamp = parentTimestamp + 1
	}

	lookup := e.store.Lookup()
	spentInTemplate := make(map[consensus.OutPoint]struct{})
	var survivors []*consensus.Transaction
	var fees uint64

	for _, tx := range pending {
		if tx.IsCoinbase() {
			continue
		}
		var totalIn, totalOut uint64
		skip := false
		for _, in := range tx.Inputs {
			if _, dup := spentInTemplate[in.PreviousOutput]; dup {
				skip = true
				break
			}
			entry, ok := lookup(in.PreviousOutput)
			if !ok {
				skip = true
				break
			}
			if entry.IsCoinbase && height-entry.BlockHeight < consensus.CoinbaseMaturity {
				skip = true
				break
			}
			sum, addErr := addChecked(totalIn, entry.Output.Value)
			if addErr != nil {
				skip = true
				break
			}
			totalIn = sum
		}
		if skip {
			continue
		}
		out, outErr := tx.TotalOutputValue()
		if outErr != nil || out > totalIn {
			continue
		}
		totalOut = out

		for _, in := range tx.Inputs {
			spentInTemplate[in.PreviousOutput] = struct{}{}
		}
		survivors = append(survivors, tx)
		fees += totalIn - totalOut
	}

	var heightBytes []byte
	n := 8
	if n > consensus.MaxCoinbaseData {
		n = consensus.MaxCoinbaseData
	}
	for i := 0; i < n; i++ {
		heightBytes = append(heightBytes, byte(height>>(8*uint(i))))
	}

	coinbase := &consensus.Transaction{
		Version: 1,
		Inputs: []consensus.TxInput{{
			PreviousOutput: consensus.NullOutPoint(),
			Signature:      heightBytes,
		}},
		Outputs:  []consensus.TxOutput{{Value: totalReward + fees, PubkeyHash: coinbasePubkeyHash}},
		LockTime: height,
	}

	txs := make([]*consensus.Transaction, 0, 1+len(survivors))
	txs = append(txs, coinbase)
	txs = append(txs, survivors...)

	txids := make([]consensus.Hash256, len(txs))
	for i, tx := range txs {
		txids[i] = consensus.Txid(tx)
	}
	root, err := consensus.MerkleRootTxids(txids)
	if err != nil {
		return nil, err
	}

	header := consensus.BlockHeader{
		Version:          1,
		PrevHash:         tipHash,
		MerkleRoot:       root,
		Timestamp:        timestamp,
		DifficultyTarget: target,
		Nonce:            0,
	}
	return &consensus.Block{Header: header, Transactions: txs}, nil
}

func addChecked(a, b uint64) (uint64, error) {
	sum := a + b
	if sum < a {
		return 0, engineErr(ErrTemplateBuild, "input value overflow")
	}
	return sum, nil
}
