// Package genesis holds RillCoin's fixed, hard-coded genesis block
// (spec.md §6: "a known hash, timestamp, and a single coinbase paying a
// dev-fund premine to a specified pubkey hash"). The genesis block and
// protocol constants are part of the protocol definition, not runtime
// configuration (spec.md §9 "Global state"), so every field here is a
// constant, never a CLI flag.
package genesis

import "github.com/rillcoin/rilld/consensus"

const (
	// Timestamp is genesis's fixed Unix timestamp.
	Timestamp uint64 = 1_700_000_000

	// DevFundBPS is the dev-fund premine's share of MaxSupply, in basis
	// points, matching original_source's DEV_FUND_BPS constant.
	DevFundBPS uint64 = 500
)

// DevFundPubkeyHash is the fixed pubkey hash the genesis premine pays.
// RillCoin has no wallet in this core (spec.md's Non-goals), so this is
// simply a well-known constant rather than a key this binary can spend
// from.
var DevFundPubkeyHash = consensus.Hash256{
	0x52, 0x49, 0x4C, 0x4C, // "RILL"
	0x44, 0x45, 0x56, 0x46, 0x55, 0x4E, 0x44, // "DEVFUND"
}

// PremineValue is the dev-fund premine amount: DevFundBPS basis points of
// MaxSupply.
func PremineValue() uint64 {
	return consensus.MaxSupply * DevFundBPS / consensus.BPSPrecision
}

// Block returns RillCoin's genesis block: version 1, a null prev-hash,
// and a single coinbase transaction paying the dev-fund premine to
// DevFundPubkeyHash. Height tag mirrors engine.CreateBlockTemplateWithTxs's
// coinbase-signature convention (first min(8, MAX_COINBASE_DATA) bytes of
// little-endian height — zero, here).
func Block() *consensus.Block {
	coinbase := &consensus.Transaction{
		Version: 1,
		Inputs: []consensus.TxInput{{
			PreviousOutput: consensus.NullOutPoint(),
			Signature:      []byte{0, 0, 0, 0, 0, 0, 0, 0},
		}},
		Outputs: []consensus.TxOutput{{
			Value:      PremineValue(),
			PubkeyHash: DevFundPubkeyHash,
		}},
		LockTime: 0,
	}

	txid := consensus.Txid(coinbase)
	root, err := consensus.MerkleRootTxids([]consensus.Hash256{txid})
	if err != nil {
		// Unreachable: a single-leaf merkle root never fails.
		panic(err)
	}

	header := consensus.BlockHeader{
		Version:          1,
		PrevHash:         consensus.ZeroHash256,
		MerkleRoot:       root,
		Timestamp:        Timestamp,
		DifficultyTarget: ^uint64(0),
		Nonce:            0,
	}
	return &consensus.Block{Header: header, Transactions: []*consensus.Transaction{coinbase}}
}

// Hash is genesis's fixed block hash.
func Hash() consensus.Hash256 {
	return consensus.HeaderHash(Block().Header)
}
