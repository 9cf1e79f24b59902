package engine

import (
	"path/filepath"
	"testing"

	"github.com/rillcoin/rilld/chainstate"
	"github.com/rillcoin/rilld/consensus"
)

func fixedClock(t uint64) Clock {
	return func() uint64 { return t }
}

func openTestEngine(t *testing.T) (*Engine, *chainstate.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := chainstate.Open(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	genesis := &consensus.Block{
		Header: consensus.BlockHeader{Version: 1, Timestamp: 1, DifficultyTarget: ^uint64(0)},
		Transactions: []*consensus.Transaction{{
			Version:  1,
			Inputs:   []consensus.TxInput{{PreviousOutput: consensus.NullOutPoint(), Signature: []byte{0}}},
			Outputs:  []consensus.TxOutput{{Value: consensus.BlockReward(0), PubkeyHash: consensus.Hash256{0xAA}}},
			LockTime: 0,
		}},
	}
	if err := chainstate.EnsureGenesis(store, genesis); err != nil {
		t.Fatalf("ensure genesis: %v", err)
	}

	eng := New(store, fixedClock(1_000_000), ^uint64(0))
	return eng, store
}

func TestTotalRewardAtGenesisIsInitialReward(t *testing.T) {
	eng, _ := openTestEngine(t)
	reward, err := eng.TotalReward(0)
	if err != nil {
		t.Fatalf("total reward: %v", err)
	}
	if reward != consensus.InitialReward {
		t.Fatalf("reward = %d, want %d", reward, consensus.InitialReward)
	}
}

func TestDifficultyAtHeightZeroOrOneIsInitialTarget(t *testing.T) {
	eng, _ := openTestEngine(t)
	target, err := eng.DifficultyAtHeight(0)
	if err != nil || target != ^uint64(0) {
		t.Fatalf("target = %d, err=%v", target, err)
	}
	target, err = eng.DifficultyAtHeight(1)
	if err != nil || target != ^uint64(0) {
		t.Fatalf("target = %d, err=%v", target, err)
	}
}

func TestCreateBlockTemplateBuildsValidCoinbaseOnlyBlock(t *testing.T) {
	eng, store := openTestEngine(t)
	block, err := eng.CreateBlockTemplateWithTxs(consensus.Hash256{0xBB}, 2, nil)
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if len(block.Transactions) != 1 {
		t.Fatalf("expected coinbase-only template, got %d txs", len(block.Transactions))
	}
	if block.Header.Nonce != 0 {
		t.Fatalf("template nonce must be zero")
	}
	reward, err := eng.TotalReward(1)
	if err != nil {
		t.Fatalf("total reward: %v", err)
	}
	if block.Transactions[0].Outputs[0].Value != reward {
		t.Fatalf("coinbase value = %d, want %d", block.Transactions[0].Outputs[0].Value, reward)
	}

	_, tipHash, err := store.ChainTip()
	if err != nil {
		t.Fatalf("chain tip: %v", err)
	}
	if block.Header.PrevHash != tipHash {
		t.Fatalf("template prev_hash mismatch")
	}
}

func TestCreateBlockTemplateSkipsUnknownUtxo(t *testing.T) {
	eng, _ := openTestEngine(t)

	unknown := &consensus.Transaction{
		Version: 1,
		Inputs: []consensus.TxInput{{
			PreviousOutput: consensus.OutPoint{Txid: consensus.Hash256{0x01}, Index: 0},
			Signature:      make([]byte, 64),
			PublicKey:      make([]byte, 32),
		}},
		Outputs: []consensus.TxOutput{{Value: 1, PubkeyHash: consensus.Hash256{0xCC}}},
	}

	block, err := eng.CreateBlockTemplateWithTxs(consensus.Hash256{0xBB}, 2, []*consensus.Transaction{unknown})
	if err != nil {
		t.Fatalf("create template: %v", err)
	}
	if len(block.Transactions) != 1 {
		t.Fatalf("expected unknown-utxo tx to be skipped, got %d txs", len(block.Transactions))
	}
}
