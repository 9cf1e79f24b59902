package chainstate

import (
	"path/filepath"
	"testing"

	"github.com/rillcoin/rilld/consensus"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "kv.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func coinbaseTx(height uint64, payTo consensus.Hash256, value uint64) *consensus.Transaction {
	var heightBytes [8]byte
	for i := 0; i < 8; i++ {
		heightBytes[i] = byte(height >> (8 * i))
	}
	return &consensus.Transaction{
		Version: 1,
		Inputs: []consensus.TxInput{{
			PreviousOutput: consensus.NullOutPoint(),
			Signature:      heightBytes[:],
			PublicKey:      nil,
		}},
		Outputs:  []consensus.TxOutput{{Value: value, PubkeyHash: payTo}},
		LockTime: height,
	}
}

func spendTx(prev consensus.OutPoint, value uint64, payTo consensus.Hash256) *consensus.Transaction {
	return &consensus.Transaction{
		Version: 1,
		Inputs: []consensus.TxInput{{
			PreviousOutput: prev,
			Signature:      make([]byte, 64),
			PublicKey:      make([]byte, 32),
		}},
		Outputs: []consensus.TxOutput{{Value: value, PubkeyHash: payTo}},
	}
}

func mustConnect(t *testing.T, s *Store, block *consensus.Block, height uint64) {
	t.Helper()
	if _, _, err := s.ConnectBlock(block, height); err != nil {
		t.Fatalf("connect block at height %d: %v", height, err)
	}
}

var addrA consensus.Hash256 = consensus.Hash256{0xAA}

func TestConnectBlockUpdatesMetadata(t *testing.T) {
	s := openTestStore(t)

	empty, err := s.IsEmpty()
	if err != nil || !empty {
		t.Fatalf("expected empty store, empty=%v err=%v", empty, err)
	}

	genesis := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1, Timestamp: 1},
		Transactions: []*consensus.Transaction{coinbaseTx(0, addrA, 50_00000000)},
	}
	mustConnect(t, s, genesis, 0)

	height, hash, err := s.ChainTip()
	if err != nil {
		t.Fatalf("chain tip: %v", err)
	}
	if height != 0 {
		t.Fatalf("tip height = %d, want 0", height)
	}
	if hash != consensus.HeaderHash(genesis.Header) {
		t.Fatalf("tip hash mismatch")
	}

	supply, err := s.CirculatingSupply()
	if err != nil || supply != 50_00000000 {
		t.Fatalf("circulating supply = %d, err=%v", supply, err)
	}
	count, err := s.UtxoCount()
	if err != nil || count != 1 {
		t.Fatalf("utxo count = %d, err=%v", count, err)
	}
}

func TestReorgIntegrityScenarioB(t *testing.T) {
	s := openTestStore(t)

	genesis := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1, Timestamp: 1},
		Transactions: []*consensus.Transaction{coinbaseTx(0, addrA, 50_00000000)},
	}
	mustConnect(t, s, genesis, 0)
	prevHash := consensus.HeaderHash(genesis.Header)

	genesisCoinbaseOut := consensus.OutPoint{Txid: consensus.Txid(genesis.Transactions[0]), Index: 0}

	var blocks []*consensus.Block
	prevCoinbaseOut := genesisCoinbaseOut
	for k := uint64(1); k <= 5; k++ {
		cb := coinbaseTx(k, addrA, 50_00000000)
		spend := spendTx(prevCoinbaseOut, 49_00000000, addrA)
		block := &consensus.Block{
			Header: consensus.BlockHeader{
				Version:   1,
				PrevHash:  prevHash,
				Timestamp: 1 + k,
			},
			Transactions: []*consensus.Transaction{cb, spend},
		}
		mustConnect(t, s, block, k)
		blocks = append(blocks, block)
		prevHash = consensus.HeaderHash(block.Header)
		prevCoinbaseOut = consensus.OutPoint{Txid: consensus.Txid(cb), Index: 0}
	}

	for i := 0; i < 4; i++ {
		if err := s.DisconnectTip(); err != nil {
			t.Fatalf("disconnect %d: %v", i, err)
		}
	}

	height, hash, err := s.ChainTip()
	if err != nil {
		t.Fatalf("chain tip: %v", err)
	}
	if height != 1 {
		t.Fatalf("tip height = %d, want 1", height)
	}
	if hash != consensus.HeaderHash(blocks[0].Header) {
		t.Fatalf("tip hash mismatch after reorg")
	}

	block1CoinbaseOut := consensus.OutPoint{Txid: consensus.Txid(blocks[0].Transactions[0]), Index: 0}
	entry, ok, err := s.GetUTXO(block1CoinbaseOut)
	if err != nil || !ok {
		t.Fatalf("block 1 coinbase output missing: ok=%v err=%v", ok, err)
	}
	if entry.Output.Value != 50_00000000 {
		t.Fatalf("block 1 coinbase value = %d, want 50 coin", entry.Output.Value)
	}

	count, err := s.UtxoCount()
	if err != nil {
		t.Fatalf("utxo count: %v", err)
	}
	if count != 2 {
		t.Fatalf("utxo count = %d, want 2", count)
	}
}

func TestDisconnectEmptyChainFails(t *testing.T) {
	s := openTestStore(t)
	if err := s.DisconnectTip(); err == nil {
		t.Fatalf("expected error disconnecting empty chain")
	}
}

func TestConnectBlockRejectsBadHeight(t *testing.T) {
	s := openTestStore(t)
	genesis := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1, Timestamp: 1},
		Transactions: []*consensus.Transaction{coinbaseTx(0, addrA, 50_00000000)},
	}
	mustConnect(t, s, genesis, 0)

	bad := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1, Timestamp: 2},
		Transactions: []*consensus.Transaction{coinbaseTx(5, addrA, 50_00000000)},
	}
	if _, _, err := s.ConnectBlock(bad, 5); err == nil {
		t.Fatalf("expected height mismatch error")
	}
}

func TestEnsureGenesisConnectsOnceOnEmptyStore(t *testing.T) {
	s := openTestStore(t)
	genesis := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1, Timestamp: 1},
		Transactions: []*consensus.Transaction{coinbaseTx(0, addrA, 50_00000000)},
	}
	if err := EnsureGenesis(s, genesis); err != nil {
		t.Fatalf("ensure genesis: %v", err)
	}
	if err := EnsureGenesis(s, genesis); err != nil {
		t.Fatalf("ensure genesis idempotent: %v", err)
	}
	height, _, err := s.ChainTip()
	if err != nil || height != 0 {
		t.Fatalf("expected genesis connected once at height 0, height=%d err=%v", height, err)
	}
}

func TestClusterBalanceTracksZeroHashBucket(t *testing.T) {
	s := openTestStore(t)
	genesis := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1, Timestamp: 1},
		Transactions: []*consensus.Transaction{coinbaseTx(0, addrA, 50_00000000)},
	}
	mustConnect(t, s, genesis, 0)
	balance, err := s.ClusterBalance(consensus.ZeroHash256)
	if err != nil {
		t.Fatalf("cluster balance: %v", err)
	}
	if balance != 50_00000000 {
		t.Fatalf("cluster balance = %d, want 50 coin", balance)
	}
}

func TestDecayPoolCreditAndRelease(t *testing.T) {
	s := openTestStore(t)
	if err := s.CreditDecayPool(1000); err != nil {
		t.Fatalf("credit: %v", err)
	}
	if err := s.CreditDecayPool(500); err != nil {
		t.Fatalf("credit: %v", err)
	}
	balance, err := s.DecayPoolBalance()
	if err != nil || balance != 1500 {
		t.Fatalf("balance = %d, err=%v", balance, err)
	}
	if err := s.ReleaseDecayPool(2000); err == nil {
		t.Fatalf("expected error releasing more than balance")
	}
	if err := s.ReleaseDecayPool(1500); err != nil {
		t.Fatalf("release: %v", err)
	}
	balance, err = s.DecayPoolBalance()
	if err != nil || balance != 0 {
		t.Fatalf("balance after release = %d, err=%v", balance, err)
	}
}
