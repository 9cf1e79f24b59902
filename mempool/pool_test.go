package mempool

import (
	"testing"

	"github.com/rillcoin/rilld/consensus"
)

func sampleTx(seed byte, value uint64) *consensus.Transaction {
	var prevTxid consensus.Hash256
	prevTxid[0] = seed
	return &consensus.Transaction{
		Version: 1,
		Inputs: []consensus.TxInput{{
			PreviousOutput: consensus.OutPoint{Txid: prevTxid, Index: 0},
			Signature:      make([]byte, 64),
			PublicKey:      make([]byte, 32),
		}},
		Outputs: []consensus.TxOutput{{Value: value, PubkeyHash: consensus.Hash256{0x01}}},
	}
}

func TestInsertAndContains(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	tx := sampleTx(1, 100)
	if err := p.Insert(tx, consensus.MinTxFee); err != nil {
		t.Fatalf("insert: %v", err)
	}
	txid := consensus.Txid(tx)
	if !p.Contains(txid) {
		t.Fatalf("expected pool to contain inserted tx")
	}
	if p.Len() != 1 {
		t.Fatalf("len = %d, want 1", p.Len())
	}
}

func TestInsertRejectsFeeTooLow(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	tx := sampleTx(1, 100)
	if err := p.Insert(tx, consensus.MinTxFee-1); err == nil {
		t.Fatalf("expected fee-too-low rejection")
	}
}

func TestInsertRejectsDuplicate(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	tx := sampleTx(1, 100)
	if err := p.Insert(tx, consensus.MinTxFee); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := p.Insert(tx, consensus.MinTxFee); err == nil {
		t.Fatalf("expected duplicate rejection")
	}
}

func TestInsertRejectsConflictingInput(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	txA := sampleTx(1, 100)
	if err := p.Insert(txA, consensus.MinTxFee); err != nil {
		t.Fatalf("insert a: %v", err)
	}
	txB := sampleTx(1, 200) // same input outpoint as txA
	if err := p.Insert(txB, consensus.MinTxFee); err == nil {
		t.Fatalf("expected conflict rejection")
	}
}

func TestInsertRejectedLeavesStateUnchanged(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	tx := sampleTx(1, 100)
	if err := p.Insert(tx, consensus.MinTxFee); err != nil {
		t.Fatalf("insert: %v", err)
	}
	lenBefore, bytesBefore, feesBefore := p.Len(), p.TotalBytes(), p.TotalFees()
	_ = p.Insert(tx, consensus.MinTxFee) // duplicate, should be rejected
	if p.Len() != lenBefore || p.TotalBytes() != bytesBefore || p.TotalFees() != feesBefore {
		t.Fatalf("pool state changed after rejected duplicate insert")
	}
}

func TestEvictionPrefersLowerFeeRate(t *testing.T) {
	p := New(Limits{MaxTxCount: 2, MaxTotalBytes: 1 << 20})
	cheap := sampleTx(1, 100)
	mid := sampleTx(2, 100)
	rich := sampleTx(3, 100)

	if err := p.Insert(cheap, consensus.MinTxFee); err != nil {
		t.Fatalf("insert cheap: %v", err)
	}
	if err := p.Insert(mid, consensus.MinTxFee*2); err != nil {
		t.Fatalf("insert mid: %v", err)
	}
	// Pool is now full (MaxTxCount=2); richer tx should evict cheap.
	if err := p.Insert(rich, consensus.MinTxFee*10); err != nil {
		t.Fatalf("insert rich: %v", err)
	}
	if p.Contains(consensus.Txid(cheap)) {
		t.Fatalf("expected cheapest entry to be evicted")
	}
	if !p.Contains(consensus.Txid(mid)) || !p.Contains(consensus.Txid(rich)) {
		t.Fatalf("expected mid and rich entries to remain")
	}
}

func TestInsertRejectsWhenNotCheaperThanAnyEvictable(t *testing.T) {
	p := New(Limits{MaxTxCount: 1, MaxTotalBytes: 1 << 20})
	rich := sampleTx(1, 100)
	if err := p.Insert(rich, consensus.MinTxFee*100); err != nil {
		t.Fatalf("insert rich: %v", err)
	}
	cheap := sampleTx(2, 100)
	if err := p.Insert(cheap, consensus.MinTxFee); err == nil {
		t.Fatalf("expected pool-full rejection for a cheaper transaction")
	}
	if !p.Contains(consensus.Txid(rich)) {
		t.Fatalf("rich entry should not have been evicted")
	}
}

func TestRemoveConfirmedBlockRemovesConfirmedAndConflicting(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	confirmed := sampleTx(1, 100)
	conflicting := sampleTx(2, 200)
	blockSpend := sampleTx(2, 999) // same outpoint as conflicting, different txid
	unrelated := sampleTx(3, 300)

	if err := p.Insert(confirmed, consensus.MinTxFee); err != nil {
		t.Fatalf("insert confirmed: %v", err)
	}
	if err := p.Insert(conflicting, consensus.MinTxFee); err != nil {
		t.Fatalf("insert conflicting: %v", err)
	}
	if err := p.Insert(unrelated, consensus.MinTxFee); err != nil {
		t.Fatalf("insert unrelated: %v", err)
	}

	block := &consensus.Block{
		Header:       consensus.BlockHeader{Version: 1},
		Transactions: []*consensus.Transaction{confirmed, blockSpend},
	}
	p.RemoveConfirmedBlock(block)

	if p.Contains(consensus.Txid(confirmed)) {
		t.Fatalf("confirmed tx should have been removed")
	}
	if p.Contains(consensus.Txid(conflicting)) {
		t.Fatalf("conflicting tx should have been removed")
	}
	if !p.Contains(consensus.Txid(unrelated)) {
		t.Fatalf("unrelated tx should remain")
	}
}

func TestSelectForTemplateOrdersByFeeRateDescendingAndSkipsOversize(t *testing.T) {
	p := New(Limits{MaxTxCount: 10, MaxTotalBytes: 1 << 20})
	low := sampleTx(1, 100)
	high := sampleTx(2, 100)
	if err := p.Insert(low, consensus.MinTxFee); err != nil {
		t.Fatalf("insert low: %v", err)
	}
	if err := p.Insert(high, consensus.MinTxFee*5); err != nil {
		t.Fatalf("insert high: %v", err)
	}

	selected := p.SelectForTemplate(1 << 20)
	if len(selected) != 2 {
		t.Fatalf("expected both entries selected, got %d", len(selected))
	}
	if selected[0].Txid != consensus.Txid(high) {
		t.Fatalf("expected higher fee-rate entry first")
	}

	tiny := p.SelectForTemplate(1)
	if len(tiny) != 0 {
		t.Fatalf("expected no entries to fit a 1-byte budget, got %d", len(tiny))
	}
}
