package genesis

import "testing"

func TestBlockIsSingleCoinbaseWithDevFundPremine(t *testing.T) {
	b := Block()
	if len(b.Transactions) != 1 {
		t.Fatalf("want single coinbase, got %d txs", len(b.Transactions))
	}
	if !b.Transactions[0].IsCoinbase() {
		t.Fatalf("genesis transaction must be a coinbase")
	}
	if b.Transactions[0].Outputs[0].PubkeyHash != DevFundPubkeyHash {
		t.Fatalf("premine output must pay DevFundPubkeyHash")
	}
	if b.Transactions[0].Outputs[0].Value != PremineValue() {
		t.Fatalf("premine value = %d, want %d", b.Transactions[0].Outputs[0].Value, PremineValue())
	}
}

func TestHashIsDeterministic(t *testing.T) {
	if Hash() != Hash() {
		t.Fatalf("genesis hash must be deterministic across calls")
	}
}
