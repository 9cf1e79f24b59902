package p2p

import (
	"bytes"
	"testing"

	"github.com/rillcoin/rilld/consensus"
)

func TestWriteReadMessageRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	payload := EncodeHashPayload(consensus.Hash256{0xAB})
	if err := WriteMessage(&buf, Magic, CmdAnnounceBlock, payload); err != nil {
		t.Fatalf("write: %v", err)
	}

	msg, rerr := ReadMessage(&buf, Magic)
	if rerr != nil {
		t.Fatalf("read: %v", rerr)
	}
	if msg.Command != CmdAnnounceBlock {
		t.Fatalf("command = %q, want %q", msg.Command, CmdAnnounceBlock)
	}
	h, err := DecodeHashPayload(msg.Payload)
	if err != nil {
		t.Fatalf("decode hash: %v", err)
	}
	if h != (consensus.Hash256{0xAB}) {
		t.Fatalf("hash mismatch: %v", h)
	}
}

func TestReadMessageRejectsMagicMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, Magic, CmdAnnounceTx, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, rerr := ReadMessage(&buf, Magic+1)
	if rerr == nil || !rerr.Disconnect {
		t.Fatalf("expected disconnect on magic mismatch, got %v", rerr)
	}
}

func TestReadMessageRejectsChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMessage(&buf, Magic, CmdAnnounceTx, []byte("payload")); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF // corrupt last payload byte without touching checksum header

	_, rerr := ReadMessage(bytes.NewReader(raw), Magic)
	if rerr == nil || rerr.Disconnect || rerr.BanScoreDelta == 0 {
		t.Fatalf("expected non-disconnect ban-scored checksum rejection, got %v", rerr)
	}
}

func TestHeadersLocatorPayloadRoundTrip(t *testing.T) {
	want := HeadersLocatorPayload{Locator: []consensus.Hash256{{0x01}, {0x02}, {0x03}}}
	got, err := DecodeHeadersLocatorPayload(EncodeHeadersLocatorPayload(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Locator) != len(want.Locator) {
		t.Fatalf("locator length = %d, want %d", len(got.Locator), len(want.Locator))
	}
	for i := range want.Locator {
		if got.Locator[i] != want.Locator[i] {
			t.Fatalf("locator[%d] mismatch", i)
		}
	}
}

func TestChainTipPayloadRoundTrip(t *testing.T) {
	want := ChainTipPayload{Height: 42, Hash: consensus.Hash256{0xCC}}
	got, err := DecodeChainTipPayload(EncodeChainTipPayload(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestHeadersPayloadRoundTrip(t *testing.T) {
	h0 := consensus.BlockHeader{Version: 1, Timestamp: 1, DifficultyTarget: ^uint64(0)}
	h1 := consensus.BlockHeader{Version: 1, PrevHash: consensus.HeaderHash(h0), Timestamp: 2, DifficultyTarget: ^uint64(0)}
	want := HeadersPayload{Headers: []consensus.BlockHeader{h0, h1}}

	got, err := DecodeHeadersPayload(EncodeHeadersPayload(want))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Headers) != 2 || got.Headers[1].PrevHash != consensus.HeaderHash(h0) {
		t.Fatalf("unexpected headers: %+v", got.Headers)
	}
}

func TestBlockResponsePayloadNotFound(t *testing.T) {
	got, err := DecodeBlockResponsePayload(EncodeBlockResponsePayload(BlockResponsePayload{Found: false}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Found {
		t.Fatalf("expected not-found response")
	}
}

func TestBlockResponsePayloadFound(t *testing.T) {
	block := &consensus.Block{
		Header: consensus.BlockHeader{Version: 1, Timestamp: 1, DifficultyTarget: ^uint64(0)},
		Transactions: []*consensus.Transaction{{
			Version: 1,
			Inputs:  []consensus.TxInput{{PreviousOutput: consensus.NullOutPoint(), Signature: []byte{0}}},
			Outputs: []consensus.TxOutput{{Value: 1, PubkeyHash: consensus.Hash256{0x01}}},
		}},
	}
	got, err := DecodeBlockResponsePayload(EncodeBlockResponsePayload(BlockResponsePayload{Found: true, Block: block}))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !got.Found || len(got.Block.Transactions) != 1 {
		t.Fatalf("unexpected block response: %+v", got)
	}
}
