package p2p

import (
	"fmt"

	"github.com/rillcoin/rilld/consensus"
)

// Gossip and request-response command names (spec.md §6).
const (
	// Gossip: four kinds, one per topic (blocks or transactions).
	CmdAnnounceBlock    = "announceblock"
	CmdAnnounceTx       = "announcetx"
	CmdRequestBlockHash = "reqblockhash"
	CmdRequestHeaders   = "reqheaders"

	// Request-response: three kinds.
	CmdGetChainTip     = "getchaintip"
	CmdChainTip        = "chaintip"
	CmdGetHeaders      = "getheaders"
	CmdHeaders         = "headers"
	CmdGetBlockByHash  = "getblock"
	CmdBlockByHash     = "block"
)

// Topic identifies which of the two gossip topics a message belongs to.
type Topic int

const (
	TopicBlocks Topic = iota
	TopicTransactions
)

// AnnounceBlock and AnnounceTx gossip payloads are a single hash.

func EncodeHashPayload(h consensus.Hash256) []byte {
	return append([]byte(nil), h[:]...)
}

func DecodeHashPayload(b []byte) (consensus.Hash256, error) {
	var h consensus.Hash256
	if len(b) != 32 {
		return h, fmt.Errorf("p2p: hash payload must be 32 bytes, got %d", len(b))
	}
	copy(h[:], b)
	return h, nil
}

// HeadersLocatorPayload requests a contiguous header sequence starting
// after the first locator hash the responder recognizes.
type HeadersLocatorPayload struct {
	Locator []consensus.Hash256
}

func EncodeHeadersLocatorPayload(p HeadersLocatorPayload) []byte {
	var buf []byte
	buf = consensus.AppendCompactSize(buf, uint64(len(p.Locator)))
	for _, h := range p.Locator {
		buf = append(buf, h[:]...)
	}
	return buf
}

func DecodeHeadersLocatorPayload(b []byte) (HeadersLocatorPayload, error) {
	n, off, err := consensus.DecodeCompactSize(b)
	if err != nil {
		return HeadersLocatorPayload{}, err
	}
	locator := make([]consensus.Hash256, 0, n)
	for i := uint64(0); i < n; i++ {
		if off+32 > len(b) {
			return HeadersLocatorPayload{}, fmt.Errorf("p2p: truncated locator")
		}
		var h consensus.Hash256
		copy(h[:], b[off:off+32])
		locator = append(locator, h)
		off += 32
	}
	return HeadersLocatorPayload{Locator: locator}, nil
}

// ChainTipPayload is the response to a get-chain-tip request.
type ChainTipPayload struct {
	Height uint64
	Hash   consensus.Hash256
}

func EncodeChainTipPayload(p ChainTipPayload) []byte {
	buf := make([]byte, 40)
	for i := 0; i < 8; i++ {
		buf[i] = byte(p.Height >> (8 * uint(i)))
	}
	copy(buf[8:40], p.Hash[:])
	return buf
}

func DecodeChainTipPayload(b []byte) (ChainTipPayload, error) {
	if len(b) != 40 {
		return ChainTipPayload{}, fmt.Errorf("p2p: chain tip payload must be 40 bytes, got %d", len(b))
	}
	var height uint64
	for i := 0; i < 8; i++ {
		height |= uint64(b[i]) << (8 * uint(i))
	}
	var h consensus.Hash256
	copy(h[:], b[8:40])
	return ChainTipPayload{Height: height, Hash: h}, nil
}

// HeadersPayload carries a contiguous header sequence, up to whatever
// cap the responder enforces (spec.md: "up to a configured cap").
type HeadersPayload struct {
	Headers []consensus.BlockHeader
}

func EncodeHeadersPayload(p HeadersPayload) []byte {
	var buf []byte
	buf = consensus.AppendCompactSize(buf, uint64(len(p.Headers)))
	for _, h := range p.Headers {
		buf = append(buf, consensus.HeaderBytes(h)...)
	}
	return buf
}

func DecodeHeadersPayload(b []byte) (HeadersPayload, error) {
	n, off, err := consensus.DecodeCompactSize(b)
	if err != nil {
		return HeadersPayload{}, err
	}
	headers := make([]consensus.BlockHeader, 0, n)
	for i := uint64(0); i < n; i++ {
		if off+consensus.BlockHeaderBytes > len(b) {
			return HeadersPayload{}, fmt.Errorf("p2p: truncated headers payload")
		}
		h, err := consensus.DecodeBlockHeader(b[off : off+consensus.BlockHeaderBytes])
		if err != nil {
			return HeadersPayload{}, err
		}
		headers = append(headers, h)
		off += consensus.BlockHeaderBytes
	}
	return HeadersPayload{Headers: headers}, nil
}

// BlockResponsePayload is the reply to a get-block-by-hash request: the
// block if the responder has it, or an absence marker otherwise.
type BlockResponsePayload struct {
	Found bool
	Block *consensus.Block
}

func EncodeBlockResponsePayload(p BlockResponsePayload) []byte {
	if !p.Found || p.Block == nil {
		return []byte{0x00}
	}
	buf := []byte{0x01}
	return consensus.EncodeBlock(buf, p.Block)
}

func DecodeBlockResponsePayload(b []byte) (BlockResponsePayload, error) {
	if len(b) == 0 {
		return BlockResponsePayload{}, fmt.Errorf("p2p: empty block response payload")
	}
	if b[0] == 0x00 {
		return BlockResponsePayload{Found: false}, nil
	}
	block, err := consensus.DecodeBlock(b[1:])
	if err != nil {
		return BlockResponsePayload{}, err
	}
	return BlockResponsePayload{Found: true, Block: block}, nil
}
