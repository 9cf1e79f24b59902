// Package p2psync implements RillCoin's header-first, multi-peer chain
// synchronization state machine. It owns no transport: events arrive from
// and actions are dispatched to whatever carries p2p envelopes (see
// package p2p), so the machine itself can be driven identically in tests
// and in the running node.
package p2psync

import (
	"time"

	"github.com/rillcoin/rilld/consensus"
)

const (
	// DefaultRequestTimeoutSecs is how long an in-flight block request may
	// go unanswered before the sweep reassigns it.
	DefaultRequestTimeoutSecs = 30
	// DefaultMaxFailures is the failure count at which a peer is banned.
	DefaultMaxFailures = 3
	// DefaultMaxInFlightPerPeer caps concurrent block requests per peer.
	DefaultMaxInFlightPerPeer = 8
)

// PeerID identifies a peer to the sync manager. The manager is transport-
// agnostic, so this is whatever comparable handle the host assigns a
// connection (a peer's static pubkey hash, in RillCoin's case).
type PeerID string

// StateKind enumerates the phases of the synchronization state machine.
type StateKind int

const (
	StateIdle StateKind = iota
	StateDiscoveringPeers
	StateDownloadingHeaders
	StateDownloadingBlocks
	StateDone
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateDiscoveringPeers:
		return "discovering_peers"
	case StateDownloadingHeaders:
		return "downloading_headers"
	case StateDownloadingBlocks:
		return "downloading_blocks"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// State is the current phase plus whatever payload that phase carries.
// Go has no tagged union, so only the field matching Kind is meaningful.
type State struct {
	Kind         StateKind
	TargetHeight uint64             // valid when Kind == StateDownloadingHeaders
	Remaining    []consensus.Hash256 // valid when Kind == StateDownloadingBlocks
}

// PeerTip is a peer's self-reported chain tip.
type PeerTip struct {
	Height uint64
	Hash   consensus.Hash256
}

// PeerState is the sync manager's bookkeeping for one peer.
type PeerState struct {
	Tip           PeerTip
	InFlight      int
	Failures      int
	LastRequestAt time.Time
	Banned        bool
}

// score ranks peers for the round-robin block-assignment scheduler: higher
// is better, and each failure costs far more than any height difference.
func (ps *PeerState) score() int64 {
	return int64(ps.Tip.Height) - int64(ps.Failures)*1000
}

// ActionKind enumerates what NextActions may ask the host to do.
type ActionKind int

const (
	ActionWait ActionKind = iota
	ActionRequestChainTip
	ActionRequestHeaders
	ActionRequestBlock
	ActionConnectBlock
	ActionSyncComplete
)

// Action is one instruction emitted by NextActions. Only the fields
// relevant to Kind are populated.
type Action struct {
	Kind    ActionKind
	Peer    PeerID
	Locator []consensus.Hash256
	Hash    consensus.Hash256
	Block   *consensus.Block
}

// BanPersister persists the sync manager's banned-peer set across
// restarts. A nil BanPersister leaves Manager fully in-memory, matching
// the reference implementation's behavior.
type BanPersister interface {
	PersistBan(peer PeerID, bannedAtUnix uint64, failureCount int) error
	IsBanned(peer PeerID) (bool, error)
}
