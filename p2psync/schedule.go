package p2psync

import (
	"sort"

	"github.com/jrick/bitset"
	"github.com/rillcoin/rilld/consensus"
)

// LocatorFunc builds a block-locator hash list for a headers request. Its
// construction is delegated to the host (typically a geometric series of
// recent block hashes) so the responder can find a common ancestor.
type LocatorFunc func() []consensus.Hash256

// NextActions advances the state machine's action scheduler (spec.md
// §4.8's `next_actions`) and returns the instructions the host should
// carry out. In DownloadingBlocks this distributes queued hashes across
// every non-banned, under-capacity peer round-robin; in every other
// state it returns at most one action.
func (m *Manager) NextActions(ourHeight uint64, locator LocatorFunc) []Action {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state.Kind {
	case StateIdle:
		if m.haveBestPeer && m.bestTip.Height > ourHeight {
			loc := locator()
			peer := m.bestPeerID
			log.Infof("p2psync: starting header download from %s (our=%d peer=%d)", peer, ourHeight, m.bestTip.Height)
			m.state = State{Kind: StateDownloadingHeaders, TargetHeight: m.bestTip.Height}
			return []Action{{Kind: ActionRequestHeaders, Peer: peer, Locator: loc}}
		}
		return []Action{{Kind: ActionWait}}

	case StateDiscoveringPeers:
		if m.haveBestPeer {
			return []Action{{Kind: ActionRequestChainTip, Peer: m.bestPeerID}}
		}
		return []Action{{Kind: ActionWait}}

	case StateDownloadingHeaders:
		return []Action{{Kind: ActionWait}}

	case StateDownloadingBlocks:
		return m.assignBlocksLocked()

	case StateDone:
		log.Infof("p2psync: sync complete, returning to idle")
		m.state = State{Kind: StateIdle}
		m.haveBestPeer = false
		m.bestPeerID = ""
		m.bestTip = PeerTip{}
		m.pendingHeaders = nil
		return []Action{{Kind: ActionSyncComplete}}

	default:
		return []Action{{Kind: ActionWait}}
	}
}

// assignBlocksLocked walks the download queue and assigns every
// unassigned hash to the next available peer, cycling round-robin
// through a descending-score peer list. A bitset tracks which positions
// in that list have already hit DefaultMaxInFlightPerPeer this round, so
// a peer that fills up mid-sweep is skipped on every subsequent hash
// without re-scanning its live in-flight counter.
func (m *Manager) assignBlocksLocked() []Action {
	type candidate struct {
		id    PeerID
		score int64
	}
	var available []candidate
	for id, ps := range m.peers {
		if !ps.Banned && ps.InFlight < DefaultMaxInFlightPerPeer {
			available = append(available, candidate{id: id, score: ps.score()})
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i].score > available[j].score })

	if len(available) == 0 {
		return []Action{{Kind: ActionWait}}
	}

	exhausted := bitset.NewBytes(len(available))
	var actions []Action
	cursor := 0
	now := m.now()

	var toAssign []consensus.Hash256
	for _, h := range m.queue {
		if _, inFlight := m.inFlight[h]; !inFlight {
			toAssign = append(toAssign, h)
		}
	}

	for _, hash := range toAssign {
		assigned := false
		for tries := 0; tries < len(available); tries++ {
			slot := cursor % len(available)
			cursor++
			if exhausted.Get(slot) {
				continue
			}
			cand := available[slot]
			ps := m.peers[cand.id]
			if ps.InFlight >= DefaultMaxInFlightPerPeer {
				exhausted.Set(slot)
				continue
			}
			m.inFlight[hash] = cand.id
			ps.InFlight++
			ps.LastRequestAt = now
			if ps.InFlight >= DefaultMaxInFlightPerPeer {
				exhausted.Set(slot)
			}
			actions = append(actions, Action{Kind: ActionRequestBlock, Peer: cand.id, Hash: hash})
			assigned = true
			break
		}
		if !assigned {
			break
		}
	}

	if len(actions) == 0 {
		return []Action{{Kind: ActionWait}}
	}
	return actions
}
