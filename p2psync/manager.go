package p2psync

import (
	"sync"
	"time"

	"github.com/rillcoin/rilld/consensus"
)

// Manager drives the chain synchronization state machine described in
// spec.md §4.8. It is single-threaded from the caller's point of view
// (the mutex only guards against concurrent callers; state transitions
// themselves happen strictly in event order, matching the spec's
// "sync manager is single-threaded" ordering guarantee).
type Manager struct {
	mu sync.Mutex

	state State

	haveBestPeer bool
	bestPeerID   PeerID
	bestTip      PeerTip

	pendingHeaders []consensus.BlockHeader
	queue          []consensus.Hash256
	peers          map[PeerID]*PeerState
	inFlight       map[consensus.Hash256]PeerID

	persister BanPersister
	now       func() time.Time
}

// NewManager creates a Manager in the Idle state. now defaults to
// time.Now if nil. If persister is non-nil its persisted bans are not
// retroactively applied here; the caller seeds them via SeedBan before
// peers reconnect, since the persister only knows peer IDs it has already
// seen, not which of today's connections they correspond to.
func NewManager(persister BanPersister, now func() time.Time) *Manager {
	if now == nil {
		now = time.Now
	}
	return &Manager{
		peers:     make(map[PeerID]*PeerState),
		inFlight:  make(map[consensus.Hash256]PeerID),
		persister: persister,
		now:       now,
	}
}

// State returns a copy of the current state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SeedBan marks peer banned in memory without touching the persister,
// for restoring state recorded in a previous run.
func (m *Manager) SeedBan(peer PeerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ps := m.peerLocked(peer)
	ps.Banned = true
}

func (m *Manager) peerLocked(peer PeerID) *PeerState {
	ps, ok := m.peers[peer]
	if !ok {
		ps = &PeerState{}
		m.peers[peer] = ps
	}
	return ps
}

func (m *Manager) refreshBestPeerLocked() {
	m.haveBestPeer = false
	var best PeerID
	var bestTip PeerTip
	for id, ps := range m.peers {
		if ps.Banned {
			continue
		}
		if !m.haveBestPeer || ps.Tip.Height > bestTip.Height {
			best = id
			bestTip = ps.Tip
			m.haveBestPeer = true
		}
	}
	m.bestPeerID = best
	m.bestTip = bestTip
}

// OnPeerConnected registers a peer with a zero tip and, if idle, begins
// peer discovery.
func (m *Manager) OnPeerConnected(peer PeerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.Debugf("p2psync: peer connected: %s", peer)
	m.peerLocked(peer)
	if m.state.Kind == StateIdle {
		m.state = State{Kind: StateDiscoveringPeers}
	}
}

// OnPeerTip records a peer's self-reported tip and updates the cached
// best peer if it now leads.
func (m *Manager) OnPeerTip(peer PeerID, height uint64, hash consensus.Hash256) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.Debugf("p2psync: peer tip: %s height=%d", peer, height)
	ps := m.peerLocked(peer)
	ps.Tip = PeerTip{Height: height, Hash: hash}

	if !ps.Banned && (!m.haveBestPeer || height > m.bestTip.Height) {
		m.bestPeerID = peer
		m.bestTip = ps.Tip
		m.haveBestPeer = true
	}
}

// OnPeerDisconnected removes the peer, returning any blocks assigned to
// it to the front of the download queue in their original order.
func (m *Manager) OnPeerDisconnected(peer PeerID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	log.Infof("p2psync: peer disconnected: %s", peer)

	var reassign []consensus.Hash256
	for _, hash := range m.queue {
		if assigned, ok := m.inFlight[hash]; ok && assigned == peer {
			reassign = append(reassign, hash)
			delete(m.inFlight, hash)
		}
	}
	for hash, assigned := range m.inFlight {
		if assigned == peer {
			reassign = append(reassign, hash)
			delete(m.inFlight, hash)
		}
	}
	if len(reassign) > 0 {
		m.queue = append(reassign, m.queue...)
	}

	wasBest := m.haveBestPeer && m.bestPeerID == peer
	delete(m.peers, peer)
	if wasBest {
		m.refreshBestPeerLocked()
	}
}

// CheckTimeouts sweeps in-flight requests older than
// DefaultRequestTimeoutSecs, returning them to the queue and counting a
// failure against their peer. A peer is banned once its failure count
// reaches DefaultMaxFailures.
func (m *Manager) CheckTimeouts() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	timeout := time.Duration(DefaultRequestTimeoutSecs) * time.Second

	var timedOut []consensus.Hash256
	for hash, peer := range m.inFlight {
		ps, ok := m.peers[peer]
		if !ok || ps.LastRequestAt.IsZero() {
			continue
		}
		if now.Sub(ps.LastRequestAt) >= timeout {
			timedOut = append(timedOut, hash)
		}
	}

	bannedOccurred := false
	for _, hash := range timedOut {
		peer, ok := m.inFlight[hash]
		if !ok {
			continue
		}
		delete(m.inFlight, hash)
		m.queue = append([]consensus.Hash256{hash}, m.queue...)

		ps, ok := m.peers[peer]
		if !ok {
			continue
		}
		if ps.InFlight > 0 {
			ps.InFlight--
		}
		ps.Failures++
		if ps.Failures >= DefaultMaxFailures && !ps.Banned {
			log.Warnf("p2psync: banning peer after %d failures: %s", ps.Failures, peer)
			ps.Banned = true
			bannedOccurred = true
			if m.persister != nil {
				if err := m.persister.PersistBan(peer, uint64(now.Unix()), ps.Failures); err != nil {
					log.Warnf("p2psync: persist ban for %s failed: %v", peer, err)
				}
			}
		}
	}

	if bannedOccurred && m.haveBestPeer {
		if ps, ok := m.peers[m.bestPeerID]; !ok || ps.Banned {
			m.refreshBestPeerLocked()
		}
	}
}

// OnHeadersReceived validates linkage of a header batch and, if valid,
// enqueues the corresponding block hashes for download. An empty batch
// or a batch with a broken prev_hash chain resets state to Idle instead.
func (m *Manager) OnHeadersReceived(headers []consensus.BlockHeader) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(headers) == 0 {
		log.Debugf("p2psync: received empty headers response")
		m.state = State{Kind: StateIdle}
		return
	}

	for i := 1; i < len(headers); i++ {
		if headers[i].PrevHash != consensus.HeaderHash(headers[i-1]) {
			log.Debugf("p2psync: invalid header chain linkage, resetting")
			m.state = State{Kind: StateIdle}
			m.pendingHeaders = nil
			return
		}
	}

	m.pendingHeaders = append(m.pendingHeaders, headers...)
	hashes := make([]consensus.Hash256, len(headers))
	for i, h := range headers {
		hashes[i] = consensus.HeaderHash(h)
	}
	m.queue = append(m.queue, hashes...)

	log.Infof("p2psync: queued %d blocks for download (pending=%d)", len(hashes), len(m.queue))
	m.state = State{Kind: StateDownloadingBlocks, Remaining: append([]consensus.Hash256(nil), hashes...)}
}

// OnBlockReceived removes a downloaded block from the in-flight map and
// download queue, transitioning to Done once both are empty.
func (m *Manager) OnBlockReceived(block *consensus.Block) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := consensus.HeaderHash(block.Header)
	log.Debugf("p2psync: received block %s", hash)

	if peer, ok := m.inFlight[hash]; ok {
		delete(m.inFlight, hash)
		if ps, ok := m.peers[peer]; ok && ps.InFlight > 0 {
			ps.InFlight--
		}
	}

	for i, h := range m.queue {
		if h == hash {
			m.queue = append(m.queue[:i], m.queue[i+1:]...)
			break
		}
	}

	if len(m.queue) == 0 && len(m.inFlight) == 0 && m.state.Kind != StateIdle {
		log.Infof("p2psync: all blocks downloaded, transitioning to done")
		m.state = State{Kind: StateDone}
	}
}

// ShouldSync reports whether the best known peer is ahead of ourHeight.
func (m *Manager) ShouldSync(ourHeight uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.haveBestPeer && m.bestTip.Height > ourHeight
}
