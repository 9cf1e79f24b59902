// Package rpcview is a minimal read-only telemetry feed: a websocket
// listener that pushes a JSON chain/mempool snapshot to every connected
// client each time the host calls Broadcast; cmd/rillcoind does so on a
// fixed interval, not per block or per mempool change (SPEC_FULL.md §4.10). It is not RillCoin's RPC surface — there is none,
// per spec.md's Non-goals — just a health/status channel, built on the
// same transport library (`gorilla/websocket`) the corpus reaches for
// whenever it exposes a node-status feed (e.g. `daglabs-btcd`'s
// websocket RPC notification hub).
package rpcview

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// sendBufferSize bounds how many undelivered snapshots a slow client may
// queue before it is dropped, mirroring the corpus's
// websocketSendBufferSize convention for notification hubs.
const sendBufferSize = 8

// Snapshot is one telemetry push.
type Snapshot struct {
	Height            uint64 `json:"height"`
	TipHash           string `json:"tip_hash"`
	CirculatingSupply uint64 `json:"circulating_supply"`
	DecayPoolBalance  uint64 `json:"decay_pool_balance"`
	MempoolLen        int    `json:"mempool_len"`
	MempoolBytes      int    `json:"mempool_bytes"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Server is a broadcast hub for connected read-only telemetry clients.
type Server struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewServer creates an empty hub. The returned Server's Handler should be
// mounted on whatever net/http mux the host binary runs (default bound
// to loopback per SPEC_FULL.md §4.10).
func NewServer() *Server {
	return &Server{
		clients:  make(map[*client]struct{}),
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024},
	}
}

// Handler upgrades incoming HTTP connections to websockets and registers
// them as broadcast targets. The connection is read-only from the
// client's perspective: this handler only reads to observe the close
// handshake, per gorilla/websocket's requirement that every connection
// have an active reader.
func (s *Server) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debugf("rpcview: upgrade failed: %v", err)
			return
		}
		c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}
		s.register(c)
		go s.writePump(c)
		s.readPump(c)
	}
}

func (s *Server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Server) unregister(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.send)
	}
}

func (s *Server) readPump(c *client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writePump(c *client) {
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Broadcast pushes snap to every connected client. A client whose send
// buffer is already full is dropped rather than allowed to stall the
// broadcast for everyone else.
func (s *Server) Broadcast(snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- payload:
		default:
			log.Debugf("rpcview: dropping slow client")
			delete(s.clients, c)
			close(c.send)
			_ = c.conn.Close()
		}
	}
	return nil
}

// ClientCount reports how many clients are currently connected, mostly
// useful for tests.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
