package rpcview

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server, string) {
	t.Helper()
	s := NewServer()
	hs := httptest.NewServer(s.Handler())
	wsURL := "ws" + strings.TrimPrefix(hs.URL, "http")
	return s, hs, wsURL
}

func TestBroadcastDeliversSnapshotToClient(t *testing.T) {
	s, hs, wsURL := newTestServer(t)
	defer hs.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	want := Snapshot{Height: 7, TipHash: "deadbeef", CirculatingSupply: 100, DecayPoolBalance: 5, MempoolLen: 2, MempoolBytes: 512}
	if err := s.Broadcast(want); err != nil {
		t.Fatalf("broadcast: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Snapshot
	if err := json.Unmarshal(msg, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
}

func TestClientCountDropsOnDisconnect(t *testing.T) {
	s, hs, wsURL := newTestServer(t)
	defer hs.Close()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never registered")
		}
		time.Sleep(time.Millisecond)
	}

	conn.Close()

	deadline = time.Now().Add(2 * time.Second)
	for s.ClientCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("client never unregistered")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBroadcastWithNoClientsIsNoop(t *testing.T) {
	s := NewServer()
	if err := s.Broadcast(Snapshot{Height: 1}); err != nil {
		t.Fatalf("broadcast: %v", err)
	}
}
