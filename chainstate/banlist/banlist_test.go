package banlist

import (
	"path/filepath"
	"testing"

	"github.com/rillcoin/rilld/p2psync"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "banlist.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPersistBanAndIsBanned(t *testing.T) {
	s := openTestStore(t)
	peer := p2psync.PeerID("peer-1")

	if banned, err := s.IsBanned(peer); err != nil || banned {
		t.Fatalf("expected not banned before PersistBan, got banned=%v err=%v", banned, err)
	}
	if err := s.PersistBan(peer, 1_700_000_000, 3); err != nil {
		t.Fatalf("persist ban: %v", err)
	}
	banned, err := s.IsBanned(peer)
	if err != nil || !banned {
		t.Fatalf("expected banned after PersistBan, got banned=%v err=%v", banned, err)
	}

	rec, ok, err := s.Get(peer)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if rec.BannedAtUnix != 1_700_000_000 || rec.FailureCount != 3 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestUnban(t *testing.T) {
	s := openTestStore(t)
	peer := p2psync.PeerID("peer-2")
	if err := s.PersistBan(peer, 1, 3); err != nil {
		t.Fatalf("persist ban: %v", err)
	}
	if err := s.Unban(peer); err != nil {
		t.Fatalf("unban: %v", err)
	}
	if banned, err := s.IsBanned(peer); err != nil || banned {
		t.Fatalf("expected not banned after Unban, got banned=%v err=%v", banned, err)
	}
}

func TestAllReturnsEveryBan(t *testing.T) {
	s := openTestStore(t)
	if err := s.PersistBan("peer-a", 10, 3); err != nil {
		t.Fatalf("persist a: %v", err)
	}
	if err := s.PersistBan("peer-b", 20, 3); err != nil {
		t.Fatalf("persist b: %v", err)
	}
	all, err := s.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("want 2 records, got %d", len(all))
	}
	if all["peer-a"].BannedAtUnix != 10 || all["peer-b"].BannedAtUnix != 20 {
		t.Fatalf("unexpected records: %+v", all)
	}
}
