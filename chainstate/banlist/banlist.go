// Package banlist persists the sync manager's banned-peer set across
// restarts. It is deliberately a separate store from the bbolt-backed
// chain state: ban records are not consensus state and must never
// participate in the chain store's atomic block-connect transaction
// (spec.md §4.8 keeps bans in-memory only; this package is the
// supplemental persistence layer described in SPEC_FULL.md §4.5a).
package banlist

import (
	"encoding/binary"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/rillcoin/rilld/p2psync"
)

// Record is one persisted ban entry.
type Record struct {
	BannedAtUnix uint64
	FailureCount int
}

// Store is a leveldb-backed ban list. It implements p2psync.BanPersister.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if absent) the ban-list database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func encodeRecord(r Record) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[0:8], r.BannedAtUnix)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(r.FailureCount))
	return buf
}

func decodeRecord(buf []byte) Record {
	return Record{
		BannedAtUnix: binary.LittleEndian.Uint64(buf[0:8]),
		FailureCount: int(binary.LittleEndian.Uint64(buf[8:16])),
	}
}

// PersistBan writes a ban record for peer, satisfying p2psync.BanPersister.
func (s *Store) PersistBan(peer p2psync.PeerID, bannedAtUnix uint64, failureCount int) error {
	return s.db.Put([]byte(peer), encodeRecord(Record{BannedAtUnix: bannedAtUnix, FailureCount: failureCount}), nil)
}

// IsBanned reports whether peer has a persisted ban record.
func (s *Store) IsBanned(peer p2psync.PeerID) (bool, error) {
	ok, err := s.db.Has([]byte(peer), nil)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Get returns the ban record for peer, if any.
func (s *Store) Get(peer p2psync.PeerID) (Record, bool, error) {
	buf, err := s.db.Get([]byte(peer), nil)
	if err == leveldb.ErrNotFound {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, err
	}
	return decodeRecord(buf), true, nil
}

// Unban removes a peer's persisted ban record.
func (s *Store) Unban(peer p2psync.PeerID) error {
	return s.db.Delete([]byte(peer), nil)
}

// All returns every persisted ban, for seeding a freshly started
// p2psync.Manager's in-memory ban flags.
func (s *Store) All() (map[p2psync.PeerID]Record, error) {
	out := make(map[p2psync.PeerID]Record)
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()
	for iter.Next() {
		peer := p2psync.PeerID(append([]byte(nil), iter.Key()...))
		out[peer] = decodeRecord(iter.Value())
	}
	return out, iter.Error()
}
