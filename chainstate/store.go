// Package chainstate is the persistent chain state engine: a bbolt-backed
// UTXO set plus block/header/height indices, an undo log for reorgs, and
// the aggregate bookkeeping (circulating supply, decay pool balance,
// per-cluster balances) the decay and consensus engines read.
//
// connect_block and disconnect_tip each run as a single bbolt read-write
// transaction, so no reader ever observes a partially-applied block —
// the atomicity the engine's ordering guarantees depend on.
package chainstate

import (
	"fmt"
	"sync"
	"time"

	"github.com/rillcoin/rilld/consensus"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketBlocks    = []byte("blocks_by_hash")
	bucketHeaders   = []byte("headers_by_hash")
	bucketUtxo      = []byte("utxo_by_outpoint")
	bucketHeight    = []byte("hash_by_height")
	bucketUndo      = []byte("undo_by_block_hash")
	bucketCluster   = []byte("cluster_balance")
	bucketMetadata  = []byte("metadata")
)

var (
	metaKeyTipHeight         = []byte("tip_height")
	metaKeyTipHash           = []byte("tip_hash")
	metaKeyCirculatingSupply = []byte("circulating_supply")
	metaKeyDecayPoolBalance  = []byte("decay_pool_balance")
	metaKeyUtxoCount         = []byte("utxo_count")
)

// Store is the chain store. The reference implementation serializes writers
// with an in-process mutex and lets bbolt's MVCC handle concurrent readers;
// this matches the single-writer/many-readers model the engine assumes.
type Store struct {
	mu sync.RWMutex
	db *bolt.DB
}

// Open opens (creating if necessary) the bbolt database at path and ensures
// every column family bucket exists. The store may come back empty; callers
// must call EnsureGenesis before relying on a non-empty chain.
func Open(path string) (*Store, error) {
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("chainstate: open bbolt: %w", err)
	}
	s := &Store{db: bdb}
	err = bdb.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketBlocks, bucketHeaders, bucketUtxo, bucketHeight, bucketUndo, bucketCluster, bucketMetadata} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	})
	if err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// IsEmpty reports whether the store has no tip recorded yet.
func (s *Store) IsEmpty() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var empty bool
	err := s.db.View(func(tx *bolt.Tx) error {
		empty = tx.Bucket(bucketMetadata).Get(metaKeyTipHash) == nil
		return nil
	})
	return empty, err
}

func getU64(b *bolt.Bucket, key []byte) uint64 {
	v := b.Get(key)
	if v == nil {
		return 0
	}
	return decodeMetaU64(v)
}

func getHash(b *bolt.Bucket, key []byte) consensus.Hash256 {
	v := b.Get(key)
	var h consensus.Hash256
	if v == nil {
		return h
	}
	copy(h[:], v)
	return h
}
