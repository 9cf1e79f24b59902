package chainstate

import (
	"encoding/binary"

	"github.com/rillcoin/rilld/consensus"

	bolt "go.etcd.io/bbolt"
)

func encodeMetaU64(v uint64) []byte {
	var out [8]byte
	binary.LittleEndian.PutUint64(out[:], v)
	return out[:]
}

func decodeMetaU64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

// ChainTip returns the current tip height and hash. Height and hash are both
// zero on an empty chain.
func (s *Store) ChainTip() (height uint64, hash consensus.Hash256, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	err = s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMetadata)
		height = getU64(b, metaKeyTipHeight)
		hash = getHash(b, metaKeyTipHash)
		return nil
	})
	return height, hash, err
}

// UtxoCount returns the number of entries currently in the UTXO set.
func (s *Store) UtxoCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		count = getU64(tx.Bucket(bucketMetadata), metaKeyUtxoCount)
		return nil
	})
	return count, err
}

// CirculatingSupply returns the sum of coinbase output values over all
// connected blocks.
func (s *Store) CirculatingSupply() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var supply uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		supply = getU64(tx.Bucket(bucketMetadata), metaKeyCirculatingSupply)
		return nil
	})
	return supply, err
}

// DecayPoolBalance returns the balance of coin recycled from decay, pending
// release to future miners.
func (s *Store) DecayPoolBalance() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var balance uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		balance = getU64(tx.Bucket(bucketMetadata), metaKeyDecayPoolBalance)
		return nil
	})
	return balance, err
}

// CreditDecayPool adds amount (decay collected from held UTXOs elsewhere) to
// the pool balance. Wiring a caller into this is left to the consensus
// engine; chainstate only persists the counter.
func (s *Store) CreditDecayPool(amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMetadata)
		current := getU64(b, metaKeyDecayPoolBalance)
		return b.Put(metaKeyDecayPoolBalance, encodeMetaU64(current+amount))
	})
}

// ReleaseDecayPool subtracts amount (released to a miner via the block
// reward) from the pool balance. Returns an error if amount exceeds the
// current balance.
func (s *Store) ReleaseDecayPool(amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMetadata)
		current := getU64(b, metaKeyDecayPoolBalance)
		if amount > current {
			return chainerr(ErrStorageFailure, "decay pool release exceeds balance")
		}
		return b.Put(metaKeyDecayPoolBalance, encodeMetaU64(current-amount))
	})
}

// ClusterBalance returns the aggregate UTXO value currently held by
// clusterID, the numerator-side input to the decay engine's concentration
// ratio.
func (s *Store) ClusterBalance(clusterID consensus.Hash256) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var balance uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketCluster).Get(clusterID[:])
		if v != nil {
			balance = decodeMetaU64(v)
		}
		return nil
	})
	return balance, err
}

func adjustClusterBalance(tx *bolt.Tx, clusterID consensus.Hash256, delta int64) error {
	b := tx.Bucket(bucketCluster)
	current := int64(decodeMetaU64(b.Get(clusterID[:])))
	next := current + delta
	if next < 0 {
		return chainerr(ErrStorageFailure, "cluster balance underflow")
	}
	if next == 0 {
		return b.Delete(clusterID[:])
	}
	return b.Put(clusterID[:], encodeMetaU64(uint64(next)))
}

// Stats is a convenience snapshot of the metadata bucket, handy for RPC/CLI
// surfaces that want every aggregate in one read.
type Stats struct {
	TipHeight         uint64
	TipHash           consensus.Hash256
	UtxoCount         uint64
	CirculatingSupply uint64
	DecayPoolBalance  uint64
}

func (s *Store) Stats() (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out Stats
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMetadata)
		out.TipHeight = getU64(b, metaKeyTipHeight)
		out.TipHash = getHash(b, metaKeyTipHash)
		out.UtxoCount = getU64(b, metaKeyUtxoCount)
		out.CirculatingSupply = getU64(b, metaKeyCirculatingSupply)
		out.DecayPoolBalance = getU64(b, metaKeyDecayPoolBalance)
		return nil
	})
	return out, err
}
