package chainstate

import (
	"github.com/rillcoin/rilld/consensus"

	bolt "go.etcd.io/bbolt"
)

// GetUTXO looks up an unspent output by outpoint.
func (s *Store) GetUTXO(point consensus.OutPoint) (consensus.UtxoEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out consensus.UtxoEntry
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketUtxo).Get(encodeOutpointKey(point))
		if v == nil {
			return nil
		}
		e, err := decodeUtxoEntry(v)
		if err != nil {
			return err
		}
		out, ok = e, true
		return nil
	})
	return out, ok, err
}

// Lookup adapts GetUTXO to consensus.UtxoLookup for use by the validation
// pipeline.
func (s *Store) Lookup() consensus.UtxoLookup {
	return func(point consensus.OutPoint) (*consensus.UtxoEntry, bool) {
		entry, ok, err := s.GetUTXO(point)
		if err != nil || !ok {
			return nil, false
		}
		return &entry, true
	}
}

func (s *Store) ContainsUTXO(point consensus.OutPoint) (bool, error) {
	_, ok, err := s.GetUTXO(point)
	return ok, err
}

// IterUTXOs calls fn for every entry in the UTXO set in key order, stopping
// early if fn returns false.
func (s *Store) IterUTXOs(fn func(consensus.OutPoint, consensus.UtxoEntry) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketUtxo).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			point, err := decodeOutpointKey(k)
			if err != nil {
				return err
			}
			entry, err := decodeUtxoEntry(v)
			if err != nil {
				return err
			}
			if !fn(point, entry) {
				return nil
			}
		}
		return nil
	})
}

func (s *Store) GetBlock(hash consensus.Hash256) (*consensus.Block, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var block *consensus.Block
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBlocks).Get(hash[:])
		if v == nil {
			return nil
		}
		b, err := consensus.DecodeBlock(v)
		if err != nil {
			return err
		}
		block = b
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return block, block != nil, nil
}

func (s *Store) GetBlockHeader(hash consensus.Hash256) (consensus.BlockHeader, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var header consensus.BlockHeader
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketHeaders).Get(hash[:])
		if v == nil {
			return nil
		}
		h, err := consensus.DecodeBlockHeader(v)
		if err != nil {
			return err
		}
		header, ok = h, true
		return nil
	})
	return header, ok, err
}

// GetBlockHash returns the hash of the block at height, if one has been
// connected there.
func (s *Store) GetBlockHash(height uint64) (consensus.Hash256, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hash consensus.Hash256
	var ok bool
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketHeight).Get(encodeHeightKey(height))
		if v == nil {
			return nil
		}
		copy(hash[:], v)
		ok = true
		return nil
	})
	return hash, ok, err
}

// RecentTimestamps returns up to n timestamps of the blocks ending at and
// including height, oldest first -- the input the difficulty retarget
// algorithm consumes.
func (s *Store) RecentTimestamps(height uint64, n int) ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []uint64
	err := s.db.View(func(tx *bolt.Tx) error {
		hb := tx.Bucket(bucketHeight)
		hdb := tx.Bucket(bucketHeaders)
		start := int64(0)
		if int64(height)-int64(n)+1 > 0 {
			start = int64(height) - int64(n) + 1
		}
		collected := make([]uint64, 0, n)
		for h := start; h <= int64(height); h++ {
			hashBytes := hb.Get(encodeHeightKey(uint64(h)))
			if hashBytes == nil {
				return chainerr(ErrBlockNotFound, "missing height in timestamp window")
			}
			headerBytes := hdb.Get(hashBytes)
			if headerBytes == nil {
				return chainerr(ErrBlockNotFound, "missing header in timestamp window")
			}
			header, err := consensus.DecodeBlockHeader(headerBytes)
			if err != nil {
				return err
			}
			collected = append(collected, header.Timestamp)
		}
		out = collected
		return nil
	})
	return out, err
}
