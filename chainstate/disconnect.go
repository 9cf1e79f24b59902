package chainstate

import (
	"github.com/rillcoin/rilld/consensus"

	bolt "go.etcd.io/bbolt"
)

// DisconnectTip reverses the effect of the most recently connected block:
// every UTXO it created is removed, every UTXO it spent is restored from the
// undo log, and the tip moves to the block's parent. Block and header
// records are kept -- the block may be reconnected later during a reorg.
// Fails on an empty chain.
func (s *Store) DisconnectTip() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMetadata)
		if meta.Get(metaKeyTipHash) == nil {
			return chainerr(ErrEmptyChain, "no tip to disconnect")
		}
		tipHeight := getU64(meta, metaKeyTipHeight)
		tipHash := getHash(meta, metaKeyTipHash)

		headerBytes := tx.Bucket(bucketHeaders).Get(tipHash[:])
		if headerBytes == nil {
			return chainerr(ErrBlockNotFound, "tip header missing")
		}
		header, err := consensus.DecodeBlockHeader(headerBytes)
		if err != nil {
			return err
		}

		undoBytes := tx.Bucket(bucketUndo).Get(tipHash[:])
		if undoBytes == nil {
			return chainerr(ErrUndoDataMissing, "tip undo record missing")
		}
		undo, err := decodeUndoRecord(undoBytes)
		if err != nil {
			return err
		}

		blockBytes := tx.Bucket(bucketBlocks).Get(tipHash[:])
		if blockBytes == nil {
			return chainerr(ErrBlockNotFound, "tip block missing")
		}
		block, err := consensus.DecodeBlock(blockBytes)
		if err != nil {
			return err
		}
		coinbaseValue, err := block.Coinbase().TotalOutputValue()
		if err != nil {
			return err
		}

		utxoBkt := tx.Bucket(bucketUtxo)

		// Remove created outputs in reverse order.
		for i := len(undo.Created) - 1; i >= 0; i-- {
			point := undo.Created[i]
			key := encodeOutpointKey(point)
			v := utxoBkt.Get(key)
			if v != nil {
				entry, derr := decodeUtxoEntry(v)
				if derr != nil {
					return derr
				}
				if err := adjustClusterBalance(tx, entry.ClusterID, -int64(entry.Output.Value)); err != nil {
					return err
				}
			}
			if err := utxoBkt.Delete(key); err != nil {
				return err
			}
		}

		// Restore spent entries.
		for _, se := range undo.Spent {
			if err := utxoBkt.Put(encodeOutpointKey(se.OutPoint), encodeUtxoEntry(se.Entry)); err != nil {
				return err
			}
			if err := adjustClusterBalance(tx, se.Entry.ClusterID, int64(se.Entry.Output.Value)); err != nil {
				return err
			}
		}

		if err := tx.Bucket(bucketUndo).Delete(tipHash[:]); err != nil {
			return err
		}
		if err := tx.Bucket(bucketHeight).Delete(encodeHeightKey(tipHeight)); err != nil {
			return err
		}

		currentSupply := getU64(meta, metaKeyCirculatingSupply)
		currentCount := getU64(meta, metaKeyUtxoCount)
		newCount := currentCount - uint64(len(undo.Created)) + uint64(len(undo.Spent))
		if err := meta.Put(metaKeyCirculatingSupply, encodeMetaU64(currentSupply-coinbaseValue)); err != nil {
			return err
		}
		if err := meta.Put(metaKeyUtxoCount, encodeMetaU64(newCount)); err != nil {
			return err
		}

		if tipHeight == 0 {
			// Disconnecting genesis empties the chain; delete rather than
			// zero-fill the tip keys so IsEmpty (Get == nil) reports true.
			if err := meta.Delete(metaKeyTipHeight); err != nil {
				return err
			}
			return meta.Delete(metaKeyTipHash)
		}
		if err := meta.Put(metaKeyTipHeight, encodeMetaU64(tipHeight-1)); err != nil {
			return err
		}
		return meta.Put(metaKeyTipHash, header.PrevHash[:])
	})
}
