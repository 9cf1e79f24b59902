package chainstate

import (
	"github.com/rillcoin/rilld/consensus"

	bolt "go.etcd.io/bbolt"
)

// ConnectBlock applies block at height atomically: every output of every
// transaction becomes a new UTXO, every input's referenced UTXO is spent
// (recorded in an undo log keyed by the block hash so the block can later be
// disconnected), and the block/header/height/metadata records are written in
// the same bbolt transaction. height must equal the current tip height + 1,
// or 0 on an empty chain. Spending an outpoint absent from the UTXO set is a
// fatal error -- it would otherwise let a buggy reorg fabricate coins.
func (s *Store) ConnectBlock(block *consensus.Block, height uint64) (created int, spent int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := consensus.HeaderHash(block.Header)

	txErr := s.db.Update(func(tx *bolt.Tx) error {
		meta := tx.Bucket(bucketMetadata)
		tipHeight := getU64(meta, metaKeyTipHeight)
		empty := meta.Get(metaKeyTipHash) == nil

		if empty {
			if height != 0 {
				return chainerr(ErrHeightMismatch, "first connected block must be height 0")
			}
		} else if height != tipHeight+1 {
			return chainerr(ErrHeightMismatch, "height must equal tip height + 1")
		}

		if tx.Bucket(bucketBlocks).Get(hash[:]) != nil {
			return chainerr(ErrDuplicateBlock, "block already connected")
		}

		utxoBkt := tx.Bucket(bucketUtxo)
		undo := UndoRecord{}

		for i, t := range block.Transactions {
			if i > 0 {
				for _, in := range t.Inputs {
					key := encodeOutpointKey(in.PreviousOutput)
					v := utxoBkt.Get(key)
					if v == nil {
						return chainerr(ErrMissingUtxo, "spend references a nonexistent utxo")
					}
					entry, derr := decodeUtxoEntry(v)
					if derr != nil {
						return derr
					}
					if err := adjustClusterBalance(tx, entry.ClusterID, -int64(entry.Output.Value)); err != nil {
						return err
					}
					undo.Spent = append(undo.Spent, UndoEntry{OutPoint: in.PreviousOutput, Entry: entry})
					if err := utxoBkt.Delete(key); err != nil {
						return err
					}
					spent++
				}
			}

			txid := consensus.Txid(t)
			for idx, out := range t.Outputs {
				point := consensus.OutPoint{Txid: txid, Index: uint64(idx)}
				entry := consensus.UtxoEntry{
					Output:      out,
					BlockHeight: height,
					IsCoinbase:  i == 0,
					ClusterID:   consensus.ZeroHash256,
				}
				if err := utxoBkt.Put(encodeOutpointKey(point), encodeUtxoEntry(entry)); err != nil {
					return err
				}
				if err := adjustClusterBalance(tx, entry.ClusterID, int64(out.Value)); err != nil {
					return err
				}
				undo.Created = append(undo.Created, point)
				created++
			}
		}

		if err := tx.Bucket(bucketBlocks).Put(hash[:], consensus.EncodeBlock(nil, block)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketHeaders).Put(hash[:], consensus.HeaderBytes(block.Header)); err != nil {
			return err
		}
		if err := tx.Bucket(bucketHeight).Put(encodeHeightKey(height), hash[:]); err != nil {
			return err
		}
		if err := tx.Bucket(bucketUndo).Put(hash[:], encodeUndoRecord(undo)); err != nil {
			return err
		}

		coinbaseValue, cerr := block.Coinbase().TotalOutputValue()
		if cerr != nil {
			return cerr
		}
		currentSupply := getU64(meta, metaKeyCirculatingSupply)
		currentCount := getU64(meta, metaKeyUtxoCount)

		if err := meta.Put(metaKeyTipHeight, encodeMetaU64(height)); err != nil {
			return err
		}
		if err := meta.Put(metaKeyTipHash, hash[:]); err != nil {
			return err
		}
		if err := meta.Put(metaKeyCirculatingSupply, encodeMetaU64(currentSupply+coinbaseValue)); err != nil {
			return err
		}
		newCount := currentCount + uint64(created) - uint64(spent)
		return meta.Put(metaKeyUtxoCount, encodeMetaU64(newCount))
	})
	if txErr != nil {
		return 0, 0, txErr
	}
	return created, spent, nil
}
