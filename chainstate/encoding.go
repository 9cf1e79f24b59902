package chainstate

import (
	"encoding/binary"
	"fmt"

	"github.com/rillcoin/rilld/consensus"
)

// encodeOutpointKey lays out an outpoint as txid(32) || index(u64 little-
// endian), the key used in the utxoByOutpoint bucket.
func encodeOutpointKey(p consensus.OutPoint) []byte {
	out := make([]byte, 32+8)
	copy(out[0:32], p.Txid[:])
	binary.LittleEndian.PutUint64(out[32:40], p.Index)
	return out
}

func decodeOutpointKey(b []byte) (consensus.OutPoint, error) {
	if len(b) != 40 {
		return consensus.OutPoint{}, fmt.Errorf("outpoint key: expected 40 bytes, got %d", len(b))
	}
	var txid consensus.Hash256
	copy(txid[:], b[0:32])
	index := binary.LittleEndian.Uint64(b[32:40])
	return consensus.OutPoint{Txid: txid, Index: index}, nil
}

// encodeUtxoEntry: value(u64le) || pubkey_hash(32) || block_height(u64le) ||
// is_coinbase(u8) || cluster_id(32).
func encodeUtxoEntry(e consensus.UtxoEntry) []byte {
	out := make([]byte, 8+32+8+1+32)
	binary.LittleEndian.PutUint64(out[0:8], e.Output.Value)
	copy(out[8:40], e.Output.PubkeyHash[:])
	binary.LittleEndian.PutUint64(out[40:48], e.BlockHeight)
	if e.IsCoinbase {
		out[48] = 1
	}
	copy(out[49:81], e.ClusterID[:])
	return out
}

func decodeUtxoEntry(b []byte) (consensus.UtxoEntry, error) {
	if len(b) != 8+32+8+1+32 {
		return consensus.UtxoEntry{}, fmt.Errorf("utxo entry: expected %d bytes, got %d", 8+32+8+1+32, len(b))
	}
	var pubkeyHash, clusterID consensus.Hash256
	value := binary.LittleEndian.Uint64(b[0:8])
	copy(pubkeyHash[:], b[8:40])
	blockHeight := binary.LittleEndian.Uint64(b[40:48])
	isCoinbase := b[48] == 1
	copy(clusterID[:], b[49:81])
	return consensus.UtxoEntry{
		Output:      consensus.TxOutput{Value: value, PubkeyHash: pubkeyHash},
		BlockHeight: blockHeight,
		IsCoinbase:  isCoinbase,
		ClusterID:   clusterID,
	}, nil
}

// encodeHeightKey returns a big-endian height so the height-index bucket
// iterates in ascending block order.
func encodeHeightKey(height uint64) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], height)
	return out[:]
}

func decodeHeightKey(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, fmt.Errorf("height key: expected 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

// UndoEntry restores a UTXO spent by the block being disconnected.
type UndoEntry struct {
	OutPoint consensus.OutPoint
	Entry    consensus.UtxoEntry
}

// UndoRecord is everything connect_block needs to remember to reverse a
// block: the entries it spent (to restore) and the outpoints it created (to
// delete).
type UndoRecord struct {
	Spent   []UndoEntry
	Created []consensus.OutPoint
}

func encodeUndoRecord(u UndoRecord) []byte {
	out := make([]byte, 0, 4+len(u.Spent)*(40+81)+4+len(u.Created)*40)
	var tmp4 [4]byte

	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(u.Spent)))
	out = append(out, tmp4[:]...)
	for _, s := range u.Spent {
		out = append(out, encodeOutpointKey(s.OutPoint)...)
		out = append(out, encodeUtxoEntry(s.Entry)...)
	}

	binary.LittleEndian.PutUint32(tmp4[:], uint32(len(u.Created)))
	out = append(out, tmp4[:]...)
	for _, p := range u.Created {
		out = append(out, encodeOutpointKey(p)...)
	}
	return out
}

func decodeUndoRecord(b []byte) (UndoRecord, error) {
	const entrySize = 40 + 81
	if len(b) < 4 {
		return UndoRecord{}, fmt.Errorf("undo record: truncated")
	}
	off := 0
	readU32 := func() (uint32, error) {
		if off+4 > len(b) {
			return 0, fmt.Errorf("undo record: truncated u32")
		}
		v := binary.LittleEndian.Uint32(b[off : off+4])
		off += 4
		return v, nil
	}

	spentN, err := readU32()
	if err != nil {
		return UndoRecord{}, err
	}
	spent := make([]UndoEntry, 0, spentN)
	for i := uint32(0); i < spentN; i++ {
		if off+entrySize > len(b) {
			return UndoRecord{}, fmt.Errorf("undo record: truncated spent entry")
		}
		p, err := decodeOutpointKey(b[off : off+40])
		if err != nil {
			return UndoRecord{}, err
		}
		off += 40
		e, err := decodeUtxoEntry(b[off : off+81])
		if err != nil {
			return UndoRecord{}, err
		}
		off += 81
		spent = append(spent, UndoEntry{OutPoint: p, Entry: e})
	}

	createdN, err := readU32()
	if err != nil {
		return UndoRecord{}, err
	}
	created := make([]consensus.OutPoint, 0, createdN)
	for i := uint32(0); i < createdN; i++ {
		if off+40 > len(b) {
			return UndoRecord{}, fmt.Errorf("undo record: truncated created outpoint")
		}
		p, err := decodeOutpointKey(b[off : off+40])
		if err != nil {
			return UndoRecord{}, err
		}
		off += 40
		created = append(created, p)
	}
	if off != len(b) {
		return UndoRecord{}, fmt.Errorf("undo record: trailing bytes")
	}
	return UndoRecord{Spent: spent, Created: created}, nil
}
