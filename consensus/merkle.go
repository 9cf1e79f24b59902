package consensus

import "github.com/rillcoin/rilld/crypto"

// MerkleRootTxids computes the BLAKE3-based merkle root over a block's
// ordered txids. Leaf and internal-node preimages are domain-separated by a
// one-byte tag to rule out second-preimage attacks across tree levels. An
// odd node at any level is carried forward unchanged rather than duplicated,
// avoiding the classic duplicate-last-node weakness.
func MerkleRootTxids(txids []Hash256) (Hash256, error) {
	if len(txids) == 0 {
		return ZeroHash256, txerr(BlockErrParse, "merkle: empty txid list")
	}

	const leafTag, nodeTag byte = 0x00, 0x01

	level := make([]Hash256, 0, len(txids))
	var leafPreimage [1 + 32]byte
	leafPreimage[0] = leafTag
	for _, id := range txids {
		copy(leafPreimage[1:], id[:])
		level = append(level, Hash256(crypto.Blake3_256(leafPreimage[:])))
	}

	var nodePreimage [1 + 32 + 32]byte
	nodePreimage[0] = nodeTag
	for len(level) > 1 {
		next := make([]Hash256, 0, (len(level)+1)/2)
		for i := 0; i < len(level); {
			if i == len(level)-1 {
				next = append(next, level[i])
				i++
				continue
			}
			copy(nodePreimage[1:33], level[i][:])
			copy(nodePreimage[33:], level[i+1][:])
			next = append(next, Hash256(crypto.Blake3_256(nodePreimage[:])))
			i += 2
		}
		level = next
	}

	return level[0], nil
}
