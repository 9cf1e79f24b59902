package consensus

import "encoding/binary"

// PowCheck reports whether a block passes proof of work: the little-endian
// interpretation of the first 8 bytes of its header hash must be no greater
// than its claimed difficulty_target. Higher target means easier PoW.
func PowCheck(header BlockHeader) error {
	hash := HeaderHash(header)
	prefix := binary.LittleEndian.Uint64(hash[:8])
	if prefix > header.DifficultyTarget {
		return txerr(BlockErrInvalidPow, "pow: hash prefix exceeds target")
	}
	return nil
}
