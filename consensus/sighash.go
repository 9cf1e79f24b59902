package consensus

import "github.com/rillcoin/rilld/crypto"

// SigningHash computes the sighash for input index i of tx: version, the
// ordered list of all input outpoints (signatures and public keys
// excluded), the ordered list of all outputs, lock_time, and i. Excluding
// signature/pubkey bytes lets independent inputs be signed in any order
// without invalidating each other.
func SigningHash(tx *Transaction, inputIndex int) (Hash256, error) {
	if tx == nil {
		return ZeroHash256, txerr(TxErrParse, "sighash: nil tx")
	}
	if inputIndex < 0 || inputIndex >= len(tx.Inputs) {
		return ZeroHash256, txerr(TxErrParse, "sighash: input_index out of bounds")
	}

	preimage := make([]byte, 0, 64+len(tx.Inputs)*40+len(tx.Outputs)*40+16)
	preimage = AppendU64le(preimage, tx.Version)
	preimage = AppendCompactSize(preimage, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		preimage = EncodeOutPoint(preimage, in.PreviousOutput)
	}
	preimage = AppendCompactSize(preimage, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		preimage = EncodeTxOutput(preimage, out)
	}
	preimage = AppendU64le(preimage, tx.LockTime)
	preimage = AppendU64le(preimage, uint64(inputIndex))

	return Hash256(crypto.Blake3_256(preimage)), nil
}
