package consensus

import "github.com/rillcoin/rilld/crypto"

// Txid is BLAKE3 over the canonical encoding of the whole transaction,
// signatures included. The sighash mechanism (see SigningHash) compensates
// for this by excluding signature/pubkey bytes from what signatures commit
// to, so distinct signed copies of an otherwise-identical transaction still
// get distinct txids without breaking independent per-input signing.
func Txid(tx *Transaction) Hash256 {
	return Hash256(crypto.Blake3_256(EncodeTransaction(nil, tx)))
}

// HeaderHash is double-SHA-256 over the fixed 96-byte header layout.
func HeaderHash(h BlockHeader) Hash256 {
	return Hash256(crypto.DoubleSHA256(HeaderBytes(h)))
}
