package consensus

import "fmt"

// Hash256 is an opaque 32-byte identifier (txid, block hash, pubkey hash, ...).
type Hash256 [32]byte

var ZeroHash256 Hash256

func (h Hash256) IsZero() bool {
	return h == ZeroHash256
}

func (h Hash256) String() string {
	return fmt.Sprintf("%x", h[:])
}

// OutPoint identifies a specific transaction output.
type OutPoint struct {
	Txid  Hash256
	Index uint64
}

// NullOutPoint marks coinbase inputs: zero txid, index = u64::MAX.
func NullOutPoint() OutPoint {
	return OutPoint{Txid: ZeroHash256, Index: TxCoinbaseIndex}
}

func (o OutPoint) IsNull() bool {
	return o.Txid.IsZero() && o.Index == TxCoinbaseIndex
}

// TxInput spends a previous output. Regular inputs carry a 64-byte Ed25519
// signature and a 32-byte public key. Coinbase inputs carry at most
// MaxCoinbaseData bytes of free-form data in Signature (conventionally the
// block height, to keep coinbase txids unique) and an empty PublicKey.
type TxInput struct {
	PreviousOutput OutPoint
	Signature      []byte
	PublicKey      []byte
}

// TxOutput pays Value base units to the holder of PubkeyHash.
type TxOutput struct {
	Value      uint64
	PubkeyHash Hash256
}

// Transaction is the atomic unit of value transfer.
type Transaction struct {
	Version  uint64
	Inputs   []TxInput
	Outputs  []TxOutput
	LockTime uint64
}

// IsCoinbase reports whether tx has exactly one input and that input
// references the null outpoint.
func (tx *Transaction) IsCoinbase() bool {
	return len(tx.Inputs) == 1 && tx.Inputs[0].PreviousOutput.IsNull()
}

// TotalOutputValue sums all output values with overflow checking.
func (tx *Transaction) TotalOutputValue() (uint64, error) {
	var total uint64
	for _, out := range tx.Outputs {
		var err error
		total, err = addUint64(total, out.Value)
		if err != nil {
			return 0, err
		}
	}
	return total, nil
}

// BlockHeader commits to a block's transactions and links to its parent.
// Header hash is double-SHA-256 over the fixed BlockHeaderBytes layout
// described in HeaderHash, not the general canonical encoder.
type BlockHeader struct {
	Version          uint64
	PrevHash         Hash256
	MerkleRoot       Hash256
	Timestamp        uint64
	DifficultyTarget uint64
	Nonce            uint64
}

// Block pairs a header with its transactions. The first transaction MUST be
// coinbase; no other transaction may be.
type Block struct {
	Header       BlockHeader
	Transactions []*Transaction
}

func (b *Block) Coinbase() *Transaction {
	if len(b.Transactions) == 0 {
		return nil
	}
	return b.Transactions[0]
}

// UtxoEntry is an unspent output plus the bookkeeping needed for maturity
// and decay-engine concentration accounting.
type UtxoEntry struct {
	Output      TxOutput
	BlockHeight uint64
	IsCoinbase  bool
	ClusterID   Hash256
}

// IsMature reports whether the entry may be spent at currentHeight.
// Non-coinbase entries are always mature.
func (e *UtxoEntry) IsMature(currentHeight uint64) bool {
	if !e.IsCoinbase {
		return true
	}
	if currentHeight < e.BlockHeight {
		return false
	}
	return currentHeight-e.BlockHeight >= CoinbaseMaturity
}
