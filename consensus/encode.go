package consensus

// Canonical binary encoding: length-prefixed (CompactSize), little-endian
// for every numeric field. This is both the on-wire and on-disk format;
// txid and block-hash derivation read from it directly, except header
// hashing which uses the fixed layout in HeaderBytes.

func EncodeOutPoint(dst []byte, o OutPoint) []byte {
	dst = append(dst, o.Txid[:]...)
	return AppendU64le(dst, o.Index)
}

func DecodeOutPoint(b []byte, off *int) (OutPoint, error) {
	txid, err := readHash256(b, off)
	if err != nil {
		return OutPoint{}, err
	}
	index, err := readU64le(b, off)
	if err != nil {
		return OutPoint{}, err
	}
	return OutPoint{Txid: txid, Index: index}, nil
}

func EncodeTxInput(dst []byte, in TxInput) []byte {
	dst = EncodeOutPoint(dst, in.PreviousOutput)
	dst = AppendCompactSize(dst, uint64(len(in.Signature)))
	dst = append(dst, in.Signature...)
	dst = AppendCompactSize(dst, uint64(len(in.PublicKey)))
	dst = append(dst, in.PublicKey...)
	return dst
}

func DecodeTxInput(b []byte, off *int) (TxInput, error) {
	op, err := DecodeOutPoint(b, off)
	if err != nil {
		return TxInput{}, err
	}
	sigLen, _, err := readCompactSize(b, off)
	if err != nil {
		return TxInput{}, err
	}
	n, err := toIntLen(sigLen, "signature")
	if err != nil {
		return TxInput{}, err
	}
	sig, err := readBytes(b, off, n)
	if err != nil {
		return TxInput{}, err
	}
	pkLen, _, err := readCompactSize(b, off)
	if err != nil {
		return TxInput{}, err
	}
	n, err = toIntLen(pkLen, "public_key")
	if err != nil {
		return TxInput{}, err
	}
	pk, err := readBytes(b, off, n)
	if err != nil {
		return TxInput{}, err
	}
	return TxInput{PreviousOutput: op, Signature: sig, PublicKey: pk}, nil
}

func EncodeTxOutput(dst []byte, out TxOutput) []byte {
	dst = AppendU64le(dst, out.Value)
	return append(dst, out.PubkeyHash[:]...)
}

func DecodeTxOutput(b []byte, off *int) (TxOutput, error) {
	value, err := readU64le(b, off)
	if err != nil {
		return TxOutput{}, err
	}
	ph, err := readHash256(b, off)
	if err != nil {
		return TxOutput{}, err
	}
	return TxOutput{Value: value, PubkeyHash: ph}, nil
}

// EncodeTransaction appends the canonical encoding of tx to dst.
func EncodeTransaction(dst []byte, tx *Transaction) []byte {
	dst = AppendU64le(dst, tx.Version)
	dst = AppendCompactSize(dst, uint64(len(tx.Inputs)))
	for _, in := range tx.Inputs {
		dst = EncodeTxInput(dst, in)
	}
	dst = AppendCompactSize(dst, uint64(len(tx.Outputs)))
	for _, out := range tx.Outputs {
		dst = EncodeTxOutput(dst, out)
	}
	dst = AppendU64le(dst, tx.LockTime)
	return dst
}

// DecodeTransaction decodes one transaction from the front of b, returning
// the parsed transaction and the number of bytes consumed.
func DecodeTransaction(b []byte) (*Transaction, int, error) {
	off := 0
	version, err := readU64le(b, &off)
	if err != nil {
		return nil, 0, txerr(TxErrParse, "tx: version")
	}
	inCount, _, err := readCompactSize(b, &off)
	if err != nil {
		return nil, 0, txerr(TxErrParse, "tx: input count")
	}
	inN, err := toIntLen(inCount, "input_count")
	if err != nil {
		return nil, 0, err
	}
	inputs := make([]TxInput, 0, inN)
	for i := 0; i < inN; i++ {
		in, err := DecodeTxInput(b, &off)
		if err != nil {
			return nil, 0, err
		}
		inputs = append(inputs, in)
	}
	outCount, _, err := readCompactSize(b, &off)
	if err != nil {
		return nil, 0, txerr(TxErrParse, "tx: output count")
	}
	outN, err := toIntLen(outCount, "output_count")
	if err != nil {
		return nil, 0, err
	}
	outputs := make([]TxOutput, 0, outN)
	for i := 0; i < outN; i++ {
		out, err := DecodeTxOutput(b, &off)
		if err != nil {
			return nil, 0, err
		}
		outputs = append(outputs, out)
	}
	lockTime, err := readU64le(b, &off)
	if err != nil {
		return nil, 0, txerr(TxErrParse, "tx: lock_time")
	}
	tx := &Transaction{Version: version, Inputs: inputs, Outputs: outputs, LockTime: lockTime}
	return tx, off, nil
}

// HeaderBytes returns the fixed 96-byte layout hashed to derive a block's
// hash: version ‖ prev_hash ‖ merkle_root ‖ timestamp ‖ difficulty_target ‖
// nonce, each numeric field little-endian. This is distinct from the
// general canonical encoder, though for BlockHeader (which has no
// variable-length fields) the bytes coincide.
func HeaderBytes(h BlockHeader) []byte {
	buf := make([]byte, 0, BlockHeaderBytes)
	buf = AppendU64le(buf, h.Version)
	buf = append(buf, h.PrevHash[:]...)
	buf = append(buf, h.MerkleRoot[:]...)
	buf = AppendU64le(buf, h.Timestamp)
	buf = AppendU64le(buf, h.DifficultyTarget)
	buf = AppendU64le(buf, h.Nonce)
	return buf
}

func DecodeBlockHeader(b []byte) (BlockHeader, error) {
	if len(b) != BlockHeaderBytes {
		return BlockHeader{}, txerr(BlockErrParse, "header: wrong length")
	}
	off := 0
	version, _ := readU64le(b, &off)
	prevHash, _ := readHash256(b, &off)
	merkleRoot, _ := readHash256(b, &off)
	timestamp, _ := readU64le(b, &off)
	target, _ := readU64le(b, &off)
	nonce, _ := readU64le(b, &off)
	return BlockHeader{
		Version:          version,
		PrevHash:         prevHash,
		MerkleRoot:       merkleRoot,
		Timestamp:        timestamp,
		DifficultyTarget: target,
		Nonce:            nonce,
	}, nil
}

// EncodeBlock appends the canonical encoding of a block: header bytes
// followed by CompactSize transaction count and each transaction in turn.
func EncodeBlock(dst []byte, b *Block) []byte {
	dst = append(dst, HeaderBytes(b.Header)...)
	dst = AppendCompactSize(dst, uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		dst = EncodeTransaction(dst, tx)
	}
	return dst
}

func DecodeBlock(b []byte) (*Block, error) {
	if len(b) < BlockHeaderBytes {
		return nil, txerr(BlockErrParse, "block: too short")
	}
	header, err := DecodeBlockHeader(b[:BlockHeaderBytes])
	if err != nil {
		return nil, err
	}
	off := BlockHeaderBytes
	txCount, _, err := readCompactSize(b, &off)
	if err != nil {
		return nil, txerr(BlockErrParse, "block: tx count")
	}
	txN, err := toIntLen(txCount, "tx_count")
	if err != nil {
		return nil, err
	}
	txs := make([]*Transaction, 0, txN)
	for i := 0; i < txN; i++ {
		if off >= len(b) {
			return nil, txerr(BlockErrParse, "block: unexpected EOF in tx list")
		}
		tx, n, err := DecodeTransaction(b[off:])
		if err != nil {
			return nil, err
		}
		off += n
		txs = append(txs, tx)
	}
	if off != len(b) {
		return nil, txerr(BlockErrParse, "block: trailing bytes after tx list")
	}
	return &Block{Header: header, Transactions: txs}, nil
}
