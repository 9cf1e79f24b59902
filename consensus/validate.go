package consensus

import "github.com/rillcoin/rilld/crypto"

// UtxoLookup resolves an outpoint to its unspent entry, if any.
type UtxoLookup func(OutPoint) (*UtxoEntry, bool)

// ValidateTransactionStructural performs context-free checks: non-empty
// inputs/outputs, no zero-value outputs, output sum fits in u64, size
// bound, and the coinbase/regular shape rules.
func ValidateTransactionStructural(tx *Transaction) error {
	if tx == nil || len(tx.Inputs) == 0 || len(tx.Outputs) == 0 {
		return txerr(TxErrEmptyInputsOrOutputs, "transaction must have at least one input and one output")
	}
	for _, out := range tx.Outputs {
		if out.Value == 0 {
			return txerr(TxErrZeroValueOutput, "output value must be nonzero")
		}
	}
	if _, err := tx.TotalOutputValue(); err != nil {
		return err
	}

	size := len(EncodeTransaction(nil, tx))
	if size > MaxTxSize {
		return txerr(TxErrOversized, "transaction exceeds MAX_TX_SIZE")
	}

	if tx.IsCoinbase() {
		if len(tx.Inputs) != 1 {
			return txerr(TxErrInvalidCoinbase, "coinbase must have exactly one input")
		}
		if len(tx.Inputs[0].Signature) > MaxCoinbaseData {
			return txerr(TxErrInvalidCoinbase, "coinbase data exceeds MAX_COINBASE_DATA")
		}
		return nil
	}

	seen := make(map[OutPoint]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		if in.PreviousOutput.IsNull() {
			return txerr(TxErrNullOutpointInRegular, "regular transaction must not reference the null outpoint")
		}
		if _, dup := seen[in.PreviousOutput]; dup {
			return txerr(TxErrDuplicateInput, "duplicate input outpoint")
		}
		seen[in.PreviousOutput] = struct{}{}
		if len(in.Signature) != crypto.SignatureSize {
			return txerr(TxErrInvalidSignatureFormat, "signature must be 64 bytes")
		}
		if len(in.PublicKey) != crypto.PublicKeySize {
			return txerr(TxErrInvalidSignatureFormat, "public key must be 32 bytes")
		}
	}
	return nil
}

// ValidateTransactionContextual performs UTXO-dependent checks: existence,
// coinbase maturity, and signature verification, returning the total input
// value, total output value, and fee. Coinbase transactions must not be
// submitted here.
func ValidateTransactionContextual(tx *Transaction, currentHeight uint64, lookup UtxoLookup) (totalIn uint64, totalOut uint64, fee uint64, err error) {
	if tx.IsCoinbase() {
		return 0, 0, 0, txerr(TxErrCoinbaseNotContextual, "coinbase must not be submitted to contextual validation")
	}

	for i, in := range tx.Inputs {
		entry, ok := lookup(in.PreviousOutput)
		if !ok {
			return 0, 0, 0, txerr(TxErrUnknownUtxo, "referenced utxo does not exist")
		}
		if entry.IsCoinbase && currentHeight-entry.BlockHeight < CoinbaseMaturity {
			return 0, 0, 0, txerr(TxErrImmatureCoinbase, "coinbase output is not yet mature")
		}
		digest, sigErr := SigningHash(tx, i)
		if sigErr != nil {
			return 0, 0, 0, sigErr
		}
		if verErr := crypto.VerifySignature(in.PublicKey, in.Signature, [32]byte(digest), [32]byte(entry.Output.PubkeyHash)); verErr != nil {
			return 0, 0, 0, txerr(TxErrCrypto, verErr.Error())
		}
		totalIn, err = addUint64(totalIn, entry.Output.Value)
		if err != nil {
			return 0, 0, 0, err
		}
	}

	totalOut, err = tx.TotalOutputValue()
	if err != nil {
		return 0, 0, 0, err
	}
	if totalIn < totalOut {
		return 0, 0, 0, txerr(TxErrInsufficientFunds, "inputs do not cover outputs")
	}
	fee, err = subUint64(totalIn, totalOut)
	if err != nil {
		return 0, 0, 0, err
	}
	return totalIn, totalOut, fee, nil
}
