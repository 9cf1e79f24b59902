package consensus

import "fmt"

type ErrorCode string

const (
	TxErrEmptyInputsOrOutputs ErrorCode = "TX_ERR_EMPTY_INPUTS_OR_OUTPUTS"
	TxErrZeroValueOutput      ErrorCode = "TX_ERR_ZERO_VALUE_OUTPUT"
	TxErrValueOverflow        ErrorCode = "TX_ERR_VALUE_OVERFLOW"
	TxErrOversized            ErrorCode = "TX_ERR_OVERSIZED"
	TxErrInvalidCoinbase      ErrorCode = "TX_ERR_INVALID_COINBASE"
	TxErrNullOutpointInRegular ErrorCode = "TX_ERR_NULL_OUTPOINT_IN_REGULAR"
	TxErrDuplicateInput       ErrorCode = "TX_ERR_DUPLICATE_INPUT"
	TxErrInvalidSignatureFormat ErrorCode = "TX_ERR_INVALID_SIGNATURE_FORMAT"
	TxErrUnknownUtxo          ErrorCode = "TX_ERR_UNKNOWN_UTXO"
	TxErrImmatureCoinbase     ErrorCode = "TX_ERR_IMMATURE_COINBASE"
	TxErrInsufficientFunds    ErrorCode = "TX_ERR_INSUFFICIENT_FUNDS"
	TxErrSerializationFailure ErrorCode = "TX_ERR_SERIALIZATION_FAILURE"
	TxErrCoinbaseNotContextual ErrorCode = "TX_ERR_COINBASE_NOT_CONTEXTUAL"
	TxErrParse                ErrorCode = "TX_ERR_PARSE"
	TxErrCrypto                ErrorCode = "TX_ERR_CRYPTO"

	BlockErrNoCoinbase             ErrorCode = "BLOCK_ERR_NO_COINBASE"
	BlockErrFirstNotCoinbase       ErrorCode = "BLOCK_ERR_FIRST_NOT_COINBASE"
	BlockErrMultipleCoinbase       ErrorCode = "BLOCK_ERR_MULTIPLE_COINBASE"
	BlockErrDuplicateTxid          ErrorCode = "BLOCK_ERR_DUPLICATE_TXID"
	BlockErrInvalidMerkleRoot      ErrorCode = "BLOCK_ERR_INVALID_MERKLE_ROOT"
	BlockErrOversized              ErrorCode = "BLOCK_ERR_OVERSIZED"
	BlockErrInvalidPow             ErrorCode = "BLOCK_ERR_INVALID_POW"
	BlockErrInvalidPrevHash        ErrorCode = "BLOCK_ERR_INVALID_PREV_HASH"
	BlockErrInvalidDifficulty      ErrorCode = "BLOCK_ERR_INVALID_DIFFICULTY"
	BlockErrTimestampNotAfterParent ErrorCode = "BLOCK_ERR_TIMESTAMP_NOT_AFTER_PARENT"
	BlockErrTimestampTooFarFuture  ErrorCode = "BLOCK_ERR_TIMESTAMP_TOO_FAR_FUTURE"
	BlockErrInvalidReward          ErrorCode = "BLOCK_ERR_INVALID_REWARD"
	BlockErrDoubleSpendWithinBlock ErrorCode = "BLOCK_ERR_DOUBLE_SPEND_WITHIN_BLOCK"
	BlockErrParse                  ErrorCode = "BLOCK_ERR_PARSE"
	BlockErrWrappedTx              ErrorCode = "BLOCK_ERR_WRAPPED_TX"
)

type TxError struct {
	Code ErrorCode
	Msg  string
}

func (e *TxError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func txerr(code ErrorCode, msg string) error {
	return &TxError{Code: code, Msg: msg}
}

// BlockError wraps a transaction error with the index of the offending
// transaction, per the "wrapped-transaction-error (carries index)" kind.
type BlockError struct {
	Code  ErrorCode
	Msg   string
	Index int
	Cause error
}

func (e *BlockError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: tx[%d]: %v", e.Code, e.Index, e.Cause)
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *BlockError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func blockerr(code ErrorCode, msg string) error {
	return &BlockError{Code: code, Msg: msg}
}

func wrappedTxErr(index int, cause error) error {
	return &BlockError{Code: BlockErrWrappedTx, Index: index, Cause: cause}
}
