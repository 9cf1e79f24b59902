package mempool

import "fmt"

type ErrorCode string

const (
	ErrAlreadyExists        ErrorCode = "MEMPOOL_ERR_ALREADY_EXISTS"
	ErrConflict             ErrorCode = "MEMPOOL_ERR_CONFLICT"
	ErrPoolFull             ErrorCode = "MEMPOOL_ERR_POOL_FULL"
	ErrFeeTooLow            ErrorCode = "MEMPOOL_ERR_FEE_TOO_LOW"
	ErrInternalSerialization ErrorCode = "MEMPOOL_ERR_INTERNAL_SERIALIZATION"
)

type Error struct {
	Code        ErrorCode
	Msg         string
	ConflictTxid string
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func poolErr(code ErrorCode, msg string) error {
	return &Error{Code: code, Msg: msg}
}

func conflictErr(conflictTxid string) error {
	return &Error{Code: ErrConflict, Msg: "input conflicts with a transaction already in the pool", ConflictTxid: conflictTxid}
}
