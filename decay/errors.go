package decay

import "fmt"

type ErrorCode string

const ErrArithmeticOverflow ErrorCode = "DECAY_ERR_ARITHMETIC_OVERFLOW"

type Error struct {
	Code ErrorCode
	Msg  string
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

func decayErr(msg string) error {
	return &Error{Code: ErrArithmeticOverflow, Msg: msg}
}
