// Package rillerr is the top-level cross-subsystem error sum type
// (spec.md §7: "The top-level error is a sum over subsystems and is the
// type returned by any cross-subsystem operation"). Each subsystem keeps
// its own ErrorCode/struct/constructor-helper taxonomy; this package only
// tags which subsystem a wrapped error came from.
package rillerr

import (
	"fmt"

	"github.com/rillcoin/rilld/chainstate"
	"github.com/rillcoin/rilld/consensus"
	"github.com/rillcoin/rilld/crypto"
	"github.com/rillcoin/rilld/decay"
	"github.com/rillcoin/rilld/mempool"
)

// Subsystem tags which package taxonomy produced an error.
type Subsystem string

const (
	SubsystemCrypto     Subsystem = "crypto"
	SubsystemConsensus  Subsystem = "consensus"
	SubsystemChainState Subsystem = "chainstate"
	SubsystemMempool    Subsystem = "mempool"
	SubsystemDecay      Subsystem = "decay"
	SubsystemSync       Subsystem = "sync"
	SubsystemUnknown    Subsystem = "unknown"
)

// Error is the sum-type wrapper: a subsystem tag plus the subsystem's own
// typed error, unchanged.
type Error struct {
	Subsystem Subsystem
	Cause     error
}

func (e *Error) Error() string {
	if e == nil || e.Cause == nil {
		return string(SubsystemUnknown)
	}
	return fmt.Sprintf("%s: %v", e.Subsystem, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Wrap tags cause with subsystem. Wrap(s, nil) returns nil so callers can
// write `return rillerr.Wrap(rillerr.SubsystemMempool, err)` unconditionally.
func Wrap(subsystem Subsystem, cause error) error {
	if cause == nil {
		return nil
	}
	return &Error{Subsystem: subsystem, Cause: cause}
}

// From classifies cause by its concrete subsystem error type, for call
// sites that compose several subsystems and don't already know which one
// produced a given error. No package in this module calls Wrap or From:
// engine returns each subsystem's own error type unwrapped.
func From(cause error) error {
	if cause == nil {
		return nil
	}
	switch cause.(type) {
	case *crypto.Error:
		return Wrap(SubsystemCrypto, cause)
	case *consensus.TxError, *consensus.BlockError:
		return Wrap(SubsystemConsensus, cause)
	case *chainstate.Error:
		return Wrap(SubsystemChainState, cause)
	case *mempool.Error:
		return Wrap(SubsystemMempool, cause)
	case *decay.Error:
		return Wrap(SubsystemDecay, cause)
	default:
		return Wrap(SubsystemUnknown, cause)
	}
}
