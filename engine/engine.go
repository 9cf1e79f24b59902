// Package engine ties chain state, the decay engine, and transaction
// validation together into the operations a node actually drives: block
// templating, candidate-block validation, and the PoW check (§4.7).
package engine

import (
	"github.com/rillcoin/rilld/chainstate"
)

// Clock returns the current unix time; a field rather than a direct
// time.Now() call so tests can supply a deterministic clock.
type Clock func() uint64

// Engine holds references to chain state and a clock, plus an optional
// override for the initial difficulty target used at heights 0 and 1
// (cmd/rillcoind passes the genesis header's target, ^uint64(0); tests
// pass ^uint64(0) directly).
type Engine struct {
	store         *chainstate.Store
	clock         Clock
	initialTarget uint64
}

// New constructs an Engine. initialTarget is the difficulty target used for
// heights 0 and 1, before any retargeting history exists.
func New(store *chainstate.Store, clock Clock, initialTarget uint64) *Engine {
	return &Engine{store: store, clock: clock, initialTarget: initialTarget}
}

func (e *Engine) Store() *chainstate.Store { return e.store }

func (e *Engine) Now() uint64 { return e.clock() }
