package engine

import "github.com/rillcoin/rilld/consensus"

// CheckPoW validates a solved header against its own claimed target. The
// RandomX backend is an external collaborator per the core's contract;
// this engine only ever runs the SHA-256-based mock PoW consensus.PowCheck
// implements.
func (e *Engine) CheckPoW(header consensus.BlockHeader) error {
	return consensus.PowCheck(header)
}
