package chainstate

import "github.com/rillcoin/rilld/consensus"

// EnsureGenesis connects genesis at height 0 if and only if the store is
// currently empty. Called once on node startup before any other chainstate
// operation runs, per the hard requirement that the store never answers a
// query against a chain lacking its genesis block.
func EnsureGenesis(s *Store, genesis *consensus.Block) error {
	empty, err := s.IsEmpty()
	if err != nil {
		return err
	}
	if !empty {
		return nil
	}
	_, _, err = s.ConnectBlock(genesis, 0)
	return err
}
