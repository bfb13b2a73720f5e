package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// ValidateChain replays the whole chain to prove its integrity. The hash
// linkage, the hash targets and the balances are each checked in turn and
// the first failing check is returned as a *database.ChainError. Balances
// are replayed from the registration balances every time, so the result
// doesn't change no matter how often it's called. Validation waits for a
// block being mined to be written.
func (s *State) ValidateChain() error {
	s.evHandler("state: ValidateChain: started")
	defer s.evHandler("state: ValidateChain: completed")

	// The chain and the registration balances must be taken together so an
	// account registered in between can't make the replay disagree with
	// the chain. The passes themselves run without the lock.
	s.mu.Lock()
	blocks, err := s.db.Blocks()
	sheet := s.accounts.InitialSheet()
	s.mu.Unlock()

	if err != nil {
		return err
	}

	if err := database.ValidateHashLinkage(blocks, s.evHandler); err != nil {
		return err
	}

	if err := database.ValidateHashTargets(blocks, s.evHandler); err != nil {
		return err
	}

	if err := database.ValidateBalances(blocks, sheet, s.evHandler); err != nil {
		return err
	}

	s.evHandler("state: ValidateChain: blocks[%d]: VALID", len(blocks))

	return nil
}
