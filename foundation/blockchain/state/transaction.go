package state

import (
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// AddTransaction accepts a signed transaction for inclusion in the next
// block. Nothing changes if the transaction is not accepted.
func (s *State) AddTransaction(signedTx database.SignedTx) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.validateTransaction(signedTx); err != nil {
		s.evHandler("state: AddTransaction: tx[%s]: REJECTED: %s", signedTx, err)
		return err
	}

	// Replays are accepted unless rejected above, but they are worth noting.
	if dups := s.pending.Contains(signedTx); dups > 0 {
		s.evHandler("state: AddTransaction: tx[%s]: REPLAY: already pending[%d]", signedTx, dups)
	}

	s.accounts.UpdateNonce(signedTx)
	n := s.pending.Add(signedTx)

	s.evHandler("state: AddTransaction: tx[%s]: pending[%d]", signedTx, n)

	return nil
}

// =============================================================================

// validateTransaction takes the signed transaction and validates it has
// a proper signature from a registered sender.
func (s *State) validateTransaction(signedTx database.SignedTx) error {
	tx := signedTx.Message

	sender, err := s.accounts.Query(tx.Sender)
	if err != nil {
		return fmt.Errorf("sender: %w", err)
	}

	if !s.accounts.Exists(tx.Receiver) {
		return fmt.Errorf("receiver %s: %w", tx.Receiver, ErrUnknownAccount)
	}

	if !signedTx.Verify(sender.PublicKey) {
		return fmt.Errorf("tx[%s]: %w", signedTx, ErrSignatureInvalid)
	}

	if s.rejectReplays {
		if err := s.accounts.ValidateNonce(signedTx); err != nil {
			return fmt.Errorf("tx[%s]: %s: %w", signedTx, err, ErrReplayedNonce)
		}
	}

	return nil
}
