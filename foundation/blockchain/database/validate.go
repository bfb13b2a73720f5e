package database

import (
	"errors"
	"fmt"
)

// Set of names for the chain validation passes.
const (
	PassHashLinkage = "hash linkage"
	PassHashTarget  = "hash target"
	PassBalances    = "balance conservation"
)

// ChainError is returned when a validation pass finds the chain has lost
// its integrity. It identifies the pass and the failing block.
type ChainError struct {
	Pass  string
	Index uint64
	Err   error
}

// Error implements the error interface.
func (ce *ChainError) Error() string {
	return fmt.Sprintf("chain integrity: %s: block[%d]: %s", ce.Pass, ce.Index, ce.Err)
}

// Unwrap provides access to the underlying error.
func (ce *ChainError) Unwrap() error {
	return ce.Err
}

// GetChainError returns the ChainError in the error chain if one exists.
func GetChainError(err error) *ChainError {
	var ce *ChainError
	if !errors.As(err, &ce) {
		return nil
	}
	return ce
}

// =============================================================================

// ValidateHashLinkage checks every non-genesis block carries the hash of
// its parent and the next block number.
func ValidateHashLinkage(blocks []Block, evHandler func(v string, args ...any)) error {
	ev := safe(evHandler)

	for i := 1; i < len(blocks); i++ {
		ev("database: ValidateHashLinkage: blk[%d]: check: block number is the next number", i)

		prev := blocks[i-1]
		blk := blocks[i]

		if blk.Header.Number != prev.Header.Number+1 {
			return &ChainError{
				Pass:  PassHashLinkage,
				Index: uint64(i),
				Err:   fmt.Errorf("this block is not the next number, got %d, exp %d", blk.Header.Number, prev.Header.Number+1),
			}
		}

		ev("database: ValidateHashLinkage: blk[%d]: check: parent hash does match parent block", i)

		if exp := prev.ComputeHash(); blk.Header.PrevBlockHash != exp {
			return &ChainError{
				Pass:  PassHashLinkage,
				Index: uint64(i),
				Err:   fmt.Errorf("previous block hash mismatch, got %s, exp %s", blk.Header.PrevBlockHash, exp),
			}
		}
	}

	return nil
}

// ValidateHashTargets checks every non-genesis block hash satisfies the
// block's hash target and that the stored hash is the actual hash.
func ValidateHashTargets(blocks []Block, evHandler func(v string, args ...any)) error {
	ev := safe(evHandler)

	for i := 1; i < len(blocks); i++ {
		ev("database: ValidateHashTargets: blk[%d]: check: block hash has been solved", i)

		blk := blocks[i]
		hash := blk.ComputeHash()

		if !isHashSolved(blk.Header.HashTarget, hash) {
			return &ChainError{
				Pass:  PassHashTarget,
				Index: uint64(i),
				Err:   fmt.Errorf("hash target not achieved, hash %s, target %s", hash, blk.Header.HashTarget),
			}
		}

		ev("database: ValidateHashTargets: blk[%d]: check: stored hash matches block", i)

		if hash != blk.Hash {
			return &ChainError{
				Pass:  PassHashTarget,
				Index: uint64(i),
				Err:   fmt.Errorf("stored block hash mismatch, got %s, exp %s", blk.Hash, hash),
			}
		}
	}

	return nil
}

// ValidateBalances replays every transaction in every non-genesis block
// against a copy of the specified starting balances. No sender may ever
// spend more than it holds. The specified map is not modified.
func ValidateBalances(blocks []Block, initial map[AccountID]int64, evHandler func(v string, args ...any)) error {
	ev := safe(evHandler)

	balances := make(map[AccountID]int64, len(initial))
	for id, balance := range initial {
		balances[id] = balance
	}

	for i := 1; i < len(blocks); i++ {
		ev("database: ValidateBalances: blk[%d]: check: replay %d transactions", i, len(blocks[i].Trans))

		for _, tx := range blocks[i].Trans {
			from, exists := balances[tx.Message.Sender]
			if !exists {
				return &ChainError{
					Pass:  PassBalances,
					Index: uint64(i),
					Err:   fmt.Errorf("tx[%s]: unknown sender %s", tx, tx.Message.Sender),
				}
			}

			if _, exists := balances[tx.Message.Receiver]; !exists {
				return &ChainError{
					Pass:  PassBalances,
					Index: uint64(i),
					Err:   fmt.Errorf("tx[%s]: unknown receiver %s", tx, tx.Message.Receiver),
				}
			}

			if !SufficientFunds(from, tx.Message.Value) {
				return &ChainError{
					Pass:  PassBalances,
					Index: uint64(i),
					Err:   fmt.Errorf("tx[%s]: insufficient funds, bal %d, needed %d", tx, from, tx.Message.Value),
				}
			}

			balances[tx.Message.Sender] -= int64(tx.Message.Value)
			balances[tx.Message.Receiver] += int64(tx.Message.Value)
		}
	}

	return nil
}

// =============================================================================

// safe returns an event handler that can always be called.
func safe(evHandler func(v string, args ...any)) func(v string, args ...any) {
	if evHandler == nil {
		return func(string, ...any) {}
	}
	return evHandler
}
