// Package mempool maintains the transaction queues for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Mempool represents a queue of transactions kept in arrival order. The same
// transaction can be added more than once.
type Mempool struct {
	pool []database.SignedTx
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transaction in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the end of the pool and returns the new
// number of transactions.
func (mp *Mempool) Add(tx database.SignedTx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in arrival order.
func (mp *Mempool) Copy() []database.SignedTx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	cpy := make([]database.SignedTx, len(mp.pool))
	copy(cpy, mp.pool)
	return cpy
}

// Contains reports the number of times the sender and nonce of the
// specified transaction appear in the pool.
func (mp *Mempool) Contains(tx database.SignedTx) int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	var count int
	for _, ptx := range mp.pool {
		if ptx.Message.Sender == tx.Message.Sender && ptx.Message.Nonce == tx.Message.Nonce {
			count++
		}
	}
	return count
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
