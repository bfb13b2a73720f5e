package state

import (
	"fmt"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveBlocks returns every block in the chain starting with genesis.
func (s *State) RetrieveBlocks() ([]database.Block, error) {
	return s.db.Blocks()
}

// RetrievePending returns a copy of the transactions waiting for the next
// block in arrival order.
func (s *State) RetrievePending() []database.SignedTx {
	return s.pending.Copy()
}

// RetrieveRejected returns a copy of the transactions that were rejected
// for an insufficient balance.
func (s *State) RetrieveRejected() []database.SignedTx {
	return s.rejected.Copy()
}

// RetrieveAccounts returns a copy of all the account information in
// registration order.
func (s *State) RetrieveAccounts() []accounts.Info {
	return s.accounts.Copy()
}

// AccountBalances returns the current balances in registration order.
func (s *State) AccountBalances() []database.Balance {
	return s.accounts.Balances()
}

// InitialAccountBalances returns the balances each account was registered
// with in registration order.
func (s *State) InitialAccountBalances() []database.Balance {
	return s.accounts.InitialBalances()
}

// String implements the fmt.Stringer interface and summarizes the chain and
// the transaction queues.
func (s *State) String() string {
	var b strings.Builder

	b.WriteString("Chain:\n")

	blocks, err := s.db.Blocks()
	if err != nil {
		fmt.Fprintf(&b, "  ERROR: %s\n", err)
	}

	for _, block := range blocks {
		fmt.Fprintf(&b, "  blk[%d]: hash[%s]: prev[%s]: nonce[%d]: trans%v\n",
			block.Header.Number, block.Hash, block.Header.PrevBlockHash, block.Header.Nonce, block.Trans)
	}

	fmt.Fprintf(&b, "\nPending Transactions: %v\n", s.pending.Copy())
	fmt.Fprintf(&b, "Insufficient Balance Transactions: %v\n", s.rejected.Copy())

	return b.String()
}
