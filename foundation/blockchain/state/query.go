package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = ^uint64(0) >> 1

// =============================================================================

// QueryAccount returns a copy of the account information.
func (s *State) QueryAccount(accountID database.AccountID) (accounts.Info, error) {
	return s.accounts.Query(accountID)
}

// QueryPendingLength returns the current number of pending transactions.
func (s *State) QueryPendingLength() int {
	return s.pending.Count()
}

// QueryBlocksByNumber returns the set of blocks based on block numbers.
func (s *State) QueryBlocksByNumber(from uint64, to uint64) []database.Block {
	if from == QueryLatest {
		from = s.db.LatestBlock().Header.Number
		to = from
	}
	if to == QueryLatest {
		to = s.db.LatestBlock().Header.Number
	}

	var out []database.Block
	for i := from; i <= to; i++ {
		block, err := s.db.GetBlock(i)
		if err != nil {
			s.evHandler("state: getblock: ERROR: %s", err)
			return out
		}
		out = append(out, block)
	}

	return out
}

// QueryBlocksByAccount returns the set of blocks with a transaction sent or
// received by the account. If the account is empty, all blocks are returned.
func (s *State) QueryBlocksByAccount(accountID database.AccountID) ([]database.Block, error) {
	var out []database.Block

	iter := s.db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if accountID == "" {
			out = append(out, block)
			continue
		}

		for _, tx := range block.Trans {
			if tx.Message.Sender == accountID || tx.Message.Receiver == accountID {
				out = append(out, block)
				break
			}
		}
	}

	return out, nil
}
