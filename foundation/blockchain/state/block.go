package state

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// CreateBlock settles every pending transaction in arrival order, mines a
// new block from the transactions the senders could pay for and appends it
// to the chain. Transactions a sender can't cover are moved to the rejected
// queue. If mining fails or is cancelled, balances and queues are left as
// they were.
func (s *State) CreateBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending.Copy()

	s.evHandler("state: CreateBlock: settle: pending[%d]", len(pending))

	// Settle against a copy of the accounts so nothing changes unless the
	// block makes it into the chain.
	accts := s.accounts.Clone()

	checked := make([]database.SignedTx, 0, len(pending))
	var rejected []database.SignedTx

	for _, tx := range pending {
		if err := accts.ApplyTransaction(tx); err != nil {
			s.evHandler("state: CreateBlock: settle: tx[%s]: REJECTED: %s", tx, err)
			rejected = append(rejected, tx)
			continue
		}

		s.evHandler("state: CreateBlock: settle: tx[%s]: balance checked", tx)
		checked = append(checked, tx)
	}

	s.evHandler("state: CreateBlock: MINING: perform POW: trans[%d]", len(checked))

	// Attempt to create a new block by solving the POW puzzle. This can be cancelled.
	block, err := database.POW(ctx, database.POWArgs{
		PrevBlock:  s.db.LatestBlock(),
		HashTarget: s.hashTarget,
		Trans:      checked,
		Workers:    s.miningWorkers,
		EvHandler:  s.evHandler,
	})
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: CreateBlock: write block and commit balances")

	if err := s.db.Write(block); err != nil {
		return database.Block{}, err
	}

	s.accounts.Replace(accts)
	for _, tx := range rejected {
		s.rejected.Add(tx)
	}
	s.pending.Truncate()

	// Send an event about this new block.
	s.blockEvent(block)

	return block, nil
}

// =============================================================================

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: %s`, string(blockJSON))
}
