// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ethereum/go-ethereum/common"
)

// Set of errors returned when a transaction is not accepted.
var (
	ErrSignatureInvalid = errors.New("signature does not verify")
	ErrUnknownAccount   = accounts.ErrUnknownAccount
	ErrReplayedNonce    = errors.New("nonce already used")
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining in the background.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// Account interface represents the behavior required of an account that is
// registered with the ledger. The ledger takes the starting balance at
// registration and owns the balance from then on.
type Account interface {
	ID() database.AccountID
	PublicKey() *rsa.PublicKey
	Balance() int64
}

// =============================================================================

// Config represents the configuration required to start the blockchain.
type Config struct {
	Genesis       genesis.Genesis
	Storage       database.Storage
	MiningWorkers int
	RejectReplays bool // Reject a transaction whose nonce is not above the sender's last accepted nonce.
	EvHandler     EventHandler
}

// State manages the blockchain database.
type State struct {
	mu sync.Mutex

	genesis       genesis.Genesis
	hashTarget    common.Hash
	miningWorkers int
	rejectReplays bool
	evHandler     EventHandler

	db       *database.Database
	accounts *accounts.Accounts
	pending  *mempool.Mempool
	rejected *mempool.Mempool

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	hashTarget, err := database.ParseTarget(cfg.Genesis.HashTarget)
	if err != nil {
		return nil, fmt.Errorf("parsing hash target: %w", err)
	}

	// Access the storage for the blockchain. The genesis block is written
	// when the storage is empty.
	db, err := database.New(cfg.Storage, cfg.Genesis.Seed, ev)
	if err != nil {
		return nil, err
	}

	miningWorkers := cfg.MiningWorkers
	if miningWorkers < 1 {
		miningWorkers = 1
	}

	state := State{
		genesis:       cfg.Genesis,
		hashTarget:    hashTarget,
		miningWorkers: miningWorkers,
		rejectReplays: cfg.RejectReplays,
		evHandler:     ev,

		db:       db,
		accounts: accounts.New(),
		pending:  mempool.New(),
		rejected: mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return s.db.Close()
}
