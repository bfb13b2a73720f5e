// Package database handles all the lower level support for maintaining the
// blockchain: transactions, blocks and the proof of work, the validation
// passes over a chain and access to block storage.
package database

import (
	"errors"
	"fmt"
	"sync"
)

// Storage interface represents the behavior required to be implemented by any
// package providing support for reading and writing the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by any
// package providing support to iterate over the blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// DatabaseIterator walks the chain returning database blocks.
type DatabaseIterator struct {
	iterator Iterator
}

// Next retrieves the next block from storage.
func (di *DatabaseIterator) Next() (Block, error) {
	blockData, err := di.iterator.Next()
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData), nil
}

// Done returns the end of chain value.
func (di *DatabaseIterator) Done() bool {
	return di.iterator.Done()
}

// =============================================================================

// Database manages the chain of blocks held by the storage.
type Database struct {
	mu          sync.RWMutex
	storage     Storage
	latestBlock Block
	height      uint64
}

// New constructs a database over the specified storage. If the storage is
// empty the genesis block is written with the specified seed.
func New(storage Storage, seed string, evHandler func(v string, args ...any)) (*Database, error) {
	ev := safe(evHandler)

	db := Database{
		storage: storage,
	}

	var count uint64
	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		db.latestBlock = block
		count++
	}

	switch count {
	case 0:
		genesis := Genesis(seed)
		if err := storage.Write(NewBlockData(genesis)); err != nil {
			return nil, fmt.Errorf("writing genesis: %w", err)
		}

		ev("database: New: genesis written: blk[%s]", genesis.Hash)

		db.latestBlock = genesis
		db.height = 1

	default:
		ev("database: New: loaded %d blocks from storage", count)
		db.height = count
	}

	return &db, nil
}

// Close closes the storage.
func (db *Database) Close() error {
	return db.storage.Close()
}

// Write adds a new block to the chain. The block must be the next block.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if block.Header.Number != db.height {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Header.Number, db.height)
	}

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return err
	}

	db.latestBlock = block
	db.height++

	return nil
}

// LatestBlock returns the latest block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Height returns the number of blocks in the chain including genesis.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.height
}

// GetBlock searches the blockchain to locate and return the contents of the
// specified block by number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	blockData, err := db.storage.GetBlock(num)
	if err != nil {
		return Block{}, err
	}

	return ToBlock(blockData), nil
}

// ForEach returns an iterator to walk through all the blocks starting with
// the genesis block.
func (db *Database) ForEach() DatabaseIterator {
	return DatabaseIterator{iterator: db.storage.ForEach()}
}

// Blocks reads every block in the chain in order.
func (db *Database) Blocks() ([]Block, error) {
	var blocks []Block

	iter := db.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, block)
	}

	if len(blocks) == 0 {
		return nil, errors.New("chain has no genesis block")
	}

	return blocks, nil
}
