package database

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/atomic"
)

// ErrSearchExhausted is returned from POW if every nonce was tried without
// satisfying the hash target.
var ErrSearchExhausted = errors.New("nonce search space exhausted")

// =============================================================================

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64      `json:"number"`          // Position of the block in the chain, 0 is genesis.
	PrevBlockHash common.Hash `json:"prev_block_hash"` // Hash of the previous block, zero for genesis.
	HashTarget    common.Hash `json:"hash_target"`     // The block hash must be numerically less than this.
	Nonce         uint64      `json:"nonce"`           // Value identified to solve the hash solution.
	Seed          string      `json:"seed,omitempty"`  // Arbitrary text carried only by the genesis block.
}

// Block represents a group of transactions batched together. A block is
// never changed once the proof of work has been performed.
type Block struct {
	Header BlockHeader
	Trans  []SignedTx
	Hash   common.Hash
}

// hashFields is the value that is hashed to produce the block hash.
type hashFields struct {
	BlockHeader
	Trans []SignedTx `json:"trans"`
}

// Genesis constructs the first block of the chain. No work is performed so
// the genesis block is exempt from the hash target.
func Genesis(seed string) Block {
	b := Block{
		Header: BlockHeader{
			Seed: seed,
		},
		Trans: []SignedTx{},
	}
	b.Hash = b.ComputeHash()

	return b
}

// POWArgs represents the set of arguments required to run POW.
type POWArgs struct {
	PrevBlock  Block
	HashTarget common.Hash
	Trans      []SignedTx
	Workers    int
	EvHandler  func(v string, args ...any)
}

// POW constructs a new Block and performs the work to find a nonce that
// solves the cryptographic POW puzzle. The lowest nonce that solves the
// puzzle is always the one chosen, independent of the number of workers.
func POW(ctx context.Context, args POWArgs) (Block, error) {
	ev := safe(args.EvHandler)

	trans := make([]SignedTx, len(args.Trans))
	copy(trans, args.Trans)

	nb := Block{
		Header: BlockHeader{
			Number:        args.PrevBlock.Header.Number + 1,
			PrevBlockHash: args.PrevBlock.ComputeHash(),
			HashTarget:    args.HashTarget,
			Nonce:         0, // Will be identified by the POW algorithm.
		},
		Trans: trans,
	}

	if err := nb.performPOW(ctx, args.Workers, ev); err != nil {
		return Block{}, err
	}

	return nb, nil
}

// performPOW does the work of mining to find a valid hash for a specified
// block. Pointer semantics are being used since a nonce is being discovered.
// Each worker walks its own stride of nonces in ascending order and stops
// once it passes the best nonce found so far.
func (b *Block) performPOW(ctx context.Context, workers int, ev func(v string, args ...any)) error {
	ev("database: PerformPOW: MINING: started: blk[%d]: workers[%d]", b.Header.Number, workers)
	defer ev("database: PerformPOW: MINING: completed: blk[%d]", b.Header.Number)

	for _, tx := range b.Trans {
		ev("database: PerformPOW: MINING: tx[%s]", tx)
	}

	if workers < 1 {
		workers = 1
	}
	stride := uint64(workers)

	best := atomic.NewUint64(math.MaxUint64)
	attempts := atomic.NewUint64(0)

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := range workers {
		go func(start uint64) {
			defer wg.Done()

			candidate := *b
			for nonce := start; nonce < best.Load(); nonce += stride {
				if ctx.Err() != nil {
					return
				}

				if n := attempts.Inc(); n%1_000_000 == 0 {
					ev("database: PerformPOW: MINING: attempts[%d]", n)
				}

				candidate.Header.Nonce = nonce
				if !isHashSolved(candidate.Header.HashTarget, candidate.ComputeHash()) {
					if nonce > math.MaxUint64-stride {
						return
					}
					continue
				}

				for {
					cur := best.Load()
					if nonce >= cur || best.CompareAndSwap(cur, nonce) {
						break
					}
				}
				return
			}
		}(uint64(w))
	}

	wg.Wait()

	if ctx.Err() != nil {
		ev("database: PerformPOW: MINING: CANCELLED")
		return ctx.Err()
	}

	nonce := best.Load()
	if nonce == math.MaxUint64 {
		return ErrSearchExhausted
	}

	b.Header.Nonce = nonce
	b.Hash = b.ComputeHash()

	ev("database: PerformPOW: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: nonce[%d]", b.Header.PrevBlockHash, b.Hash, nonce)
	ev("database: PerformPOW: MINING: attempts[%d]", attempts.Load())

	return nil
}

// ComputeHash recomputes the hash of the block from its current fields. The
// stored Hash field is not an input.
func (b Block) ComputeHash() common.Hash {
	trans := b.Trans
	if trans == nil {
		trans = []SignedTx{}
	}

	return signature.Hash(hashFields{BlockHeader: b.Header, Trans: trans})
}

// =============================================================================

// BlockData represents what can be serialized to storage and over the network.
type BlockData struct {
	Hash   common.Hash `json:"hash"`
	Header BlockHeader `json:"block"`
	Trans  []SignedTx  `json:"trans"`
}

// NewBlockData constructs block data from a block.
func NewBlockData(block Block) BlockData {
	trans := make([]SignedTx, len(block.Trans))
	copy(trans, block.Trans)

	blockData := BlockData{
		Hash:   block.Hash,
		Header: block.Header,
		Trans:  trans,
	}

	return blockData
}

// ToBlock converts a storage block into a database block.
func ToBlock(blockData BlockData) Block {
	trans := make([]SignedTx, len(blockData.Trans))
	copy(trans, blockData.Trans)

	block := Block{
		Header: blockData.Header,
		Trans:  trans,
		Hash:   blockData.Hash,
	}

	return block
}
