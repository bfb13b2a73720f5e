package database_test

import (
	"context"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ethereum/go-ethereum/common"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// easyTarget is solved by roughly one in sixteen hashes.
const easyTarget = "0fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"

const seed = "The Times 03/Jan/2009 Chancellor on brink of second bailout for banks"

// =============================================================================

func Test_ParseTarget(t *testing.T) {
	type table struct {
		name   string
		target string
		valid  bool
	}

	tt := []table{
		{name: "full", target: easyTarget, valid: true},
		{name: "prefixed", target: "0x" + easyTarget, valid: true},
		{name: "short", target: "fff", valid: true},
		{name: "zero", target: "0000", valid: false},
		{name: "empty", target: "", valid: false},
		{name: "nothex", target: "zz", valid: false},
		{name: "toolong", target: easyTarget + "00", valid: false},
	}

	t.Log("Given the need to parse hash targets.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s target.", testID, tst.name)
			{
				_, err := database.ParseTarget(tst.target)
				if (err == nil) != tst.valid {
					t.Fatalf("\t%s\tTest %d:\tShould get valid=%t, got err %v.", failed, testID, tst.valid, err)
				}
				t.Logf("\t%s\tTest %d:\tShould get valid=%t.", success, testID, tst.valid)
			}
		}
	}

	h, err := database.ParseTarget("fff")
	if err != nil || h != common.HexToHash("0x0fff") {
		t.Fatalf("Should left pad short targets: %s %v", h, err)
	}
}

func Test_POW(t *testing.T) {
	t.Log("Given the need to mine blocks.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen mining a block with transactions.", testID)
		{
			target, err := database.ParseTarget(easyTarget)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to parse the target: %v", failed, testID, err)
			}

			pk := newKey(t)
			trans := []database.SignedTx{
				sign(t, pk, database.Tx{Sender: "alice", Receiver: "bob", Value: 20, Nonce: 1}),
				sign(t, pk, database.Tx{Sender: "alice", Receiver: "carol", Value: 5, Nonce: 2}),
			}

			genesis := database.Genesis(seed)

			args := database.POWArgs{
				PrevBlock:  genesis,
				HashTarget: target,
				Trans:      trans,
				Workers:    1,
			}

			blk1, err := database.POW(context.Background(), args)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine a block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to mine a block.", success, testID)

			if blk1.ComputeHash() != blk1.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould recompute the stored hash.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould recompute the stored hash.", success, testID)

			if blk1.Header.Number != 1 || blk1.Header.PrevBlockHash != genesis.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould link to the genesis block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould link to the genesis block.", success, testID)

			if err := database.ValidateHashTargets([]database.Block{genesis, blk1}, nil); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould satisfy the hash target: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould satisfy the hash target.", success, testID)

			for nonce := range blk1.Header.Nonce {
				candidate := blk1
				candidate.Header.Nonce = nonce
				candidate.Hash = candidate.ComputeHash()
				if database.ValidateHashTargets([]database.Block{genesis, candidate}, nil) == nil {
					t.Fatalf("\t%s\tTest %d:\tShould pick the lowest nonce, %d also solves.", failed, testID, nonce)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould pick the lowest nonce: %d.", success, testID, blk1.Header.Nonce)

			args.Workers = 4
			blk4, err := database.POW(context.Background(), args)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to mine with workers: %v", failed, testID, err)
			}

			if blk4.Header.Nonce != blk1.Header.Nonce || blk4.Hash != blk1.Hash {
				t.Logf("\t%s\tTest %d:\tgot: %d", failed, testID, blk4.Header.Nonce)
				t.Logf("\t%s\tTest %d:\texp: %d", failed, testID, blk1.Header.Nonce)
				t.Fatalf("\t%s\tTest %d:\tShould get the same block with workers.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould get the same block with workers.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen mining is cancelled.", testID)
		{
			target, err := database.ParseTarget("01")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to parse the target: %v", failed, testID, err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()

			args := database.POWArgs{
				PrevBlock:  database.Genesis(seed),
				HashTarget: target,
				Workers:    2,
			}

			if _, err := database.POW(ctx, args); !errors.Is(err, context.DeadlineExceeded) {
				t.Fatalf("\t%s\tTest %d:\tShould get back the context error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould get back the context error.", success, testID)
		}
	}
}

func Test_ValidateChain(t *testing.T) {
	target, err := database.ParseTarget(easyTarget)
	if err != nil {
		t.Fatalf("Should be able to parse the target: %v", err)
	}

	pk := newKey(t)
	genesis := database.Genesis(seed)

	blk1 := mine(t, genesis, target, sign(t, pk, database.Tx{Sender: "alice", Receiver: "bob", Value: 60, Nonce: 1}))
	blk2 := mine(t, blk1, target, sign(t, pk, database.Tx{Sender: "bob", Receiver: "carol", Value: 150, Nonce: 1}))

	initial := map[database.AccountID]int64{"alice": 100, "bob": 100, "carol": 100}

	type table struct {
		name     string
		blocks   func() []database.Block
		pass     string
		index    uint64
		balances map[database.AccountID]int64
	}

	tt := []table{
		{
			name:   "valid",
			blocks: func() []database.Block { return []database.Block{genesis, blk1, blk2} },
		},
		{
			name: "relinked",
			blocks: func() []database.Block {
				b := blk2
				b.Header.PrevBlockHash = genesis.Hash
				return []database.Block{genesis, blk1, b}
			},
			pass:  database.PassHashLinkage,
			index: 2,
		},
		{
			name: "tampered",
			blocks: func() []database.Block {
				b := blk1
				b.Trans = []database.SignedTx{sign(t, pk, database.Tx{Sender: "alice", Receiver: "bob", Value: 90, Nonce: 1})}
				return []database.Block{genesis, b}
			},
			pass:  database.PassHashTarget,
			index: 1,
		},
		{
			name: "storedhash",
			blocks: func() []database.Block {
				b := blk1
				b.Hash = common.Hash{}
				return []database.Block{genesis, b}
			},
			pass:  database.PassHashTarget,
			index: 1,
		},
		{
			name:     "overspent",
			blocks:   func() []database.Block { return []database.Block{genesis, blk1, blk2} },
			balances: map[database.AccountID]int64{"alice": 100, "bob": 50, "carol": 100},
			pass:     database.PassBalances,
			index:    2,
		},
		{
			name:     "unknown",
			blocks:   func() []database.Block { return []database.Block{genesis, blk1} },
			balances: map[database.AccountID]int64{"alice": 100},
			pass:     database.PassBalances,
			index:    1,
		},
	}

	t.Log("Given the need to validate a chain of blocks.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s chain.", testID, tst.name)
			{
				f := func(t *testing.T) {
					balances := initial
					if tst.balances != nil {
						balances = tst.balances
					}

					blocks := tst.blocks()
					err := database.ValidateHashLinkage(blocks, nil)
					if err == nil {
						err = database.ValidateHashTargets(blocks, nil)
					}
					if err == nil {
						err = database.ValidateBalances(blocks, balances, nil)
					}

					if tst.pass == "" {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould validate the chain: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould validate the chain.", success, testID)
						return
					}

					ce := database.GetChainError(err)
					if ce == nil {
						t.Fatalf("\t%s\tTest %d:\tShould get a chain error, got %v.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get a chain error: %s", success, testID, ce)

					if ce.Pass != tst.pass || ce.Index != tst.index {
						t.Logf("\t%s\tTest %d:\tgot: %s[%d]", failed, testID, ce.Pass, ce.Index)
						t.Logf("\t%s\tTest %d:\texp: %s[%d]", failed, testID, tst.pass, tst.index)
						t.Fatalf("\t%s\tTest %d:\tShould identify the failing pass and block.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould identify the failing pass and block.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}

	if initial["alice"] != 100 || initial["bob"] != 100 {
		t.Fatalf("Should not modify the starting balances: %v", initial)
	}
}

func Test_Database(t *testing.T) {
	t.Log("Given the need to manage a chain in storage.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen opening empty storage.", testID)
		{
			strg := memory.New()

			db, err := database.New(strg, seed, nil)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to open the database: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to open the database.", success, testID)

			if db.Height() != 1 || db.LatestBlock().Header.Seed != seed {
				t.Fatalf("\t%s\tTest %d:\tShould have written the genesis block.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould have written the genesis block.", success, testID)

			target, _ := database.ParseTarget(easyTarget)
			blk := mine(t, db.LatestBlock(), target)

			if err := db.Write(blk); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to write the next block: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to write the next block.", success, testID)

			if err := db.Write(blk); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not be able to write a block twice.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould not be able to write a block twice.", success, testID)

			blocks, err := db.Blocks()
			if err != nil || len(blocks) != 2 || blocks[1].Hash != blk.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould read back both blocks: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould read back both blocks.", success, testID)

			db2, err := database.New(strg, "ignored", nil)
			if err != nil || db2.Height() != 2 || db2.LatestBlock().Hash != blk.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould reload the chain from storage: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould reload the chain from storage.", success, testID)
		}
	}
}

// =============================================================================

func newKey(t *testing.T) *rsa.PrivateKey {
	pk, err := signature.GenerateKey(1024)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}
	return pk
}

func sign(t *testing.T, pk *rsa.PrivateKey, tx database.Tx) database.SignedTx {
	signedTx, err := tx.Sign(pk)
	if err != nil {
		t.Fatalf("Should be able to sign transaction: %s", err)
	}
	return signedTx
}

func mine(t *testing.T, prev database.Block, target common.Hash, trans ...database.SignedTx) database.Block {
	args := database.POWArgs{
		PrevBlock:  prev,
		HashTarget: target,
		Trans:      trans,
	}

	blk, err := database.POW(context.Background(), args)
	if err != nil {
		t.Fatalf("Should be able to mine a block: %s", err)
	}
	return blk
}
