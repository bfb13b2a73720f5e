// This program runs a scripted set of transactions through the ledger
// and reports the chain, the balances and the validation result.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/logger"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {
	log, err := logger.New("DEMO")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log); err != nil {
		log.Errorw("demo", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

// transfer is one transaction of the script.
type transfer struct {
	from  string
	to    string
	value uint64
}

// rounds are the transactions submitted before each block is created. The
// last round is left pending.
var rounds = [][]transfer{
	{{"alice", "bob", 20}, {"bob", "carol", 30}, {"carol", "alice", 50}},
	{{"alice", "dave", 20}, {"dave", "carol", 35}, {"bob", "alice", 100}},
	{{"alice", "dave", 20}, {"dave", "bob", 335}},
	{{"alice", "dave", 20}, {"dave", "carol", 35}},
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	cfg := struct {
		conf.Version
		Demo struct {
			HashTarget    string        `conf:"default:000fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"`
			MiningWorkers int           `conf:"default:4"`
			MiningTimeout time.Duration `conf:"default:5m"`
			KeyBits       int           `conf:"default:2048"`
			Accounts      []string      `conf:"default:alice;bob;carol;dave"`
			Balance       int64         `conf:"default:100"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "scripted ledger scenario",
		},
	}

	const prefix = "DEMO"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Ledger

	ev := func(v string, args ...any) {
		log.Infow(fmt.Sprintf(v, args...), "traceid", "00000000-0000-0000-0000-000000000000")
	}

	gen := genesis.Default()
	gen.HashTarget = cfg.Demo.HashTarget
	gen.Balance = cfg.Demo.Balance

	st, err := state.New(state.Config{
		Genesis:       gen,
		Storage:       memory.New(),
		MiningWorkers: cfg.Demo.MiningWorkers,
		EvHandler:     ev,
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	wallets := make(map[string]*wallet.Wallet)
	for _, name := range cfg.Demo.Accounts {
		w, err := wallet.NewWithKeySize(name, gen.Balance, cfg.Demo.KeyBits)
		if err != nil {
			return fmt.Errorf("creating wallet %s: %w", name, err)
		}

		if err := st.AddAccount(w); err != nil {
			return fmt.Errorf("registering %s: %w", name, err)
		}
		wallets[name] = w
	}

	// =========================================================================
	// Scenario

	for i, round := range rounds {
		for _, tr := range round {
			w, exists := wallets[tr.from]
			if !exists {
				return fmt.Errorf("round %d: no wallet for %s", i, tr.from)
			}

			tx, err := w.CreateTransaction(database.AccountID(tr.to), tr.value, "")
			if err != nil {
				return fmt.Errorf("round %d: signing: %w", i, err)
			}

			if err := st.AddTransaction(tx); err != nil {
				return fmt.Errorf("round %d: submitting %s: %w", i, tx, err)
			}
		}

		// The last round stays in the pending queue.
		if i == len(rounds)-1 {
			break
		}

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Demo.MiningTimeout)
		block, err := st.CreateBlock(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("round %d: creating block: %w", i, err)
		}

		log.Infow("demo", "status", "block created", "number", block.Header.Number, "trans", len(block.Trans), "hash", block.Hash)
	}

	// =========================================================================
	// Report

	fmt.Println(st)

	fmt.Println("Individual account balances after block creation")
	for _, b := range st.AccountBalances() {
		fmt.Printf("  %s: %d\n", b.AccountID, b.Balance)
	}

	if err := st.ValidateChain(); err != nil {
		fmt.Println("\nValidation failed:", err)
		return nil
	}
	fmt.Println("\nValidation successful")

	return nil
}
