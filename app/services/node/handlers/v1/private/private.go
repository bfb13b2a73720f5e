// Package private maintains the group of handlers for node to node and
// operator access.
package private

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// registration is what an operator provides to register an account.
type registration struct {
	ID        string `json:"id" validate:"required,accountid"`
	PublicKey string `json:"public_key" validate:"required"`
	Balance   *int64 `json:"balance" validate:"omitempty,gte=0"`
}

// RegisterAccount adds an account with its public key and starting balance.
// The genesis balance is used when no balance is provided.
func (h Handlers) RegisterAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var reg registration
	if err := web.Decode(r, &reg); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(reg); err != nil {
		return err
	}

	publicKey, err := signature.ParsePublicKey([]byte(reg.PublicKey))
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("public key: %w", err), http.StatusBadRequest)
	}

	balance := h.State.RetrieveGenesis().Balance
	if reg.Balance != nil {
		balance = *reg.Balance
	}

	account := state.Registration{
		AccountID:    database.AccountID(reg.ID),
		Key:          publicKey,
		StartBalance: balance,
	}

	h.Log.Infow("register account", "traceid", web.GetTraceID(ctx), "account", account.AccountID, "balance", balance)

	if err := h.State.AddAccount(account); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Account database.AccountID `json:"account"`
		Balance int64              `json:"balance"`
	}{
		Account: account.AccountID,
		Balance: balance,
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// CreateBlock settles the pending transactions and mines them into a new
// block. The request is cancelled if the client goes away.
func (h Handlers) CreateBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.CreateBlock(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return errs.NewTrusted(fmt.Errorf("mining cancelled: %w", err), http.StatusServiceUnavailable)
		}
		return fmt.Errorf("create block: %w", err)
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// BlocksByNumber returns all the blocks based on the specified to/from values.
func (h Handlers) BlocksByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	fromStr := web.Param(r, "from")
	if fromStr == "latest" || fromStr == "" {
		fromStr = fmt.Sprintf("%d", state.QueryLatest)
	}

	toStr := web.Param(r, "to")
	if toStr == "latest" || toStr == "" {
		toStr = fmt.Sprintf("%d", state.QueryLatest)
	}

	from, err := strconv.ParseUint(fromStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
	to, err := strconv.ParseUint(toStr, 10, 64)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.QueryBlocksByNumber(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blockData := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		blockData[i] = database.NewBlockData(block)
	}

	return web.Respond(ctx, w, blockData, http.StatusOK)
}
