// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Acquire()
	defer h.Evts.Release(id)

	h.Log.Infow("events", "traceid", web.GetTraceID(ctx), "subscriber", id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransaction adds a signed wallet transaction to the pending queue.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var ntx newTx
	if err := web.Decode(r, &ntx); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(ntx); err != nil {
		return err
	}

	signedTx := toSignedTx(ntx)

	h.Log.Infow("add tran", "traceid", web.GetTraceID(ctx), "sender:nonce", signedTx, "receiver", signedTx.Message.Receiver, "value", signedTx.Message.Value)

	if err := h.State.AddTransaction(signedTx); err != nil {
		switch {
		case errors.Is(err, state.ErrUnknownAccount),
			errors.Is(err, state.ErrSignatureInvalid),
			errors.Is(err, state.ErrReplayedNonce):
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		return fmt.Errorf("add transaction: %w", err)
	}

	resp := struct {
		Status  string `json:"status"`
		Pending int    `json:"pending"`
	}{
		Status:  "transaction added to pending",
		Pending: h.State.QueryPendingLength(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Pending returns the set of transactions waiting for the next block.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.State.RetrievePending()), http.StatusOK)
}

// Rejected returns the set of transactions rejected for an insufficient
// balance when a block was created.
func (h Handlers) Rejected(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toTxs(h.State.RetrieveRejected()), http.StatusOK)
}

// Accounts returns the current balances for all accounts or the one
// account named in the path.
func (h Handlers) Accounts(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	acts := make([]info, 0)

	switch accountID := web.Param(r, "account"); accountID {
	case "":
		for _, acct := range h.State.RetrieveAccounts() {
			acts = append(acts, toInfo(acct))
		}

	default:
		id, err := database.ToAccountID(accountID)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}

		acct, err := h.State.QueryAccount(id)
		if err != nil {
			if errors.Is(err, accounts.ErrUnknownAccount) {
				return errs.NewTrusted(err, http.StatusNotFound)
			}
			return err
		}
		acts = append(acts, toInfo(acct))
	}

	ai := actInfo{
		LatestBlock: h.State.RetrieveLatestBlock().Hash.Hex(),
		Pending:     h.State.QueryPendingLength(),
		Accounts:    acts,
	}

	return web.Respond(ctx, w, ai, http.StatusOK)
}

// BlocksByAccount returns all the blocks and their details, or only the
// blocks carrying a transaction for the account named in the path.
func (h Handlers) BlocksByAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var accountID database.AccountID
	if param := web.Param(r, "account"); param != "" {
		id, err := database.ToAccountID(param)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		accountID = id
	}

	dbBlocks, err := h.State.QueryBlocksByAccount(accountID)
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, toBlocks(dbBlocks), http.StatusOK)
}

// ValidateChain replays the chain and reports whether it kept its integrity.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := int(h.State.RetrieveLatestBlock().Header.Number) + 1

	resp := validation{
		Valid:  true,
		Blocks: blocks,
	}

	if err := h.State.ValidateChain(); err != nil {
		ce := database.GetChainError(err)
		if ce == nil {
			return err
		}

		resp = validation{
			Blocks: blocks,
			Pass:   ce.Pass,
			Index:  ce.Index,
			Error:  ce.Err.Error(),
		}
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
