// Package accounts maintains account balances and other account information.
package accounts

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// Set of errors returned by the accounts.
var (
	ErrUnknownAccount      = errors.New("account is not registered")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Info represents information stored for an individual account.
type Info struct {
	AccountID      database.AccountID
	PublicKey      *rsa.PublicKey
	Balance        int64
	InitialBalance int64  // Balance at registration, never changed by settlement.
	Nonce          uint64 // Highest nonce accepted from this account.
}

// Accounts manages data related to accounts registered with the ledger.
// Registration order is preserved for reporting.
type Accounts struct {
	info  map[database.AccountID]Info
	order []database.AccountID
	mu    sync.RWMutex
}

// New constructs an empty set of accounts.
func New() *Accounts {
	return &Accounts{
		info: make(map[database.AccountID]Info),
	}
}

// Upsert registers the account. Registering an existing id replaces the
// account information but keeps its original position. The nonce never
// moves backwards so accepted transactions can't be replayed after a
// re-registration.
func (act *Accounts) Upsert(info Info) {
	act.mu.Lock()
	defer act.mu.Unlock()

	current, exists := act.info[info.AccountID]
	if !exists {
		act.order = append(act.order, info.AccountID)
	}

	if current.Nonce > info.Nonce {
		info.Nonce = current.Nonce
	}

	act.info[info.AccountID] = info
}

// Query returns the information for the specified account.
func (act *Accounts) Query(accountID database.AccountID) (Info, error) {
	act.mu.RLock()
	defer act.mu.RUnlock()

	info, exists := act.info[accountID]
	if !exists {
		return Info{}, fmt.Errorf("%s: %w", accountID, ErrUnknownAccount)
	}

	return info, nil
}

// Exists reports whether the account is registered.
func (act *Accounts) Exists(accountID database.AccountID) bool {
	act.mu.RLock()
	defer act.mu.RUnlock()

	_, exists := act.info[accountID]
	return exists
}

// Count returns the number of registered accounts.
func (act *Accounts) Count() int {
	act.mu.RLock()
	defer act.mu.RUnlock()

	return len(act.order)
}

// Replace updates the accounts based on the specified accounts.
func (act *Accounts) Replace(accounts *Accounts) {
	accounts.mu.RLock()
	info := accounts.info
	order := accounts.order
	accounts.mu.RUnlock()

	act.mu.Lock()
	defer act.mu.Unlock()

	act.info = info
	act.order = order
}

// Clone makes a copy of the current accounts.
func (act *Accounts) Clone() *Accounts {
	act.mu.RLock()
	defer act.mu.RUnlock()

	accounts := Accounts{
		info:  make(map[database.AccountID]Info, len(act.info)),
		order: make([]database.AccountID, len(act.order)),
	}

	copy(accounts.order, act.order)
	for id, info := range act.info {
		accounts.info[id] = info
	}

	return &accounts
}

// Copy makes a copy of the current information for all accounts in
// registration order.
func (act *Accounts) Copy() []Info {
	act.mu.RLock()
	defer act.mu.RUnlock()

	infos := make([]Info, 0, len(act.order))
	for _, id := range act.order {
		infos = append(infos, act.info[id])
	}
	return infos
}

// Balances returns the current balances in registration order.
func (act *Accounts) Balances() []database.Balance {
	infos := act.Copy()

	balances := make([]database.Balance, len(infos))
	for i, info := range infos {
		balances[i] = database.Balance{AccountID: info.AccountID, Balance: info.Balance}
	}
	return balances
}

// InitialBalances returns the registration time balances in registration
// order.
func (act *Accounts) InitialBalances() []database.Balance {
	infos := act.Copy()

	balances := make([]database.Balance, len(infos))
	for i, info := range infos {
		balances[i] = database.Balance{AccountID: info.AccountID, Balance: info.InitialBalance}
	}
	return balances
}

// InitialSheet returns a new map of the registration time balances for
// replaying the chain.
func (act *Accounts) InitialSheet() map[database.AccountID]int64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	sheet := make(map[database.AccountID]int64, len(act.info))
	for id, info := range act.info {
		sheet[id] = info.InitialBalance
	}
	return sheet
}

// ValidateNonce validates the nonce for the specified transaction is larger
// than the last nonce accepted from the account who signed the transaction.
func (act *Accounts) ValidateNonce(tx database.SignedTx) error {
	act.mu.RLock()
	defer act.mu.RUnlock()

	info, exists := act.info[tx.Message.Sender]
	if !exists {
		return fmt.Errorf("%s: %w", tx.Message.Sender, ErrUnknownAccount)
	}

	if tx.Message.Nonce <= info.Nonce {
		return fmt.Errorf("invalid nonce, got %d, exp > %d", tx.Message.Nonce, info.Nonce)
	}

	return nil
}

// UpdateNonce records the nonce of an accepted transaction if it is the
// highest seen for the sender.
func (act *Accounts) UpdateNonce(tx database.SignedTx) {
	act.mu.Lock()
	defer act.mu.Unlock()

	info, exists := act.info[tx.Message.Sender]
	if !exists || tx.Message.Nonce <= info.Nonce {
		return
	}

	info.Nonce = tx.Message.Nonce
	act.info[tx.Message.Sender] = info
}

// ApplyTransaction performs the business logic for applying a transaction
// to the accounts information. The value moves from the sender to the
// receiver only if the sender's balance covers it.
func (act *Accounts) ApplyTransaction(tx database.SignedTx) error {
	act.mu.Lock()
	defer act.mu.Unlock()

	fromInfo, exists := act.info[tx.Message.Sender]
	if !exists {
		return fmt.Errorf("sender %s: %w", tx.Message.Sender, ErrUnknownAccount)
	}

	if _, exists := act.info[tx.Message.Receiver]; !exists {
		return fmt.Errorf("receiver %s: %w", tx.Message.Receiver, ErrUnknownAccount)
	}

	if !database.SufficientFunds(fromInfo.Balance, tx.Message.Value) {
		return fmt.Errorf("%s has %d, needs %d: %w", tx.Message.Sender, fromInfo.Balance, tx.Message.Value, ErrInsufficientBalance)
	}

	fromInfo.Balance -= int64(tx.Message.Value)
	act.info[tx.Message.Sender] = fromInfo

	toInfo := act.info[tx.Message.Receiver]
	toInfo.Balance += int64(tx.Message.Value)
	act.info[tx.Message.Receiver] = toInfo

	return nil
}
