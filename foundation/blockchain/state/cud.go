package state

import (
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// AddAccount registers the account with the ledger. Registering an id a
// second time replaces the earlier registration, including its balances,
// but keeps the last nonce accepted from the account.
func (s *State) AddAccount(account Account) error {
	id := account.ID()
	if !id.IsAccountID() {
		return fmt.Errorf("account id %q is not properly formatted", id)
	}

	if account.PublicKey() == nil {
		return errors.New("account public key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	balance := account.Balance()

	s.accounts.Upsert(accounts.Info{
		AccountID:      id,
		PublicKey:      account.PublicKey(),
		Balance:        balance,
		InitialBalance: balance,
	})

	s.evHandler("state: AddAccount: acct[%s]: balance[%d]", id, balance)

	return nil
}

// =============================================================================

// Registration is an account known only by its public information. It is
// used to register accounts whose private key lives elsewhere.
type Registration struct {
	AccountID    database.AccountID
	Key          *rsa.PublicKey
	StartBalance int64
}

// ID implements the Account interface.
func (r Registration) ID() database.AccountID {
	return r.AccountID
}

// PublicKey implements the Account interface.
func (r Registration) PublicKey() *rsa.PublicKey {
	return r.Key
}

// Balance implements the Account interface.
func (r Registration) Balance() int64 {
	return r.StartBalance
}
