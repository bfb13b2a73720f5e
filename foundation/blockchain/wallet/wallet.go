// Package wallet provides an account that owns its key pair and signs
// transactions for the ledger.
package wallet

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// DefaultBalance is the starting balance offered when none is specified.
const DefaultBalance = 100

// Wallet represents an account holder. The private key never leaves the
// wallet and the nonce only moves forward when a transaction is signed.
type Wallet struct {
	id      database.AccountID
	key     *rsa.PrivateKey
	balance int64

	mu    sync.Mutex
	nonce uint64
}

// New constructs a wallet with a newly generated key pair of the default size.
func New(id string, balance int64) (*Wallet, error) {
	return NewWithKeySize(id, balance, signature.DefaultKeyBits)
}

// NewWithKeySize constructs a wallet with a newly generated key pair of the
// specified size.
func NewWithKeySize(id string, balance int64, bits int) (*Wallet, error) {
	key, err := signature.GenerateKey(bits)
	if err != nil {
		return nil, fmt.Errorf("generating key: %w", err)
	}

	return FromKey(id, balance, key)
}

// FromKey constructs a wallet around an existing private key.
func FromKey(id string, balance int64, key *rsa.PrivateKey) (*Wallet, error) {
	accountID, err := database.ToAccountID(id)
	if err != nil {
		return nil, err
	}

	if key == nil {
		return nil, errors.New("private key is required")
	}

	w := Wallet{
		id:      accountID,
		key:     key,
		balance: balance,
	}

	return &w, nil
}

// Load constructs a wallet from the PEM encoded private key at the path.
func Load(id string, balance int64, path string) (*Wallet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	key, err := signature.ParsePrivateKey(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return FromKey(id, balance, key)
}

// Save writes the private key to the path as an unencrypted PKCS#8 PEM file.
func (w *Wallet) Save(path string) error {
	data, err := signature.EncodePrivateKey(w.key)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// ID returns the account id of the wallet.
func (w *Wallet) ID() database.AccountID {
	return w.id
}

// PublicKey returns the key used to verify the wallet's signatures.
func (w *Wallet) PublicKey() *rsa.PublicKey {
	return &w.key.PublicKey
}

// Balance returns the balance the wallet registers with.
func (w *Wallet) Balance() int64 {
	return w.balance
}

// Nonce returns the nonce of the last signed transaction.
func (w *Wallet) Nonce() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.nonce
}

// SetNonce moves the nonce forward to continue from a nonce already used.
// A lower nonce is ignored.
func (w *Wallet) SetNonce(nonce uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if nonce > w.nonce {
		w.nonce = nonce
	}
}

// CreateTransaction constructs and signs a transaction to the receiver using
// the next nonce. The nonce is only used up if signing succeeds.
func (w *Wallet) CreateTransaction(receiver database.AccountID, value uint64, metadata string) (database.SignedTx, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := database.NewTx(w.id, receiver, value, metadata, w.nonce+1)
	if err != nil {
		return database.SignedTx{}, err
	}

	signedTx, err := tx.Sign(w.key)
	if err != nil {
		return database.SignedTx{}, err
	}

	w.nonce = tx.Nonce

	return signedTx, nil
}
