// Package nameservice reads the zblock/accounts folder and creates a lookup
// of the account ids and public keys found there.
package nameservice

import (
	"crypto/rsa"
	"encoding/pem"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
)

// NameService maintains a map of account ids to public keys. The account id
// is the name of the key file without the .pem extension.
type NameService struct {
	accounts map[database.AccountID]*rsa.PublicKey
}

// New constructs a name service with the accounts from the specified folder.
// Each file holds either a private or a public key in PEM format.
func New(root string) (*NameService, error) {
	ns := NameService{
		accounts: make(map[database.AccountID]*rsa.PublicKey),
	}

	fn := func(fileName string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if d.IsDir() || filepath.Ext(fileName) != ".pem" {
			return nil
		}

		accountID, err := database.ToAccountID(strings.TrimSuffix(filepath.Base(fileName), ".pem"))
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}

		publicKey, err := loadPublicKey(fileName)
		if err != nil {
			return fmt.Errorf("%s: %w", fileName, err)
		}

		ns.accounts[accountID] = publicKey

		return nil
	}

	if err := filepath.WalkDir(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the public key for the specified account.
func (ns *NameService) Lookup(accountID database.AccountID) (*rsa.PublicKey, bool) {
	publicKey, exists := ns.accounts[accountID]
	return publicKey, exists
}

// AccountIDs returns the known account ids in sorted order.
func (ns *NameService) AccountIDs() []database.AccountID {
	ids := make([]database.AccountID, 0, len(ns.accounts))
	for id := range ns.accounts {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Copy returns a copy of the map of account ids and public keys.
func (ns *NameService) Copy() map[database.AccountID]*rsa.PublicKey {
	cpy := make(map[database.AccountID]*rsa.PublicKey, len(ns.accounts))
	for id, publicKey := range ns.accounts {
		cpy[id] = publicKey
	}
	return cpy
}

// =============================================================================

// loadPublicKey reads the key file and returns the public key it holds or
// the public half of the private key it holds.
func loadPublicKey(fileName string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("no PEM block found")
	}

	switch block.Type {
	case "PUBLIC KEY":
		return signature.ParsePublicKey(data)

	case "PRIVATE KEY":
		privateKey, err := signature.ParsePrivateKey(data)
		if err != nil {
			return nil, err
		}
		return &privateKey.PublicKey, nil
	}

	return nil, fmt.Errorf("unsupported PEM block type %q", block.Type)
}
