package database

import (
	"errors"
)

// AccountID represents an account id that is used to sign transactions and is
// associated with transactions on the blockchain.
type AccountID string

// ToAccountID converts a string to an account and validates the string is
// formatted correctly.
func ToAccountID(id string) (AccountID, error) {
	a := AccountID(id)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a valid
// account id. Ids are 1 to 64 characters of letters, digits, '_', '-' or '.'.
func (a AccountID) IsAccountID() bool {
	const maxLength = 64

	if len(a) == 0 || len(a) > maxLength {
		return false
	}

	for _, c := range []byte(a) {
		if !isIDCharacter(c) {
			return false
		}
	}

	return true
}

// =============================================================================

// Balance represents the balance of an individual account at a point in time.
type Balance struct {
	AccountID AccountID `json:"id"`
	Balance   int64     `json:"balance"`
}

// SufficientFunds reports whether the balance covers the value. A negative
// balance never covers anything.
func SufficientFunds(balance int64, value uint64) bool {
	return balance >= 0 && uint64(balance) >= value
}

// =============================================================================

// isIDCharacter returns bool of c being a valid account id character.
func isIDCharacter(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '_' || c == '-' || c == '.':
		return true
	}

	return false
}
