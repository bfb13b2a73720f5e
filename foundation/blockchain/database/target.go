package database

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// ParseTarget converts the hex representation of a hash target into a
// hash. Between 1 and 64 hex digits are accepted with an optional 0x prefix.
// A zero target can never be satisfied and is rejected.
func ParseTarget(target string) (common.Hash, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(target, "0x"), "0X")
	if len(s) == 0 || len(s) > 2*common.HashLength {
		return common.Hash{}, fmt.Errorf("hash target must be 1 to %d hex digits, got %d", 2*common.HashLength, len(s))
	}

	if len(s)%2 == 1 {
		s = "0" + s
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash target is not hex: %w", err)
	}

	h := common.BytesToHash(b)
	if toInt(h).IsZero() {
		return common.Hash{}, errors.New("hash target of zero can never be satisfied")
	}

	return h, nil
}

// isHashSolved checks the hash to make sure it complies with the POW rules.
// Both values are treated as unsigned 256 bit big endian integers.
func isHashSolved(target common.Hash, hash common.Hash) bool {
	return toInt(hash).Lt(toInt(target))
}

// toInt converts the hash into a 256 bit unsigned integer.
func toInt(h common.Hash) *uint256.Int {
	return new(uint256.Int).SetBytes(h.Bytes())
}
