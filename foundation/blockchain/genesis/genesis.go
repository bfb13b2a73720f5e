// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// Set of default genesis values.
const (
	DefaultHashTarget = "000fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"
	DefaultSeed       = "The Times 03/Jan/2009 Chancellor on brink of second bailout for banks"
	DefaultBalance    = 100
)

// Genesis represents the genesis file.
type Genesis struct {
	Date       time.Time `json:"date"`
	HashTarget string    `json:"hash_target"` // Hex value every mined block hash must be less than.
	Seed       string    `json:"seed"`        // Text carried by the genesis block.
	Balance    int64     `json:"balance"`     // Starting balance for accounts loaded by the node.
}

// Default returns the genesis used when no genesis file exists.
func Default() Genesis {
	return Genesis{
		Date:       time.Date(2009, time.January, 3, 18, 15, 5, 0, time.UTC),
		HashTarget: DefaultHashTarget,
		Seed:       DefaultSeed,
		Balance:    DefaultBalance,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Fields left out of the file take
// their default values. A missing file returns the default genesis.
func Load(path string) (Genesis, error) {
	genesis := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return genesis, nil
		}
		return Genesis{}, err
	}

	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("parsing genesis %s: %w", path, err)
	}

	return genesis, nil
}
