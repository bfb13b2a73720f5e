package mempool_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCRUD(t *testing.T) {
	type table struct {
		name string
		txs  []database.Tx
	}

	tt := []table{
		{
			name: "basic",
			txs: []database.Tx{
				{Sender: "alice", Receiver: "bob", Value: 20, Nonce: 1},
				{Sender: "bob", Receiver: "carol", Value: 30, Nonce: 1},
				{Sender: "carol", Receiver: "alice", Value: 50, Nonce: 1},
				{Sender: "alice", Receiver: "bob", Value: 20, Nonce: 1},
			},
		},
	}

	t.Log("Given the need to validate mempool api.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a set of transaction.", testID)
			{
				f := func(t *testing.T) {
					mp := mempool.New()

					for i, tx := range tst.txs {
						if n := mp.Add(database.SignedTx{Message: tx}); n != i+1 {
							t.Fatalf("\t%s\tTest %d:\tShould get back the pool size %d, got %d.", failed, testID, i+1, n)
						}
						t.Logf("\t%s\tTest %d:\tShould be able to add new transaction.", success, testID)
					}

					if mp.Count() != len(tst.txs) {
						t.Fatalf("\t%s\tTest %d:\tShould keep duplicate transactions.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould keep duplicate transactions.", success, testID)

					for i, tx := range mp.Copy() {
						if tx.Message != tst.txs[i] {
							t.Logf("\t%s\tTest %d:\tgot: %v", failed, testID, tx.Message)
							t.Logf("\t%s\tTest %d:\texp: %v", failed, testID, tst.txs[i])
							t.Fatalf("\t%s\tTest %d:\tShould get back transactions in arrival order.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get back transactions in arrival order: %s", success, testID, tx)
					}

					if n := mp.Contains(database.SignedTx{Message: tst.txs[0]}); n != 2 {
						t.Fatalf("\t%s\tTest %d:\tShould find the duplicate twice, got %d.", failed, testID, n)
					}
					t.Logf("\t%s\tTest %d:\tShould find the duplicate twice.", success, testID)

					cpy := mp.Copy()
					cpy[0].Message.Value = 999
					if mp.Copy()[0].Message.Value == 999 {
						t.Fatalf("\t%s\tTest %d:\tShould not share storage with a copy.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould not share storage with a copy.", success, testID)

					mp.Truncate()
					if l := len(mp.Copy()); l != 0 {
						t.Fatalf("\t%s\tTest %d:\tShould be able to truncate mempool.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to truncate mempool.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
