package wallet_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestCreateTransaction(t *testing.T) {
	t.Log("Given the need to sign transactions from a wallet.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen signing a set of transactions.", testID)
		{
			w, err := wallet.NewWithKeySize("alice", wallet.DefaultBalance, 1024)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a wallet: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to construct a wallet.", success, testID)

			var last uint64
			for i := range 3 {
				tx, err := w.CreateTransaction("bob", uint64(10*(i+1)), "")
				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to sign a transaction: %v", failed, testID, err)
				}

				if tx.Message.Nonce <= last {
					t.Fatalf("\t%s\tTest %d:\tShould get a strictly increasing nonce, got %d after %d.", failed, testID, tx.Message.Nonce, last)
				}
				last = tx.Message.Nonce

				if !tx.Verify(w.PublicKey()) {
					t.Fatalf("\t%s\tTest %d:\tShould verify with the wallet public key.", failed, testID)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould get strictly increasing nonces that verify.", success, testID)

			if _, err := w.CreateTransaction("bad id!", 1, ""); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould not sign for a malformed receiver.", failed, testID)
			}
			if w.Nonce() != last {
				t.Fatalf("\t%s\tTest %d:\tShould not use a nonce on failure, got %d, exp %d.", failed, testID, w.Nonce(), last)
			}
			t.Logf("\t%s\tTest %d:\tShould not use a nonce on failure.", success, testID)

			w.SetNonce(1)
			w.SetNonce(41)
			tx, err := w.CreateTransaction("bob", 1, "")
			if err != nil || tx.Message.Nonce != 42 {
				t.Fatalf("\t%s\tTest %d:\tShould continue from a known nonce, got %d: %v", failed, testID, tx.Message.Nonce, err)
			}
			t.Logf("\t%s\tTest %d:\tShould continue from a known nonce.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen saving and loading the key.", testID)
		{
			w, err := wallet.NewWithKeySize("carol", 50, 1024)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct a wallet: %v", failed, testID, err)
			}

			path := filepath.Join(t.TempDir(), "carol.pem")
			if err := w.Save(path); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save the key: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to save the key.", success, testID)

			w2, err := wallet.Load("carol", 50, path)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to load the key: %v", failed, testID, err)
			}

			tx, err := w2.CreateTransaction("alice", 5, "loaded")
			if err != nil || !tx.Verify(w.PublicKey()) {
				t.Fatalf("\t%s\tTest %d:\tShould sign with the same key after loading: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould sign with the same key after loading.", success, testID)

			if _, err := wallet.Load("carol", 50, filepath.Join(t.TempDir(), "none.pem")); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould fail to load a missing key.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to load a missing key.", success, testID)
		}
	}
}
