package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var keyBits int

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&keyBits, "bits", "b", signature.DefaultKeyBits, "Size of the RSA key.")
}

func generateRun(cmd *cobra.Command, args []string) {
	path := getPrivateKeyPath()

	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("key file %s already exists", path)
	}

	w, err := wallet.NewWithKeySize(getAccountID(), wallet.DefaultBalance, keyBits)
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll(accountPath, 0755); err != nil {
		log.Fatal(err)
	}

	if err := w.Save(path); err != nil {
		log.Fatal(err)
	}

	fmt.Println("New account created:", w.ID(), path)
}
