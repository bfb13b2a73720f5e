// Package cmd contains wallet app
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
)

const (
	keyExtension = ".pem"
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.pem", "Name of the private key file, also the account id.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple ledger wallet",
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, keyExtension) {
		accountName += keyExtension
	}

	return filepath.Join(accountPath, accountName)
}

// getAccountID returns the account id named by the key file.
func getAccountID() string {
	return strings.TrimSuffix(filepath.Base(getPrivateKeyPath()), keyExtension)
}

// loadWallet opens the wallet for the configured key file.
func loadWallet() (*wallet.Wallet, error) {
	return wallet.Load(getAccountID(), 0, getPrivateKeyPath())
}
