package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/spf13/cobra"
)

var (
	url      string
	to       string
	value    uint64
	metadata string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run: func(cmd *cobra.Command, args []string) {
		w, err := loadWallet()
		if err != nil {
			log.Fatal(err)
		}

		sendWithDetails(w)
	},
}

func sendWithDetails(w *wallet.Wallet) {

	// Continue from the last nonce the node accepted from this account.
	acct, err := queryAccount(string(w.ID()))
	if err != nil {
		log.Fatal(err)
	}
	w.SetNonce(acct.Nonce)

	signedTx, err := w.CreateTransaction(database.AccountID(to), value, metadata)
	if err != nil {
		log.Fatal(err)
	}

	data, err := json.Marshal(signedTx)
	if err != nil {
		log.Fatal(err)
	}

	resp, err := http.Post(fmt.Sprintf("%s/v1/tx/submit", url), "application/json", bytes.NewBuffer(data))
	if err != nil {
		log.Fatal(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(resp.Status, string(body))
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Account id of the receiver.")
	sendCmd.Flags().Uint64VarP(&value, "value", "v", 0, "Value to send.")
	sendCmd.Flags().StringVarP(&metadata, "metadata", "m", "", "Metadata to attach.")
}
