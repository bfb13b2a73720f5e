package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type info struct {
	Account        string `json:"account"`
	Balance        int64  `json:"balance"`
	InitialBalance int64  `json:"initial_balance"`
	Nonce          uint64 `json:"nonce"`
}

type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Pending     int    `json:"pending"`
	Accounts    []info `json:"accounts"`
}

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
	balanceCmd.Flags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

func balanceRun(cmd *cobra.Command, args []string) {
	accountID := getAccountID()
	fmt.Println("For Account:", accountID)

	acct, err := queryAccount(accountID)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(acct.Balance)
}

// queryAccount asks the node for the account's balance and last nonce.
func queryAccount(accountID string) (info, error) {
	resp, err := http.Get(fmt.Sprintf("%s/v1/accounts/list/%s", url, accountID))
	if err != nil {
		return info{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return info{}, fmt.Errorf("account %s: node returned %s", accountID, resp.Status)
	}

	var ai actInfo
	if err := json.NewDecoder(resp.Body).Decode(&ai); err != nil {
		return info{}, err
	}

	if len(ai.Accounts) == 0 {
		return info{}, fmt.Errorf("account %s: not found", accountID)
	}

	return ai.Accounts[0], nil
}
