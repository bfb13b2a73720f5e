package public

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

type tx struct {
	Sender    database.AccountID `json:"sender"`
	Receiver  database.AccountID `json:"receiver"`
	Value     uint64             `json:"value"`
	Metadata  string             `json:"tx_metadata"`
	Nonce     uint64             `json:"nonce"`
	Signature string             `json:"signature"`
}

func toTx(signedTx database.SignedTx) tx {
	return tx{
		Sender:    signedTx.Message.Sender,
		Receiver:  signedTx.Message.Receiver,
		Value:     signedTx.Message.Value,
		Metadata:  signedTx.Message.Metadata,
		Nonce:     signedTx.Message.Nonce,
		Signature: signedTx.Signature.String(),
	}
}

func toTxs(trans []database.SignedTx) []tx {
	txs := make([]tx, len(trans))
	for i, tran := range trans {
		txs[i] = toTx(tran)
	}
	return txs
}

type block struct {
	Number        uint64 `json:"number"`
	PrevBlockHash string `json:"prev_block_hash"`
	HashTarget    string `json:"hash_target"`
	Nonce         uint64 `json:"nonce"`
	Seed          string `json:"seed,omitempty"`
	Hash          string `json:"hash"`
	Trans         []tx   `json:"trans"`
}

func toBlocks(blocks []database.Block) []block {
	out := make([]block, len(blocks))
	for i, blk := range blocks {
		out[i] = block{
			Number:        blk.Header.Number,
			PrevBlockHash: blk.Header.PrevBlockHash.Hex(),
			HashTarget:    blk.Header.HashTarget.Hex(),
			Nonce:         blk.Header.Nonce,
			Seed:          blk.Header.Seed,
			Hash:          blk.Hash.Hex(),
			Trans:         toTxs(blk.Trans),
		}
	}
	return out
}

type info struct {
	Account        database.AccountID `json:"account"`
	Balance        int64              `json:"balance"`
	InitialBalance int64              `json:"initial_balance"`
	Nonce          uint64             `json:"nonce"`
}

func toInfo(acct accounts.Info) info {
	return info{
		Account:        acct.AccountID,
		Balance:        acct.Balance,
		InitialBalance: acct.InitialBalance,
		Nonce:          acct.Nonce,
	}
}

type actInfo struct {
	LatestBlock string `json:"latest_block"`
	Pending     int    `json:"pending"`
	Accounts    []info `json:"accounts"`
}

type validation struct {
	Valid  bool   `json:"valid"`
	Blocks int    `json:"blocks"`
	Pass   string `json:"pass,omitempty"`
	Index  uint64 `json:"index,omitempty"`
	Error  string `json:"error,omitempty"`
}

// =============================================================================

// newTx is what a wallet submits to be added to the pending queue.
type newTx struct {
	Message   newMessage    `json:"message"`
	Signature hexutil.Bytes `json:"signature" validate:"required"`
}

type newMessage struct {
	Sender   string `json:"sender" validate:"required,accountid"`
	Receiver string `json:"receiver" validate:"required,accountid"`
	Value    uint64 `json:"value"`
	Metadata string `json:"tx_metadata"`
	Nonce    uint64 `json:"nonce"`
}

func toSignedTx(ntx newTx) database.SignedTx {
	return database.SignedTx{
		Message: database.Tx{
			Sender:   database.AccountID(ntx.Message.Sender),
			Receiver: database.AccountID(ntx.Message.Receiver),
			Value:    ntx.Message.Value,
			Metadata: ntx.Message.Metadata,
			Nonce:    ntx.Message.Nonce,
		},
		Signature: ntx.Signature,
	}
}
