package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/ledger/foundation/blockchain/wallet"
	"github.com/ardanlabs/ledger/foundation/events"
	"go.uber.org/zap"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

type node struct {
	t       *testing.T
	state   *state.State
	public  http.Handler
	private http.Handler
	debug   http.Handler
}

func newNode(t *testing.T) *node {
	gen := genesis.Default()
	gen.HashTarget = "0fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"

	st, err := state.New(state.Config{
		Genesis:       gen,
		Storage:       memory.New(),
		MiningWorkers: 2,
	})
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct the state: %v", failed, err)
	}

	log := zap.NewNop().Sugar()
	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      log,
		State:    st,
		Evts:     events.New(),
	}

	return &node{
		t:       t,
		state:   st,
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		debug:   handlers.DebugMux("test", log, st),
	}
}

func (n *node) call(h http.Handler, method string, path string, body any, exp int, resp any) {
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			n.t.Fatalf("\t%s\tShould be able to encode the request: %v", failed, err)
		}
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if w.Code != exp {
		n.t.Fatalf("\t%s\t%s %s: Should receive a status code of %d, got %d: %s", failed, method, path, exp, w.Code, w.Body.String())
	}
	n.t.Logf("\t%s\t%s %s: Should receive a status code of %d.", success, method, path, exp)

	if resp != nil {
		if err := json.NewDecoder(w.Body).Decode(resp); err != nil {
			n.t.Fatalf("\t%s\t%s %s: Should be able to decode the response: %v", failed, method, path, err)
		}
	}
}

func (n *node) register(w *wallet.Wallet, balance *int64) {
	pem, err := signature.EncodePublicKey(w.PublicKey())
	if err != nil {
		n.t.Fatalf("\t%s\tShould be able to encode the public key: %v", failed, err)
	}

	reg := map[string]any{
		"id":         string(w.ID()),
		"public_key": string(pem),
	}
	if balance != nil {
		reg["balance"] = *balance
	}

	n.call(n.private, http.MethodPost, "/v1/node/accounts/register", reg, http.StatusCreated, nil)
}

// =============================================================================

func TestNode(t *testing.T) {
	type info struct {
		Account string `json:"account"`
		Balance int64  `json:"balance"`
		Nonce   uint64 `json:"nonce"`
	}
	type actInfo struct {
		Pending  int    `json:"pending"`
		Accounts []info `json:"accounts"`
	}

	t.Log("Given the need to run the ledger over http.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen handling wallet transactions from registration to a mined block.", testID)
		{
			n := newNode(t)

			alice, err := wallet.NewWithKeySize("alice", 50, 1024)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create a wallet: %v", failed, testID, err)
			}
			bobKey, err := signature.GenerateKey(1024)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to generate a key: %v", failed, testID, err)
			}
			bob, err := wallet.FromKey("bob", wallet.DefaultBalance, bobKey)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to create a wallet: %v", failed, testID, err)
			}

			fifty := int64(50)
			n.register(alice, &fifty)
			n.register(bob, nil)

			var bad map[string]any
			n.call(n.private, http.MethodPost, "/v1/node/accounts/register", map[string]any{"id": "not an id!", "public_key": "x"}, http.StatusBadRequest, &bad)
			if _, exists := bad["fields"]; !exists {
				t.Fatalf("\t%s\tTest %d:\tShould receive field errors for a bad registration: %v", failed, testID, bad)
			}
			t.Logf("\t%s\tTest %d:\tShould receive field errors for a bad registration.", success, testID)

			tx, err := alice.CreateTransaction("bob", 30, "lunch")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign a transaction: %v", failed, testID, err)
			}
			n.call(n.public, http.MethodPost, "/v1/tx/submit", tx, http.StatusOK, nil)

			forged, err := database.Tx{Sender: "alice", Receiver: "bob", Value: 40, Nonce: 9}.Sign(bobKey)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to sign a forged transaction: %v", failed, testID, err)
			}
			n.call(n.public, http.MethodPost, "/v1/tx/submit", forged, http.StatusBadRequest, nil)
			n.call(n.public, http.MethodPost, "/v1/tx/submit", `{"message":{},"signature":"0x00","extra":1}`, http.StatusBadRequest, nil)

			var pending []map[string]any
			n.call(n.public, http.MethodGet, "/v1/tx/pending/list", nil, http.StatusOK, &pending)
			if len(pending) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould have one pending transaction, got %d.", failed, testID, len(pending))
			}
			t.Logf("\t%s\tTest %d:\tShould have one pending transaction.", success, testID)

			var blockData database.BlockData
			n.call(n.private, http.MethodPost, "/v1/node/block/create", nil, http.StatusOK, &blockData)
			if blockData.Header.Number != 1 || len(blockData.Trans) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould mine block 1 with one transaction, got %d with %d.", failed, testID, blockData.Header.Number, len(blockData.Trans))
			}
			t.Logf("\t%s\tTest %d:\tShould mine block 1 with one transaction.", success, testID)

			var ai actInfo
			n.call(n.public, http.MethodGet, "/v1/accounts/list/alice", nil, http.StatusOK, &ai)
			if len(ai.Accounts) != 1 || ai.Accounts[0].Balance != 20 || ai.Accounts[0].Nonce != 1 || ai.Pending != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould see alice with 20 and nonce 1, got %+v.", failed, testID, ai)
			}
			t.Logf("\t%s\tTest %d:\tShould see alice with 20 and nonce 1.", success, testID)

			n.call(n.public, http.MethodGet, "/v1/accounts/list", nil, http.StatusOK, &ai)
			if len(ai.Accounts) != 2 || ai.Accounts[1].Account != "bob" || ai.Accounts[1].Balance != 130 {
				t.Fatalf("\t%s\tTest %d:\tShould see bob second with 130, got %+v.", failed, testID, ai)
			}
			t.Logf("\t%s\tTest %d:\tShould see bob second with 130.", success, testID)

			n.call(n.public, http.MethodGet, "/v1/accounts/list/zed", nil, http.StatusNotFound, nil)

			var blocks []map[string]any
			n.call(n.public, http.MethodGet, "/v1/blocks/list/bob", nil, http.StatusOK, &blocks)
			if len(blocks) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould find one block for bob, got %d.", failed, testID, len(blocks))
			}
			t.Logf("\t%s\tTest %d:\tShould find one block for bob.", success, testID)

			var byNumber []database.BlockData
			n.call(n.private, http.MethodGet, "/v1/node/block/list/0/latest", nil, http.StatusOK, &byNumber)
			if len(byNumber) != 2 || byNumber[1].Hash != blockData.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould list genesis and the mined block, got %d.", failed, testID, len(byNumber))
			}
			t.Logf("\t%s\tTest %d:\tShould list genesis and the mined block.", success, testID)

			n.call(n.private, http.MethodGet, "/v1/node/block/list/2/1", nil, http.StatusBadRequest, nil)

			var v struct {
				Valid  bool `json:"valid"`
				Blocks int  `json:"blocks"`
			}
			n.call(n.public, http.MethodGet, "/v1/chain/validate", nil, http.StatusOK, &v)
			if !v.Valid || v.Blocks != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould report a valid chain of 2 blocks, got %+v.", failed, testID, v)
			}
			t.Logf("\t%s\tTest %d:\tShould report a valid chain of 2 blocks.", success, testID)

			var ready map[string]any
			n.call(n.debug, http.MethodGet, "/debug/readiness", nil, http.StatusOK, &ready)
			if ready["status"] != "ok" {
				t.Fatalf("\t%s\tTest %d:\tShould be ready, got %v.", failed, testID, ready)
			}
			t.Logf("\t%s\tTest %d:\tShould be ready.", success, testID)
		}
	}
}
