package database

import (
	"crypto/rsa"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/signature"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// =============================================================================

// Tx is the transactional information between two parties. The json keys
// are the wire shape that is canonicalized, hashed and signed.
type Tx struct {
	Sender   AccountID `json:"sender"`      // Account sending the value.
	Receiver AccountID `json:"receiver"`    // Account receiving the value.
	Value    uint64    `json:"value"`       // Monetary value moved by this transaction.
	Metadata string    `json:"tx_metadata"` // Free form data attached by the sender.
	Nonce    uint64    `json:"nonce"`       // Per sender counter assigned at creation.
}

// NewTx constructs a new transaction.
func NewTx(sender AccountID, receiver AccountID, value uint64, metadata string, nonce uint64) (Tx, error) {
	if !sender.IsAccountID() {
		return Tx{}, fmt.Errorf("sender account is not properly formatted")
	}

	if !receiver.IsAccountID() {
		return Tx{}, fmt.Errorf("receiver account is not properly formatted")
	}

	tx := Tx{
		Sender:   sender,
		Receiver: receiver,
		Value:    value,
		Metadata: metadata,
		Nonce:    nonce,
	}

	return tx, nil
}

// Digest returns the hex text of the SHA-256 hash of the canonical form of
// the transaction.
func (tx Tx) Digest() (string, error) {
	return signature.DigestOf(tx)
}

// Sign uses the specified private key to sign the transaction.
func (tx Tx) Sign(privateKey *rsa.PrivateKey) (SignedTx, error) {
	digest, err := tx.Digest()
	if err != nil {
		return SignedTx{}, err
	}

	sig, err := signature.Sign(privateKey, digest)
	if err != nil {
		return SignedTx{}, err
	}

	signedTx := SignedTx{
		Message:   tx,
		Signature: sig,
	}

	return signedTx, nil
}

// =============================================================================

// SignedTx is a signed version of the transaction. This is how clients like
// a wallet provide transactions for inclusion into the blockchain. The
// signature is detached and covers the message only.
type SignedTx struct {
	Message   Tx            `json:"message"`
	Signature hexutil.Bytes `json:"signature"`
}

// Verify reports whether the signature was produced over the message by the
// owner of the specified public key.
func (tx SignedTx) Verify(publicKey *rsa.PublicKey) bool {
	digest, err := tx.Message.Digest()
	if err != nil {
		return false
	}

	return signature.Verify(publicKey, tx.Signature, digest)
}

// String implements the fmt.Stringer interface for logging.
func (tx SignedTx) String() string {
	return fmt.Sprintf("%s:%d", tx.Message.Sender, tx.Message.Nonce)
}
