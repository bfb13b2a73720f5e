// Package signature provides helper functions for handling the blockchain
// signature needs. Messages are serialized into a canonical form, hashed with
// SHA-256 and the lowercase hex text of that hash is signed with RSA-PSS.
package signature

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// pssOptions describes the PSS parameters used for signing and verification.
// The salt length is the maximum permitted by the modulus when signing and
// is detected automatically when verifying.
var pssOptions = rsa.PSSOptions{
	SaltLength: rsa.PSSSaltLengthAuto,
	Hash:       crypto.SHA256,
}

// =============================================================================

// Digest returns the SHA-256 hash of the data as lowercase hex text. This
// text, not the raw hash bytes, is what gets signed.
func Digest(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// DigestOf returns the digest of the canonical form of the value.
func DigestOf(value any) (string, error) {
	data, err := Canonical(value)
	if err != nil {
		return "", err
	}

	return Digest(data), nil
}

// Hash returns the SHA-256 hash of the canonical form of the value. Blocks
// and transactions always serialize, so a value that can't be serialized
// is a programming error and Hash panics rather than hand out a hash.
func Hash(value any) common.Hash {
	data, err := Canonical(value)
	if err != nil {
		panic(fmt.Sprintf("signature: hash: %s", err))
	}

	return sha256.Sum256(data)
}

// Sign uses the specified private key to sign the digest text.
func Sign(privateKey *rsa.PrivateKey, digest string) ([]byte, error) {
	hash := sha256.Sum256([]byte(digest))

	sig, err := rsa.SignPSS(rand.Reader, privateKey, crypto.SHA256, hash[:], &pssOptions)
	if err != nil {
		return nil, err
	}

	return sig, nil
}

// Verify reports whether the signature was produced over the digest text by
// the private key matching the specified public key. A malformed or forged
// signature is a normal negative result.
func Verify(publicKey *rsa.PublicKey, sig []byte, digest string) bool {
	if publicKey == nil || len(sig) == 0 {
		return false
	}

	hash := sha256.Sum256([]byte(digest))

	return rsa.VerifyPSS(publicKey, crypto.SHA256, hash[:], sig, &pssOptions) == nil
}
