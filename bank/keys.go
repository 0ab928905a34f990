package bank

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/gagliardetto/solana-go"
	"golang.org/x/crypto/hkdf"
)

// keyInfo domain-separates bank keypair derivation from any other HKDF use of
// the same label material.
const keyInfo = "revshare-bank-keypair"

// DeriveKey derives a deterministic ed25519 keypair from a label via
// HKDF-SHA256. The same label always yields the same keypair, which gives
// fixtures and local setups stable, nameable identities without key files.
func DeriveKey(label string) (solana.PrivateKey, error) {
	r := hkdf.New(sha256.New, []byte(label), nil, []byte(keyInfo))
	seed := make([]byte, ed25519.SeedSize)
	if _, err := io.ReadFull(r, seed); err != nil {
		return nil, fmt.Errorf("bank: derive key for %q: %w", label, err)
	}
	return solana.PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}
