package program

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AuthoritySeed is the domain-separation tag for the derived custodial
// authority. It is fixed: changing it would orphan every shared account whose
// custody was handed to an authority derived from the old tag.
const AuthoritySeed = "revenue_sharing"

// Capability is the proof the module presents to the ledger service when it
// acts as the derived authority: the domain tag plus the off-curve bump
// nonce. There is no private key for the derived address; the seed material
// stands in for a signature.
type Capability struct {
	Seed string
	Bump uint8
}

// SignerSeeds returns the seed material in derivation order, as presented to
// the ledger service's authorization check.
func (c Capability) SignerSeeds() [][]byte {
	return [][]byte{[]byte(c.Seed), {c.Bump}}
}

// DeriveAuthority computes the custodial authority address for the given
// program identity. The derivation is deterministic and off-curve: the
// returned address has no private key. Both handlers resolve the authority
// through this single function so the initialization-time owner and the
// withdrawal-time signer can never diverge.
func DeriveAuthority(programID solana.PublicKey) (solana.PublicKey, Capability, error) {
	authority, bump, err := solana.FindProgramAddress(
		[][]byte{[]byte(AuthoritySeed)}, programID)
	if err != nil {
		return solana.PublicKey{}, Capability{}, fmt.Errorf("program: derive authority: %w", err)
	}
	return authority, Capability{Seed: AuthoritySeed, Bump: bump}, nil
}
