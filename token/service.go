package token

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/revshareorg/librevshare-go/runtime"
)

// Service is the external ledger interface the revenue-sharing handlers
// direct value movement through. Implementations operate on the account
// handles they are passed and mutate account data in place; atomicity is the
// caller's responsibility.
type Service interface {
	// Balance returns the token amount held by the account.
	Balance(ctx context.Context, acct *runtime.Account) (uint64, error)

	// SetOwner hands ownership of the account to newOwner. The change must be
	// authorized by the current owner.
	SetOwner(ctx context.Context, acct *runtime.Account, newOwner solana.PublicKey, auth Authority) error

	// Transfer moves amount from source to dest. The transfer must be
	// authorized by the source account's owner.
	Transfer(ctx context.Context, source, dest *runtime.Account, amount uint64, auth Authority) error
}

// Authority identifies who authorizes a ledger operation. A plain signer sets
// only Account, which must carry a verified signature. A program acting as a
// derived address additionally presents Seeds and the deriving Program; the
// service re-derives the address from them and accepts the proof only if it
// lands on the authority account's key.
type Authority struct {
	Account *runtime.Account
	Seeds   [][]byte
	Program solana.PublicKey
}
