package token

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/revshareorg/librevshare-go/runtime"
)

// Mock implements Service for testing. Each method delegates to the
// corresponding function field, which must be set before use.
type Mock struct {
	BalanceFn  func(ctx context.Context, acct *runtime.Account) (uint64, error)
	SetOwnerFn func(ctx context.Context, acct *runtime.Account, newOwner solana.PublicKey, auth Authority) error
	TransferFn func(ctx context.Context, source, dest *runtime.Account, amount uint64, auth Authority) error
}

// Compile-time interface check.
var _ Service = (*Mock)(nil)

// Balance calls BalanceFn.
func (m *Mock) Balance(ctx context.Context, acct *runtime.Account) (uint64, error) {
	return m.BalanceFn(ctx, acct)
}

// SetOwner calls SetOwnerFn.
func (m *Mock) SetOwner(ctx context.Context, acct *runtime.Account, newOwner solana.PublicKey, auth Authority) error {
	return m.SetOwnerFn(ctx, acct, newOwner, auth)
}

// Transfer calls TransferFn.
func (m *Mock) Transfer(ctx context.Context, source, dest *runtime.Account, amount uint64, auth Authority) error {
	return m.TransferFn(ctx, source, dest, amount, auth)
}
