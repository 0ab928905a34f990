package token

import (
	"context"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"

	"github.com/revshareorg/librevshare-go/runtime"
)

// Engine implements Service in process, applying the same authorization rules
// as the on-ledger token program. It holds no state of its own: every
// operation reads and writes the account handles it is given.
type Engine struct{}

// Compile-time interface check.
var _ Service = (*Engine)(nil)

// NewEngine returns an in-process token service.
func NewEngine() *Engine { return &Engine{} }

// Balance returns the token amount held by the account.
func (e *Engine) Balance(ctx context.Context, acct *runtime.Account) (uint64, error) {
	rec, err := loadInitialized(acct)
	if err != nil {
		return 0, err
	}
	return rec.Amount, nil
}

// SetOwner hands ownership of the account to newOwner, authorized by the
// current owner. Any delegation is revoked by the ownership change.
func (e *Engine) SetOwner(ctx context.Context, acct *runtime.Account, newOwner solana.PublicKey, auth Authority) error {
	if !acct.Owner.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: %s", ErrNotServiceAccount, acct.Key)
	}
	rec, err := loadInitialized(acct)
	if err != nil {
		return err
	}
	if rec.State == Frozen {
		return fmt.Errorf("%w: %s", ErrAccountFrozen, acct.Key)
	}
	if err := verifyAuthority(auth, rec.Owner); err != nil {
		return err
	}

	rec.Owner = newOwner
	rec.Delegate = nil
	rec.DelegatedAmount = 0
	if rec.IsNative != nil {
		rec.CloseAuthority = nil
	}
	copy(acct.Data, SerializeAccount(rec))
	return nil
}

// Transfer moves amount from source to dest, authorized by the source
// account's owner.
func (e *Engine) Transfer(ctx context.Context, source, dest *runtime.Account, amount uint64, auth Authority) error {
	if !source.Owner.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: source %s", ErrNotServiceAccount, source.Key)
	}
	if !dest.Owner.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: destination %s", ErrNotServiceAccount, dest.Key)
	}
	src, err := loadInitialized(source)
	if err != nil {
		return err
	}
	dst, err := loadInitialized(dest)
	if err != nil {
		return err
	}
	if src.State == Frozen || dst.State == Frozen {
		return ErrAccountFrozen
	}
	if src.Amount < amount {
		return fmt.Errorf("%w: balance %d, requested %d", ErrInsufficientFunds, src.Amount, amount)
	}
	if !src.Mint.Equals(dst.Mint) {
		return fmt.Errorf("%w: source holds %s, destination holds %s", ErrMintMismatch, src.Mint, dst.Mint)
	}
	if err := verifyAuthority(auth, src.Owner); err != nil {
		return err
	}

	if source.Key.Equals(dest.Key) {
		// Self-transfer: validated above, net effect is zero.
		return nil
	}

	if dst.Amount > math.MaxUint64-amount {
		return fmt.Errorf("%w: destination balance", ErrAmountOverflow)
	}
	src.Amount -= amount
	dst.Amount += amount
	copy(source.Data, SerializeAccount(src))
	copy(dest.Data, SerializeAccount(dst))
	return nil
}

// loadInitialized decodes a token account record and requires it to be
// initialized.
func loadInitialized(acct *runtime.Account) (*Account, error) {
	rec, err := DeserializeAccount(acct.Data)
	if err != nil {
		return nil, err
	}
	if rec.State == Uninitialized {
		return nil, fmt.Errorf("%w: %s", ErrUninitializedAccount, acct.Key)
	}
	return rec, nil
}

// verifyAuthority checks that auth may act for the given owner. The authority
// address must be the owner itself; its right to act is proven either by a
// verified transaction signature or by seeds that re-derive to its address
// under the presenting program.
func verifyAuthority(auth Authority, owner solana.PublicKey) error {
	if auth.Account == nil {
		return fmt.Errorf("%w: no authority account", ErrUnauthorized)
	}
	if !auth.Account.Key.Equals(owner) {
		return fmt.Errorf("%w: authority %s, owner %s", ErrOwnerMismatch, auth.Account.Key, owner)
	}
	if len(auth.Seeds) > 0 {
		derived, err := solana.CreateProgramAddress(auth.Seeds, auth.Program)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
		if !derived.Equals(auth.Account.Key) {
			return fmt.Errorf("%w: seeds derive %s, not %s", ErrUnauthorized, derived, auth.Account.Key)
		}
		return nil
	}
	if !auth.Account.Signer {
		return fmt.Errorf("%w: %s did not sign", ErrUnauthorized, auth.Account.Key)
	}
	return nil
}
