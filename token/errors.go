package token

import "errors"

var (
	// ErrInvalidAccountData indicates token account data failed structural
	// decode.
	ErrInvalidAccountData = errors.New("token: invalid account data")

	// ErrUninitializedAccount indicates the token account has not been
	// initialized.
	ErrUninitializedAccount = errors.New("token: uninitialized account")

	// ErrAccountFrozen indicates the token account is frozen.
	ErrAccountFrozen = errors.New("token: account is frozen")

	// ErrNotServiceAccount indicates the account is not owned by the token
	// service and cannot be mutated by it.
	ErrNotServiceAccount = errors.New("token: account not owned by the token service")

	// ErrOwnerMismatch indicates the presented authority is not the account's
	// owner.
	ErrOwnerMismatch = errors.New("token: owner mismatch")

	// ErrUnauthorized indicates the authority neither signed nor proved a
	// valid derivation.
	ErrUnauthorized = errors.New("token: authority not authorized")

	// ErrMintMismatch indicates the source and destination accounts hold
	// different mints.
	ErrMintMismatch = errors.New("token: mint mismatch")

	// ErrInsufficientFunds indicates the source balance cannot cover the
	// transfer.
	ErrInsufficientFunds = errors.New("token: insufficient funds")

	// ErrAmountOverflow indicates a credit would overflow the destination
	// balance.
	ErrAmountOverflow = errors.New("token: amount overflow")
)
