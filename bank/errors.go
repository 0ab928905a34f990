package bank

import "errors"

var (
	// ErrAccountNotFound is returned when a transaction references an
	// address the bank has no account for.
	ErrAccountNotFound = errors.New("bank: account not found")

	// ErrAccountExists is returned when creating an account at an address
	// that is already in use.
	ErrAccountExists = errors.New("bank: account already exists")

	// ErrMissingSigner is returned when an instruction marks an account as
	// a signer but the transaction carries no key for it.
	ErrMissingSigner = errors.New("bank: required signature not provided")

	// ErrUnknownProgram is returned when an instruction targets a program
	// the bank does not host.
	ErrUnknownProgram = errors.New("bank: unknown program")

	// ErrReadonlyModified is returned when an instruction changes an
	// account it did not mark writable.
	ErrReadonlyModified = errors.New("bank: read-only account modified")
)
