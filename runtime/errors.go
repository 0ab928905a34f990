package runtime

import "errors"

var (
	// ErrNotEnoughAccounts indicates an instruction consumed more positional
	// accounts than the transaction supplied.
	ErrNotEnoughAccounts = errors.New("runtime: not enough accounts")

	// ErrUnsupportedSysvar indicates an account key does not match the
	// requested sysvar.
	ErrUnsupportedSysvar = errors.New("runtime: unsupported sysvar")

	// ErrInvalidSysvarData indicates sysvar account data failed to decode.
	ErrInvalidSysvarData = errors.New("runtime: invalid sysvar data")
)
