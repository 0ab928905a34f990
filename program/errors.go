package program

import "errors"

var (
	// ErrInvalidInstruction indicates the instruction buffer is empty,
	// truncated, or carries an unknown tag.
	ErrInvalidInstruction = errors.New("program: invalid instruction")

	// ErrMissingRequiredSignature indicates a required account did not sign
	// the transaction.
	ErrMissingRequiredSignature = errors.New("program: missing required signature")

	// ErrIncorrectOwner indicates the shared account is not owned by the
	// token service.
	ErrIncorrectOwner = errors.New("program: incorrect account owner")

	// ErrNotRentExempt indicates the state account balance is below the
	// storage-exemption threshold.
	ErrNotRentExempt = errors.New("program: state account is not rent exempt")

	// ErrAlreadyInitialized indicates a re-initialization attempt.
	ErrAlreadyInitialized = errors.New("program: record already initialized")

	// ErrNotInitialized indicates the record has not been initialized yet.
	ErrNotInitialized = errors.New("program: record not initialized")

	// ErrInvalidAccountData indicates account data failed structural decode,
	// or the caller is not a configured member.
	ErrInvalidAccountData = errors.New("program: invalid account data")

	// ErrWithdrawLimitExceeded indicates the requested amount exceeds the
	// member's remaining entitlement.
	ErrWithdrawLimitExceeded = errors.New("program: withdraw limit exceeded")

	// ErrInvalidShares indicates the configured shares do not sum to the
	// full pool.
	ErrInvalidShares = errors.New("program: shares must sum to 10000 basis points")

	// ErrCalculationOverflow indicates lifetime deposits exceed the 64-bit
	// accounting range.
	ErrCalculationOverflow = errors.New("program: calculation overflow")
)
