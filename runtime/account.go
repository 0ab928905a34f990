package runtime

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// Account is the host-runtime view of one ledger account handed to an
// instruction: identity, balance, owning program, raw data, and the
// per-transaction signer/writable attributes. All mutable state a handler
// touches arrives through these handles; nothing is cached between
// invocations.
type Account struct {
	Key      solana.PublicKey
	Lamports uint64
	Owner    solana.PublicKey
	Data     []byte
	Signer   bool
	Writable bool
}

// Iter walks an ordered account list the way handlers consume it: strictly
// positionally, one account per call.
type Iter struct {
	accounts []*Account
	next     int
}

// NewIter returns an iterator over the instruction's account list.
func NewIter(accounts []*Account) *Iter {
	return &Iter{accounts: accounts}
}

// Next returns the account at the current position and advances. It fails
// with ErrNotEnoughAccounts when the list is exhausted.
func (it *Iter) Next() (*Account, error) {
	if it.next >= len(it.accounts) {
		return nil, fmt.Errorf("%w: position %d", ErrNotEnoughAccounts, it.next)
	}
	acct := it.accounts[it.next]
	it.next++
	return acct, nil
}
