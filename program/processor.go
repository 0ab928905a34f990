// Package program implements an on-ledger revenue-sharing arrangement: two
// members split withdrawals from a shared custodial token account in
// proportion to fixed basis-point weights, with every withdrawal capped by the
// member's remaining entitlement. The processor decodes instructions, enforces
// the rules against the persistent record, and delegates all balance movement
// to the token ledger service.
package program

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/revshareorg/librevshare-go/runtime"
	"github.com/revshareorg/librevshare-go/token"
)

// Processor dispatches decoded instructions to their handlers. It holds no
// state between invocations; every handler works on the accounts it is handed
// and reloads the record from account data each time.
type Processor struct {
	// Ledger reads balances, reassigns custody, and moves value. The
	// processor never touches token balances directly.
	Ledger token.Service
}

// NewProcessor returns a processor that delegates balance movement to ledger.
func NewProcessor(ledger token.Service) *Processor {
	return &Processor{Ledger: ledger}
}

// Process decodes data and runs the matching handler against the ordered
// account list. Any error aborts the instruction with no partial effect; the
// host commits account changes only on success.
func (p *Processor) Process(ctx context.Context, programID solana.PublicKey, accounts []*runtime.Account, data []byte) error {
	in, err := DecodeInstruction(data)
	if err != nil {
		return err
	}

	switch in := in.(type) {
	case *InitRevenueSharing:
		return p.initRevenueSharing(ctx, programID, accounts, in)
	case *Withdraw:
		return p.withdraw(ctx, programID, accounts, in)
	default:
		return fmt.Errorf("%w: no handler for %T", ErrInvalidInstruction, in)
	}
}

// initRevenueSharing performs the one-time activation of a record: it
// populates the member identities and shares, then hands custody of the
// shared account to the derived authority. The custody transfer is signed by
// the initializer, who must be the shared account's current owner; it is
// irreversible through this program.
func (p *Processor) initRevenueSharing(ctx context.Context, programID solana.PublicKey, accounts []*runtime.Account, in *InitRevenueSharing) error {
	it := runtime.NewIter(accounts)

	initializer, err := it.Next()
	if err != nil {
		return err
	}
	if !initializer.Signer {
		return fmt.Errorf("%w: initializer %s", ErrMissingRequiredSignature, initializer.Key)
	}

	shared, err := it.Next()
	if err != nil {
		return err
	}
	if !shared.Owner.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: shared account is owned by %s", ErrIncorrectOwner, shared.Owner)
	}

	state, err := it.Next()
	if err != nil {
		return err
	}

	rentAcct, err := it.Next()
	if err != nil {
		return err
	}
	rent, err := runtime.RentFromAccount(rentAcct)
	if err != nil {
		return err
	}
	if !rent.IsExempt(state.Lamports, len(state.Data)) {
		return fmt.Errorf("%w: state account holds %d lamports", ErrNotRentExempt, state.Lamports)
	}

	record, err := DeserializeRevenueSharingUnchecked(state.Data)
	if err != nil {
		return err
	}
	if record.Initialized {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, state.Key)
	}

	if int(in.Member1Shares)+int(in.Member2Shares) != BasisPoints {
		return fmt.Errorf("%w: %d + %d", ErrInvalidShares, in.Member1Shares, in.Member2Shares)
	}

	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}
	if !tokenProgram.Key.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: token program account is %s", ErrIncorrectOwner, tokenProgram.Key)
	}

	member1, err := it.Next()
	if err != nil {
		return err
	}
	member2, err := it.Next()
	if err != nil {
		return err
	}

	record.Initialized = true
	record.Members[0] = Member{Identity: member1.Key, Shares: in.Member1Shares}
	record.Members[1] = Member{Identity: member2.Key, Shares: in.Member2Shares}
	copy(state.Data, SerializeRevenueSharing(record))

	authority, _, err := DeriveAuthority(programID)
	if err != nil {
		return err
	}
	return p.Ledger.SetOwner(ctx, shared, authority, token.Authority{Account: initializer})
}

// withdraw pays part of the calling member's entitlement to a destination of
// their choosing. The entitlement check runs strictly before the transfer,
// and the withdrawn counter moves only after the transfer succeeds.
func (p *Processor) withdraw(ctx context.Context, programID solana.PublicKey, accounts []*runtime.Account, in *Withdraw) error {
	it := runtime.NewIter(accounts)

	member, err := it.Next()
	if err != nil {
		return err
	}
	if !member.Signer {
		return fmt.Errorf("%w: member %s", ErrMissingRequiredSignature, member.Key)
	}

	state, err := it.Next()
	if err != nil {
		return err
	}
	record, err := DeserializeRevenueSharing(state.Data)
	if err != nil {
		return err
	}
	_, entry := record.FindMember(member.Key)
	if entry == nil {
		return fmt.Errorf("%w: %s is not a configured member", ErrInvalidAccountData, member.Key)
	}

	shared, err := it.Next()
	if err != nil {
		return err
	}
	balance, err := p.Ledger.Balance(ctx, shared)
	if err != nil {
		return err
	}

	_, proof, err := DeriveAuthority(programID)
	if err != nil {
		return err
	}

	destination, err := it.Next()
	if err != nil {
		return err
	}

	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}
	if !tokenProgram.Key.Equals(solana.TokenProgramID) {
		return fmt.Errorf("%w: token program account is %s", ErrIncorrectOwner, tokenProgram.Key)
	}

	authorityAcct, err := it.Next()
	if err != nil {
		return err
	}

	entitlement, err := Entitlement(balance, record, entry)
	if err != nil {
		return err
	}
	if in.Amount > entitlement {
		return fmt.Errorf("%w: requested %d, entitled to %d", ErrWithdrawLimitExceeded, in.Amount, entitlement)
	}

	auth := token.Authority{Account: authorityAcct, Seeds: proof.SignerSeeds(), Program: programID}
	if err := p.Ledger.Transfer(ctx, shared, destination, in.Amount, auth); err != nil {
		return err
	}

	// The counter moves only after a successful transfer, and the record
	// write is the handler's final action.
	entry.Withdrawn += in.Amount
	copy(state.Data, SerializeRevenueSharing(record))
	return nil
}
