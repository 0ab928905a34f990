package program

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revshareorg/librevshare-go/runtime"
	"github.com/revshareorg/librevshare-go/token"
)

var testProgramID = makeKey(0xEE)

// --- Initialize fixtures ---

type initFixture struct {
	initializer *runtime.Account
	shared      *runtime.Account
	state       *runtime.Account
	rentAcct    *runtime.Account
	tokenProg   *runtime.Account
	member1     *runtime.Account
	member2     *runtime.Account
}

func newInitFixture() *initFixture {
	rent := runtime.DefaultRent()
	return &initFixture{
		initializer: &runtime.Account{Key: makeKey(0x01), Signer: true},
		shared:      &runtime.Account{Key: makeKey(0x02), Owner: solana.TokenProgramID, Writable: true},
		state: &runtime.Account{
			Key:      makeKey(0x03),
			Owner:    testProgramID,
			Lamports: rent.MinimumBalance(RevenueSharingSize),
			Data:     make([]byte, RevenueSharingSize),
			Writable: true,
		},
		rentAcct: &runtime.Account{
			Key:   solana.SysVarRentPubkey,
			Owner: runtime.SysvarOwner,
			Data:  runtime.SerializeRent(rent),
		},
		tokenProg: &runtime.Account{Key: solana.TokenProgramID},
		member1:   &runtime.Account{Key: makeKey(0x04)},
		member2:   &runtime.Account{Key: makeKey(0x05)},
	}
}

func (f *initFixture) accounts() []*runtime.Account {
	return []*runtime.Account{
		f.initializer, f.shared, f.state, f.rentAcct, f.tokenProg, f.member1, f.member2,
	}
}

func initData(shares1, shares2 uint16) []byte {
	return (&InitRevenueSharing{Member1Shares: shares1, Member2Shares: shares2}).Data()
}

// --- Initialize tests ---

func TestProcess_Init_Success(t *testing.T) {
	f := newInitFixture()

	var gotShared *runtime.Account
	var gotNewOwner solana.PublicKey
	var gotAuth token.Authority
	mock := &token.Mock{
		SetOwnerFn: func(ctx context.Context, acct *runtime.Account, newOwner solana.PublicKey, auth token.Authority) error {
			gotShared, gotNewOwner, gotAuth = acct, newOwner, auth
			return nil
		},
	}

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	require.NoError(t, err)

	// The record is populated and persisted.
	record, err := DeserializeRevenueSharing(f.state.Data)
	require.NoError(t, err)
	assert.True(t, record.Initialized)
	assert.Equal(t, f.member1.Key, record.Members[0].Identity)
	assert.Equal(t, uint16(6000), record.Members[0].Shares)
	assert.Equal(t, uint64(0), record.Members[0].Withdrawn)
	assert.Equal(t, f.member2.Key, record.Members[1].Identity)
	assert.Equal(t, uint16(4000), record.Members[1].Shares)
	assert.Equal(t, uint64(0), record.Members[1].Withdrawn)

	// Custody of the shared account moves to the derived authority, signed
	// by the initializer.
	authority, _, err := DeriveAuthority(testProgramID)
	require.NoError(t, err)
	assert.Same(t, f.shared, gotShared)
	assert.Equal(t, authority, gotNewOwner)
	assert.Same(t, f.initializer, gotAuth.Account)
	assert.Empty(t, gotAuth.Seeds)
}

func TestProcess_Init_MissingSignature(t *testing.T) {
	f := newInitFixture()
	f.initializer.Signer = false

	p := NewProcessor(&token.Mock{})
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
	assert.True(t, bytes.Equal(f.state.Data, make([]byte, RevenueSharingSize)), "record must stay untouched")
}

func TestProcess_Init_SharedNotTokenOwned(t *testing.T) {
	f := newInitFixture()
	f.shared.Owner = makeKey(0x77)

	p := NewProcessor(&token.Mock{})
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, ErrIncorrectOwner)
}

func TestProcess_Init_NotRentExempt(t *testing.T) {
	f := newInitFixture()
	f.state.Lamports--

	p := NewProcessor(&token.Mock{})
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, ErrNotRentExempt)
}

func TestProcess_Init_AlreadyInitialized(t *testing.T) {
	f := newInitFixture()
	copy(f.state.Data, SerializeRevenueSharing(&RevenueSharing{Initialized: true}))
	before := append([]byte(nil), f.state.Data...)

	p := NewProcessor(&token.Mock{})
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
	assert.True(t, bytes.Equal(before, f.state.Data))
}

func TestProcess_Init_InvalidShares(t *testing.T) {
	tests := []struct {
		name             string
		shares1, shares2 uint16
	}{
		{"sum below denominator", 6000, 3999},
		{"sum above denominator", 6000, 4001},
		{"zero", 0, 0},
		{"u16 overflow pair", 60000, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newInitFixture()
			p := NewProcessor(&token.Mock{})
			err := p.Process(context.Background(), testProgramID, f.accounts(), initData(tt.shares1, tt.shares2))
			assert.ErrorIs(t, err, ErrInvalidShares)
		})
	}
}

func TestProcess_Init_WrongTokenProgramAccount(t *testing.T) {
	f := newInitFixture()
	f.tokenProg = &runtime.Account{Key: makeKey(0x99)}

	p := NewProcessor(&token.Mock{})
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, ErrIncorrectOwner)
}

func TestProcess_Init_NotEnoughAccounts(t *testing.T) {
	f := newInitFixture()

	p := NewProcessor(&token.Mock{})
	for n := 0; n < 7; n++ {
		err := p.Process(context.Background(), testProgramID, f.accounts()[:n], initData(6000, 4000))
		assert.ErrorIs(t, err, runtime.ErrNotEnoughAccounts, "with %d accounts", n)
	}
}

func TestProcess_Init_SignatureCheckedFirst(t *testing.T) {
	// With several preconditions broken at once, the signature failure
	// must win.
	f := newInitFixture()
	f.initializer.Signer = false
	f.shared.Owner = makeKey(0x77)
	f.state.Lamports = 0

	p := NewProcessor(&token.Mock{})
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
}

func TestProcess_Init_SetOwnerFailureSurfaces(t *testing.T) {
	f := newInitFixture()
	mock := &token.Mock{
		SetOwnerFn: func(ctx context.Context, acct *runtime.Account, newOwner solana.PublicKey, auth token.Authority) error {
			return token.ErrOwnerMismatch
		},
	}

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), initData(6000, 4000))
	assert.ErrorIs(t, err, token.ErrOwnerMismatch)
}

// --- Withdraw fixtures ---

type withdrawFixture struct {
	member    *runtime.Account
	state     *runtime.Account
	shared    *runtime.Account
	dest      *runtime.Account
	tokenProg *runtime.Account
	pda       *runtime.Account

	balance uint64
}

func newWithdrawFixture(t *testing.T) *withdrawFixture {
	t.Helper()
	authority, _, err := DeriveAuthority(testProgramID)
	require.NoError(t, err)

	record := &RevenueSharing{
		Initialized: true,
		Members: [2]Member{
			{Identity: makeKey(0x04), Shares: 6000},
			{Identity: makeKey(0x05), Shares: 4000},
		},
	}
	return &withdrawFixture{
		member: &runtime.Account{Key: makeKey(0x04), Signer: true},
		state: &runtime.Account{
			Key:      makeKey(0x03),
			Owner:    testProgramID,
			Data:     SerializeRevenueSharing(record),
			Writable: true,
		},
		shared:    &runtime.Account{Key: makeKey(0x02), Owner: solana.TokenProgramID, Writable: true},
		dest:      &runtime.Account{Key: makeKey(0x06), Owner: solana.TokenProgramID, Writable: true},
		tokenProg: &runtime.Account{Key: solana.TokenProgramID},
		pda:       &runtime.Account{Key: authority},
		balance:   1000,
	}
}

func (f *withdrawFixture) accounts() []*runtime.Account {
	return []*runtime.Account{f.member, f.state, f.shared, f.dest, f.tokenProg, f.pda}
}

// mock returns a ledger that reports f.balance and records transfers.
func (f *withdrawFixture) mock(transferErr error) (*token.Mock, *[]uint64) {
	var transfers []uint64
	m := &token.Mock{
		BalanceFn: func(ctx context.Context, acct *runtime.Account) (uint64, error) {
			return f.balance, nil
		},
		TransferFn: func(ctx context.Context, source, dest *runtime.Account, amount uint64, auth token.Authority) error {
			if transferErr != nil {
				return transferErr
			}
			transfers = append(transfers, amount)
			return nil
		},
	}
	return m, &transfers
}

func (f *withdrawFixture) record(t *testing.T) *RevenueSharing {
	t.Helper()
	record, err := DeserializeRevenueSharing(f.state.Data)
	require.NoError(t, err)
	return record
}

// --- Withdraw tests ---

func TestProcess_Withdraw_Success(t *testing.T) {
	f := newWithdrawFixture(t)

	var gotSource, gotDest *runtime.Account
	var gotAuth token.Authority
	mock := &token.Mock{
		BalanceFn: func(ctx context.Context, acct *runtime.Account) (uint64, error) {
			return f.balance, nil
		},
		TransferFn: func(ctx context.Context, source, dest *runtime.Account, amount uint64, auth token.Authority) error {
			gotSource, gotDest, gotAuth = source, dest, auth
			assert.Equal(t, uint64(600), amount)
			return nil
		},
	}

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 600}).Data())
	require.NoError(t, err)

	assert.Same(t, f.shared, gotSource)
	assert.Same(t, f.dest, gotDest)

	// The transfer is authorized by the derived authority presenting its
	// seed material, not a signature.
	_, proof, err := DeriveAuthority(testProgramID)
	require.NoError(t, err)
	assert.Same(t, f.pda, gotAuth.Account)
	assert.Equal(t, proof.SignerSeeds(), gotAuth.Seeds)
	assert.Equal(t, testProgramID, gotAuth.Program)

	// The withdrawn counter is persisted.
	assert.Equal(t, uint64(600), f.record(t).Members[0].Withdrawn)
	assert.Equal(t, uint64(0), f.record(t).Members[1].Withdrawn)
}

func TestProcess_Withdraw_SecondMember(t *testing.T) {
	f := newWithdrawFixture(t)
	f.member = &runtime.Account{Key: makeKey(0x05), Signer: true}
	mock, transfers := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 400}).Data())
	require.NoError(t, err)

	assert.Equal(t, []uint64{400}, *transfers)
	assert.Equal(t, uint64(400), f.record(t).Members[1].Withdrawn)
	assert.Equal(t, uint64(0), f.record(t).Members[0].Withdrawn)
}

func TestProcess_Withdraw_ExactEntitlementBoundary(t *testing.T) {
	// Exactly the entitlement succeeds; one unit more fails and leaves the
	// record unchanged.
	f := newWithdrawFixture(t)
	mock, _ := f.mock(nil)
	p := NewProcessor(mock)

	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 600}).Data())
	require.NoError(t, err)
	require.Equal(t, uint64(600), f.record(t).Members[0].Withdrawn)

	f.balance = 400
	before := append([]byte(nil), f.state.Data...)
	err = p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, ErrWithdrawLimitExceeded)
	assert.True(t, bytes.Equal(before, f.state.Data), "record must stay unchanged on failure")
}

func TestProcess_Withdraw_MissingSignature(t *testing.T) {
	f := newWithdrawFixture(t)
	f.member.Signer = false
	mock, transfers := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, ErrMissingRequiredSignature)
	assert.Empty(t, *transfers)
}

func TestProcess_Withdraw_NotInitialized(t *testing.T) {
	f := newWithdrawFixture(t)
	f.state.Data = make([]byte, RevenueSharingSize)
	mock, transfers := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Empty(t, *transfers)
}

func TestProcess_Withdraw_UnknownMember(t *testing.T) {
	f := newWithdrawFixture(t)
	f.member = &runtime.Account{Key: makeKey(0x42), Signer: true}
	mock, transfers := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, ErrInvalidAccountData)
	assert.Empty(t, *transfers)
}

func TestProcess_Withdraw_LimitCheckedBeforeTransfer(t *testing.T) {
	f := newWithdrawFixture(t)
	mock, transfers := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 601}).Data())
	assert.ErrorIs(t, err, ErrWithdrawLimitExceeded)
	assert.Empty(t, *transfers, "transfer must not run when the limit check fails")
}

func TestProcess_Withdraw_TransferFailureLeavesRecord(t *testing.T) {
	f := newWithdrawFixture(t)
	mock, _ := f.mock(token.ErrInsufficientFunds)
	before := append([]byte(nil), f.state.Data...)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 600}).Data())
	assert.ErrorIs(t, err, token.ErrInsufficientFunds)
	assert.True(t, bytes.Equal(before, f.state.Data), "counter must not move when the transfer fails")
}

func TestProcess_Withdraw_BalanceErrorSurfaces(t *testing.T) {
	f := newWithdrawFixture(t)
	balanceErr := errors.New("ledger unavailable")
	mock := &token.Mock{
		BalanceFn: func(ctx context.Context, acct *runtime.Account) (uint64, error) {
			return 0, balanceErr
		},
	}

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, balanceErr)
}

func TestProcess_Withdraw_WrongTokenProgramAccount(t *testing.T) {
	f := newWithdrawFixture(t)
	f.tokenProg = &runtime.Account{Key: makeKey(0x99)}
	mock, transfers := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts(), (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, ErrIncorrectOwner)
	assert.Empty(t, *transfers)
}

func TestProcess_Withdraw_NotEnoughAccounts(t *testing.T) {
	f := newWithdrawFixture(t)
	mock, _ := f.mock(nil)

	p := NewProcessor(mock)
	err := p.Process(context.Background(), testProgramID, f.accounts()[:2], (&Withdraw{Amount: 1}).Data())
	assert.ErrorIs(t, err, runtime.ErrNotEnoughAccounts)
}

// --- Dispatch tests ---

func TestProcess_InvalidInstruction(t *testing.T) {
	p := NewProcessor(&token.Mock{})

	for _, data := range [][]byte{nil, {}, {0x02}, {0xFF, 0x00}} {
		err := p.Process(context.Background(), testProgramID, nil, data)
		assert.ErrorIs(t, err, ErrInvalidInstruction)
	}
}
