package bank

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sync"

	"github.com/gagliardetto/solana-go"

	"github.com/revshareorg/librevshare-go/config"
	"github.com/revshareorg/librevshare-go/program"
	"github.com/revshareorg/librevshare-go/runtime"
	"github.com/revshareorg/librevshare-go/token"
)

// AccountMeta names one account an instruction touches and the privileges the
// transaction grants it. Order is significant: handlers consume accounts
// positionally.
type AccountMeta struct {
	PublicKey solana.PublicKey
	Signer    bool
	Writable  bool
}

// Instruction is one program invocation: target program, ordered account
// list, and opaque instruction data.
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Transaction is an atomic batch of instructions plus the keys that sign it.
// Either every instruction commits or none does.
type Transaction struct {
	Instructions []Instruction
	Signers      []solana.PrivateKey
}

// Bank is an in-process host runtime for the revenue-sharing program. It
// stores accounts, checks transaction signatures, runs instructions through
// the processor with all-or-nothing commit semantics, and optionally persists
// the account set in a bolt database.
type Bank struct {
	mu        sync.Mutex
	accounts  map[solana.PublicKey]*runtime.Account
	programID solana.PublicKey
	authority solana.PublicKey
	processor *program.Processor
	rent      runtime.Rent
	store     *BoltStore // nil = memory only
}

// New builds a memory-only bank hosting the program at programID, with the
// default rent schedule. Use Open for a configured, bolt-backed bank.
func New(programID solana.PublicKey) (*Bank, error) {
	return newBank(programID, runtime.DefaultRent())
}

// Open builds a bank from configuration: program identity, rent schedule, and
// an optional persistent account store under the data directory.
func Open(cfg config.Config) (*Bank, error) {
	if cfg.ProgramID == "" {
		return nil, fmt.Errorf("bank: program id is required")
	}
	programID, err := solana.PublicKeyFromBase58(cfg.ProgramID)
	if err != nil {
		return nil, fmt.Errorf("bank: parse program id: %w", err)
	}

	rent := runtime.Rent{
		LamportsPerByteYear: cfg.RentLamportsPerByteYear,
		ExemptionThreshold:  cfg.RentExemptionYears,
		BurnPercent:         runtime.DefaultBurnPercent,
	}
	b, err := newBank(programID, rent)
	if err != nil {
		return nil, err
	}

	if cfg.DataDir != "" {
		store, err := OpenBoltStore(filepath.Join(cfg.DataDir, "bank.db"))
		if err != nil {
			return nil, err
		}
		accounts, err := store.Load()
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		for _, acct := range accounts {
			b.accounts[acct.Key] = acct
		}
		b.store = store
	}
	return b, nil
}

func newBank(programID solana.PublicKey, rent runtime.Rent) (*Bank, error) {
	authority, _, err := program.DeriveAuthority(programID)
	if err != nil {
		return nil, err
	}

	b := &Bank{
		accounts:  make(map[solana.PublicKey]*runtime.Account),
		programID: programID,
		authority: authority,
		processor: program.NewProcessor(token.NewEngine()),
		rent:      rent,
	}

	// Genesis accounts: the rent sysvar, the token program, and the keyless
	// derived-authority address, so instructions can reference them from the
	// start.
	b.accounts[solana.SysVarRentPubkey] = &runtime.Account{
		Key:      solana.SysVarRentPubkey,
		Lamports: 1,
		Owner:    runtime.SysvarOwner,
		Data:     runtime.SerializeRent(rent),
	}
	b.accounts[solana.TokenProgramID] = &runtime.Account{
		Key:      solana.TokenProgramID,
		Lamports: 1,
		Owner:    solana.BPFLoaderProgramID,
	}
	b.accounts[authority] = &runtime.Account{
		Key:   authority,
		Owner: solana.SystemProgramID,
	}
	return b, nil
}

// ProgramID returns the identity of the hosted program.
func (b *Bank) ProgramID() solana.PublicKey { return b.programID }

// Authority returns the derived custodial authority for the hosted program.
func (b *Bank) Authority() solana.PublicKey { return b.authority }

// Rent returns the rent schedule in force.
func (b *Bank) Rent() runtime.Rent { return b.rent }

// Execute runs every instruction of tx in order against staged copies of the
// accounts. Changes commit only if all instructions succeed; any failure
// leaves the bank exactly as it was.
func (b *Bank) Execute(ctx context.Context, tx *Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	signers := make(map[solana.PublicKey]bool, len(tx.Signers))
	for _, key := range tx.Signers {
		signers[key.PublicKey()] = true
	}

	staged := make(map[solana.PublicKey]*runtime.Account)

	for _, in := range tx.Instructions {
		if !in.ProgramID.Equals(b.programID) {
			return fmt.Errorf("%w: %s", ErrUnknownProgram, in.ProgramID)
		}

		// Resolve metas to staged accounts. An account listed more than
		// once in one instruction resolves to the same handle with its
		// privilege flags merged.
		seen := make(map[solana.PublicKey]*runtime.Account, len(in.Accounts))
		ordered := make([]*runtime.Account, 0, len(in.Accounts))
		for _, meta := range in.Accounts {
			if meta.Signer && !signers[meta.PublicKey] {
				return fmt.Errorf("%w: %s", ErrMissingSigner, meta.PublicKey)
			}
			if acct, ok := seen[meta.PublicKey]; ok {
				acct.Signer = acct.Signer || meta.Signer
				acct.Writable = acct.Writable || meta.Writable
				ordered = append(ordered, acct)
				continue
			}

			acct, ok := staged[meta.PublicKey]
			if !ok {
				stored, found := b.accounts[meta.PublicKey]
				if !found {
					return fmt.Errorf("%w: %s", ErrAccountNotFound, meta.PublicKey)
				}
				acct = cloneAccount(stored)
				staged[meta.PublicKey] = acct
			}
			acct.Signer = meta.Signer
			acct.Writable = meta.Writable
			seen[meta.PublicKey] = acct
			ordered = append(ordered, acct)
		}

		before := make(map[solana.PublicKey]*runtime.Account, len(seen))
		for key, acct := range seen {
			before[key] = cloneAccount(acct)
		}

		if err := b.processor.Process(ctx, in.ProgramID, ordered, in.Data); err != nil {
			return err
		}

		for key, acct := range seen {
			if acct.Writable {
				continue
			}
			prev := before[key]
			if acct.Lamports != prev.Lamports || !acct.Owner.Equals(prev.Owner) || !bytes.Equal(acct.Data, prev.Data) {
				return fmt.Errorf("%w: %s", ErrReadonlyModified, key)
			}
		}
	}

	for key, acct := range staged {
		acct.Signer = false
		acct.Writable = false
		b.accounts[key] = acct
	}
	return nil
}

// CreateAccount registers a new account with the given owner, balance, and a
// zeroed data region of dataLen bytes.
func (b *Bank) CreateAccount(key, owner solana.PublicKey, lamports uint64, dataLen int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.putNew(&runtime.Account{
		Key:      key,
		Lamports: lamports,
		Owner:    owner,
		Data:     make([]byte, dataLen),
	})
}

// CreateTokenAccount registers a rent-exempt token account holding amount
// units of mint, controlled at the token level by owner.
func (b *Bank) CreateTokenAccount(key, mint, owner solana.PublicKey, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := token.SerializeAccount(&token.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  token.Initialized,
	})
	return b.putNew(&runtime.Account{
		Key:      key,
		Lamports: b.rent.MinimumBalance(len(data)),
		Owner:    solana.TokenProgramID,
		Data:     data,
	})
}

// CreateStateAccount registers a rent-exempt account sized for one
// revenue-sharing record, owned by the hosted program.
func (b *Bank) CreateStateAccount(key solana.PublicKey) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.putNew(&runtime.Account{
		Key:      key,
		Lamports: b.rent.MinimumBalance(program.RevenueSharingSize),
		Owner:    b.programID,
		Data:     make([]byte, program.RevenueSharingSize),
	})
}

// putNew stores acct under its key. Caller holds b.mu.
func (b *Bank) putNew(acct *runtime.Account) error {
	if _, ok := b.accounts[acct.Key]; ok {
		return fmt.Errorf("%w: %s", ErrAccountExists, acct.Key)
	}
	b.accounts[acct.Key] = acct
	return nil
}

// Account returns a copy of the account at key.
func (b *Bank) Account(key solana.PublicKey) (*runtime.Account, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.accounts[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	return cloneAccount(acct), nil
}

// StateRecord decodes the revenue-sharing record held by the account at key.
func (b *Bank) StateRecord(key solana.PublicKey) (*program.RevenueSharing, error) {
	acct, err := b.Account(key)
	if err != nil {
		return nil, err
	}
	return program.DeserializeRevenueSharing(acct.Data)
}

// TokenBalance returns the token amount held by the account at key.
func (b *Bank) TokenBalance(key solana.PublicKey) (uint64, error) {
	acct, err := b.Account(key)
	if err != nil {
		return 0, err
	}
	rec, err := token.DeserializeAccount(acct.Data)
	if err != nil {
		return 0, err
	}
	return rec.Amount, nil
}

// MintTo credits amount to the token account at key, modeling an inflow from
// outside the hosted program.
func (b *Bank) MintTo(key solana.PublicKey, amount uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.accounts[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, key)
	}
	rec, err := token.DeserializeAccount(acct.Data)
	if err != nil {
		return err
	}
	if rec.Amount > math.MaxUint64-amount {
		return fmt.Errorf("%w: %s", token.ErrAmountOverflow, key)
	}
	rec.Amount += amount
	copy(acct.Data, token.SerializeAccount(rec))
	return nil
}

// Save persists the current account set to the backing store.
func (b *Bank) Save() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return fmt.Errorf("bank: no backing store configured")
	}
	return b.store.Save(b.accountList())
}

// Close persists the account set and releases the backing store, if any.
func (b *Bank) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store == nil {
		return nil
	}
	if err := b.store.Save(b.accountList()); err != nil {
		_ = b.store.Close()
		return fmt.Errorf("bank: save on close: %w", err)
	}
	return b.store.Close()
}

// accountList returns the stored accounts in no particular order. Caller
// holds b.mu.
func (b *Bank) accountList() []*runtime.Account {
	accounts := make([]*runtime.Account, 0, len(b.accounts))
	for _, acct := range b.accounts {
		accounts = append(accounts, acct)
	}
	return accounts
}

// cloneAccount returns a deep copy so staged mutations never alias stored
// state.
func cloneAccount(a *runtime.Account) *runtime.Account {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}
