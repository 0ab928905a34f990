package token

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// AccountSize is the serialized size of a token account record.
const AccountSize = 165

// AccountState is the lifecycle state of a token account.
type AccountState uint8

const (
	// Uninitialized means the account exists but has not been set up.
	Uninitialized AccountState = iota
	// Initialized means the account is live.
	Initialized
	// Frozen means the mint's freeze authority has suspended the account.
	Frozen
)

// Account is the token service's per-holding record: which mint it holds, who
// owns it, and how much is in it. Optional fields mirror the service's
// on-ledger layout (a 4-byte presence tag followed by the value).
type Account struct {
	Mint            solana.PublicKey
	Owner           solana.PublicKey
	Amount          uint64
	Delegate        *solana.PublicKey
	State           AccountState
	IsNative        *uint64
	DelegatedAmount uint64
	CloseAuthority  *solana.PublicKey
}

// Token account wire layout offsets.
const (
	offMint            = 0   // 32 bytes
	offOwner           = 32  // 32 bytes
	offAmount          = 64  // u64 LE
	offDelegate        = 72  // 4-byte tag + 32 bytes
	offState           = 108 // u8
	offIsNative        = 109 // 4-byte tag + u64 LE
	offDelegatedAmount = 121 // u64 LE
	offCloseAuthority  = 129 // 4-byte tag + 32 bytes
)

// SerializeAccount encodes a token account into its fixed 165-byte layout.
func SerializeAccount(a *Account) []byte {
	buf := make([]byte, AccountSize)
	copy(buf[offMint:offMint+32], a.Mint[:])
	copy(buf[offOwner:offOwner+32], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[offAmount:offAmount+8], a.Amount)
	if a.Delegate != nil {
		binary.LittleEndian.PutUint32(buf[offDelegate:offDelegate+4], 1)
		copy(buf[offDelegate+4:offDelegate+36], a.Delegate[:])
	}
	buf[offState] = uint8(a.State)
	if a.IsNative != nil {
		binary.LittleEndian.PutUint32(buf[offIsNative:offIsNative+4], 1)
		binary.LittleEndian.PutUint64(buf[offIsNative+4:offIsNative+12], *a.IsNative)
	}
	binary.LittleEndian.PutUint64(buf[offDelegatedAmount:offDelegatedAmount+8], a.DelegatedAmount)
	if a.CloseAuthority != nil {
		binary.LittleEndian.PutUint32(buf[offCloseAuthority:offCloseAuthority+4], 1)
		copy(buf[offCloseAuthority+4:offCloseAuthority+36], a.CloseAuthority[:])
	}
	return buf
}

// DeserializeAccount decodes a token account from its fixed 165-byte layout.
func DeserializeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidAccountData, len(data), AccountSize)
	}

	a := &Account{}
	copy(a.Mint[:], data[offMint:offMint+32])
	copy(a.Owner[:], data[offOwner:offOwner+32])
	a.Amount = binary.LittleEndian.Uint64(data[offAmount : offAmount+8])

	delegate, err := readOptionalKey(data[offDelegate : offDelegate+36])
	if err != nil {
		return nil, fmt.Errorf("%w: delegate", err)
	}
	a.Delegate = delegate

	state := data[offState]
	if state > uint8(Frozen) {
		return nil, fmt.Errorf("%w: account state 0x%02x", ErrInvalidAccountData, state)
	}
	a.State = AccountState(state)

	switch binary.LittleEndian.Uint32(data[offIsNative : offIsNative+4]) {
	case 0:
	case 1:
		v := binary.LittleEndian.Uint64(data[offIsNative+4 : offIsNative+12])
		a.IsNative = &v
	default:
		return nil, fmt.Errorf("%w: native tag", ErrInvalidAccountData)
	}

	a.DelegatedAmount = binary.LittleEndian.Uint64(data[offDelegatedAmount : offDelegatedAmount+8])

	closeAuth, err := readOptionalKey(data[offCloseAuthority:AccountSize])
	if err != nil {
		return nil, fmt.Errorf("%w: close authority", err)
	}
	a.CloseAuthority = closeAuth
	return a, nil
}

// readOptionalKey decodes a tagged optional public key from a 36-byte window
// (4-byte presence tag followed by 32 key bytes).
func readOptionalKey(window []byte) (*solana.PublicKey, error) {
	switch binary.LittleEndian.Uint32(window[0:4]) {
	case 0:
		return nil, nil
	case 1:
		key := solana.PublicKeyFromBytes(window[4:36])
		return &key, nil
	default:
		return nil, ErrInvalidAccountData
	}
}
