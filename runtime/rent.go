package runtime

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

// RentSysvarSize is the serialized size of the rent sysvar: lamports per
// byte-year u64 LE + exemption threshold f64 LE + burn percent u8.
const RentSysvarSize = 17

// accountStorageOverhead is the byte overhead the runtime charges per account
// on top of its data length.
const accountStorageOverhead = 128

// Default rent parameters of the host runtime.
const (
	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2.0
	DefaultBurnPercent         = 50
)

// SysvarOwner is the program that owns all sysvar accounts.
var SysvarOwner = solana.MustPublicKeyFromBase58("Sysvar1111111111111111111111111111111111111")

// Rent holds the runtime's storage-pricing parameters, as published in the
// rent sysvar account.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64
	BurnPercent         uint8
}

// DefaultRent returns the runtime's standard rent parameters.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: DefaultLamportsPerByteYear,
		ExemptionThreshold:  DefaultExemptionThreshold,
		BurnPercent:         DefaultBurnPercent,
	}
}

// MinimumBalance returns the balance at which an account with dataLen bytes
// of data is exempt from rent collection. The threshold multiply follows the
// sysvar's own f64 representation.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	bytes := accountStorageOverhead + uint64(dataLen)
	return uint64(float64(bytes*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt reports whether the given balance keeps an account with dataLen
// bytes of data exempt from rent collection.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// SerializeRent encodes rent parameters in the sysvar wire layout.
func SerializeRent(r Rent) []byte {
	buf := make([]byte, RentSysvarSize)
	binary.LittleEndian.PutUint64(buf[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.ExemptionThreshold))
	buf[16] = r.BurnPercent
	return buf
}

// DeserializeRent decodes the rent sysvar wire layout.
func DeserializeRent(data []byte) (Rent, error) {
	if len(data) < RentSysvarSize {
		return Rent{}, fmt.Errorf("%w: rent sysvar is %d bytes, need %d",
			ErrInvalidSysvarData, len(data), RentSysvarSize)
	}
	return Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(data[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(data[8:16])),
		BurnPercent:         data[16],
	}, nil
}

// RentFromAccount reads rent parameters from the rent sysvar account,
// verifying the account actually is the rent sysvar.
func RentFromAccount(acct *Account) (Rent, error) {
	if !acct.Key.Equals(solana.SysVarRentPubkey) {
		return Rent{}, fmt.Errorf("%w: %s is not the rent sysvar", ErrUnsupportedSysvar, acct.Key)
	}
	return DeserializeRent(acct.Data)
}
