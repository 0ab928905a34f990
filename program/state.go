package program

import (
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// RevenueSharingSize is the serialized size of a RevenueSharing record.
const RevenueSharingSize = 85

// memberCount is fixed by the record layout: the shared balance is split
// between exactly two parties.
const memberCount = 2

// Member is one configured participant: its identity, its basis-point weight,
// and the running total it has withdrawn so far.
type Member struct {
	Identity  solana.PublicKey
	Shares    uint16
	Withdrawn uint64
}

// RevenueSharing is the persistent record of one sharing arrangement.
// Identities and shares are immutable once the record is initialized; only
// the withdrawn counters change afterward, and only upward.
type RevenueSharing struct {
	Initialized bool
	Members     [memberCount]Member
}

// FindMember returns the index and member record for the given identity,
// or -1 if the identity is not a configured member.
func (s *RevenueSharing) FindMember(identity solana.PublicKey) (int, *Member) {
	for i := range s.Members {
		if s.Members[i].Identity.Equals(identity) {
			return i, &s.Members[i]
		}
	}
	return -1, nil
}

// SerializeRevenueSharing encodes a record into its fixed 85-byte layout:
// flag(1) + identities(32+32) + shares(2+2) + withdrawn(8+8), multi-byte
// fields little-endian. The layout is a compatibility contract with records
// created by earlier deployments and must not change.
func SerializeRevenueSharing(s *RevenueSharing) []byte {
	buf := make([]byte, RevenueSharingSize)
	if s.Initialized {
		buf[0] = 1
	}
	copy(buf[1:33], s.Members[0].Identity[:])
	copy(buf[33:65], s.Members[1].Identity[:])
	binary.LittleEndian.PutUint16(buf[65:67], s.Members[0].Shares)
	binary.LittleEndian.PutUint16(buf[67:69], s.Members[1].Shares)
	binary.LittleEndian.PutUint64(buf[69:77], s.Members[0].Withdrawn)
	binary.LittleEndian.PutUint64(buf[77:85], s.Members[1].Withdrawn)
	return buf
}

// DeserializeRevenueSharingUnchecked decodes a record without requiring it to
// be initialized; an all-zero buffer decodes to the zero record. The codec
// performs no semantic validation of identities or shares.
func DeserializeRevenueSharingUnchecked(data []byte) (*RevenueSharing, error) {
	if len(data) < RevenueSharingSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInvalidAccountData, len(data), RevenueSharingSize)
	}

	s := &RevenueSharing{}
	switch data[0] {
	case 0:
		s.Initialized = false
	case 1:
		s.Initialized = true
	default:
		return nil, fmt.Errorf("%w: initialized flag 0x%02x", ErrInvalidAccountData, data[0])
	}

	copy(s.Members[0].Identity[:], data[1:33])
	copy(s.Members[1].Identity[:], data[33:65])
	s.Members[0].Shares = binary.LittleEndian.Uint16(data[65:67])
	s.Members[1].Shares = binary.LittleEndian.Uint16(data[67:69])
	s.Members[0].Withdrawn = binary.LittleEndian.Uint64(data[69:77])
	s.Members[1].Withdrawn = binary.LittleEndian.Uint64(data[77:85])
	return s, nil
}

// DeserializeRevenueSharing decodes a record that must already be marked
// initialized.
func DeserializeRevenueSharing(data []byte) (*RevenueSharing, error) {
	s, err := DeserializeRevenueSharingUnchecked(data)
	if err != nil {
		return nil, err
	}
	if !s.Initialized {
		return nil, fmt.Errorf("%w: revenue sharing record", ErrNotInitialized)
	}
	return s, nil
}
