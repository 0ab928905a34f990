package program

import (
	"encoding/binary"
	"fmt"
)

// Instruction tags (first wire byte).
const (
	tagInitRevenueSharing = 0x00
	tagWithdraw           = 0x01
)

const (
	initPayloadSize     = 4 // member 1 shares u16 + member 2 shares u16
	withdrawPayloadSize = 8 // amount u64
)

// Instruction is one decoded operation.
type Instruction interface {
	// Data returns the instruction's wire encoding.
	Data() []byte
}

// InitRevenueSharing activates a revenue-sharing record and hands custody of
// the shared account to the derived authority.
//
// Accounts expected:
//
//	0. [signer]   initializer; current owner of the shared account
//	1. [writable] shared token account whose custody moves to the derived authority
//	2. [writable] state account holding the revenue-sharing record
//	3. []         rent sysvar
//	4. []         token program
//	5. []         main account of member 1
//	6. []         main account of member 2
type InitRevenueSharing struct {
	Member1Shares uint16
	Member2Shares uint16
}

// Withdraw pays part of the calling member's entitlement out of the shared
// account.
//
// Accounts expected:
//
//	0. [signer]   the withdrawing member
//	1. [writable] state account holding the revenue-sharing record
//	2. [writable] shared token account
//	3. [writable] destination token account
//	4. []         token program
//	5. []         derived-authority account
type Withdraw struct {
	Amount uint64
}

// DecodeInstruction parses an instruction buffer into a typed operation.
// Payload reads are bounds-checked; trailing bytes beyond the fixed payload
// are ignored.
func DecodeInstruction(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidInstruction)
	}

	tag, payload := data[0], data[1:]
	switch tag {
	case tagInitRevenueSharing:
		if len(payload) < initPayloadSize {
			return nil, fmt.Errorf("%w: init payload is %d bytes, need %d",
				ErrInvalidInstruction, len(payload), initPayloadSize)
		}
		return &InitRevenueSharing{
			Member1Shares: binary.LittleEndian.Uint16(payload[0:2]),
			Member2Shares: binary.LittleEndian.Uint16(payload[2:4]),
		}, nil

	case tagWithdraw:
		if len(payload) < withdrawPayloadSize {
			return nil, fmt.Errorf("%w: withdraw payload is %d bytes, need %d",
				ErrInvalidInstruction, len(payload), withdrawPayloadSize)
		}
		return &Withdraw{Amount: binary.LittleEndian.Uint64(payload[0:8])}, nil

	default:
		return nil, fmt.Errorf("%w: unknown tag 0x%02x", ErrInvalidInstruction, tag)
	}
}

// Data returns the wire encoding of the initialize instruction.
func (in *InitRevenueSharing) Data() []byte {
	buf := make([]byte, 1+initPayloadSize)
	buf[0] = tagInitRevenueSharing
	binary.LittleEndian.PutUint16(buf[1:3], in.Member1Shares)
	binary.LittleEndian.PutUint16(buf[3:5], in.Member2Shares)
	return buf
}

// Data returns the wire encoding of the withdraw instruction.
func (in *Withdraw) Data() []byte {
	buf := make([]byte, 1+withdrawPayloadSize)
	buf[0] = tagWithdraw
	binary.LittleEndian.PutUint64(buf[1:9], in.Amount)
	return buf
}
