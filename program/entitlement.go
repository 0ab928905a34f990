package program

import (
	"fmt"
	"math"
	"math/bits"
)

// BasisPoints is the share denominator: member weights are expressed in
// hundredths of a percent, and a full configuration sums to this value.
const BasisPoints = 10000

// TotalDeposited reconstructs the lifetime inflow of the shared account from
// its current balance plus everything already paid out. The total is never
// stored; it is recomputed on every withdrawal.
func TotalDeposited(sharedBalance uint64, s *RevenueSharing) (uint64, error) {
	total := sharedBalance
	for i := range s.Members {
		sum := total + s.Members[i].Withdrawn
		if sum < total {
			return 0, fmt.Errorf("%w: lifetime deposits exceed 64 bits", ErrCalculationOverflow)
		}
		total = sum
	}
	return total, nil
}

// Entitlement returns the amount the member may still withdraw given the
// current shared balance:
//
//	floor(totalDeposited * shares / 10000) - withdrawn
//
// The division floors; entitlement is never rounded up. All arithmetic is
// integer with a 128-bit intermediate, so the result is exact for the full
// 64-bit balance range.
func Entitlement(sharedBalance uint64, s *RevenueSharing, m *Member) (uint64, error) {
	total, err := TotalDeposited(sharedBalance, s)
	if err != nil {
		return 0, err
	}
	lifetime := proportion(total, m.Shares)
	if lifetime <= m.Withdrawn {
		return 0, nil
	}
	return lifetime - m.Withdrawn, nil
}

// proportion computes floor(total * shares / BasisPoints) without overflow,
// multiplying into 128 bits before dividing. Quotients beyond the 64-bit
// range (shares over 10000, which initialization forbids) saturate at the
// maximum rather than wrapping.
func proportion(total uint64, shares uint16) uint64 {
	hi, lo := bits.Mul64(total, uint64(shares))
	if hi >= BasisPoints {
		return math.MaxUint64
	}
	q, _ := bits.Div64(hi, lo, BasisPoints)
	return q
}
