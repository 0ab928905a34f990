// Copyright (c) 2025 The RevShare developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
//
// An empty DataDir is valid and selects memory-only operation. An empty
// ProgramID is valid here; opening a bank requires one, and reports its own
// error.
func ValidateConfig(cfg Config) error {
	if cfg.ProgramID != "" {
		if _, err := solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProgramID, err)
		}
	}

	if cfg.RentLamportsPerByteYear == 0 {
		return fmt.Errorf("%w: rentlamports must be positive", ErrInvalidRent)
	}
	if cfg.RentExemptionYears <= 0 {
		return fmt.Errorf("%w: rentyears must be positive", ErrInvalidRent)
	}

	return nil
}
