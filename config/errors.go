// Copyright (c) 2025 The RevShare developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import "errors"

var (
	// ErrInvalidProgramID indicates the program id is not a valid base58
	// public key.
	ErrInvalidProgramID = errors.New("config: invalid program id")

	// ErrInvalidRent indicates a rent schedule value is out of range.
	ErrInvalidRent = errors.New("config: invalid rent schedule")

	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config: configuration file not found")

	// ErrInvalidConfigLine indicates a line in the config file is malformed.
	ErrInvalidConfigLine = errors.New("config: invalid configuration line")
)
