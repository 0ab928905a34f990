// Copyright (c) 2025 The RevShare developers
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds the bank's runtime settings.
type Config struct {
	// DataDir is where the account database lives. Empty means memory-only
	// operation with nothing persisted.
	DataDir string

	// ProgramID is the base58 identity of the hosted revenue-sharing
	// program.
	ProgramID string

	// RentLamportsPerByteYear and RentExemptionYears define the rent
	// schedule used for storage-exemption checks.
	RentLamportsPerByteYear uint64
	RentExemptionYears      float64
}

// DefaultConfig returns the configuration used when no config file exists.
// ProgramID has no sensible default and must be set before opening a bank.
func DefaultConfig() Config {
	return Config{
		DataDir:                 DefaultDataDir(),
		ProgramID:               "",
		RentLamportsPerByteYear: 3480,
		RentExemptionYears:      2.0,
	}
}

// DefaultDataDir returns the default data directory (~/.revshare).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".revshare"
	}
	return filepath.Join(home, ".revshare")
}

// ConfigPath returns the path of the config file within dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, "config")
}

// LoadConfig reads a config file. Missing keys keep their default values, and
// unknown keys are ignored so files written by newer versions still load.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, err := parseKeyValue(line)
		if err != nil {
			return cfg, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, i+1, line)
		}
		if err := cfg.apply(key, value); err != nil {
			return cfg, fmt.Errorf("%w: line %d: %v", ErrInvalidConfigLine, i+1, err)
		}
	}
	return cfg, nil
}

// parseKeyValue splits a "key = value" line on the first '='.
func parseKeyValue(line string) (string, string, error) {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return "", "", fmt.Errorf("no '=' separator")
	}
	key := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])
	if key == "" {
		return "", "", fmt.Errorf("empty key")
	}
	return key, value, nil
}

// apply sets the field named by key. Unknown keys are ignored.
func (c *Config) apply(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "programid":
		c.ProgramID = value
	case "rentlamports":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("rentlamports: %v", err)
		}
		c.RentLamportsPerByteYear = v
	case "rentyears":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("rentyears: %v", err)
		}
		c.RentExemptionYears = v
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories as needed.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("# RevShare Configuration\n")
	fmt.Fprintf(&sb, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&sb, "programid = %s\n", cfg.ProgramID)
	fmt.Fprintf(&sb, "rentlamports = %d\n", cfg.RentLamportsPerByteYear)
	fmt.Fprintf(&sb, "rentyears = %s\n", strconv.FormatFloat(cfg.RentExemptionYears, 'g', -1, 64))

	if err := os.WriteFile(path, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
