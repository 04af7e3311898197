// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the shared data structures passed between the vault
// core, the data-access layer, and the user interfaces.
package model

import (
	"fmt"
	"strings"
	"time"
)

// BasisPointDenominator is the full allocation: 10000 bp == 100%.
const BasisPointDenominator = 10000

// VaultRecord is the persisted snapshot of a vault aggregate.
type VaultRecord struct {
	ID                int
	Owner             string
	Initialized       bool
	IsActive          bool
	HeartbeatInterval time.Duration
	LastHeartbeat     time.Time
	Balance           uint64
	Distributed       bool
}

// Beneficiary is one allocation ledger entry. Removed beneficiaries are kept
// with IsActive=false to preserve audit history.
type Beneficiary struct {
	ID                int
	Address           string
	ShareBp           int
	EncryptedMetadata string
	IsActive          bool
	CreatedAt         time.Time
}

// SharePercent renders the share as a human-readable percentage.
func (b Beneficiary) SharePercent() string {
	return fmt.Sprintf("%d.%02d%%", b.ShareBp/100, b.ShareBp%100)
}

// Payout records a single balance movement out of the vault: one row per
// beneficiary on distribution, one row for an owner withdrawal.
type Payout struct {
	ID        int
	VaultID   int
	Recipient string
	Amount    uint64
	Kind      PayoutKind
	CreatedAt time.Time
}

// PayoutKind distinguishes distribution transfers from owner withdrawals.
type PayoutKind string

const (
	PayoutDistribution PayoutKind = "distribution"
	PayoutWithdrawal   PayoutKind = "withdrawal"
)

// AuditLogEntry is a single action recorded in the audit trail.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Actor     string
	Action    string
	Details   string
}

// NormalizeAddress lowercases an identity address so comparisons are
// case-insensitive, matching how ledger addresses are usually checksummed
// for display but compared in lowercase.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// ValidAddress reports whether addr looks like a 20-byte hex ledger address.
func ValidAddress(addr string) bool {
	addr = NormalizeAddress(addr)
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return false
	}
	for _, c := range addr[2:] {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		default:
			return false
		}
	}
	return true
}
