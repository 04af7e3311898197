// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultara/vaultara/internal/model"
	"github.com/vaultara/vaultara/internal/vault"
)

// StatusReport is a consistent snapshot of the vault for display.
type StatusReport struct {
	Vault           model.VaultRecord
	Beneficiaries   []model.Beneficiary
	AllocatedBp     int
	Expired         bool
	TimeUntilExpiry time.Duration
}

// Status returns the current vault state, the full beneficiary ledger, and
// the derived expiry view.
func (s *Service) Status() (*StatusReport, error) {
	v, err := s.load(s.store)
	if err != nil {
		return nil, err
	}
	return &StatusReport{
		Vault:           v.Status(),
		Beneficiaries:   v.Beneficiaries(),
		AllocatedBp:     v.TotalAllocatedBp(),
		Expired:         v.IsExpired(),
		TimeUntilExpiry: v.TimeUntilExpiry(),
	}, nil
}

// RevealMetadata opens the sealed metadata blob of the given beneficiary for
// the calling identity. It returns (nil, nil) when the caller is not the
// identity the blob was bound to, when no metadata was stored, or when the
// address is not in the ledger; denial is indistinguishable from absence.
func (s *Service) RevealMetadata(ctx context.Context, caller, address string) ([]byte, error) {
	v, err := s.load(s.store)
	if err != nil {
		return nil, err
	}
	blob := latestBlob(v, address)
	if blob == "" {
		return nil, nil
	}
	return s.sealer.Open(ctx, blob, caller)
}

// latestBlob returns the metadata blob of the newest ledger record for the
// address, active or removed. A removed beneficiary's metadata stays
// recoverable by its identity.
func latestBlob(v *vault.Vault, address string) string {
	addr := model.NormalizeAddress(address)
	blob := ""
	for _, b := range v.Beneficiaries() {
		if b.Address == addr && b.EncryptedMetadata != "" {
			blob = b.EncryptedMetadata
		}
	}
	return blob
}

// HistoryReport bundles the payout trail with the audit log.
type HistoryReport struct {
	Payouts []model.Payout
	Audit   []model.AuditLogEntry
}

// History returns every recorded payout and audit entry, oldest first.
func (s *Service) History() (*HistoryReport, error) {
	payouts, err := s.store.GetAllPayouts()
	if err != nil {
		return nil, fmt.Errorf("load payouts: %w", err)
	}
	audit, err := s.store.GetAllAuditLogEntries()
	if err != nil {
		return nil, fmt.Errorf("load audit log: %w", err)
	}
	return &HistoryReport{Payouts: payouts, Audit: audit}, nil
}
