// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"iter"

	"github.com/vaultara/vaultara/internal/model"
)

// Allocation ledger operations. Shares are integer basis points so the
// 100%-total invariant never drifts through floating point. The active sum
// may sit anywhere below 10000 bp while the owner is still allocating; it
// must hit exactly 10000 bp before inheritance can be triggered.

// AddBeneficiary registers a new active beneficiary. Owner-only, and only
// while the vault is active with a live heartbeat. The metadata blob is
// stored opaquely; the state machine never interprets it.
func (v *Vault) AddBeneficiary(address string, shareBp int, encryptedMetadata string, caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return ErrUnauthorized
	}
	if v.distributed {
		return ErrAlreadyDistributed
	}
	if !v.active {
		return ErrVaultNotActive
	}
	if v.isExpiredLocked() {
		return ErrVaultExpired
	}
	if !model.ValidAddress(address) {
		return ErrInvalidAddress
	}
	if shareBp < 1 || shareBp > model.BasisPointDenominator {
		return ErrInvalidShare
	}
	addr := model.NormalizeAddress(address)
	if v.findActiveLocked(addr) != nil {
		return ErrDuplicateBeneficiary
	}
	if v.totalAllocatedLocked()+shareBp > model.BasisPointDenominator {
		return ErrAllocationExceeded
	}
	v.beneficiaries = append(v.beneficiaries, beneficiary{
		address:           addr,
		shareBp:           shareBp,
		encryptedMetadata: encryptedMetadata,
		isActive:          true,
		createdAt:         v.clock.Now(),
	})
	return nil
}

// UpdateBeneficiary replaces the share of an existing active beneficiary.
// The 10000 bp ceiling is re-validated against the other active shares plus
// the new value.
func (v *Vault) UpdateBeneficiary(address string, newShareBp int, caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return ErrUnauthorized
	}
	if v.distributed {
		return ErrAlreadyDistributed
	}
	if !v.active {
		return ErrVaultNotActive
	}
	if v.isExpiredLocked() {
		return ErrVaultExpired
	}
	if newShareBp < 1 || newShareBp > model.BasisPointDenominator {
		return ErrInvalidShare
	}
	b := v.findActiveLocked(model.NormalizeAddress(address))
	if b == nil {
		return ErrBeneficiaryNotFound
	}
	if v.totalAllocatedLocked()-b.shareBp+newShareBp > model.BasisPointDenominator {
		return ErrAllocationExceeded
	}
	b.shareBp = newShareBp
	return nil
}

// RemoveBeneficiary soft-deletes a beneficiary: the record stays in the
// ledger with isActive=false so the audit history survives. The address may
// be re-added later, which creates a fresh active record.
func (v *Vault) RemoveBeneficiary(address string, caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return ErrUnauthorized
	}
	if v.distributed {
		return ErrAlreadyDistributed
	}
	if !v.active {
		return ErrVaultNotActive
	}
	if v.isExpiredLocked() {
		return ErrVaultExpired
	}
	b := v.findActiveLocked(model.NormalizeAddress(address))
	if b == nil {
		return ErrBeneficiaryNotFound
	}
	b.isActive = false
	return nil
}

// TotalAllocatedBp returns the active-share sum in basis points.
func (v *Vault) TotalAllocatedBp() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.totalAllocatedLocked()
}

// ActiveBeneficiaries returns a restartable sequence of the active ledger
// entries in insertion order. The sequence iterates over a snapshot, so it
// stays valid while the ledger keeps changing.
func (v *Vault) ActiveBeneficiaries() iter.Seq[model.Beneficiary] {
	snapshot := v.activeSnapshot()
	return func(yield func(model.Beneficiary) bool) {
		for _, b := range snapshot {
			if !yield(b) {
				return
			}
		}
	}
}

// Beneficiaries returns every ledger record, removed ones included, in
// insertion order. Used for persistence and the audit view.
func (v *Vault) Beneficiaries() []model.Beneficiary {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]model.Beneficiary, 0, len(v.beneficiaries))
	for _, b := range v.beneficiaries {
		out = append(out, beneficiaryRecord(b))
	}
	return out
}

func (v *Vault) activeSnapshot() []model.Beneficiary {
	v.mu.RLock()
	defer v.mu.RUnlock()

	var out []model.Beneficiary
	for _, b := range v.beneficiaries {
		if b.isActive {
			out = append(out, beneficiaryRecord(b))
		}
	}
	return out
}

func beneficiaryRecord(b beneficiary) model.Beneficiary {
	return model.Beneficiary{
		Address:           b.address,
		ShareBp:           b.shareBp,
		EncryptedMetadata: b.encryptedMetadata,
		IsActive:          b.isActive,
		CreatedAt:         b.createdAt,
	}
}

func (v *Vault) totalAllocatedLocked() int {
	total := 0
	for _, b := range v.beneficiaries {
		if b.isActive {
			total += b.shareBp
		}
	}
	return total
}

func (v *Vault) findActiveLocked(addr string) *beneficiary {
	for i := range v.beneficiaries {
		if v.beneficiaries[i].isActive && v.beneficiaries[i].address == addr {
			return &v.beneficiaries[i]
		}
	}
	return nil
}
