// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"errors"
	"testing"
	"time"
)

func TestAddBeneficiaryValidation(t *testing.T) {
	v, _ := newActiveVault(t)

	if err := v.AddBeneficiary(benAddr1, 5000, "", stranger); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if err := v.AddBeneficiary("not-an-address", 5000, "", ownerAddr); !errors.Is(err, ErrInvalidAddress) {
		t.Fatalf("expected ErrInvalidAddress, got %v", err)
	}
	if err := v.AddBeneficiary(benAddr1, 0, "", ownerAddr); !errors.Is(err, ErrInvalidShare) {
		t.Fatalf("expected ErrInvalidShare for 0 bp, got %v", err)
	}
	if err := v.AddBeneficiary(benAddr1, 10001, "", ownerAddr); !errors.Is(err, ErrInvalidShare) {
		t.Fatalf("expected ErrInvalidShare for 10001 bp, got %v", err)
	}

	if err := v.AddBeneficiary(benAddr1, 6000, "meta", ownerAddr); err != nil {
		t.Fatalf("AddBeneficiary failed: %v", err)
	}
	if err := v.AddBeneficiary(benAddr1, 1000, "", ownerAddr); !errors.Is(err, ErrDuplicateBeneficiary) {
		t.Fatalf("expected ErrDuplicateBeneficiary, got %v", err)
	}
	if err := v.AddBeneficiary(benAddr2, 4001, "", ownerAddr); !errors.Is(err, ErrAllocationExceeded) {
		t.Fatalf("expected ErrAllocationExceeded, got %v", err)
	}
	// Partial allocation is a legal work-in-progress state.
	if err := v.AddBeneficiary(benAddr2, 4000, "", ownerAddr); err != nil {
		t.Fatalf("AddBeneficiary failed: %v", err)
	}
	if got := v.TotalAllocatedBp(); got != 10000 {
		t.Fatalf("expected 10000 bp, got %d", got)
	}
}

func TestAllocationNeverExceedsFull(t *testing.T) {
	v, _ := newActiveVault(t)

	// Arbitrary add/update/remove sequence; the active sum must stay within
	// the ceiling at every observable point.
	steps := []func() error{
		func() error { return v.AddBeneficiary(benAddr1, 9000, "", ownerAddr) },
		func() error { return v.AddBeneficiary(benAddr2, 2000, "", ownerAddr) }, // exceeds, must fail
		func() error { return v.AddBeneficiary(benAddr2, 1000, "", ownerAddr) },
		func() error { return v.UpdateBeneficiary(benAddr2, 2000, ownerAddr) }, // exceeds, must fail
		func() error { return v.RemoveBeneficiary(benAddr1, ownerAddr) },
		func() error { return v.UpdateBeneficiary(benAddr2, 10000, ownerAddr) },
	}
	for i, step := range steps {
		_ = step()
		if got := v.TotalAllocatedBp(); got > 10000 {
			t.Fatalf("step %d: active share sum %d exceeds 10000 bp", i, got)
		}
	}
	if got := v.TotalAllocatedBp(); got != 10000 {
		t.Fatalf("expected 10000 bp at end of sequence, got %d", got)
	}
}

func TestUpdateBeneficiary(t *testing.T) {
	v, _ := newActiveVault(t)
	if err := v.UpdateBeneficiary(benAddr1, 100, ownerAddr); !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Fatalf("expected ErrBeneficiaryNotFound, got %v", err)
	}
	if err := v.AddBeneficiary(benAddr1, 6000, "", ownerAddr); err != nil {
		t.Fatalf("AddBeneficiary failed: %v", err)
	}
	// Raising a share within its own headroom must not trip the ceiling
	// check against the entry's previous value.
	if err := v.UpdateBeneficiary(benAddr1, 10000, ownerAddr); err != nil {
		t.Fatalf("UpdateBeneficiary failed: %v", err)
	}
	if err := v.UpdateBeneficiary(benAddr1, 0, ownerAddr); !errors.Is(err, ErrInvalidShare) {
		t.Fatalf("expected ErrInvalidShare, got %v", err)
	}
}

func TestRemoveAndReAddBeneficiary(t *testing.T) {
	v, _ := newActiveVault(t)
	if err := v.AddBeneficiary(benAddr1, 6000, "old-blob", ownerAddr); err != nil {
		t.Fatalf("AddBeneficiary failed: %v", err)
	}
	if err := v.RemoveBeneficiary(benAddr1, ownerAddr); err != nil {
		t.Fatalf("RemoveBeneficiary failed: %v", err)
	}
	if err := v.RemoveBeneficiary(benAddr1, ownerAddr); !errors.Is(err, ErrBeneficiaryNotFound) {
		t.Fatalf("removing twice must fail with ErrBeneficiaryNotFound, got %v", err)
	}
	if got := v.TotalAllocatedBp(); got != 0 {
		t.Fatalf("removed share must not count, got %d bp", got)
	}

	// Soft delete preserves the historic record.
	all := v.Beneficiaries()
	if len(all) != 1 || all[0].IsActive {
		t.Fatalf("expected one inactive historic record, got %+v", all)
	}

	// Re-adding creates a fresh active record alongside the old one.
	if err := v.AddBeneficiary(benAddr1, 2500, "new-blob", ownerAddr); err != nil {
		t.Fatalf("re-adding removed address failed: %v", err)
	}
	all = v.Beneficiaries()
	if len(all) != 2 {
		t.Fatalf("expected two records after re-add, got %d", len(all))
	}
	if all[1].EncryptedMetadata != "new-blob" || !all[1].IsActive {
		t.Fatalf("fresh record mismatch: %+v", all[1])
	}
}

func TestLedgerMutationsBlockedAfterExpiry(t *testing.T) {
	v, clk := newActiveVault(t)
	if err := v.AddBeneficiary(benAddr1, 6000, "", ownerAddr); err != nil {
		t.Fatalf("AddBeneficiary failed: %v", err)
	}
	clk.Advance(8 * 24 * time.Hour)

	if err := v.AddBeneficiary(benAddr2, 4000, "", ownerAddr); !errors.Is(err, ErrVaultExpired) {
		t.Fatalf("expected ErrVaultExpired, got %v", err)
	}
	if err := v.UpdateBeneficiary(benAddr1, 5000, ownerAddr); !errors.Is(err, ErrVaultExpired) {
		t.Fatalf("expected ErrVaultExpired, got %v", err)
	}
	if err := v.RemoveBeneficiary(benAddr1, ownerAddr); !errors.Is(err, ErrVaultExpired) {
		t.Fatalf("expected ErrVaultExpired, got %v", err)
	}

	// A heartbeat rescues the vault and reopens the ledger.
	if err := v.Heartbeat(ownerAddr); err != nil {
		t.Fatalf("Heartbeat failed: %v", err)
	}
	if err := v.AddBeneficiary(benAddr2, 4000, "", ownerAddr); err != nil {
		t.Fatalf("AddBeneficiary after rescue failed: %v", err)
	}
}

func TestActiveBeneficiariesIsRestartable(t *testing.T) {
	v, _ := newActiveVault(t)
	for i, add := range []struct {
		addr string
		bp   int
	}{{benAddr1, 2000}, {benAddr2, 3000}, {stranger, 5000}} {
		if err := v.AddBeneficiary(add.addr, add.bp, "", ownerAddr); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}

	seq := v.ActiveBeneficiaries()

	// First pass stops early; second pass must restart from the beginning
	// in insertion order.
	var first []string
	for b := range seq {
		first = append(first, b.Address)
		if len(first) == 2 {
			break
		}
	}
	var second []string
	for b := range seq {
		second = append(second, b.Address)
	}
	if len(first) != 2 || len(second) != 3 {
		t.Fatalf("expected 2 then 3 entries, got %d and %d", len(first), len(second))
	}
	want := []string{
		"0xbbbb000000000000000000000000000000000002",
		"0xcccc000000000000000000000000000000000003",
		"0xdddd000000000000000000000000000000000004",
	}
	for i, addr := range want {
		if second[i] != addr {
			t.Fatalf("insertion order violated at %d: got %s want %s", i, second[i], addr)
		}
	}
}
