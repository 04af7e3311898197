// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import "github.com/vaultara/vaultara/internal/model"

// Transfer is one computed beneficiary payout.
type Transfer struct {
	Address string
	Amount  uint64
}

// TriggerInheritance executes the one-time irreversible distribution.
//
// It is deliberately permissionless: once the heartbeat has lapsed, any
// identity may call it (the incentivized-watchdog pattern), so a lapsed
// owner cannot rely on beneficiaries having keys to the vault itself.
// Right up to this moment the owner can still rescue the vault with a
// heartbeat; the aggregate lock guarantees a racing heartbeat and trigger
// resolve to exactly one winner.
//
// Preconditions: vault active, heartbeat expired, not yet distributed,
// non-zero balance, and the active allocation summing to exactly 10000 bp.
// On success every beneficiary receives floor(balance*shareBp/10000) units,
// the vault deactivates, and only the floor-rounding residue (at most
// len(transfers)-1 units) remains behind as stranded dust.
func (v *Vault) TriggerInheritance(caller string) ([]Transfer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.distributed {
		return nil, ErrAlreadyDistributed
	}
	if !v.active {
		return nil, ErrVaultNotActive
	}
	if !v.isExpiredLocked() {
		return nil, ErrNotExpired
	}
	if v.totalAllocatedLocked() != model.BasisPointDenominator {
		return nil, ErrAllocationIncomplete
	}
	if v.balance == 0 {
		return nil, ErrNothingToDistribute
	}

	transfers := computeTransfers(v.balance, v.beneficiaries)
	var paid uint64
	for _, t := range transfers {
		paid += t.Amount
	}
	v.balance -= paid
	v.distributed = true
	v.active = false
	return transfers, nil
}

// computeTransfers splits the balance pro rata in insertion order.
//
// floor(balance*shareBp/10000) is evaluated without overflow by splitting
// balance into q*10000+r: the exact floor equals q*shareBp + r*shareBp/10000,
// and q*shareBp never exceeds the balance itself.
func computeTransfers(balance uint64, bens []beneficiary) []Transfer {
	q := balance / model.BasisPointDenominator
	r := balance % model.BasisPointDenominator

	var out []Transfer
	for _, b := range bens {
		if !b.isActive {
			continue
		}
		bp := uint64(b.shareBp)
		out = append(out, Transfer{
			Address: b.address,
			Amount:  q*bp + r*bp/model.BasisPointDenominator,
		})
	}
	return out
}
