// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package core

import (
	"context"
	"fmt"
	"time"

	"github.com/vaultara/vaultara/internal/db"
	"github.com/vaultara/vaultara/internal/ledger"
	"github.com/vaultara/vaultara/internal/model"
	"github.com/vaultara/vaultara/internal/seal"
	"github.com/vaultara/vaultara/internal/vault"
)

// InitializeVault arms the dead-man's switch with the given heartbeat
// interval. Owner-only, allowed exactly once per deployment.
func (s *Service) InitializeVault(caller string, interval time.Duration) error {
	return s.mutate(caller, ActionInitVault, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.Initialize(interval, caller); err != nil {
			return "", err
		}
		return fmt.Sprintf("interval=%s", interval), nil
	})
}

// Heartbeat records a liveness proof, resetting the expiry clock. An expired
// but untriggered vault returns to the live state.
func (s *Service) Heartbeat(caller string) error {
	return s.mutate(caller, ActionHeartbeat, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.Heartbeat(caller); err != nil {
			return "", err
		}
		return "", nil
	})
}

// AddBeneficiary seals the metadata for the beneficiary's identity and adds
// an active ledger entry. It returns the seal tier actually used so the UI
// can warn when the blob carries no confidentiality.
func (s *Service) AddBeneficiary(ctx context.Context, caller, address string, shareBp int, metadata []byte) (string, error) {
	var blob, tier string
	if len(metadata) > 0 {
		var err error
		blob, err = s.sealer.Seal(ctx, metadata, address)
		if err != nil {
			return "", fmt.Errorf("seal metadata: %w", err)
		}
		if tier, err = seal.Tier(blob); err != nil {
			return "", err
		}
	}
	err := s.mutate(caller, ActionAddBeneficiary, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.AddBeneficiary(address, shareBp, blob, caller); err != nil {
			return "", err
		}
		return fmt.Sprintf("address=%s share_bp=%d", model.NormalizeAddress(address), shareBp), nil
	})
	if err != nil {
		return "", err
	}
	return tier, nil
}

// UpdateBeneficiary replaces the share of an active beneficiary.
func (s *Service) UpdateBeneficiary(caller, address string, shareBp int) error {
	return s.mutate(caller, ActionUpdateBeneficiary, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.UpdateBeneficiary(address, shareBp, caller); err != nil {
			return "", err
		}
		return fmt.Sprintf("address=%s share_bp=%d", model.NormalizeAddress(address), shareBp), nil
	})
}

// RemoveBeneficiary soft-deletes a beneficiary from the allocation ledger.
func (s *Service) RemoveBeneficiary(caller, address string) error {
	return s.mutate(caller, ActionRemoveBeneficiary, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.RemoveBeneficiary(address, caller); err != nil {
			return "", err
		}
		return fmt.Sprintf("address=%s", model.NormalizeAddress(address)), nil
	})
}

// Fund pays value into the vault. Any identity may fund.
func (s *Service) Fund(caller string, amount uint64) error {
	return s.mutate(caller, ActionFund, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.Fund(amount, caller); err != nil {
			return "", err
		}
		return fmt.Sprintf("amount=%d", amount), nil
	})
}

// Deactivate takes the vault out of service without distributing.
func (s *Service) Deactivate(caller string) error {
	return s.mutate(caller, ActionDeactivate, func(_ db.Store, v *vault.Vault) (string, error) {
		if err := v.Deactivate(caller); err != nil {
			return "", err
		}
		return "", nil
	})
}

// Withdraw returns the full balance of a deactivated vault to the owner. The
// ledger transfer and the payout row commit together with the state change.
func (s *Service) Withdraw(ctx context.Context, caller string) (uint64, error) {
	var withdrawn uint64
	err := s.mutate(caller, ActionWithdraw, func(tx db.Store, v *vault.Vault) (string, error) {
		amount, err := v.Withdraw(caller)
		if err != nil {
			return "", err
		}
		if _, err := s.runtime.Submit(ctx, []ledger.Command{{
			From:   s.owner,
			To:     v.Owner(),
			Amount: amount,
			Memo:   string(model.PayoutWithdrawal),
		}}); err != nil {
			return "", fmt.Errorf("submit withdrawal: %w", err)
		}
		if err := tx.AddPayouts([]model.Payout{{
			VaultID:   db.SingletonVaultID,
			Recipient: v.Owner(),
			Amount:    amount,
			Kind:      model.PayoutWithdrawal,
			CreatedAt: s.now().UTC(),
		}}); err != nil {
			return "", fmt.Errorf("record withdrawal: %w", err)
		}
		withdrawn = amount
		return fmt.Sprintf("amount=%d", amount), nil
	})
	if err != nil {
		return 0, err
	}
	return withdrawn, nil
}

// TriggerInheritance executes the one-time distribution. Permissionless: any
// caller may trigger once the heartbeat has lapsed. The returned transfers
// are what the ledger runtime confirmed.
func (s *Service) TriggerInheritance(ctx context.Context, caller string) ([]vault.Transfer, error) {
	var transfers []vault.Transfer
	err := s.mutate(caller, ActionTriggerInheritance, func(tx db.Store, v *vault.Vault) (string, error) {
		ts, err := v.TriggerInheritance(caller)
		if err != nil {
			return "", err
		}
		cmds := make([]ledger.Command, 0, len(ts))
		payouts := make([]model.Payout, 0, len(ts))
		for _, t := range ts {
			cmds = append(cmds, ledger.Command{
				From:   s.owner,
				To:     t.Address,
				Amount: t.Amount,
				Memo:   string(model.PayoutDistribution),
			})
			payouts = append(payouts, model.Payout{
				VaultID:   db.SingletonVaultID,
				Recipient: t.Address,
				Amount:    t.Amount,
				Kind:      model.PayoutDistribution,
				CreatedAt: s.now().UTC(),
			})
		}
		if _, err := s.runtime.Submit(ctx, cmds); err != nil {
			return "", fmt.Errorf("submit distribution: %w", err)
		}
		if err := tx.AddPayouts(payouts); err != nil {
			return "", fmt.Errorf("record distribution: %w", err)
		}
		transfers = ts
		return fmt.Sprintf("recipients=%d residue=%d", len(ts), v.Balance()), nil
	})
	if err != nil {
		return nil, err
	}
	return transfers, nil
}
