// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"

	"github.com/vaultara/vaultara/internal/i18n"
	"github.com/vaultara/vaultara/internal/vault"
)

// sentinelMessages maps vault rule violations to their translation IDs. The
// mapping goes through errors.Is, never through string matching, so wrapped
// errors keep working.
var sentinelMessages = []struct {
	err error
	id  string
}{
	{vault.ErrUnauthorized, "error.unauthorized"},
	{vault.ErrAlreadyInitialized, "error.already_initialized"},
	{vault.ErrInvalidInterval, "error.invalid_interval"},
	{vault.ErrVaultNotActive, "error.vault_not_active"},
	{vault.ErrVaultActive, "error.vault_active"},
	{vault.ErrVaultExpired, "error.vault_expired"},
	{vault.ErrNotExpired, "error.not_expired"},
	{vault.ErrAlreadyDistributed, "error.already_distributed"},
	{vault.ErrInvalidShare, "error.invalid_share"},
	{vault.ErrAllocationExceeded, "error.allocation_exceeded"},
	{vault.ErrAllocationIncomplete, "error.allocation_incomplete"},
	{vault.ErrDuplicateBeneficiary, "error.duplicate_beneficiary"},
	{vault.ErrBeneficiaryNotFound, "error.beneficiary_not_found"},
	{vault.ErrNothingToWithdraw, "error.nothing_to_withdraw"},
	{vault.ErrNothingToDistribute, "error.nothing_to_distribute"},
	{vault.ErrInvalidAmount, "error.invalid_amount"},
	{vault.ErrBalanceOverflow, "error.balance_overflow"},
	{vault.ErrInvalidAddress, "error.invalid_address"},
}

// renderError translates known vault errors into user-facing messages and
// passes everything else through verbatim.
func renderError(err error) string {
	for _, m := range sentinelMessages {
		if errors.Is(err, m.err) {
			return i18n.T(m.id)
		}
	}
	return err.Error()
}
