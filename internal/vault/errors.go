// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import "errors"

// Sentinel errors returned by vault operations. Callers match them with
// errors.Is; the messages are not part of the contract.
var (
	// ErrUnauthorized indicates the caller lacks the required role for the
	// operation (almost always: caller is not the vault owner).
	ErrUnauthorized = errors.New("vault: caller not authorized")

	// ErrAlreadyInitialized indicates Initialize was called on a vault that
	// has already left the uninitialized state.
	ErrAlreadyInitialized = errors.New("vault: already initialized")

	// ErrInvalidInterval indicates a non-positive heartbeat interval.
	ErrInvalidInterval = errors.New("vault: heartbeat interval must be positive")

	// ErrVaultNotActive indicates the operation requires an active vault.
	ErrVaultNotActive = errors.New("vault: not active")

	// ErrVaultActive indicates the operation requires a deactivated vault.
	ErrVaultActive = errors.New("vault: still active")

	// ErrVaultExpired indicates the heartbeat has lapsed and the requested
	// mutation is no longer permitted.
	ErrVaultExpired = errors.New("vault: heartbeat expired")

	// ErrNotExpired indicates a trigger attempt before the heartbeat lapsed.
	ErrNotExpired = errors.New("vault: heartbeat not expired")

	// ErrAlreadyDistributed indicates inheritance has already been triggered;
	// the distributed state is terminal.
	ErrAlreadyDistributed = errors.New("vault: inheritance already distributed")

	// ErrInvalidShare indicates a share outside [1, 10000] basis points.
	ErrInvalidShare = errors.New("vault: share must be between 1 and 10000 basis points")

	// ErrAllocationExceeded indicates the active share sum would exceed
	// 10000 basis points.
	ErrAllocationExceeded = errors.New("vault: allocation exceeds 10000 basis points")

	// ErrAllocationIncomplete indicates the active share sum is below
	// 10000 basis points at the moment of distribution.
	ErrAllocationIncomplete = errors.New("vault: allocation does not reach 10000 basis points")

	// ErrDuplicateBeneficiary indicates the address already has an active record.
	ErrDuplicateBeneficiary = errors.New("vault: beneficiary already registered")

	// ErrBeneficiaryNotFound indicates no active record for the address.
	ErrBeneficiaryNotFound = errors.New("vault: beneficiary not found")

	// ErrNothingToWithdraw indicates a withdrawal from an empty vault.
	ErrNothingToWithdraw = errors.New("vault: nothing to withdraw")

	// ErrNothingToDistribute indicates a trigger against an empty vault.
	ErrNothingToDistribute = errors.New("vault: nothing to distribute")

	// ErrInvalidAmount indicates a zero funding amount.
	ErrInvalidAmount = errors.New("vault: amount must be positive")

	// ErrBalanceOverflow indicates funding would overflow the balance.
	ErrBalanceOverflow = errors.New("vault: balance overflow")

	// ErrInvalidAddress indicates a malformed identity address.
	ErrInvalidAddress = errors.New("vault: invalid address")
)
