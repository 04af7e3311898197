// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import "github.com/vaultara/vaultara/internal/model"

// Store defines the interface for all database operations in Vaultara.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Vault snapshot methods. A deployment holds a single vault row; GetVault
	// returns (nil, nil) before the first save.
	GetVault() (*model.VaultRecord, error)
	SaveVault(rec model.VaultRecord) error

	// Allocation ledger methods. Removed beneficiaries stay as inactive rows.
	GetBeneficiaries(vaultID int) ([]model.Beneficiary, error)
	ReplaceBeneficiaries(vaultID int, bens []model.Beneficiary) error

	// Payout methods (distribution transfers and owner withdrawals).
	AddPayouts(payouts []model.Payout) error
	GetAllPayouts() ([]model.Payout, error)

	// Audit log methods.
	LogAction(actor, action, details string) error
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)

	// RunInTx executes fn against a store bound to a single database
	// transaction. The vault row is locked for the duration where the
	// backend supports it, so concurrent mutating commands serialize.
	RunInTx(fn func(tx Store) error) error

	// Backup methods.
	ExportBackup() (*model.BackupData, error)
	ImportBackup(data *model.BackupData) error
}
