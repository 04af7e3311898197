// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.
package model

// BackupData is a container for all data exported in a backup: the vault
// snapshot plus every ledger, payout, and audit record.
type BackupData struct {
	// SchemaVersion helps in handling migrations during restore.
	SchemaVersion int `json:"schema_version"`

	Vault           *VaultRecord    `json:"vault,omitempty"`
	Beneficiaries   []Beneficiary   `json:"beneficiaries"`
	Payouts         []Payout        `json:"payouts"`
	AuditLogEntries []AuditLogEntry `json:"audit_log_entries"`
}
