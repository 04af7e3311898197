// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"github.com/vaultara/vaultara/internal/model"
)

// VaultModel maps the `vaults` table for Bun queries. Balance is stored as a
// decimal string: Postgres has no unsigned 64-bit integer type, and custodied
// balances must not be truncated at 2^63.
type VaultModel struct {
	bun.BaseModel   `bun:"table:vaults"`
	ID              int       `bun:"id,pk"`
	Owner           string    `bun:"owner"`
	Initialized     bool      `bun:"initialized"`
	IsActive        bool      `bun:"is_active"`
	IntervalSeconds int64     `bun:"heartbeat_interval_seconds"`
	LastHeartbeat   time.Time `bun:"last_heartbeat"`
	Balance         string    `bun:"balance"`
	Distributed     bool      `bun:"distributed"`
}

// BeneficiaryModel maps the `beneficiaries` table. Soft-removed entries keep
// their row with is_active=false; insertion order is the id order.
type BeneficiaryModel struct {
	bun.BaseModel     `bun:"table:beneficiaries"`
	ID                int       `bun:"id,pk,autoincrement"`
	VaultID           int       `bun:"vault_id"`
	Address           string    `bun:"address"`
	ShareBp           int       `bun:"share_bp"`
	EncryptedMetadata string    `bun:"encrypted_metadata"`
	IsActive          bool      `bun:"is_active"`
	CreatedAt         time.Time `bun:"created_at"`
}

// PayoutModel maps the `payouts` table.
type PayoutModel struct {
	bun.BaseModel `bun:"table:payouts"`
	ID            int       `bun:"id,pk,autoincrement"`
	VaultID       int       `bun:"vault_id"`
	Recipient     string    `bun:"recipient"`
	Amount        string    `bun:"amount"`
	Kind          string    `bun:"kind"`
	CreatedAt     time.Time `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Actor         string `bun:"actor"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// SingletonVaultID is the row id of the deployment's vault. One vault per
// deployment instance.
const SingletonVaultID = 1

// bunStore is the shared Bun-backed implementation behind every dialect
// store. It runs against either a live *bun.DB or a bun.Tx, which is how
// RunInTx hands out transaction-scoped stores.
type bunStore struct {
	db     bun.IDB
	dbType string
}

func (s *bunStore) GetVault() (*model.VaultRecord, error) {
	ctx := context.Background()

	var vm VaultModel
	err := s.db.NewSelect().Model(&vm).Where("id = ?", SingletonVaultID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, MapDBError(err)
	}
	rec, err := vaultModelToRecord(vm)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *bunStore) SaveVault(rec model.VaultRecord) error {
	ctx := context.Background()
	vm := vaultRecordToModel(rec)

	exists, err := s.db.NewSelect().Model((*VaultModel)(nil)).
		Where("id = ?", SingletonVaultID).Exists(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if exists {
		_, err = s.db.NewUpdate().Model(&vm).WherePK().Exec(ctx)
	} else {
		_, err = s.db.NewInsert().Model(&vm).Exec(ctx)
	}
	return MapDBError(err)
}

func (s *bunStore) GetBeneficiaries(vaultID int) ([]model.Beneficiary, error) {
	ctx := context.Background()

	var rows []BeneficiaryModel
	err := s.db.NewSelect().Model(&rows).
		Where("vault_id = ?", vaultID).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.Beneficiary, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.Beneficiary{
			ID:                r.ID,
			Address:           r.Address,
			ShareBp:           r.ShareBp,
			EncryptedMetadata: r.EncryptedMetadata,
			IsActive:          r.IsActive,
			CreatedAt:         r.CreatedAt,
		})
	}
	return out, nil
}

// ReplaceBeneficiaries rewrites the ledger rows for a vault from the
// aggregate's snapshot. Callers run this inside RunInTx together with
// SaveVault so the snapshot lands atomically.
func (s *bunStore) ReplaceBeneficiaries(vaultID int, bens []model.Beneficiary) error {
	ctx := context.Background()

	if _, err := s.db.NewDelete().Model((*BeneficiaryModel)(nil)).
		Where("vault_id = ?", vaultID).Exec(ctx); err != nil {
		return MapDBError(err)
	}
	if len(bens) == 0 {
		return nil
	}
	rows := make([]BeneficiaryModel, 0, len(bens))
	for _, b := range bens {
		rows = append(rows, BeneficiaryModel{
			VaultID:           vaultID,
			Address:           b.Address,
			ShareBp:           b.ShareBp,
			EncryptedMetadata: b.EncryptedMetadata,
			IsActive:          b.IsActive,
			CreatedAt:         b.CreatedAt,
		})
	}
	_, err := s.db.NewInsert().Model(&rows).Exec(ctx)
	return MapDBError(err)
}

func (s *bunStore) AddPayouts(payouts []model.Payout) error {
	if len(payouts) == 0 {
		return nil
	}
	ctx := context.Background()
	rows := make([]PayoutModel, 0, len(payouts))
	for _, p := range payouts {
		vaultID := p.VaultID
		if vaultID == 0 {
			vaultID = SingletonVaultID
		}
		createdAt := p.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		rows = append(rows, PayoutModel{
			VaultID:   vaultID,
			Recipient: p.Recipient,
			Amount:    strconv.FormatUint(p.Amount, 10),
			Kind:      string(p.Kind),
			CreatedAt: createdAt,
		})
	}
	_, err := s.db.NewInsert().Model(&rows).Exec(ctx)
	return MapDBError(err)
}

func (s *bunStore) GetAllPayouts() ([]model.Payout, error) {
	ctx := context.Background()

	var rows []PayoutModel
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.Payout, 0, len(rows))
	for _, r := range rows {
		amount, err := strconv.ParseUint(r.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("payout %d has malformed amount %q: %w", r.ID, r.Amount, err)
		}
		out = append(out, model.Payout{
			ID:        r.ID,
			VaultID:   r.VaultID,
			Recipient: r.Recipient,
			Amount:    amount,
			Kind:      model.PayoutKind(r.Kind),
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *bunStore) LogAction(actor, action, details string) error {
	ctx := context.Background()
	row := AuditLogModel{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor:     actor,
		Action:    action,
		Details:   details,
	}
	_, err := s.db.NewInsert().Model(&row).Exec(ctx)
	return MapDBError(err)
}

func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()

	var rows []AuditLogModel
	if err := s.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, MapDBError(err)
	}
	out := make([]model.AuditLogEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, model.AuditLogEntry{
			ID:        r.ID,
			Timestamp: r.Timestamp,
			Actor:     r.Actor,
			Action:    r.Action,
			Details:   r.Details,
		})
	}
	return out, nil
}

// RunInTx executes fn against a transaction-scoped store. The vault row is
// locked up front on backends with row locks, so two processes racing a
// trigger and a heartbeat serialize at the database and the loser sees the
// winner's state.
func (s *bunStore) RunInTx(fn func(tx Store) error) error {
	bdb, ok := s.db.(*bun.DB)
	if !ok {
		// Already transaction-scoped; nested calls just join it.
		return fn(s)
	}
	ctx := context.Background()
	return bdb.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		txStore := &bunStore{db: tx, dbType: s.dbType}
		if err := txStore.lockVaultRow(ctx); err != nil {
			return err
		}
		return fn(txStore)
	})
}

// lockVaultRow takes a row lock on the singleton vault where the backend
// has one. SQLite serializes writers on its own.
func (s *bunStore) lockVaultRow(ctx context.Context) error {
	if s.dbType != "postgres" && s.dbType != "mysql" {
		return nil
	}
	var ids []int
	err := s.db.NewSelect().Model((*VaultModel)(nil)).Column("id").
		Where("id = ?", SingletonVaultID).For("UPDATE").Scan(ctx, &ids)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return MapDBError(err)
	}
	return nil
}

func (s *bunStore) ExportBackup() (*model.BackupData, error) {
	data := &model.BackupData{SchemaVersion: 1}

	rec, err := s.GetVault()
	if err != nil {
		return nil, err
	}
	data.Vault = rec
	if rec != nil {
		if data.Beneficiaries, err = s.GetBeneficiaries(rec.ID); err != nil {
			return nil, err
		}
	}
	if data.Payouts, err = s.GetAllPayouts(); err != nil {
		return nil, err
	}
	if data.AuditLogEntries, err = s.GetAllAuditLogEntries(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *bunStore) ImportBackup(data *model.BackupData) error {
	return s.RunInTx(func(tx Store) error {
		if data.Vault != nil {
			if err := tx.SaveVault(*data.Vault); err != nil {
				return err
			}
			if err := tx.ReplaceBeneficiaries(data.Vault.ID, data.Beneficiaries); err != nil {
				return err
			}
		}
		if err := tx.AddPayouts(data.Payouts); err != nil {
			return err
		}
		if len(data.AuditLogEntries) == 0 {
			return nil
		}
		// Insert audit rows directly so the original timestamps survive.
		ts, ok := tx.(*bunStore)
		if !ok {
			return errors.New("backup import requires a bun-backed store")
		}
		rows := make([]AuditLogModel, 0, len(data.AuditLogEntries))
		for _, e := range data.AuditLogEntries {
			rows = append(rows, AuditLogModel{
				Timestamp: e.Timestamp,
				Actor:     e.Actor,
				Action:    e.Action,
				Details:   e.Details,
			})
		}
		_, err := ts.db.NewInsert().Model(&rows).Exec(context.Background())
		return MapDBError(err)
	})
}

func vaultRecordToModel(rec model.VaultRecord) VaultModel {
	id := rec.ID
	if id == 0 {
		id = SingletonVaultID
	}
	return VaultModel{
		ID:              id,
		Owner:           rec.Owner,
		Initialized:     rec.Initialized,
		IsActive:        rec.IsActive,
		IntervalSeconds: int64(rec.HeartbeatInterval / time.Second),
		LastHeartbeat:   rec.LastHeartbeat.UTC(),
		Balance:         strconv.FormatUint(rec.Balance, 10),
		Distributed:     rec.Distributed,
	}
}

func vaultModelToRecord(vm VaultModel) (model.VaultRecord, error) {
	balance, err := strconv.ParseUint(vm.Balance, 10, 64)
	if err != nil {
		return model.VaultRecord{}, fmt.Errorf("vault %d has malformed balance %q: %w", vm.ID, vm.Balance, err)
	}
	return model.VaultRecord{
		ID:                vm.ID,
		Owner:             vm.Owner,
		Initialized:       vm.Initialized,
		IsActive:          vm.IsActive,
		HeartbeatInterval: time.Duration(vm.IntervalSeconds) * time.Second,
		LastHeartbeat:     vm.LastHeartbeat,
		Balance:           balance,
		Distributed:       vm.Distributed,
	}, nil
}
