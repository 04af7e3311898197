// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vaultara/vaultara/internal/model"
)

// testStoreSeq makes each newTestStore call use a distinct shared-cache
// database, so tests that open two stores get two independent databases.
var testStoreSeq atomic.Int64

func newTestStore(t *testing.T) Store {
	t.Helper()
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", t.Name(), testStoreSeq.Add(1))
	s, err := NewStoreFromDSN("sqlite", dsn)
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	return s
}

func testVaultRecord() model.VaultRecord {
	return model.VaultRecord{
		Owner:             "0xaaaa000000000000000000000000000000000001",
		Initialized:       true,
		IsActive:          true,
		HeartbeatInterval: 7 * 24 * time.Hour,
		LastHeartbeat:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Balance:           1001,
	}
}

func TestMigrationsApplied(t *testing.T) {
	dsn := "file:test_migrations?mode=memory&cache=shared"
	if err := InitDB("sqlite", dsn); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(ClearDefaultStore)
	if !IsInitialized() {
		t.Fatal("expected package store to be initialized")
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sql.DB for inspection: %v", err)
	}
	defer func() { _ = sqlDB.Close() }()

	for _, table := range []string{"vaults", "beneficiaries", "payouts", "audit_log", "schema_migrations"} {
		var name string
		err := sqlDB.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("expected table %s to exist after migrations: %v", table, err)
		}
	}
}

func TestVaultSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetVault()
	if err != nil {
		t.Fatalf("GetVault failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected no vault before first save, got %+v", got)
	}

	rec := testVaultRecord()
	if err := s.SaveVault(rec); err != nil {
		t.Fatalf("SaveVault failed: %v", err)
	}
	got, err = s.GetVault()
	if err != nil {
		t.Fatalf("GetVault failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected vault after save")
	}
	if got.Owner != rec.Owner || got.Balance != 1001 || got.HeartbeatInterval != rec.HeartbeatInterval {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.LastHeartbeat.Equal(rec.LastHeartbeat) {
		t.Fatalf("lastHeartbeat mismatch: got %v want %v", got.LastHeartbeat, rec.LastHeartbeat)
	}

	// Second save updates the singleton row instead of inserting.
	rec.Balance = 42
	rec.Distributed = true
	rec.IsActive = false
	if err := s.SaveVault(rec); err != nil {
		t.Fatalf("second SaveVault failed: %v", err)
	}
	got, err = s.GetVault()
	if err != nil {
		t.Fatalf("GetVault failed: %v", err)
	}
	if got.Balance != 42 || !got.Distributed || got.IsActive {
		t.Fatalf("update mismatch: %+v", got)
	}
}

func TestBeneficiariesReplaceKeepsOrder(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveVault(testVaultRecord()); err != nil {
		t.Fatalf("SaveVault failed: %v", err)
	}

	bens := []model.Beneficiary{
		{Address: "0xbbbb000000000000000000000000000000000002", ShareBp: 6000, EncryptedMetadata: "blob-1", IsActive: true},
		{Address: "0xcccc000000000000000000000000000000000003", ShareBp: 4000, IsActive: false},
		{Address: "0xcccc000000000000000000000000000000000003", ShareBp: 4000, EncryptedMetadata: "blob-2", IsActive: true},
	}
	if err := s.ReplaceBeneficiaries(1, bens); err != nil {
		t.Fatalf("ReplaceBeneficiaries failed: %v", err)
	}

	got, err := s.GetBeneficiaries(1)
	if err != nil {
		t.Fatalf("GetBeneficiaries failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 rows (soft-deleted included), got %d", len(got))
	}
	for i := range bens {
		if got[i].Address != bens[i].Address || got[i].ShareBp != bens[i].ShareBp || got[i].IsActive != bens[i].IsActive {
			t.Fatalf("row %d mismatch: %+v", i, got[i])
		}
	}
	if got[2].EncryptedMetadata != "blob-2" {
		t.Fatalf("metadata mismatch: %+v", got[2])
	}
}

func TestPayoutsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveVault(testVaultRecord()); err != nil {
		t.Fatalf("SaveVault failed: %v", err)
	}

	payouts := []model.Payout{
		{Recipient: "0xbbbb000000000000000000000000000000000002", Amount: 600, Kind: model.PayoutDistribution},
		{Recipient: "0xcccc000000000000000000000000000000000003", Amount: ^uint64(0), Kind: model.PayoutDistribution},
	}
	if err := s.AddPayouts(payouts); err != nil {
		t.Fatalf("AddPayouts failed: %v", err)
	}

	got, err := s.GetAllPayouts()
	if err != nil {
		t.Fatalf("GetAllPayouts failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 payouts, got %d", len(got))
	}
	// Amounts survive as exact uint64 values, including > 2^63.
	if got[1].Amount != ^uint64(0) {
		t.Fatalf("large amount mangled: %d", got[1].Amount)
	}
	if got[0].Kind != model.PayoutDistribution || got[0].VaultID != 1 {
		t.Fatalf("payout defaults mismatch: %+v", got[0])
	}
}

func TestAuditLog(t *testing.T) {
	s := newTestStore(t)

	if err := s.LogAction("0xaaaa000000000000000000000000000000000001", "HEARTBEAT", "clock reset"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	entries, err := s.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Action != "HEARTBEAT" {
		t.Fatalf("unexpected audit entries: %+v", entries)
	}
	if _, err := time.Parse(time.RFC3339, entries[0].Timestamp); err != nil {
		t.Fatalf("timestamp not RFC3339: %q", entries[0].Timestamp)
	}
}

func TestRunInTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveVault(testVaultRecord()); err != nil {
		t.Fatalf("SaveVault failed: %v", err)
	}

	wantErr := sql.ErrTxDone // any sentinel will do
	err := s.RunInTx(func(tx Store) error {
		rec, err := tx.GetVault()
		if err != nil {
			return err
		}
		rec.Balance = 0
		rec.Distributed = true
		if err := tx.SaveVault(*rec); err != nil {
			return err
		}
		return wantErr
	})
	if err == nil {
		t.Fatal("expected RunInTx to surface the callback error")
	}

	got, err := s.GetVault()
	if err != nil {
		t.Fatalf("GetVault failed: %v", err)
	}
	if got.Distributed || got.Balance != 1001 {
		t.Fatalf("transaction must roll back on error, got %+v", got)
	}
}

func TestBackupExportImport(t *testing.T) {
	src := newTestStore(t)
	rec := testVaultRecord()
	if err := src.SaveVault(rec); err != nil {
		t.Fatalf("SaveVault failed: %v", err)
	}
	if err := src.ReplaceBeneficiaries(1, []model.Beneficiary{
		{Address: "0xbbbb000000000000000000000000000000000002", ShareBp: 10000, IsActive: true},
	}); err != nil {
		t.Fatalf("ReplaceBeneficiaries failed: %v", err)
	}
	if err := src.LogAction("owner", "INIT_VAULT", "interval: 7d"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	data, err := src.ExportBackup()
	if err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}
	if data.Vault == nil || len(data.Beneficiaries) != 1 || len(data.AuditLogEntries) != 1 {
		t.Fatalf("unexpected backup contents: %+v", data)
	}

	dst := newTestStore(t)
	if err := dst.ImportBackup(data); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}
	got, err := dst.GetVault()
	if err != nil || got == nil {
		t.Fatalf("restored vault missing: %v", err)
	}
	if got.Balance != rec.Balance || got.Owner != rec.Owner {
		t.Fatalf("restored vault mismatch: %+v", got)
	}
	bens, err := dst.GetBeneficiaries(got.ID)
	if err != nil || len(bens) != 1 {
		t.Fatalf("restored beneficiaries mismatch: %v %v", bens, err)
	}
	entries, err := dst.GetAllAuditLogEntries()
	if err != nil || len(entries) != 1 {
		t.Fatalf("restored audit log mismatch: %v %v", entries, err)
	}
}
