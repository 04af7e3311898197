// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package core defines the high-level facades used by the UI layers. Each
// command loads the vault aggregate from the store, applies exactly one
// state-machine operation, and persists the result together with an audit
// entry in a single database transaction.
package core

import (
	"fmt"
	"time"

	"github.com/vaultara/vaultara/internal/db"
	"github.com/vaultara/vaultara/internal/ledger"
	"github.com/vaultara/vaultara/internal/model"
	"github.com/vaultara/vaultara/internal/seal"
	"github.com/vaultara/vaultara/internal/vault"
)

// Audit action names. One per mutating command, recorded with the caller as
// actor.
const (
	ActionInitVault          = "INIT_VAULT"
	ActionHeartbeat          = "HEARTBEAT"
	ActionAddBeneficiary     = "ADD_BENEFICIARY"
	ActionUpdateBeneficiary  = "UPDATE_BENEFICIARY"
	ActionRemoveBeneficiary  = "REMOVE_BENEFICIARY"
	ActionFund               = "FUND"
	ActionDeactivate         = "DEACTIVATE"
	ActionWithdraw           = "WITHDRAW"
	ActionTriggerInheritance = "TRIGGER_INHERITANCE"
	ActionRestoreBackup      = "RESTORE_BACKUP"
)

// Service orchestrates vault commands against a store, a seal adapter for
// beneficiary metadata, and a ledger runtime for value movement.
type Service struct {
	store   db.Store
	sealer  *seal.Adapter
	runtime ledger.Runtime
	clock   vault.Clock
	owner   string
}

// ServiceOption configures a Service at construction time.
type ServiceOption func(*Service)

// WithSealer replaces the default fallback-only seal adapter.
func WithSealer(a *seal.Adapter) ServiceOption {
	return func(s *Service) { s.sealer = a }
}

// WithRuntime replaces the default local ledger runtime.
func WithRuntime(rt ledger.Runtime) ServiceOption {
	return func(s *Service) { s.runtime = rt }
}

// WithClock replaces the service's time source. Tests use a fake clock to
// pin expiry arithmetic.
func WithClock(c vault.Clock) ServiceOption {
	return func(s *Service) { s.clock = c }
}

// NewService builds a service for the vault owned by owner. The owner
// identity comes from configuration; callers of individual commands still
// authenticate as themselves, so a non-owner caller is rejected by the
// aggregate, not silently impersonated.
func NewService(store db.Store, owner string, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		sealer:  seal.New(nil),
		runtime: ledger.Local{},
		clock:   vault.SystemClock(),
		owner:   model.NormalizeAddress(owner),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Owner returns the configured owner identity.
func (s *Service) Owner() string { return s.owner }

// load rebuilds the aggregate from the given store. Before the first
// initialization there is no vault row; the aggregate starts uninitialized
// with the configured owner.
func (s *Service) load(tx db.Store) (*vault.Vault, error) {
	rec, err := tx.GetVault()
	if err != nil {
		return nil, fmt.Errorf("load vault: %w", err)
	}
	if rec == nil {
		return vault.New(s.owner, vault.WithClock(s.clock)), nil
	}
	bens, err := tx.GetBeneficiaries(rec.ID)
	if err != nil {
		return nil, fmt.Errorf("load beneficiaries: %w", err)
	}
	return vault.Restore(*rec, bens, vault.WithClock(s.clock)), nil
}

// save persists the aggregate snapshot: vault row plus the full ledger,
// removed entries included.
func (s *Service) save(tx db.Store, v *vault.Vault) error {
	rec := v.Status()
	rec.ID = db.SingletonVaultID
	if err := tx.SaveVault(rec); err != nil {
		return fmt.Errorf("save vault: %w", err)
	}
	if err := tx.ReplaceBeneficiaries(db.SingletonVaultID, v.Beneficiaries()); err != nil {
		return fmt.Errorf("save beneficiaries: %w", err)
	}
	return nil
}

// mutate runs one state-machine operation transactionally: load, apply,
// save, audit. The operation's error aborts the transaction, so a failed
// command leaves no trace beyond its error.
func (s *Service) mutate(caller, action string, op func(tx db.Store, v *vault.Vault) (details string, err error)) error {
	return s.store.RunInTx(func(tx db.Store) error {
		v, err := s.load(tx)
		if err != nil {
			return err
		}
		details, err := op(tx, v)
		if err != nil {
			return err
		}
		if err := s.save(tx, v); err != nil {
			return err
		}
		if err := tx.LogAction(model.NormalizeAddress(caller), action, details); err != nil {
			return fmt.Errorf("write audit log: %w", err)
		}
		return nil
	})
}

func (s *Service) now() time.Time { return s.clock.Now() }
