// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package vault

import (
	"sync"
	"time"

	"github.com/vaultara/vaultara/internal/model"
)

// Vault is the dead-man's-switch aggregate: lifecycle state, heartbeat
// clock, custodied balance, and the beneficiary allocation ledger.
//
// The zero value is not usable; construct with New. All exported methods are
// safe for concurrent use: mutations take the write lock and apply fully or
// not at all, queries take the read lock and see the last completed
// mutation.
type Vault struct {
	mu    sync.RWMutex
	clock Clock

	owner         string
	initialized   bool
	active        bool
	interval      time.Duration
	lastHeartbeat time.Time
	balance       uint64
	distributed   bool

	// Insertion-ordered ledger. Soft-removed entries stay in place with
	// isActive=false; re-adding an address appends a fresh record.
	beneficiaries []beneficiary
}

type beneficiary struct {
	address           string
	shareBp           int
	encryptedMetadata string
	isActive          bool
	createdAt         time.Time
}

// Option configures a Vault at construction time.
type Option func(*Vault)

// WithClock replaces the vault's time source. Tests use a fake clock to pin
// expiry arithmetic.
func WithClock(c Clock) Option {
	return func(v *Vault) { v.clock = c }
}

// New constructs an uninitialized vault owned by the given identity. The
// owner is fixed for the vault's lifetime.
func New(owner string, opts ...Option) *Vault {
	v := &Vault{
		owner: model.NormalizeAddress(owner),
		clock: SystemClock(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Owner returns the administrative identity fixed at construction.
func (v *Vault) Owner() string {
	return v.owner
}

// Initialize arms the dead-man's switch: it sets the immutable heartbeat
// interval, records the first liveness proof, and activates the vault.
// Owner-only, and allowed exactly once.
func (v *Vault) Initialize(interval time.Duration, caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return ErrUnauthorized
	}
	if v.initialized {
		return ErrAlreadyInitialized
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}
	v.interval = interval
	v.lastHeartbeat = v.clock.Now()
	v.initialized = true
	v.active = true
	return nil
}

// Heartbeat records a liveness proof and resets the expiry clock. It is the
// owner's self-rescue mechanism: an expired but not yet triggered vault
// returns to the not-expired state.
func (v *Vault) Heartbeat(caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return ErrUnauthorized
	}
	if !v.active {
		return ErrVaultNotActive
	}
	v.lastHeartbeat = v.clock.Now()
	return nil
}

// Deactivate takes the vault out of service without distributing. Funds
// become withdrawable by the owner; heartbeats and triggers stop being
// meaningful. Owner-only.
func (v *Vault) Deactivate(caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return ErrUnauthorized
	}
	// Distributed implies inactive, but check it first so a stale caller
	// gets the terminal-state error rather than VaultNotActive.
	if v.distributed {
		return ErrAlreadyDistributed
	}
	if !v.active {
		return ErrVaultNotActive
	}
	v.active = false
	return nil
}

// Withdraw moves the entire balance back to the owner. Only permitted on a
// deactivated, undistributed vault. Returns the amount withdrawn.
func (v *Vault) Withdraw(caller string) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if model.NormalizeAddress(caller) != v.owner {
		return 0, ErrUnauthorized
	}
	if v.distributed {
		return 0, ErrAlreadyDistributed
	}
	if v.active {
		return 0, ErrVaultActive
	}
	if v.balance == 0 {
		return 0, ErrNothingToWithdraw
	}
	amount := v.balance
	v.balance = 0
	return amount, nil
}

// Fund adds custodied value to the vault. Funding is deliberately not
// owner-restricted: any identity may pay in. Funding a distributed vault is
// rejected; the source design left such funds permanently stranded, which
// serves nobody.
func (v *Vault) Fund(amount uint64, caller string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.distributed {
		return ErrAlreadyDistributed
	}
	if amount == 0 {
		return ErrInvalidAmount
	}
	if v.balance > ^uint64(0)-amount {
		return ErrBalanceOverflow
	}
	v.balance += amount
	return nil
}

// IsExpired reports whether the heartbeat has lapsed. The liveness window is
// half-open: the vault stays alive strictly before lastHeartbeat+interval
// and is expired from that instant on. An uninitialized or deactivated
// vault is never expired.
func (v *Vault) IsExpired() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.isExpiredLocked()
}

func (v *Vault) isExpiredLocked() bool {
	if !v.initialized || !v.active {
		return false
	}
	return v.clock.Now().Sub(v.lastHeartbeat) >= v.interval
}

// TimeUntilExpiry returns how long the owner has before the switch trips,
// or zero once it already has.
func (v *Vault) TimeUntilExpiry() time.Duration {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if !v.initialized || !v.active {
		return 0
	}
	remaining := v.interval - v.clock.Now().Sub(v.lastHeartbeat)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Status returns a consistent snapshot of the vault's lifecycle state.
func (v *Vault) Status() model.VaultRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.recordLocked()
}

func (v *Vault) recordLocked() model.VaultRecord {
	return model.VaultRecord{
		Owner:             v.owner,
		Initialized:       v.initialized,
		IsActive:          v.active,
		HeartbeatInterval: v.interval,
		LastHeartbeat:     v.lastHeartbeat,
		Balance:           v.balance,
		Distributed:       v.distributed,
	}
}

// Balance returns the currently custodied value.
func (v *Vault) Balance() uint64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.balance
}

// Restore rebuilds an aggregate from persisted state. It is the load-side
// counterpart of Status/Beneficiaries and performs no validation beyond
// address normalization; the store is trusted to hold what the aggregate
// previously emitted.
func Restore(rec model.VaultRecord, bens []model.Beneficiary, opts ...Option) *Vault {
	v := New(rec.Owner, opts...)
	v.initialized = rec.Initialized
	v.active = rec.IsActive
	v.interval = rec.HeartbeatInterval
	v.lastHeartbeat = rec.LastHeartbeat
	v.balance = rec.Balance
	v.distributed = rec.Distributed
	for _, b := range bens {
		v.beneficiaries = append(v.beneficiaries, beneficiary{
			address:           model.NormalizeAddress(b.Address),
			shareBp:           b.ShareBp,
			encryptedMetadata: b.EncryptedMetadata,
			isActive:          b.IsActive,
			createdAt:         b.CreatedAt,
		})
	}
	return v
}
