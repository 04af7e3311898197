// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault implements the vault state machine, the beneficiary
// allocation ledger, and the distribution engine.
//
// A Vault is an explicitly owned aggregate: callers hold a handle and every
// operation takes the caller's identity. There is no package-global vault,
// which keeps multiple independent vaults and tests straightforward.
//
// Lifecycle: a vault is constructed once, initialized once by its owner
// (which starts the heartbeat clock), and then either deactivated by the
// owner (funds become withdrawable) or, after the heartbeat lapses, drained
// by a one-time irreversible distribution that any caller may trigger.
//
// All mutating operations on a vault are serialized by an internal mutex;
// reads observe a consistent snapshot of the last completed mutation.
package vault
