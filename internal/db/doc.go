// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package db contains the data-access layer for Vaultara.
//
// The `Store` interface is implemented by a centralized Bun-based store with
// SQLite, PostgreSQL, and MySQL backends. `InitDB` opens the configured
// backend, applies the embedded migrations, and sets a package-level default
// store; tests inject fakes with `SetDefaultStore`.
//
// Mutating vault commands run through `Store.RunInTx`, which hands the
// callback a transaction-scoped store and takes a row lock on the vault
// where the backend supports it. That is what serializes two processes
// racing a heartbeat against a trigger.
//
// Testing notes
//   - Prefer `db.InitDB("sqlite", "file:name?mode=memory&cache=shared")` in
//     tests that need real DB semantics and migrations.
//   - For fast unit tests that don't need a DB, inject a fake Store via
//     `SetDefaultStore` / `ClearDefaultStore`.
package db
