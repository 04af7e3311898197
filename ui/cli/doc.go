// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.
//
// Package cli implements the command-line interface for Vaultara using Cobra.
// It wires configuration, the database, and the seal adapter, and provides
// commands that delegate to the deterministic `core` facades. CLI code should
// remain thin and delegate business logic to `core`.
package cli
