// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package ledger defines the boundary to the underlying distributed ledger
// runtime. The vault core issues value-transfer commands and receives
// confirmations; it never implements broadcast or consensus itself.
package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/vaultara/vaultara/internal/logging"
)

// Command is one value transfer out of the vault account.
type Command struct {
	From   string
	To     string
	Amount uint64
	Memo   string
}

// Receipt confirms a submitted command.
type Receipt struct {
	Ref         string
	ConfirmedAt time.Time
}

// Runtime submits transfer commands to the underlying ledger. Submit is
// all-or-nothing: either every command is confirmed or none are, and the
// error is returned. Implementations own their timeout and retry policy.
type Runtime interface {
	Submit(ctx context.Context, cmds []Command) ([]Receipt, error)
}

// Local is a Runtime that confirms transfers immediately. It stands in for
// a real chain connection in single-node deployments and tests; the
// authoritative record of the movement is the payouts table.
type Local struct{}

// Submit confirms every command with a fresh reference.
func (Local) Submit(ctx context.Context, cmds []Command) ([]Receipt, error) {
	receipts := make([]Receipt, 0, len(cmds))
	for _, cmd := range cmds {
		ref := newRef()
		logging.Debugf("ledger: transfer %d from %s to %s (ref %s)", cmd.Amount, cmd.From, cmd.To, ref)
		receipts = append(receipts, Receipt{Ref: ref, ConfirmedAt: time.Now().UTC()})
	}
	return receipts, nil
}

func newRef() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// rand.Read on supported platforms does not fail; keep the ref
		// non-empty regardless.
		return "ref-unavailable"
	}
	return "0x" + hex.EncodeToString(b[:])
}
