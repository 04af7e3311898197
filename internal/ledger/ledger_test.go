// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package ledger

import (
	"context"
	"testing"
)

func TestLocalSubmitConfirmsEveryCommand(t *testing.T) {
	cmds := []Command{
		{From: "0xaaaa000000000000000000000000000000000001", To: "0xbbbb000000000000000000000000000000000002", Amount: 600},
		{From: "0xaaaa000000000000000000000000000000000001", To: "0xcccc000000000000000000000000000000000003", Amount: 400},
	}
	receipts, err := Local{}.Submit(context.Background(), cmds)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(receipts) != len(cmds) {
		t.Fatalf("got %d receipts, want %d", len(receipts), len(cmds))
	}
	seen := map[string]bool{}
	for _, r := range receipts {
		if r.Ref == "" {
			t.Error("receipt without a reference")
		}
		if seen[r.Ref] {
			t.Errorf("duplicate reference %s", r.Ref)
		}
		seen[r.Ref] = true
		if r.ConfirmedAt.IsZero() {
			t.Error("receipt without a confirmation time")
		}
	}
}

func TestLocalSubmitEmpty(t *testing.T) {
	receipts, err := Local{}.Submit(context.Background(), nil)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(receipts) != 0 {
		t.Fatalf("got %d receipts, want 0", len(receipts))
	}
}
