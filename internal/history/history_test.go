// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package history

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vaultara/vaultara/internal/core"
	"github.com/vaultara/vaultara/internal/db"
)

const pollOwner = "0xaaaa000000000000000000000000000000000001"

func newTestService(t *testing.T) *core.Service {
	t.Helper()
	store, err := db.NewStoreFromDSN("sqlite", "file:history_"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("NewStoreFromDSN failed: %v", err)
	}
	return core.NewService(store, pollOwner)
}

func TestPollerDeliversSnapshots(t *testing.T) {
	svc := newTestService(t)
	if err := svc.InitializeVault(pollOwner, 24*time.Hour); err != nil {
		t.Fatalf("InitializeVault failed: %v", err)
	}

	snaps := make(chan Snapshot, 1)
	p := NewPoller(svc, time.Hour, func(s Snapshot) {
		select {
		case snaps <- s:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case s := <-snaps:
		if s.Err != nil {
			t.Errorf("first poll errored: %v", s.Err)
		}
		if s.Report == nil || len(s.Report.Audit) == 0 {
			t.Error("expected the INIT_VAULT audit entry in the first snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no snapshot delivered")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestNewPollerDefaultsInterval(t *testing.T) {
	p := NewPoller(newTestService(t), 0, func(Snapshot) {})
	if p.interval != DefaultPollInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultPollInterval)
	}
}
