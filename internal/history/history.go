// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package history provides a display-only poller over the vault's payout and
// audit records. It never mutates state; a failed poll degrades the view to
// the last good snapshot and nothing else.
package history

import (
	"context"
	"time"

	"github.com/vaultara/vaultara/internal/core"
	"github.com/vaultara/vaultara/internal/logging"
)

// DefaultPollInterval is used when the configuration does not set one.
const DefaultPollInterval = 15 * time.Second

// Snapshot is one poll result. Err is set when the poll failed; Report then
// still holds the last successful result, which may be nil before the first
// success.
type Snapshot struct {
	Report *core.HistoryReport
	Err    error
	At     time.Time
}

// Poller periodically reads the history view and hands each snapshot to the
// update callback.
type Poller struct {
	svc      *core.Service
	interval time.Duration
	onUpdate func(Snapshot)

	last *core.HistoryReport
}

// NewPoller builds a poller over the given service. A non-positive interval
// falls back to DefaultPollInterval.
func NewPoller(svc *core.Service, interval time.Duration, onUpdate func(Snapshot)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{svc: svc, interval: interval, onUpdate: onUpdate}
}

// Run polls immediately and then on every interval tick until the context is
// canceled. It always returns ctx.Err().
func (p *Poller) Run(ctx context.Context) error {
	p.poll()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.poll()
		}
	}
}

func (p *Poller) poll() {
	report, err := p.svc.History()
	if err != nil {
		logging.Warnf("history: poll failed, keeping last view: %v", err)
	} else {
		p.last = report
	}
	p.onUpdate(Snapshot{Report: p.last, Err: err, At: time.Now()})
}
