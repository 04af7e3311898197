// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultara/vaultara/internal/core"
	"github.com/vaultara/vaultara/internal/history"
	"github.com/vaultara/vaultara/internal/i18n"
	"github.com/vaultara/vaultara/internal/model"
)

// historyCmd prints the payout and audit trail. With --follow it keeps
// polling at the configured interval until interrupted; a failed poll only
// degrades the view, it never terminates the watch.
var historyCmd = &cobra.Command{
	Use:     "history",
	Short:   "Show the payout and audit trail",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		follow, _ := cmd.Flags().GetBool("follow")
		if !follow {
			report, err := service.History()
			if err != nil {
				fail(err)
			}
			fmt.Println(renderHistory(report))
			return
		}

		interval := time.Duration(appConfig.History.PollIntervalSeconds) * time.Second
		printed := 0
		poller := history.NewPoller(service, interval, func(s history.Snapshot) {
			if s.Report == nil {
				return
			}
			// Only print what is new since the last poll.
			for _, e := range s.Report.Audit[min(printed, len(s.Report.Audit)):] {
				fmt.Println(renderAuditEntry(e))
			}
			printed = len(s.Report.Audit)
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fail(err)
		}
	},
}

func renderHistory(report *core.HistoryReport) string {
	if len(report.Audit) == 0 && len(report.Payouts) == 0 {
		return i18n.T("history.empty")
	}
	var b strings.Builder
	for _, e := range report.Audit {
		b.WriteString(renderAuditEntry(e) + "\n")
	}
	for _, p := range report.Payouts {
		b.WriteString(fmt.Sprintf("%s  %-12s %s -> %s\n",
			p.CreatedAt.Local().Format(time.RFC3339), p.Kind, formatUnits(p.Amount), p.Recipient))
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderAuditEntry(e model.AuditLogEntry) string {
	line := fmt.Sprintf("%s  %-20s %s", e.Timestamp, e.Action, e.Actor)
	if e.Details != "" {
		line += "  " + e.Details
	}
	return line
}
