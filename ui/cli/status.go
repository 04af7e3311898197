// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vaultara/vaultara/internal/core"
	"github.com/vaultara/vaultara/internal/i18n"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(20)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dangerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	removedStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
)

var statusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show the vault state, balance, and allocation ledger",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := service.Status()
		if err != nil {
			fail(err)
		}
		fmt.Println(renderStatus(st))
	},
}

func renderStatus(st *core.StatusReport) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(i18n.T("status.title")) + "\n\n")

	row := func(labelID, value string) {
		b.WriteString(labelStyle.Render(i18n.T(labelID)) + " " + value + "\n")
	}

	row("status.owner", st.Vault.Owner)
	row("status.state", renderState(st))
	row("status.balance", formatUnits(st.Vault.Balance))
	if st.Vault.Initialized {
		row("status.interval", formatDuration(st.Vault.HeartbeatInterval))
		row("status.last_heartbeat", st.Vault.LastHeartbeat.Local().Format(time.RFC1123))
		if st.Vault.IsActive && !st.Expired {
			row("status.time_until_expiry", formatDuration(st.TimeUntilExpiry))
		}
	}
	row("status.allocated", fmt.Sprintf("%d.%02d%%", st.AllocatedBp/100, st.AllocatedBp%100))

	if len(st.Beneficiaries) > 0 {
		b.WriteString("\n" + titleStyle.Render(i18n.T("status.beneficiaries")) + "\n")
		b.WriteString(renderBeneficiaries(st))
	}
	return b.String()
}

func renderState(st *core.StatusReport) string {
	switch {
	case st.Vault.Distributed:
		return dangerStyle.Render(i18n.T("state.distributed"))
	case !st.Vault.Initialized:
		return warnStyle.Render(i18n.T("state.uninitialized"))
	case !st.Vault.IsActive:
		return warnStyle.Render(i18n.T("state.deactivated"))
	case st.Expired:
		return dangerStyle.Render(i18n.T("state.expired"))
	default:
		return okStyle.Render(i18n.T("state.active"))
	}
}

func renderBeneficiaries(st *core.StatusReport) string {
	var b strings.Builder
	for _, ben := range st.Beneficiaries {
		line := fmt.Sprintf("  %s  %7s", ben.Address, ben.SharePercent())
		if ben.EncryptedMetadata != "" {
			line += "  [sealed metadata]"
		}
		if !ben.IsActive {
			line = removedStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// formatDuration renders a duration in days and hours, the resolution that
// matters for heartbeat intervals.
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0h"
	}
	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	switch {
	case days > 0 && hours > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case days > 0:
		return fmt.Sprintf("%dd", days)
	default:
		return fmt.Sprintf("%dh", hours)
	}
}
