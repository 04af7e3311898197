// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vaultara/vaultara/internal/i18n"
)

// initCmd arms the dead-man's switch. This is a one-shot operation; the
// heartbeat interval is immutable afterwards.
var initCmd = &cobra.Command{
	Use:     "init",
	Short:   "Initialize the vault and start the heartbeat clock",
	Long:    `Arms the dead-man's switch with the given heartbeat interval. The interval is fixed for the vault's lifetime; initialization is allowed exactly once.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		days, err := cmd.Flags().GetInt("interval-days")
		if err != nil || days <= 0 {
			fail(fmt.Errorf("--interval-days must be a positive number of days"))
		}
		if err := service.InitializeVault(caller(), time.Duration(days)*24*time.Hour); err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("init.ok"))
	},
}

// heartbeatCmd records a liveness proof. Running this regularly is what
// keeps the vault from expiring.
var heartbeatCmd = &cobra.Command{
	Use:     "heartbeat",
	Short:   "Record a liveness proof and reset the expiry clock",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.Heartbeat(caller()); err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("heartbeat.ok"))
	},
}

// fundCmd pays value into the vault. Any identity may fund.
var fundCmd = &cobra.Command{
	Use:     "fund <amount>",
	Short:   "Pay value into the vault",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			fail(fmt.Errorf("invalid amount %q: %w", args[0], err))
		}
		if err := service.Fund(caller(), amount); err != nil {
			fail(err)
		}
		fmt.Printf("%s (+%s)\n", i18n.T("fund.ok"), formatUnits(amount))
	},
}

var deactivateCmd = &cobra.Command{
	Use:     "deactivate",
	Short:   "Take the vault out of service without distributing",
	Long:    `Deactivates the vault. Heartbeats and triggers stop being meaningful and the balance becomes withdrawable by the owner. Owner-only.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.Deactivate(caller()); err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("deactivate.ok"))
	},
}

var withdrawCmd = &cobra.Command{
	Use:     "withdraw",
	Short:   "Withdraw the full balance of a deactivated vault",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		amount, err := service.Withdraw(cmd.Context(), caller())
		if err != nil {
			fail(err)
		}
		fmt.Printf("%s (%s)\n", i18n.T("withdraw.ok"), formatUnits(amount))
	},
}

// triggerCmd executes the one-time distribution. Deliberately permissionless:
// once the heartbeat has lapsed, any watchdog may run it.
var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Trigger the inheritance distribution of an expired vault",
	Long: `Distributes the vault balance pro rata to the registered beneficiaries.
Only possible once the owner's heartbeat has lapsed and the shares add up
to exactly 100%. Any identity may trigger; the vault closes permanently
afterwards.`,
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		transfers, err := service.TriggerInheritance(cmd.Context(), caller())
		if err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("trigger.ok"))
		for _, t := range transfers {
			fmt.Printf("  %s  %s\n", t.Address, formatUnits(t.Amount))
		}
	},
}
