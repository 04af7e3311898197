// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultara/vaultara/internal/i18n"
)

var backupCmd = &cobra.Command{
	Use:     "backup <filename>",
	Short:   "Create a compressed (zstd) JSON backup of the database",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Create(args[0])
		if err != nil {
			fail(fmt.Errorf("could not create backup file: %w", err))
		}
		defer func() { _ = f.Close() }()
		if err := service.WriteBackup(f); err != nil {
			fail(err)
		}
		if err := f.Close(); err != nil {
			fail(fmt.Errorf("could not finish backup file: %w", err))
		}
		fmt.Printf("%s (%s)\n", i18n.T("backup.ok"), args[0])
	},
}

// restoreCmd replaces the database contents with a backup. Destructive, so
// it asks for confirmation unless --yes is given.
var restoreCmd = &cobra.Command{
	Use:     "restore <filename>",
	Short:   "Restore the database from a backup (replaces all current data)",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Printf("This will replace all data in the current database with %s. Continue? [y/N] ", args[0])
			var answer string
			_, _ = fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" && answer != "yes" {
				fmt.Println("Aborted.")
				return
			}
		}
		f, err := os.Open(args[0])
		if err != nil {
			fail(fmt.Errorf("could not open backup file: %w", err))
		}
		defer func() { _ = f.Close() }()
		if err := service.RestoreBackup(caller(), f); err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("restore.ok"))
	},
}

func init() {
	restoreCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
