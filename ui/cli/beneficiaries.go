// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strconv"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vaultara/vaultara/internal/i18n"
	"github.com/vaultara/vaultara/internal/seal"
)

var beneficiaryCmd = &cobra.Command{
	Use:     "beneficiary",
	Aliases: []string{"ben"},
	Short:   "Manage the beneficiary allocation ledger",
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// beneficiaryAddCmd registers a beneficiary with a share in basis points.
// Optional metadata (bank details, a personal message) is sealed so only the
// beneficiary's identity can recover it.
var beneficiaryAddCmd = &cobra.Command{
	Use:     "add <address> <share-bp>",
	Short:   "Add a beneficiary with a share in basis points (10000 = 100%)",
	Args:    cobra.ExactArgs(2),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		shareBp, err := strconv.Atoi(args[1])
		if err != nil {
			fail(fmt.Errorf("invalid share %q: %w", args[1], err))
		}
		metadata, err := readMetadataFlags(cmd)
		if err != nil {
			fail(err)
		}
		if len(metadata) > 0 {
			promptSealSecret()
		}
		tier, err := service.AddBeneficiary(cmd.Context(), caller(), args[0], shareBp, metadata)
		if err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("beneficiary.added"))
		if tier == seal.VersionPlain {
			log.Warn(i18n.T("seal.fallback_warning"))
		}
	},
}

var beneficiaryUpdateCmd = &cobra.Command{
	Use:     "update <address> <share-bp>",
	Short:   "Change the share of an active beneficiary",
	Args:    cobra.ExactArgs(2),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		shareBp, err := strconv.Atoi(args[1])
		if err != nil {
			fail(fmt.Errorf("invalid share %q: %w", args[1], err))
		}
		if err := service.UpdateBeneficiary(caller(), args[0], shareBp); err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("beneficiary.updated"))
	},
}

var beneficiaryRemoveCmd = &cobra.Command{
	Use:     "remove <address>",
	Short:   "Remove a beneficiary (the ledger record is kept for audit)",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		if err := service.RemoveBeneficiary(caller(), args[0]); err != nil {
			fail(err)
		}
		fmt.Println(i18n.T("beneficiary.removed"))
	},
}

var beneficiaryListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the beneficiary ledger",
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		st, err := service.Status()
		if err != nil {
			fail(err)
		}
		if len(st.Beneficiaries) == 0 {
			fmt.Println(i18n.T("history.empty"))
			return
		}
		fmt.Println(renderBeneficiaries(st))
	},
}

// revealCmd opens the sealed metadata of a beneficiary for the calling
// identity. Denial and absence are indistinguishable on purpose.
var revealCmd = &cobra.Command{
	Use:     "reveal <address>",
	Short:   "Reveal the sealed metadata stored for a beneficiary",
	Args:    cobra.ExactArgs(1),
	PreRunE: setupDefaultServices,
	Run: func(cmd *cobra.Command, args []string) {
		promptSealSecret()
		payload, err := service.RevealMetadata(cmd.Context(), caller(), args[0])
		if err != nil {
			fail(err)
		}
		if payload == nil {
			fmt.Println(i18n.T("reveal.denied"))
			os.Exit(1)
		}
		fmt.Printf("%s\n", payload)
	},
}

// readMetadataFlags loads the optional metadata payload from --note or
// --metadata-file. At most one of the two may be set.
func readMetadataFlags(cmd *cobra.Command) ([]byte, error) {
	note, _ := cmd.Flags().GetString("note")
	file, _ := cmd.Flags().GetString("metadata-file")
	if note != "" && file != "" {
		return nil, fmt.Errorf("--note and --metadata-file are mutually exclusive")
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("could not read metadata file: %w", err)
		}
		return data, nil
	}
	if note != "" {
		return []byte(note), nil
	}
	return nil, nil
}

func init() {
	beneficiaryAddCmd.Flags().String("note", "", "Metadata to seal for the beneficiary (e.g. payout instructions)")
	beneficiaryAddCmd.Flags().String("metadata-file", "", "File whose contents are sealed for the beneficiary")
	beneficiaryCmd.AddCommand(
		beneficiaryAddCmd,
		beneficiaryUpdateCmd,
		beneficiaryRemoveCmd,
		beneficiaryListCmd,
	)
	for _, sub := range []*cobra.Command{beneficiaryAddCmd, beneficiaryUpdateCmd, beneficiaryRemoveCmd, beneficiaryListCmd} {
		applyDefaultFlags(sub)
	}
}
