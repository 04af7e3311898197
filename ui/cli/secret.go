// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	log "github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vaultara/vaultara/internal/core"
	"github.com/vaultara/vaultara/internal/db"
	"github.com/vaultara/vaultara/internal/seal"
)

// promptSealSecret asks for the seal secret interactively when none is
// configured and rebuilds the service with an AEAD-backed seal adapter. An
// empty answer keeps the fallback encoding; outside a terminal the prompt is
// skipped entirely.
func promptSealSecret() {
	if appConfig.Seal.Secret != "" {
		return
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return
	}
	fmt.Print("Seal secret (leave empty to use the fallback encoding): ")
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Warnf("could not read seal secret: %v", err)
		return
	}
	if len(secret) == 0 {
		return
	}
	svc, err := seal.NewAEADService(secret)
	if err != nil {
		log.Warnf("seal service unavailable, using the fallback encoding: %v", err)
		return
	}
	service = core.NewService(db.DefaultStore(), appConfig.Owner, core.WithSealer(seal.New(svc)))
}
