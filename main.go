// Copyright (c) 2025 Vaultara Team
// Vaultara - dead-man's switch inheritance vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for Vaultara.
//
// Usage:
//
//	go run . [flags]
//	./vaultara [flags]
//
// This launches the Vaultara CLI. See --help for options.
package main

import (
	"log"
	"os"

	"github.com/vaultara/vaultara/ui/cli"
)

// main is the entrypoint for the Vaultara CLI.
func main() {
	if err := cli.Execute(); err != nil {
		log.Printf("Vaultara CLI error: %v", err)
		os.Exit(1)
	}
}
