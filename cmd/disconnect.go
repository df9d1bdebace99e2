// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"cyphergremlin/cli/internal/config"
	"cyphergremlin/cli/internal/keychain"

	"github.com/spf13/cobra"
)

// disconnectCmd removes saved settings and secrets.
var disconnectCmd = &cobra.Command{
	Use:     "disconnect",
	Aliases: []string{"logout"},
	Short:   "Remove saved connection settings and passwords",
	Long: `The disconnect command clears everything cypher-gremlin has stored locally.

This command removes:
- Gremlin Server passwords from the OS keychain
- The stored PostgreSQL import DSN
- The config file with the server address and options`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if km, err := keychain.GetManager(); err == nil {
			_ = km.ClearAll()
		}
		if err := config.Remove(); err != nil {
			return err
		}
		fmt.Println("✅ All saved settings and passwords have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}
