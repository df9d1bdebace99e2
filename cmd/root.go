// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface of cypher-gremlin. It runs
// Cypher statements against a Gremlin Server with the Cypher plugin, keeps
// connection settings in the XDG config dir and secrets in the OS keychain,
// and renders results with a rich terminal UI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"cyphergremlin/cli/internal/config"
	"cyphergremlin/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool

	flagURL             string
	flagUser            string
	flagTraversalSource string
	flagGraph           string
	flagSerializer      string
	flagVerbose         bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "cypher-gremlin",
	Short: "Run Cypher queries against Gremlin Server",
	Long: `cypher-gremlin sends Cypher statements to a Gremlin Server that has the Cypher
plugin installed and prints the results as a table, JSON or YAML.

Configure a server once with 'cypher-gremlin connect', or pass --url on every call.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg, _ := config.Load()
		level := config.ApplyEnv(cfg).LogLevel
		logging.Setup(level, flagVerbose, os.Stderr)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("cypher-gremlin %s\n", Version)
			return nil
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application. Interrupts cancel the running command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, logging.Mask(err.Error()))
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version information")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagURL, "url", "", "Gremlin Server address (host[:port] or ws[s]://host:port/path)")
	pf.StringVar(&flagUser, "user", "", "User name for SASL authentication")
	pf.StringVar(&flagTraversalSource, "traversal-source", "", "Server-side traversal source bound to g")
	pf.StringVar(&flagGraph, "graph", "", "Target graph name")
	pf.StringVar(&flagSerializer, "serializer", "", "Wire format: graphson-v1, graphson-v2 or graphson-v3")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable verbose debug output")
}
