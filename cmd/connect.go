// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"cyphergremlin/cli/internal/config"
	"cyphergremlin/cli/internal/cypher"
	"cyphergremlin/cli/internal/endpoint"
	clierrors "cyphergremlin/cli/internal/errors"
	"cyphergremlin/cli/internal/keychain"
	"cyphergremlin/cli/internal/logging"
	"cyphergremlin/cli/internal/terminal"

	"github.com/spf13/cobra"
)

const (
	defaultServerURL = "ws://localhost:8182/gremlin"
	verifyTimeout    = 10 * time.Second
)

var connectNoVerify bool

// connectCmd prompts for server settings, verifies them and saves them.
var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Configure and verify the Gremlin Server connection",
	Long: `The connect command prompts for the Gremlin Server address and credentials,
verifies them by running RETURN 1, and saves them for later commands.

Settings go to the config file; the password is stored in the OS keychain.

Example address: ws://localhost:8182/gremlin`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return clierrors.Wrap(clierrors.ConfigInvalid, "cannot read configuration", err)
		}
		cfg = applyFlags(cmd, cfg)
		p := terminal.NewPrompter(os.Stdin, os.Stdout)

		rawURL := cfg.Server.URL
		if !cmd.Flags().Changed("url") {
			def := cfg.Server.URL
			if def == "" {
				def = defaultServerURL
			}
			if rawURL, err = p.Line("Gremlin Server URL", def); err != nil {
				return err
			}
		}

		url, info, err := endpoint.Normalize(rawURL)
		if err != nil {
			var perr *endpoint.ParseError
			if errors.As(err, &perr) {
				fmt.Println("❌ " + perr.Error())
			}
			return clierrors.Wrap(clierrors.ConfigInvalid, "invalid server address", err)
		}
		cfg.Server.URL = url

		switch {
		case info.User != "":
			cfg.Server.Username = info.User
		case !cmd.Flags().Changed("user"):
			if cfg.Server.Username, err = p.Line("User (empty for none)", cfg.Server.Username); err != nil {
				return err
			}
		}

		password := info.Password
		if password == "" && cfg.Server.Username != "" {
			if pw, ok := config.PasswordFromEnv(); ok {
				password = pw
			} else if password, err = terminal.Password("Password"); err != nil {
				if errors.Is(err, terminal.ErrNotInteractive) {
					return clierrors.New(clierrors.ConfigInvalid, "cannot prompt for a password; set "+config.EnvPassword)
				}
				return err
			}
		}

		if !cmd.Flags().Changed("traversal-source") {
			if cfg.Server.TraversalSource, err = p.Line("Traversal source (empty for server default)", cfg.Server.TraversalSource); err != nil {
				return err
			}
		}

		s := &session{cfg: cfg, url: url, password: password}
		if !connectNoVerify {
			if err := verifyServer(cmd.Context(), s); err != nil {
				return err
			}
		}

		if err := config.Save(cfg); err != nil {
			fmt.Println("❌ Failed to save configuration.")
			return clierrors.Wrap(clierrors.ConfigInvalid, "cannot write configuration", err)
		}

		if password != "" {
			km, err := keychain.GetManager()
			if err != nil {
				fmt.Println("⚠️  Secure storage is not available on this system.")
				fmt.Printf("   Settings were saved; set %s to provide the password.\n", config.EnvPassword)
				return nil
			}
			if err := km.SavePassword(url, password); err != nil {
				fmt.Println("❌ Failed to save the password securely.")
				return err
			}
		}

		fmt.Printf("✅ Connection to %s verified and saved!\n", logging.MaskURL(url))
		fmt.Println("   You're ready to run 'cypher-gremlin query'")
		return nil
	},
}

// verifyServer runs RETURN 1 against s and checks the answer.
func verifyServer(ctx context.Context, s *session) error {
	gc, err := s.gremlinClient()
	if err != nil {
		return err
	}
	defer gc.Close()

	ctx, cancel := context.WithTimeout(ctx, verifyTimeout)
	defer cancel()

	stopSpinner := startInlineSpinner("verifying connection")
	records, err := s.cypherClient(gc).Run(ctx, cypher.NewStatement("RETURN 1 AS ok"))
	stopSpinner()
	if err != nil {
		reportError(err, s.url)
		return clierrors.Wrap(clierrors.ConnectFailed, "connection check failed", err)
	}
	if len(records) != 1 {
		return clierrors.New(clierrors.ConnectFailed, fmt.Sprintf("connection check returned %d records, expected 1", len(records)))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(connectCmd)
	connectCmd.Flags().BoolVar(&connectNoVerify, "no-verify", false, "Save settings without contacting the server")
}
