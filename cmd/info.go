// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"strings"

	"cyphergremlin/cli/internal/config"
	"cyphergremlin/cli/internal/keychain"
	"cyphergremlin/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// infoCmd shows the effective connection settings with secrets masked.
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the current Gremlin Server connection",
	Long: `The info command displays the effective Gremlin Server settings after applying
flags, environment variables and the config file. Passwords are never shown;
only where the password comes from is listed.

When an import source is configured, its PostgreSQL DSN is shown with the
password masked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSession(cmd)
		if err != nil {
			pterm.Println("⚠️  No Gremlin Server configured")
			pterm.Println("   Please run: cypher-gremlin connect")
			return nil
		}

		rows := [][2]string{
			{"URL", logging.MaskURL(s.url)},
			{"User", orDash(s.cfg.Server.Username)},
			{"Password", s.passwordSource},
			{"Traversal source", orDash(s.cfg.Server.TraversalSource)},
			{"Graph", orDash(s.cfg.Server.Graph)},
			{"Serializer", s.cfg.Server.Serializer},
		}
		if t := s.cfg.Server.Timeout(); t > 0 {
			rows = append(rows, [2]string{"Timeout", t.String()})
		}
		if s.cfg.Server.BatchSize > 0 {
			rows = append(rows, [2]string{"Batch size", fmt.Sprint(s.cfg.Server.BatchSize)})
		}
		if s.cfg.Retries > 0 {
			rows = append(rows, [2]string{"Retries", fmt.Sprint(s.cfg.Retries)})
		}

		var b strings.Builder
		for i, r := range rows {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(pterm.NewStyle(pterm.FgLightCyan).Sprintf("%-17s", r[0]))
			b.WriteString(r[1])
		}
		pterm.DefaultBox.
			WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Gremlin Server")).
			WithPadding(1).
			Println(b.String())

		if dsn, source := importDSN(); dsn != "" {
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Import source: ") + logging.Mask(dsn) + pterm.NewStyle(pterm.FgGray).Sprintf(" (%s)", source))
		}
		if p, err := config.Path(); err == nil {
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Config file:   ") + p)
		}
		pterm.Println()
		pterm.Println("To update this connection, run: cypher-gremlin connect")
		pterm.Println()
		return nil
	},
}

// importDSN finds the PostgreSQL DSN for imports in the environment, then
// the keychain.
func importDSN() (dsn, source string) {
	if dsn, source = config.PGDSNFromEnv(); dsn != "" {
		return dsn, source
	}
	if km, err := keychain.GetManager(); err == nil {
		if v, err := km.LoadPGDSN(); err == nil && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), "keychain"
		}
	}
	return "", ""
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
