// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cyphergremlin/cli/internal/cypher"
	"cyphergremlin/cli/internal/output"
	"cyphergremlin/cli/internal/terminal"
	"cyphergremlin/cli/internal/xdg"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

const (
	shellPrompt       = "cypher> "
	shellContinuation = "   ...> "
)

var shellOutput string

// shellCmd starts an interactive console.
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive Cypher console",
	Long: `The shell command opens an interactive console connected to Gremlin Server.

Statements may span several lines and end with a semicolon. Console commands:
  :output table|json|yaml   change the output format
  :explain on|off           show Gremlin translations instead of running statements
  :help                     show this help
  :exit                     leave the console`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(shellOutput)
		if err != nil {
			return err
		}
		s, err := loadSession(cmd)
		if err != nil {
			return err
		}
		gc, err := s.gremlinClient()
		if err != nil {
			return err
		}
		defer gc.Close()
		client := s.cypherClient(gc)

		sh := &shell{
			client: client,
			runner: s.runner(client, -1),
			out:    cmd.OutOrStdout(),
			format: format,
			url:    s.url,
		}
		if hist, err := openHistory(); err == nil {
			defer hist.Close()
			sh.history = hist
		}

		interactive := terminal.IsInteractive(os.Stdin)
		if interactive {
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Connected to: ") + pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(s.url))
			pterm.Println("  End statements with ';'. Type :help for commands.")
			pterm.Println()
		}
		return sh.loop(cmd.Context(), os.Stdin, interactive)
	},
}

type shell struct {
	client  *cypher.Client
	runner  cypher.Runner
	out     io.Writer
	format  output.Format
	explain bool
	history io.Writer
	url     string
}

func (sh *shell) loop(ctx context.Context, in io.Reader, interactive bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	var pending string
	for {
		if interactive {
			if strings.TrimSpace(pending) == "" {
				fmt.Fprint(sh.out, shellPrompt)
			} else {
				fmt.Fprint(sh.out, shellContinuation)
			}
		}
		if !sc.Scan() {
			break
		}
		line := sc.Text()

		if strings.TrimSpace(pending) == "" && strings.HasPrefix(strings.TrimSpace(line), ":") {
			if sh.command(strings.TrimSpace(line)) {
				return nil
			}
			continue
		}

		var stmts []string
		stmts, pending = splitStatements(pending + line + "\n")
		for _, q := range stmts {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			sh.execute(ctx, q)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if q := strings.TrimSpace(pending); q != "" {
		sh.execute(ctx, q)
	}
	return nil
}

// command handles a console command and reports whether to exit.
func (sh *shell) command(line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":exit", ":quit", ":q":
		return true
	case ":help":
		fmt.Fprintln(sh.out, ":output table|json|yaml  :explain on|off  :help  :exit")
	case ":output":
		if len(fields) != 2 {
			fmt.Fprintf(sh.out, "output format is %s\n", sh.format)
			return false
		}
		f, err := output.ParseFormat(fields[1])
		if err != nil {
			pterm.Warning.Println(err.Error())
			return false
		}
		sh.format = f
	case ":explain":
		if len(fields) != 2 || (fields[1] != "on" && fields[1] != "off") {
			pterm.Warning.Println("usage: :explain on|off")
			return false
		}
		sh.explain = fields[1] == "on"
	default:
		pterm.Warning.Printf("unknown command %s (try :help)\n", fields[0])
	}
	return false
}

func (sh *shell) execute(ctx context.Context, q string) {
	if sh.history != nil {
		fmt.Fprintf(sh.history, "%s;\n", strings.TrimSpace(q))
	}
	stmt := cypher.NewStatement(q)
	if sh.explain {
		ex, err := sh.client.Explain(ctx, stmt)
		if err != nil {
			reportError(err, sh.url)
			return
		}
		printExplanation(ex)
		return
	}
	stopSpinner := startInlineSpinner("running query")
	records, err := sh.runner.Run(ctx, stmt)
	stopSpinner()
	if err != nil {
		reportError(err, sh.url)
		return
	}
	if err := output.Write(sh.out, sh.format, records); err != nil {
		pterm.Error.Println(err.Error())
	}
}

// splitStatements returns every statement in buf that is terminated by a
// semicolon outside quotes and comments, plus the unterminated rest.
func splitStatements(buf string) (stmts []string, rest string) {
	var quote rune
	escaped := false
	lineComment := false
	start := 0
	runes := []rune(buf)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case lineComment:
			if r == '\n' {
				lineComment = false
			}
		case escaped:
			escaped = false
		case quote != 0:
			if r == '\\' && quote != '`' {
				escaped = true
			} else if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"' || r == '`':
			quote = r
		case r == '/' && i+1 < len(runes) && runes[i+1] == '/':
			lineComment = true
		case r == ';':
			if q := strings.TrimSpace(string(runes[start:i])); q != "" {
				stmts = append(stmts, q)
			}
			start = i + 1
		}
	}
	rest = string(runes[start:])
	if strings.TrimSpace(rest) == "" {
		rest = ""
	}
	return stmts, rest
}

func openHistory() (*os.File, error) {
	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "history"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
}

func init() {
	rootCmd.AddCommand(shellCmd)
	shellCmd.Flags().StringVarP(&shellOutput, "output", "o", string(output.FormatTable), "Output format: table, json or yaml")
}
