// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"io"
	"os"
	"time"

	"cyphergremlin/cli/internal/assert"
	"cyphergremlin/cli/internal/cypher"
	clierrors "cyphergremlin/cli/internal/errors"
	"cyphergremlin/cli/internal/logging"
	"cyphergremlin/cli/internal/output"
	"cyphergremlin/cli/internal/terminal"

	"github.com/spf13/cobra"
)

var (
	queryFile       string
	queryParams     []string
	queryParamsFile string
	queryTimeout    time.Duration
	queryExplain    bool
	queryOutput     string
	queryExpect     string
	queryRetries    int
)

// queryCmd runs one Cypher statement and prints its records.
var queryCmd = &cobra.Command{
	Use:   "query [CYPHER]",
	Short: "Run a Cypher statement",
	Long: `The query command sends one Cypher statement to Gremlin Server and prints the
returned records. The statement is taken from the arguments, from --file, or
from stdin.

Parameters are passed with --param name=value (the value is read as JSON and
falls back to a plain string) or loaded from a JSON or YAML file.

Examples:
  cypher-gremlin query 'MATCH (n) RETURN n.name'
  cypher-gremlin query --param name='"marko"' 'MATCH (p:person {name: $name}) RETURN p'
  cypher-gremlin query --file report.cypher --output json --expect report.expect.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(queryOutput)
		if err != nil {
			return clierrors.Wrap(clierrors.ConfigInvalid, "invalid --output", err)
		}

		var stdin io.Reader
		if queryFile == "-" || (len(args) == 0 && queryFile == "" && !terminal.IsInteractive(os.Stdin)) {
			stdin = os.Stdin
		}
		q, err := readQuery(args, queryFile, stdin)
		if err != nil {
			return clierrors.Wrap(clierrors.ConfigInvalid, "no statement", err)
		}
		params, err := parseParams(queryParams, queryParamsFile)
		if err != nil {
			return clierrors.Wrap(clierrors.ConfigInvalid, "invalid parameters", err)
		}

		var exp *assert.Expectations
		if queryExpect != "" {
			e, err := assert.Load(queryExpect)
			if err != nil {
				return clierrors.Wrap(clierrors.ConfigInvalid, "cannot load expectations", err)
			}
			exp = &e
		}

		s, err := loadSession(cmd)
		if err != nil {
			return err
		}
		timeout := queryTimeout
		if !cmd.Flags().Changed("timeout") {
			timeout = s.cfg.Server.Timeout()
		}
		stmt := cypher.NewStatementWithParameters(q, params).WithTimeout(timeout)

		gc, err := s.gremlinClient()
		if err != nil {
			return err
		}
		defer gc.Close()
		client := s.cypherClient(gc)

		ctx := cmd.Context()
		if queryExplain {
			stopSpinner := startInlineSpinner("translating statement")
			ex, err := client.Explain(ctx, stmt)
			stopSpinner()
			if err != nil {
				reportError(err, s.url)
				return clierrors.Wrap(clierrors.RequestFailed, "explain failed", err)
			}
			printExplanation(ex)
			return nil
		}

		start := time.Now()
		stopSpinner := startInlineSpinner("running query")
		records, err := s.runner(client, queryRetries).Run(ctx, stmt)
		stopSpinner()
		if err != nil {
			reportError(err, s.url)
			return clierrors.Wrap(clierrors.RequestFailed, "query failed", err)
		}
		logging.L().Debug("query finished", logging.L().Args("records", len(records), "elapsed", time.Since(start).Round(time.Millisecond).String()))

		if err := output.Write(cmd.OutOrStdout(), format, records); err != nil {
			return err
		}

		if exp != nil {
			if !printAssertions(cmd.ErrOrStderr(), assert.Evaluate(*exp, records)) {
				return clierrors.New(clierrors.ExpectationFailed, "results do not match "+queryExpect)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(queryCmd)
	f := queryCmd.Flags()
	f.StringVarP(&queryFile, "file", "f", "", "Read the statement from a file (- for stdin)")
	f.StringArrayVarP(&queryParams, "param", "p", nil, "Statement parameter as name=value (repeatable)")
	f.StringVar(&queryParamsFile, "params-file", "", "JSON or YAML file with statement parameters")
	f.DurationVar(&queryTimeout, "timeout", 0, "Server-side evaluation timeout (e.g. 30s)")
	f.BoolVar(&queryExplain, "explain", false, "Show the Gremlin translation instead of running the statement")
	f.StringVarP(&queryOutput, "output", "o", string(output.FormatTable), "Output format: table, json or yaml")
	f.StringVar(&queryExpect, "expect", "", "YAML file with expected results; fails when they do not match (JSONPath keys: $[0][\"n.name\"])")
	f.IntVar(&queryRetries, "retries", -1, "Retries for transient failures (default from config)")
}
