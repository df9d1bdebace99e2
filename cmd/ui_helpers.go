// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"cyphergremlin/cli/internal/assert"
	"cyphergremlin/cli/internal/cypher"
	"cyphergremlin/cli/internal/gremlin"
	"cyphergremlin/cli/internal/logging"
	"cyphergremlin/cli/internal/neterrors"
	"cyphergremlin/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// startInlineSpinner animates text on a single stderr line until the
// returned function is called. Nothing is drawn unless both stdout and
// stderr are terminals, so redirected output stays free of animation.
func startInlineSpinner(text string) func() {
	if !spinnerEnabled(terminal.IsInteractive(os.Stdout), terminal.IsInteractive(os.Stderr)) {
		return func() {}
	}
	return runInlineSpinner(os.Stderr, text, spinnerFrames, 100*time.Millisecond)
}

func spinnerEnabled(stdoutTTY, stderrTTY bool) bool {
	return stdoutTTY && stderrTTY
}

func runInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	cursor.Hide()
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
			select {
			case <-stop:
				fmt.Fprintf(w, "\r%*s\r", len([]rune(line)), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}

// reportError prints a troubleshooting block for err.
func reportError(err error, url string) {
	var cerr *cypher.Error
	var rerr *gremlin.ResponseError
	switch {
	case err == nil:
	case errors.As(err, &cerr):
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("❌ %s", cerr.Message))
		pterm.Println(pterm.NewStyle(pterm.FgGray).Sprintf("   (%s)", cerr.Name))
		pterm.Println()
	case errors.As(err, &rerr):
		logging.PresentStatusError(int(rerr.Code), rerr.Message)
	case gremlin.IsTransport(err):
		_ = neterrors.FormatNetworkError(err, "contacting Gremlin Server", url)
	case errors.Is(err, cypher.ErrNoSuchRecord):
		pterm.Warning.Println(err.Error())
	default:
		pterm.Println("❌ " + logging.PresentError("Request failed", err))
	}
}

// printAssertions renders expectation results and reports whether all
// passed.
func printAssertions(w io.Writer, results []assert.Result) bool {
	for _, r := range results {
		mark := pterm.NewStyle(pterm.FgGreen).Sprint("✔")
		if !r.Passed {
			mark = pterm.NewStyle(pterm.FgRed).Sprint("✘")
		}
		fmt.Fprintf(w, "%s %-18s %s\n", mark, r.Name, r.Message)
	}
	return assert.AllPassed(results)
}

// printExplanation shows the Gremlin translation of a statement.
func printExplanation(ex cypher.Explanation) {
	title := pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint("Gremlin translation")
	pterm.DefaultBox.WithTitle(title).WithPadding(1).Println(ex.Translation)
	if ex.Options != nil {
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("→ Options: ") + fmt.Sprint(ex.Options))
	}
}
