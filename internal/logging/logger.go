// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/pterm/pterm"
)

var current atomic.Pointer[pterm.Logger]

func init() {
	current.Store(pterm.DefaultLogger.WithLevel(pterm.LogLevelInfo).WithWriter(os.Stderr))
}

// ParseLevel maps a config level name to a pterm level. Unknown names map
// to info.
func ParseLevel(name string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// Setup replaces the process logger. verbose forces debug level. A nil
// writer means stderr.
func Setup(level string, verbose bool, w io.Writer) *pterm.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl := ParseLevel(level)
	if verbose && (lvl == pterm.LogLevelDisabled || lvl > pterm.LogLevelDebug) {
		lvl = pterm.LogLevelDebug
	}
	l := pterm.DefaultLogger.WithLevel(lvl).WithWriter(w)
	current.Store(l)
	return l
}

// L returns the process logger.
func L() *pterm.Logger {
	return current.Load()
}
