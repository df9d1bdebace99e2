// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides the process logger and utilities for secure
// logging and error presentation. It masks credentials in endpoint URLs,
// SASL payloads and key=value pairs before anything reaches a log line or
// the terminal.
package logging

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	rePassword = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reSASL     = regexp.MustCompile(`(?i)("?sasl"?\s*[=:]\s*"?)([A-Za-z0-9+/=]+)`)
	reURLPass  = regexp.MustCompile(`(?i)(://)([^:/@\s]+):([^@\s]+)(@)`) // ws://user:pass@host
)

// Mask replaces sensitive values in the input string with "*".
// For URLs with userinfo, both username and password are masked.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reSASL.ReplaceAllString(out, "$1***")
	out = reURLPass.ReplaceAllString(out, "$1*:*$4")
	return out
}

// MaskURL hides the password of a URL while keeping the user visible.
func MaskURL(raw string) string {
	return reURLPass.ReplaceAllString(raw, "$1$2:***$4")
}

// PresentError formats an error for user display with masking. Errors joined
// across retry attempts are listed one per line.
func PresentError(context string, err error) string {
	if err == nil {
		return ""
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok || len(joined.Unwrap()) < 2 {
		return fmt.Sprintf("%s: %s", context, Mask(err.Error()))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s after %d attempts:", context, len(joined.Unwrap()))
	for i, e := range joined.Unwrap() {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, Mask(e.Error()))
	}
	return b.String()
}
