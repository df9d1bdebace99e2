// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
)

// StatusErrorType represents the category of a server status failure
type StatusErrorType int

const (
	StatusErrorUnknown StatusErrorType = iota
	StatusErrorAuth
	StatusErrorRequest
	StatusErrorEvaluation
	StatusErrorTimeout
	StatusErrorServer
	StatusErrorSerialization
)

// ClassifyStatus maps a Gremlin Server status code to a category
func ClassifyStatus(code int) StatusErrorType {
	switch code {
	case 401, 407:
		return StatusErrorAuth
	case 498, 499:
		return StatusErrorRequest
	case 597:
		return StatusErrorEvaluation
	case 596, 598:
		return StatusErrorTimeout
	case 500:
		return StatusErrorServer
	case 599:
		return StatusErrorSerialization
	}
	return StatusErrorUnknown
}

// FormatStatusError formats a failed server status in a user-friendly way
func FormatStatusError(code int, message string) string {
	errType := ClassifyStatus(code)

	var builder strings.Builder

	builder.WriteString(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprintf("Query failed (status %d)", code))
	builder.WriteString("\n\n")

	switch errType {
	case StatusErrorAuth:
		builder.WriteString("The server rejected the credentials.\n")
		builder.WriteString("To fix this:\n")
		builder.WriteString("  • Check the user name and password\n")
		builder.WriteString("  • Run 'cypher-gremlin connect' to store new credentials\n")

	case StatusErrorRequest:
		builder.WriteString("The server could not accept the request.\n")
		builder.WriteString("This usually happens when:\n")
		builder.WriteString("  • The Cypher plugin is not installed on the server\n")
		builder.WriteString("  • The serializer does not match the server configuration\n")

	case StatusErrorEvaluation:
		builder.WriteString("The server could not evaluate the query.\n")
		builder.WriteString("Check the Cypher syntax and the parameter names.\n")

	case StatusErrorTimeout:
		builder.WriteString("The query ran longer than the server allows.\n")
		builder.WriteString("Try a smaller query or raise --timeout.\n")

	case StatusErrorServer:
		builder.WriteString("The server hit an internal error.\n")
		builder.WriteString("Retrying with --retries may help if the problem is transient.\n")

	case StatusErrorSerialization:
		builder.WriteString("The server could not serialize the result.\n")
		builder.WriteString("Try a different --serializer.\n")

	default:
		builder.WriteString("The server returned an unexpected status.\n")
	}

	if strings.TrimSpace(message) != "" {
		builder.WriteString("\n")
		builder.WriteString(pterm.NewStyle(pterm.FgGray).Sprint("Server message: " + Mask(message)))
	}

	return builder.String()
}

// PresentStatusError displays a formatted status error
func PresentStatusError(code int, message string) {
	fmt.Println()
	fmt.Println(FormatStatusError(code, message))
	fmt.Println()
}
