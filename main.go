// Package main is the entry point for the cypher-gremlin CLI.
package main

import (
	"cyphergremlin/cli/cmd"
)

func main() {
	cmd.Execute()
}
