// Package main provides the castwave CLI.
//
// Usage:
//
//	castwave generate -f script.txt [flags]
//	castwave voices [--dir voices/]
//	castwave serve
//
// generate drives the synthesis pipeline directly, without the HTTP API;
// serve runs the API server in-process.
package main

import (
	"fmt"
	"os"

	"github.com/castwave/castwave/cmd/castwave/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
