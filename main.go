// Package main is the entry point for the dotaparty CLI tool, which fetches
// Dota 2 match histories and works out who you queued with.
package main

import "github.com/pable/go-dota-party/cmd"

func main() {
	cmd.Execute()
}
