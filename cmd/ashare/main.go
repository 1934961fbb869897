package main

import (
	"os"

	"github.com/wonny/ashare/cmd/ashare/commands"
)

// main is the entry point for the ashare CLI: go run ./cmd/ashare [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
