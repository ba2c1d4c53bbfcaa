package main

import (
	"os"

	"github.com/wonny/qscreen/cmd/qscreen/commands"
)

// main is the entry point for the qscreen CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/qscreen [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
