// Package main is the entry point for the modelbench CLI.
package main

import "github.com/perflab-ai/modelbench/internal/commands"

func main() {
	commands.Execute()
}
