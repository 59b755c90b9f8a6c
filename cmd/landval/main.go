package main

import (
	"os"

	"landval/cmd/landval/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
