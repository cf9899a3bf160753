package main

import (
	"os"

	"github.com/impoot/impoot/cmd/impootctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
