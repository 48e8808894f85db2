package main

import (
	"context"
	"os"

	"github.com/yndnr/rwlockmap/internal/cli/command"
)

func main() {
	if err := run(); err != nil {
		command.PrintError("%v", err)
		os.Exit(1)
	}
}

func run() error {
	return command.App().RunContext(context.Background(), os.Args)
}
