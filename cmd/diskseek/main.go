// cmd/diskseek/main.go
//
// This is the entry point for the diskseek CLI. All behaviour lives in
// internal/cli; main only maps the returned error to an exit code.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kingrea/diskseek/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Subcommands print their own errors; only report ones that escaped
		// the formatter, such as unknown flags.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
