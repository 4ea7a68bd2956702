// Command notifylint checks class declarations against the
// PropertyChanged.Fody change-notification conventions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/notifylint/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// ExitErrors were already reported by the command's formatter.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
