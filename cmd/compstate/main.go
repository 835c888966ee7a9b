// Command compstate loads, validates, compiles and runs hierarchical state
// machines.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/compstate/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		// Commands print their own errors; cobra-level errors (bad flags,
		// wrong argument count) are printed here.
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
