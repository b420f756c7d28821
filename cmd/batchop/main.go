// Command batchop saves copy and modify-json file operations with {{variable}}
// placeholders and runs them through an external helper executable.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/batchop/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()

	// ExitErrors have already been reported by the command. Anything else
	// is a usage error from flag or argument parsing.
	var exitErr *cli.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
