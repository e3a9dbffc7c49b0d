// Command dispatchgen generates ordered type-switch dispatch methods for
// event-store projections declared in CUE.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/dispatchgen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
