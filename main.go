// Command dusort shows the size of every entry of a directory, smallest first.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/dusort/internal/cli"
)

// version is set at build time.
var version = "unknown - unofficial & generated by unknown"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "dusort:", err)
		os.Exit(cli.ExitCode(err))
	}
}
