// Command blogql serves an in-memory blog over GraphQL.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/blogql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}
