package main

import (
	"fmt"
	"os"

	// Solver plugins are linked into the binary here; each registers
	// itself with the kinematics registry at init time.
	_ "github.com/armlab/kinconform/internal/cartesian"

	"github.com/armlab/kinconform/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
