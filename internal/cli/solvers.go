package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/armlab/kinconform/internal/kinematics"
)

// NewSolversCommand creates the solvers command, which lists the solver
// plugins linked into this binary.
func NewSolversCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "solvers",
		Short: "List registered solver plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := kinematics.Registered()
			out := cmd.OutOrStdout()

			if rootOpts.Format == "json" {
				return writeJSON(out, map[string]any{"solvers": names})
			}

			if len(names) == 0 {
				fmt.Fprintln(out, "No solver plugins registered.")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(out, name)
			}
			return nil
		},
	}
}
