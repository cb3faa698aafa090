package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/cqlspec/internal/plan"
)

func newRenderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "render <plan.yaml>",
		Short: "Print the CQL statements of a plan",
		Long: `Render every step of a plan to a CQL statement, one per line, without
connecting to a cluster.`,
		Example: `  # Render a plan
  cqlspec render migrations/001_address.yaml

  # Save the statements as a script
  cqlspec render migrations/001_address.yaml > 001_address.cql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := plan.LoadFile(args[0])
			if err != nil {
				return err
			}

			statements, err := p.Render()
			if err != nil {
				return fmt.Errorf("failed to render %s: %w", args[0], err)
			}

			for _, stmt := range statements {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), stmt)
			}
			return nil
		},
	}
}
