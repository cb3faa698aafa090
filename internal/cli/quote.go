package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/cqlspec/internal/cql"
)

func newQuoteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "quote <name>...",
		Short: "Print names as CQL identifiers",
		Long: `Print each name the way it appears in a statement. Unquoted names are
lower-cased, reserved keywords are quoted, and already quoted names keep
their case.`,
		Example: `  cqlspec quote Users order '"MixedCase"'
  cqlspec quote --force Users`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				var (
					id  cql.Identifier
					err error
				)
				if force {
					id, err = cql.NewIdentifier(arg, true)
				} else {
					id, err = cql.ParseIdentifier(arg)
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), id.CQL())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Always quote, preserving case")
	return cmd
}
