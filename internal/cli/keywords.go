package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/cqlspec/internal/cql"
)

func newKeywordsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords",
		Short: "List the reserved keywords that are always quoted",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, keyword := range cql.ReservedKeywords() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), keyword)
			}
		},
	}
}
