package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/axonops/cqlspec/internal/generator"
)

func newDescribeTypeCommand(connect connectFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "describe-type [keyspace] <type>",
		Short: "Print the CREATE TYPE statement of an existing user type",
		Long: `Print the CREATE TYPE statement of an existing user type. Without a
keyspace argument the session keyspace (--keyspace) is used.`,
		Example: `  cqlspec describe-type shop address
  cqlspec describe-type -k shop '"GeoPoint"'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := connect(cmd)
			if err != nil {
				return err
			}
			defer session.Close()

			keyspaceName, typeName, err := describeTarget(args, session.Keyspace())
			if err != nil {
				return err
			}

			spec, err := session.DescribeUserType(cmd.Context(), keyspaceName, typeName)
			if err != nil {
				return err
			}
			stmt, err := generator.ToCQL(spec)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), stmt)
			return nil
		},
	}
}

// describeTarget splits [keyspace] <type>, falling back to the session keyspace.
func describeTarget(args []string, sessionKeyspace string) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	if sessionKeyspace == "" {
		return "", "", fmt.Errorf("no keyspace given: pass it as the first argument or with --keyspace")
	}
	return sessionKeyspace, args[0], nil
}
