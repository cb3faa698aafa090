// Package cli provides the command-line interface for cqlspec.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axonops/cqlspec/internal/config"
	"github.com/axonops/cqlspec/internal/db"
	"github.com/axonops/cqlspec/internal/logger"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

type rootOptions struct {
	cfgFile string
	debug   bool
}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "cqlspec",
		Short: "Generate and apply Cassandra schema statements",
		Long: `cqlspec renders CQL schema statements (CREATE/ALTER/DROP for keyspaces,
tables, user types and indexes) from declarative YAML plans, with identifiers
quoted the way Cassandra expects, and applies them to a cluster.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.debug {
				logger.SetDebugEnabled(true)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default: ./cqlspec.yaml)")
	flags.BoolVar(&opts.debug, "debug", false, "Write debug logs to "+logger.LogPath())
	flags.String("host", config.DefaultHost, "Cassandra host")
	flags.Int("port", config.DefaultPort, "Cassandra native protocol port")
	flags.StringP("keyspace", "k", "", "Keyspace to connect to")
	flags.StringP("username", "u", "", "Username for authentication")
	flags.StringP("password", "p", "", "Password for authentication")
	flags.String("consistency", config.DefaultConsistency, "Default consistency level")
	flags.Int("connect-timeout", config.DefaultConnectTimeout, "Connection timeout in seconds")
	flags.Int("request-timeout", config.DefaultRequestTimeout, "Request timeout in seconds")
	flags.Bool("ssl", false, "Connect with TLS")

	_ = rootCmd.RegisterFlagCompletionFunc("consistency", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"ANY", "ONE", "TWO", "THREE", "QUORUM", "ALL", "LOCAL_QUORUM", "EACH_QUORUM", "LOCAL_ONE"}, cobra.ShellCompDirectiveNoFileComp
	})

	connect := func(cmd *cobra.Command) (*db.Session, error) {
		cfg, err := config.LoadConfig(opts.cfgFile, cmd.Root().PersistentFlags())
		if err != nil {
			return nil, err
		}
		if cfg.Debug {
			logger.SetDebugEnabled(true)
		}
		return db.NewSession(cfg)
	}

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newApplyCommand(connect))
	rootCmd.AddCommand(newQuoteCommand())
	rootCmd.AddCommand(newKeywordsCommand())
	rootCmd.AddCommand(newDescribeTypeCommand(connect))

	return rootCmd
}

// connectFunc opens a session using the root command's configuration.
type connectFunc func(cmd *cobra.Command) (*db.Session, error)

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cqlspec v%s (%s)\n", Version, GitCommit)
		},
	}
}
