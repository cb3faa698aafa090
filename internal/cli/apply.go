package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/axonops/cqlspec/internal/batch"
	"github.com/axonops/cqlspec/internal/db"
	"github.com/axonops/cqlspec/internal/plan"
)

type applyOptions struct {
	script            string
	dryRun            bool
	consistency       string
	serialConsistency string
	retries           int
	retryBackoff      time.Duration
	fetchSize         int
	timeout           time.Duration
	tracing           bool
	idempotent        bool
}

func newApplyCommand(connect connectFunc) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply [plan.yaml]",
		Short: "Apply a plan or CQL script to the cluster",
		Long: `Apply the statements of a plan, or of a CQL script given with --file, in
order. Execution stops at the first failing statement; statements before it
stay applied. With --dry-run the statements are printed instead.`,
		Example: `  # Apply a plan
  cqlspec apply migrations/001_address.yaml --host db1 -k shop

  # Check what would run
  cqlspec apply migrations/001_address.yaml --dry-run

  # Apply a hand-written script
  cqlspec apply --file fixes.cql --retries 3 --retry-backoff 500ms

  # Write each statement at QUORUM
  cqlspec apply migrations/001_address.yaml --statement-consistency QUORUM`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, opts, connect)
		},
	}

	cmd.Flags().StringVarP(&opts.script, "file", "f", "", "CQL script to apply instead of a plan")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Print statements without executing them")
	cmd.Flags().StringVar(&opts.consistency, "statement-consistency", "", "Consistency for each statement, overriding --consistency")
	cmd.Flags().StringVar(&opts.serialConsistency, "serial-consistency", "", "Serial consistency for conditional statements (SERIAL|LOCAL_SERIAL)")
	cmd.Flags().IntVar(&opts.retries, "retries", 0, "Retry each failed statement up to n times")
	cmd.Flags().DurationVar(&opts.retryBackoff, "retry-backoff", 0, "Initial delay between retries, growing exponentially (0 = retry immediately)")
	cmd.Flags().IntVar(&opts.fetchSize, "fetch-size", 0, "Page size for statements returning rows (0 = server default)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-statement timeout, e.g. 30s (0 = request timeout)")
	cmd.Flags().BoolVar(&opts.tracing, "tracing", false, "Enable tracing and print the trace ID of the last statement")
	cmd.Flags().BoolVar(&opts.idempotent, "idempotent", false, "Mark statements idempotent so the driver may retry them")

	return cmd
}

func runApply(cmd *cobra.Command, args []string, opts *applyOptions, connect connectFunc) error {
	if (len(args) == 0) == (opts.script == "") {
		return fmt.Errorf("specify exactly one of a plan file or --file")
	}

	statements, err := loadStatements(args, opts.script)
	if err != nil {
		return err
	}

	queryOpts, err := opts.queryOptions(cmd)
	if err != nil {
		return err
	}

	var (
		exec    db.Executor
		version string
	)
	if opts.dryRun {
		exec = db.NewDryRunExecutor(cmd.OutOrStdout())
	} else {
		session, err := connect(cmd)
		if err != nil {
			return err
		}
		defer session.Close()
		exec = session
		version = session.CassandraVersion()
	}

	n, err := db.NewSchemaExecutor(exec, queryOpts).ExecuteStatements(cmd.Context(), statements)
	if err != nil {
		return fmt.Errorf("applied %d of %d statements: %w", n, len(statements), err)
	}

	if !opts.dryRun {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied %d statements (Cassandra %s)\n", n, version)
		if traceID := queryOpts.LastTraceID(); traceID != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Trace ID: %s\n", traceID)
		}
	}
	return nil
}

// queryOptions builds per-statement options from the flags.
func (o *applyOptions) queryOptions(cmd *cobra.Command) (*db.QueryOptions, error) {
	queryOpts := db.NewQueryOptions().
		WithSerialConsistency(o.serialConsistency).
		WithFetchSize(o.fetchSize).
		WithReadTimeout(o.timeout).
		WithTracing(o.tracing)

	if o.retryBackoff > 0 {
		queryOpts.WithBackoffRetries(o.retries, o.retryBackoff)
	} else {
		queryOpts.WithRetries(o.retries)
	}
	if o.consistency != "" {
		consistency, err := db.ParseConsistency(o.consistency)
		if err != nil {
			return nil, err
		}
		queryOpts.WithConsistency(consistency)
	}
	if cmd.Flags().Changed("idempotent") {
		queryOpts.WithIdempotent(o.idempotent)
	}
	return queryOpts, queryOpts.Validate()
}

// loadStatements renders the plan in args, or splits the script.
func loadStatements(args []string, script string) ([]string, error) {
	if script != "" {
		content, err := os.ReadFile(script) // #nosec G304 - script path is a user argument
		if err != nil {
			return nil, fmt.Errorf("failed to read script: %w", err)
		}
		statements, err := batch.SplitStatements(string(content))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", script, err)
		}
		return statements, nil
	}

	p, err := plan.LoadFile(args[0])
	if err != nil {
		return nil, err
	}
	statements, err := p.Render()
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", args[0], err)
	}
	return statements, nil
}
