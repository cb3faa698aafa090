package db

import (
	"context"
	"fmt"
	"io"

	"github.com/axonops/cqlspec/internal/generator"
	"github.com/axonops/cqlspec/internal/keyspace"
	"github.com/axonops/cqlspec/internal/logger"
)

// Executor runs a single CQL statement. *Session implements it.
type Executor interface {
	ExecContext(ctx context.Context, stmt string, opts *QueryOptions) error
}

// schemaAgreer is implemented by executors that can wait for all nodes to
// see the same schema version.
type schemaAgreer interface {
	AwaitSchemaAgreement(ctx context.Context) error
}

// StatementError reports the statement that stopped a run.
type StatementError struct {
	Index     int // 1-based
	Statement string
	Err       error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("statement %d failed: %s: %v", e.Index, e.Statement, e.Err)
}

func (e *StatementError) Unwrap() error {
	return e.Err
}

// SchemaExecutor renders specifications and executes the resulting
// statements in order, stopping at the first failure.
type SchemaExecutor struct {
	exec Executor
	opts *QueryOptions
}

// NewSchemaExecutor returns a SchemaExecutor running statements on exec with
// opts, which may be nil.
func NewSchemaExecutor(exec Executor, opts *QueryOptions) *SchemaExecutor {
	return &SchemaExecutor{exec: exec, opts: opts}
}

// Execute renders every specification before executing any of them, so a
// specification error leaves the cluster untouched. It returns the number of
// statements that succeeded.
func (e *SchemaExecutor) Execute(ctx context.Context, specs ...keyspace.Specification) (int, error) {
	statements, err := generator.ToCQLAll(specs)
	if err != nil {
		return 0, err
	}
	return e.ExecuteStatements(ctx, statements)
}

// ExecuteStatements executes already rendered statements in order.
func (e *SchemaExecutor) ExecuteStatements(ctx context.Context, statements []string) (int, error) {
	if err := e.opts.Validate(); err != nil {
		return 0, err
	}

	agreer, awaitSchema := e.exec.(schemaAgreer)
	for i, stmt := range statements {
		if err := ctx.Err(); err != nil {
			return i, err
		}

		if err := e.exec.ExecContext(ctx, stmt, e.opts); err != nil {
			logger.DebugfToFile("SchemaExecutor", "Statement %d failed: %v", i+1, err)
			return i, &StatementError{Index: i + 1, Statement: stmt, Err: err}
		}

		if awaitSchema {
			if err := agreer.AwaitSchemaAgreement(ctx); err != nil {
				return i + 1, fmt.Errorf("schema agreement after statement %d: %w", i+1, err)
			}
		}
		logger.DebugfToFile("SchemaExecutor", "Statement %d/%d done", i+1, len(statements))
	}
	return len(statements), nil
}

// DryRunExecutor writes statements to w instead of executing them.
type DryRunExecutor struct {
	w io.Writer
}

func NewDryRunExecutor(w io.Writer) *DryRunExecutor {
	return &DryRunExecutor{w: w}
}

func (d *DryRunExecutor) ExecContext(_ context.Context, stmt string, _ *QueryOptions) error {
	_, err := fmt.Fprintln(d.w, stmt)
	return err
}
