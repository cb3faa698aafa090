package generator

import (
	"fmt"
	"strings"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// writeChanges renders column changes separated by single spaces. A run of
// consecutive renames shares one RENAME keyword and joins with AND.
func writeChanges(sb *strings.Builder, changes []keyspace.ColumnChange, object string, allowDrop bool) error {
	lastChangeWasRename := false

	for i, change := range changes {
		if i > 0 {
			sb.WriteByte(' ')
		}

		switch c := change.(type) {
		case keyspace.AddColumn:
			if err := requireName(c.Name, object, "name"); err != nil {
				return err
			}
			if err := requireType(c.Type, object, c.Name); err != nil {
				return err
			}
			fmt.Fprintf(sb, "ADD %s %s", c.Name.CQL(), c.Type.CQL())
		case keyspace.AlterColumn:
			if err := requireName(c.Name, object, "name"); err != nil {
				return err
			}
			if err := requireType(c.Type, object, c.Name); err != nil {
				return err
			}
			fmt.Fprintf(sb, "ALTER %s TYPE %s", c.Name.CQL(), c.Type.CQL())
		case keyspace.RenameColumn:
			if err := requireName(c.From, object, "rename source"); err != nil {
				return err
			}
			if err := requireName(c.To, object, "rename target"); err != nil {
				return err
			}
			if lastChangeWasRename {
				sb.WriteString("AND ")
			} else {
				sb.WriteString("RENAME ")
			}
			fmt.Fprintf(sb, "%s TO %s", c.From.CQL(), c.To.CQL())
		case keyspace.DropColumn:
			if err := requireName(c.Name, object, "name"); err != nil {
				return err
			}
			if !allowDrop {
				return fmt.Errorf("%w: cannot drop %s [%s]", cql.ErrInvalidSpecification, object, c.Name.CQL())
			}
			fmt.Fprintf(sb, "DROP %s", c.Name.CQL())
		default:
			panic(fmt.Sprintf("generator: unknown column change type %T", change))
		}

		lastChangeWasRename = change.Kind() == keyspace.ChangeRename
	}

	return nil
}
