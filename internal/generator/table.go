package generator

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// CreateTable renders CREATE TABLE with the primary key, clustering order and
// table options on a single line.
func CreateTable(spec *keyspace.CreateTableSpecification) (string, error) {
	if err := validate(spec, "table"); err != nil {
		return "", err
	}

	columns := spec.Columns()
	partitionKey := spec.PartitionKeyColumns()
	clustering := spec.ClusteringColumns()

	if len(partitionKey) == 0 {
		return "", fmt.Errorf("%w: table [%s] has no partition key", cql.ErrInvalidSpecification, spec.QualifiedName())
	}
	for _, c := range columns {
		if err := requireName(c.Name, "column", "name"); err != nil {
			return "", err
		}
		if err := requireType(c.Type, "column", c.Name); err != nil {
			return "", err
		}
		if c.KeyType == keyspace.StaticColumn && len(clustering) == 0 {
			return "", fmt.Errorf("%w: static column [%s] requires clustering columns", cql.ErrInvalidSpecification, c.Name.CQL())
		}
	}

	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if spec.HasIfNotExists() {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(spec.QualifiedName())
	sb.WriteString(" (")

	for _, c := range columns {
		sb.WriteString(c.Name.CQL())
		sb.WriteByte(' ')
		sb.WriteString(c.Type.CQL())
		if c.KeyType == keyspace.StaticColumn {
			sb.WriteString(" STATIC")
		}
		sb.WriteString(", ")
	}

	names := func(c keyspace.Column, _ int) string { return c.Name.CQL() }
	pkStr := strings.Join(lo.Map(partitionKey, names), ", ")
	if len(partitionKey) > 1 {
		pkStr = "(" + pkStr + ")"
	}
	if len(clustering) > 0 {
		fmt.Fprintf(&sb, "PRIMARY KEY (%s, %s))", pkStr, strings.Join(lo.Map(clustering, names), ", "))
	} else {
		fmt.Fprintf(&sb, "PRIMARY KEY (%s))", pkStr)
	}

	var options []string
	if len(clustering) > 0 {
		order := lo.Map(clustering, func(c keyspace.Column, _ int) string {
			return c.Name.CQL() + " " + c.Ordering.String()
		})
		options = append(options, fmt.Sprintf("CLUSTERING ORDER BY (%s)", strings.Join(order, ", ")))
	}
	options = append(options, tableOptions(spec.Options())...)

	if len(options) > 0 {
		sb.WriteString(" WITH ")
		sb.WriteString(strings.Join(options, " AND "))
	}

	sb.WriteByte(';')
	return sb.String(), nil
}

// AlterTable renders ALTER TABLE name [changes][ WITH options];
func AlterTable(spec *keyspace.AlterTableSpecification) (string, error) {
	if err := validate(spec, "table"); err != nil {
		return "", err
	}

	changes := spec.Changes()
	options := tableOptions(spec.Options())
	if len(changes) == 0 && len(options) == 0 {
		return "", fmt.Errorf("%w: table [%s] has no changes or options", cql.ErrInvalidSpecification, spec.QualifiedName())
	}

	var sb strings.Builder
	sb.WriteString("ALTER TABLE ")
	sb.WriteString(spec.QualifiedName())
	if len(changes) > 0 {
		sb.WriteByte(' ')
		if err := writeChanges(&sb, changes, "column", true); err != nil {
			return "", err
		}
	}
	if len(options) > 0 {
		sb.WriteString(" WITH ")
		sb.WriteString(strings.Join(options, " AND "))
	}

	sb.WriteByte(';')
	return sb.String(), nil
}

// DropTable renders DROP TABLE [IF EXISTS] name;
func DropTable(spec *keyspace.DropTableSpecification) (string, error) {
	if err := validate(spec, "table"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DROP TABLE ")
	if spec.HasIfExists() {
		sb.WriteString("IF EXISTS ")
	}
	sb.WriteString(spec.QualifiedName())
	sb.WriteByte(';')
	return sb.String(), nil
}
