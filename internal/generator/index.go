package generator

import (
	"fmt"
	"strings"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// CreateIndex renders
//
//	CREATE [CUSTOM ]INDEX [IF NOT EXISTS ][name ]ON table (column)[ USING 'class'][ WITH OPTIONS = {...}];
//
// The index name is optional. WITH OPTIONS requires a custom index.
func CreateIndex(spec *keyspace.CreateIndexSpecification) (string, error) {
	if err := spec.Err(); err != nil {
		return "", err
	}
	if spec.TableName().IsZero() {
		return "", fmt.Errorf("%w: index table name must not be empty", cql.ErrInvalidSpecification)
	}
	if spec.ColumnName().IsZero() {
		return "", fmt.Errorf("%w: index column name must not be empty", cql.ErrInvalidSpecification)
	}
	if !spec.IsCustom() && len(spec.Options()) > 0 {
		return "", fmt.Errorf("%w: index options require a custom index class (USING)", cql.ErrInvalidSpecification)
	}

	var sb strings.Builder
	sb.WriteString("CREATE")
	if spec.IsCustom() {
		sb.WriteString(" CUSTOM")
	}
	sb.WriteString(" INDEX ")
	if spec.HasIfNotExists() {
		sb.WriteString("IF NOT EXISTS ")
	}
	if !spec.Name().IsZero() {
		sb.WriteString(spec.Name().CQL())
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "ON %s (%s)", qualifiedName(spec.Keyspace(), spec.TableName()), spec.ColumnName().CQL())

	if spec.IsCustom() {
		fmt.Fprintf(&sb, " USING '%s'", escapeString(spec.UsingClass()))
		if options := spec.Options(); len(options) > 0 {
			sb.WriteString(" WITH OPTIONS = ")
			sb.WriteString(mapLiteral(options))
		}
	}

	sb.WriteByte(';')
	return sb.String(), nil
}

// DropIndex renders DROP INDEX [IF EXISTS] name;
func DropIndex(spec *keyspace.DropIndexSpecification) (string, error) {
	if err := validate(spec, "index"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DROP INDEX ")
	if spec.HasIfExists() {
		sb.WriteString("IF EXISTS ")
	}
	sb.WriteString(spec.QualifiedName())
	sb.WriteByte(';')
	return sb.String(), nil
}
