// Package generator renders keyspace specifications into CQL statements.
//
// Every function validates its specification before writing anything and
// either returns a complete statement terminated by ";" or an error wrapping
// cql.ErrInvalidSpecification (or the builder's recorded identifier error).
// Generators are pure: they perform no I/O and keep no state.
package generator

import (
	"fmt"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// ToCQL renders any specification built by the keyspace package.
func ToCQL(spec keyspace.Specification) (string, error) {
	switch s := spec.(type) {
	case *keyspace.CreateUserTypeSpecification:
		return render(s, CreateUserType)
	case *keyspace.AlterUserTypeSpecification:
		return render(s, AlterUserType)
	case *keyspace.DropUserTypeSpecification:
		return render(s, DropUserType)
	case *keyspace.CreateIndexSpecification:
		return render(s, CreateIndex)
	case *keyspace.DropIndexSpecification:
		return render(s, DropIndex)
	case *keyspace.CreateTableSpecification:
		return render(s, CreateTable)
	case *keyspace.AlterTableSpecification:
		return render(s, AlterTable)
	case *keyspace.DropTableSpecification:
		return render(s, DropTable)
	case *keyspace.CreateKeyspaceSpecification:
		return render(s, CreateKeyspace)
	case *keyspace.AlterKeyspaceSpecification:
		return render(s, AlterKeyspace)
	case *keyspace.DropKeyspaceSpecification:
		return render(s, DropKeyspace)
	case nil:
		return "", errNilSpecification
	default:
		panic(fmt.Sprintf("generator: unsupported specification type %T", spec))
	}
}

var errNilSpecification = fmt.Errorf("%w: specification must not be nil", cql.ErrInvalidSpecification)

// render calls fn unless spec is a typed nil pointer.
func render[T any](spec *T, fn func(*T) (string, error)) (string, error) {
	if spec == nil {
		return "", errNilSpecification
	}
	return fn(spec)
}

// ToCQLAll renders specifications in order and stops at the first failure,
// reporting the position of the failing specification.
func ToCQLAll(specs []keyspace.Specification) ([]string, error) {
	statements := make([]string, 0, len(specs))
	for i, spec := range specs {
		stmt, err := ToCQL(spec)
		if err != nil {
			return nil, fmt.Errorf("specification %d: %w", i+1, err)
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

// validate checks the recorded builder error and that the named object has
// a name.
func validate(spec keyspace.Specification, object string) error {
	if err := spec.Err(); err != nil {
		return err
	}
	if spec.Name().IsZero() {
		return fmt.Errorf("%w: %s name must not be empty", cql.ErrInvalidSpecification, object)
	}
	return nil
}

// qualifiedName renders keyspace.name or name.
func qualifiedName(keyspaceName, name cql.Identifier) string {
	if keyspaceName.IsZero() {
		return name.CQL()
	}
	return keyspaceName.CQL() + "." + name.CQL()
}

func requireType(dataType cql.DataType, object string, name cql.Identifier) error {
	if dataType.IsZero() {
		return fmt.Errorf("%w: %s [%s] has no type", cql.ErrInvalidSpecification, object, name.CQL())
	}
	if err := dataType.Validate(); err != nil {
		return fmt.Errorf("%w: %s [%s]: %w", cql.ErrInvalidSpecification, object, name.CQL(), err)
	}
	return nil
}

// requireName fails when a change or column names nothing.
func requireName(name cql.Identifier, object, role string) error {
	if name.IsZero() {
		return fmt.Errorf("%w: %s %s must not be empty", cql.ErrInvalidSpecification, object, role)
	}
	return nil
}
