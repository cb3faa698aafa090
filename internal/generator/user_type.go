package generator

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// CreateUserType renders CREATE TYPE [IF NOT EXISTS] name (field type, ...);
func CreateUserType(spec *keyspace.CreateUserTypeSpecification) (string, error) {
	if err := validate(spec, "user type"); err != nil {
		return "", err
	}

	fields := spec.Fields()
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: user type [%s] does not contain fields", cql.ErrInvalidSpecification, spec.QualifiedName())
	}
	for _, f := range fields {
		if err := requireName(f.Name, "field", "name"); err != nil {
			return "", err
		}
		if err := requireType(f.Type, "field", f.Name); err != nil {
			return "", err
		}
	}

	var sb strings.Builder
	sb.WriteString("CREATE TYPE ")
	if spec.HasIfNotExists() {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(spec.QualifiedName())
	sb.WriteString(" (")
	sb.WriteString(strings.Join(lo.Map(fields, func(f keyspace.Field, _ int) string {
		return f.Name.CQL() + " " + f.Type.CQL()
	}), ", "))
	sb.WriteString(");")

	return sb.String(), nil
}

// AlterUserType renders ALTER TYPE name change [change ...];
func AlterUserType(spec *keyspace.AlterUserTypeSpecification) (string, error) {
	if err := validate(spec, "user type"); err != nil {
		return "", err
	}

	changes := spec.Changes()
	if len(changes) == 0 {
		return "", fmt.Errorf("%w: user type [%s] does not contain fields", cql.ErrInvalidSpecification, spec.QualifiedName())
	}

	var sb strings.Builder
	sb.WriteString("ALTER TYPE ")
	sb.WriteString(spec.QualifiedName())
	sb.WriteByte(' ')
	if err := writeChanges(&sb, changes, "user type field", false); err != nil {
		return "", err
	}
	sb.WriteByte(';')

	return sb.String(), nil
}

// DropUserType renders DROP TYPE [IF EXISTS] name;
func DropUserType(spec *keyspace.DropUserTypeSpecification) (string, error) {
	if err := validate(spec, "user type"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DROP TYPE")
	if spec.HasIfExists() {
		sb.WriteString(" IF EXISTS ")
	} else {
		sb.WriteByte(' ')
	}
	sb.WriteString(spec.QualifiedName())
	sb.WriteByte(';')

	return sb.String(), nil
}
