package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// DescribeUserType reads a user type from system_schema.types and rebuilds
// it as a CREATE TYPE specification. keyspaceName and typeName are CQL
// identifiers: quote them to match case-sensitive names.
func (s *Session) DescribeUserType(ctx context.Context, keyspaceName, typeName string) (*keyspace.CreateUserTypeSpecification, error) {
	ks, err := cql.ParseIdentifier(keyspaceName)
	if err != nil {
		return nil, err
	}
	name, err := cql.ParseIdentifier(typeName)
	if err != nil {
		return nil, err
	}

	query := `SELECT field_names, field_types
	          FROM system_schema.types
	          WHERE keyspace_name = ? AND type_name = ?`

	iter := s.Query(query, ks.Normalized(), name.Normalized()).IterContext(ctx)

	var fieldNames, fieldTypes []string
	found := iter.Scan(&fieldNames, &fieldTypes)
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("failed to read type %s.%s: %w", ks, name, err)
	}
	if !found {
		return nil, fmt.Errorf("type '%s' not found in keyspace '%s'", name, ks)
	}

	return userTypeSpecification(ks, name, fieldNames, fieldTypes)
}

// userTypeSpecification builds a CREATE TYPE specification from the stored
// (case-preserving) field names and type strings.
func userTypeSpecification(ks, name cql.Identifier, fieldNames, fieldTypes []string) (*keyspace.CreateUserTypeSpecification, error) {
	if len(fieldNames) != len(fieldTypes) {
		return nil, fmt.Errorf("type %s.%s has %d field names but %d field types", ks, name, len(fieldNames), len(fieldTypes))
	}

	spec := keyspace.CreateType(name.CQL()).InKeyspace(ks.CQL())
	for i, fieldName := range fieldNames {
		dataType, err := cql.ParseDataType(fieldTypes[i])
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fieldName, err)
		}
		spec.Field(storedName(fieldName), dataType)
	}
	return spec, spec.Err()
}

// storedName renders a name as stored by the server so that parsing it back
// yields the same identifier.
func storedName(name string) string {
	if id, err := cql.NewIdentifier(name, false); err == nil && id.Normalized() == name {
		return id.CQL()
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
