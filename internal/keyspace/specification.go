// Package keyspace holds fluent builders that describe schema changes:
// creating, altering and dropping tables, user types, indexes and keyspaces.
//
// Builders accept plain strings for names. Each name is parsed with
// cql.ParseIdentifier; the first parse failure is kept and reported by Err
// and by the generator, so a chain of calls never needs intermediate checks.
package keyspace

import (
	"github.com/axonops/cqlspec/internal/cql"
)

// Specification is implemented by every builder in this package.
type Specification interface {
	// Name is the schema object the statement targets. It is the zero
	// identifier for unnamed specifications that have not been named yet.
	Name() cql.Identifier
	// Keyspace is the optional keyspace qualifier.
	Keyspace() cql.Identifier
	// Err returns the first identifier or type error recorded while building.
	Err() error

	specification()
}

type nameSpecification struct {
	keyspace cql.Identifier
	name     cql.Identifier
	err      error
}

func (s *nameSpecification) Name() cql.Identifier     { return s.name }
func (s *nameSpecification) Keyspace() cql.Identifier { return s.keyspace }
func (s *nameSpecification) Err() error               { return s.err }
func (s *nameSpecification) specification()           {}

// QualifiedName renders keyspace.name, or just name when no keyspace is set.
func (s *nameSpecification) QualifiedName() string {
	if s.keyspace.IsZero() {
		return s.name.CQL()
	}
	return s.keyspace.CQL() + "." + s.name.CQL()
}

func (s *nameSpecification) setName(name string) {
	s.name = s.identifier(name)
}

func (s *nameSpecification) setKeyspace(keyspace string) {
	s.keyspace = s.identifier(keyspace)
}

// identifier parses text and records the first failure.
func (s *nameSpecification) identifier(text string) cql.Identifier {
	id, err := cql.ParseIdentifier(text)
	s.record(err)
	return id
}

func (s *nameSpecification) record(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}
