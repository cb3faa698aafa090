package keyspace

import (
	"strings"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/cql"
)

// CreateIndexSpecification describes CREATE [CUSTOM] INDEX.
type CreateIndexSpecification struct {
	nameSpecification
	ifNotExists bool
	custom      bool
	using       string
	table       cql.Identifier
	column      cql.Identifier
	options     map[string]string
}

// CreateIndex starts a CREATE INDEX specification.
func CreateIndex(name string) *CreateIndexSpecification {
	s := &CreateIndexSpecification{}
	s.setName(name)
	return s
}

// CreateIndexUnnamed starts a CREATE INDEX specification without a name;
// the server then derives one from the table and column.
func CreateIndexUnnamed() *CreateIndexSpecification {
	return &CreateIndexSpecification{}
}

// Named sets the name.
func (s *CreateIndexSpecification) Named(name string) *CreateIndexSpecification {
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *CreateIndexSpecification) InKeyspace(keyspace string) *CreateIndexSpecification {
	s.setKeyspace(keyspace)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *CreateIndexSpecification) IfNotExists() *CreateIndexSpecification {
	s.ifNotExists = true
	return s
}

// Table sets the indexed table.
func (s *CreateIndexSpecification) Table(table string) *CreateIndexSpecification {
	s.table = s.identifier(table)
	return s
}

// Column sets the indexed column.
func (s *CreateIndexSpecification) Column(column string) *CreateIndexSpecification {
	s.column = s.identifier(column)
	return s
}

// Using sets the custom index class and marks the index custom. A blank
// class name clears both the class and the custom flag.
func (s *CreateIndexSpecification) Using(className string) *CreateIndexSpecification {
	if strings.TrimSpace(className) != "" {
		s.using = className
		s.custom = true
	} else {
		s.using = ""
		s.custom = false
	}
	return s
}

// Option adds an entry to WITH OPTIONS. The generator rejects options on
// an index without a custom class.
func (s *CreateIndexSpecification) Option(key, value string) *CreateIndexSpecification {
	if s.options == nil {
		s.options = make(map[string]string)
	}
	s.options[key] = value
	return s
}

// HasIfNotExists reports whether IF NOT EXISTS is set.
func (s *CreateIndexSpecification) HasIfNotExists() bool { return s.ifNotExists }

// IsCustom reports whether the index has a custom class.
func (s *CreateIndexSpecification) IsCustom() bool { return s.custom }

// UsingClass returns the custom index class, or "".
func (s *CreateIndexSpecification) UsingClass() string { return s.using }

// TableName returns the indexed table.
func (s *CreateIndexSpecification) TableName() cql.Identifier { return s.table }

// ColumnName returns the indexed column.
func (s *CreateIndexSpecification) ColumnName() cql.Identifier { return s.column }

// Options returns a copy of the WITH OPTIONS entries.
func (s *CreateIndexSpecification) Options() map[string]string {
	return lo.Assign(s.options)
}

// DropIndexSpecification describes DROP INDEX.
type DropIndexSpecification struct {
	nameSpecification
	ifExists bool
}

// DropIndex starts a DROP INDEX specification.
func DropIndex(name string) *DropIndexSpecification {
	s := &DropIndexSpecification{}
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *DropIndexSpecification) InKeyspace(keyspace string) *DropIndexSpecification {
	s.setKeyspace(keyspace)
	return s
}

// IfExists adds IF EXISTS.
func (s *DropIndexSpecification) IfExists() *DropIndexSpecification {
	s.ifExists = true
	return s
}

// HasIfExists reports whether IF EXISTS is set.
func (s *DropIndexSpecification) HasIfExists() bool { return s.ifExists }
