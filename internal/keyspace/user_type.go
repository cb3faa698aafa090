package keyspace

import (
	"github.com/axonops/cqlspec/internal/cql"
)

// Field is a named, typed member of a user-defined type.
type Field struct {
	Name cql.Identifier
	Type cql.DataType
}

// CreateUserTypeSpecification describes CREATE TYPE.
type CreateUserTypeSpecification struct {
	nameSpecification
	ifNotExists bool
	fields      []Field
}

// CreateType starts a CREATE TYPE specification.
func CreateType(name string) *CreateUserTypeSpecification {
	s := &CreateUserTypeSpecification{}
	s.setName(name)
	return s
}

// InKeyspace qualifies the type name with a keyspace.
func (s *CreateUserTypeSpecification) InKeyspace(keyspace string) *CreateUserTypeSpecification {
	s.setKeyspace(keyspace)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *CreateUserTypeSpecification) IfNotExists() *CreateUserTypeSpecification {
	s.ifNotExists = true
	return s
}

// Field appends a field. Duplicate names are kept as given.
func (s *CreateUserTypeSpecification) Field(name string, dataType cql.DataType) *CreateUserTypeSpecification {
	s.fields = append(s.fields, Field{Name: s.identifier(name), Type: dataType})
	return s
}

// HasIfNotExists reports whether IF NOT EXISTS is set.
func (s *CreateUserTypeSpecification) HasIfNotExists() bool { return s.ifNotExists }

// Fields returns a copy of the fields in declaration order.
func (s *CreateUserTypeSpecification) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// AlterUserTypeSpecification describes ALTER TYPE.
type AlterUserTypeSpecification struct {
	alterSpecification
}

// AlterType starts an ALTER TYPE specification.
func AlterType(name string) *AlterUserTypeSpecification {
	s := &AlterUserTypeSpecification{}
	s.setName(name)
	return s
}

// AlterTypeUnnamed starts an ALTER TYPE specification whose name is set
// later with Named.
func AlterTypeUnnamed() *AlterUserTypeSpecification {
	return &AlterUserTypeSpecification{}
}

// Named sets the name.
func (s *AlterUserTypeSpecification) Named(name string) *AlterUserTypeSpecification {
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *AlterUserTypeSpecification) InKeyspace(keyspace string) *AlterUserTypeSpecification {
	s.setKeyspace(keyspace)
	return s
}

// Add records ADD <field> <type>.
func (s *AlterUserTypeSpecification) Add(field string, dataType cql.DataType) *AlterUserTypeSpecification {
	s.add(field, dataType)
	return s
}

// Alter records ALTER <field> TYPE <type>.
func (s *AlterUserTypeSpecification) Alter(field string, dataType cql.DataType) *AlterUserTypeSpecification {
	s.alter(field, dataType)
	return s
}

// Rename records RENAME <from> TO <to>.
func (s *AlterUserTypeSpecification) Rename(from, to string) *AlterUserTypeSpecification {
	s.rename(from, to)
	return s
}

// Change appends a prepared change. A nil change is ignored.
func (s *AlterUserTypeSpecification) Change(change ColumnChange) *AlterUserTypeSpecification {
	s.change(change)
	return s
}

// DropUserTypeSpecification describes DROP TYPE.
type DropUserTypeSpecification struct {
	nameSpecification
	ifExists bool
}

// DropType starts a DROP TYPE specification.
func DropType(name string) *DropUserTypeSpecification {
	s := &DropUserTypeSpecification{}
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *DropUserTypeSpecification) InKeyspace(keyspace string) *DropUserTypeSpecification {
	s.setKeyspace(keyspace)
	return s
}

// IfExists adds IF EXISTS.
func (s *DropUserTypeSpecification) IfExists() *DropUserTypeSpecification {
	s.ifExists = true
	return s
}

// HasIfExists reports whether IF EXISTS is set.
func (s *DropUserTypeSpecification) HasIfExists() bool { return s.ifExists }
