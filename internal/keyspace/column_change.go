package keyspace

import (
	"github.com/axonops/cqlspec/internal/cql"
)

// ChangeKind identifies the variant of a ColumnChange.
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeAlter
	ChangeRename
	ChangeDrop
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdd:
		return "ADD"
	case ChangeAlter:
		return "ALTER"
	case ChangeRename:
		return "RENAME"
	case ChangeDrop:
		return "DROP"
	default:
		return "UNKNOWN"
	}
}

// ColumnChange is one entry of an ALTER TYPE or ALTER TABLE statement. The
// set of implementations is closed: AddColumn, AlterColumn, RenameColumn and
// DropColumn.
type ColumnChange interface {
	Kind() ChangeKind
	columnChange()
}

// AddColumn adds a field or column.
type AddColumn struct {
	Name cql.Identifier
	Type cql.DataType
}

// AlterColumn changes the type of an existing field or column.
type AlterColumn struct {
	Name cql.Identifier
	Type cql.DataType
}

// RenameColumn renames a field or column.
type RenameColumn struct {
	From cql.Identifier
	To   cql.Identifier
}

// DropColumn removes a table column. User types do not support it.
type DropColumn struct {
	Name cql.Identifier
}

func (AddColumn) Kind() ChangeKind    { return ChangeAdd }
func (AlterColumn) Kind() ChangeKind  { return ChangeAlter }
func (RenameColumn) Kind() ChangeKind { return ChangeRename }
func (DropColumn) Kind() ChangeKind   { return ChangeDrop }

func (AddColumn) columnChange()    {}
func (AlterColumn) columnChange()  {}
func (RenameColumn) columnChange() {}
func (DropColumn) columnChange()   {}

// alterSpecification collects the ordered changes shared by ALTER TYPE and
// ALTER TABLE.
type alterSpecification struct {
	nameSpecification
	changes []ColumnChange
}

func (s *alterSpecification) add(name string, dataType cql.DataType) {
	s.changes = append(s.changes, AddColumn{Name: s.identifier(name), Type: dataType})
}

func (s *alterSpecification) alter(name string, dataType cql.DataType) {
	s.changes = append(s.changes, AlterColumn{Name: s.identifier(name), Type: dataType})
}

func (s *alterSpecification) rename(from, to string) {
	s.changes = append(s.changes, RenameColumn{From: s.identifier(from), To: s.identifier(to)})
}

func (s *alterSpecification) drop(name string) {
	s.changes = append(s.changes, DropColumn{Name: s.identifier(name)})
}

func (s *alterSpecification) change(c ColumnChange) {
	if c != nil {
		s.changes = append(s.changes, c)
	}
}

// Changes returns a copy of the recorded changes in insertion order.
func (s *alterSpecification) Changes() []ColumnChange {
	return append([]ColumnChange(nil), s.changes...)
}
