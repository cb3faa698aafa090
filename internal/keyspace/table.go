package keyspace

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/cql"
)

// KeyType says which part of the primary key, if any, a column belongs to.
type KeyType int

const (
	RegularColumn KeyType = iota
	PartitionKeyColumn
	ClusteringColumn
	StaticColumn
)

// Ordering is the clustering order of a clustering column.
type Ordering int

const (
	Ascending Ordering = iota
	Descending
)

func (o Ordering) String() string {
	if o == Descending {
		return "DESC"
	}
	return "ASC"
}

// Column is a column of a CREATE TABLE statement.
type Column struct {
	Name     cql.Identifier
	Type     cql.DataType
	KeyType  KeyType
	Ordering Ordering
}

// TableOption is one WITH clause entry. Value is rendered by kind: strings
// are single-quoted, numbers and booleans are bare, map[string]string and
// map[string]any render as CQL map literals.
type TableOption struct {
	Name  string
	Value any
}

// tableOptions keeps WITH entries in insertion order, replacing repeated names.
type tableOptions struct {
	options []TableOption
}

func (o *tableOptions) set(name string, value any) error {
	if !isOptionName(name) {
		return fmt.Errorf("%w: table option [%s] must match [a-z][a-z0-9_]*", cql.ErrInvalidSpecification, name)
	}
	for i := range o.options {
		if o.options[i].Name == name {
			o.options[i].Value = value
			return nil
		}
	}
	o.options = append(o.options, TableOption{Name: name, Value: value})
	return nil
}

// isOptionName reports whether name is a bare lower-case option name.
func isOptionName(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 1; i < len(name); i++ {
		ch := name[i]
		if (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') && ch != '_' {
			return false
		}
	}
	return true
}

// Options returns a copy of the WITH entries in the order they were set.
func (o *tableOptions) Options() []TableOption {
	return append([]TableOption(nil), o.options...)
}

// CreateTableSpecification describes CREATE TABLE.
type CreateTableSpecification struct {
	nameSpecification
	tableOptions
	ifNotExists bool
	columns     []Column
}

// CreateTable starts a CREATE TABLE specification.
func CreateTable(name string) *CreateTableSpecification {
	s := &CreateTableSpecification{}
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *CreateTableSpecification) InKeyspace(keyspace string) *CreateTableSpecification {
	s.setKeyspace(keyspace)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *CreateTableSpecification) IfNotExists() *CreateTableSpecification {
	s.ifNotExists = true
	return s
}

// PartitionKey adds a partition key column. Composite partition keys are
// built by calling it more than once.
func (s *CreateTableSpecification) PartitionKey(name string, dataType cql.DataType) *CreateTableSpecification {
	return s.column(name, dataType, PartitionKeyColumn, Ascending)
}

// ClusteredKey adds a clustering column with its order.
func (s *CreateTableSpecification) ClusteredKey(name string, dataType cql.DataType, ordering Ordering) *CreateTableSpecification {
	return s.column(name, dataType, ClusteringColumn, ordering)
}

// Column adds a regular column.
func (s *CreateTableSpecification) Column(name string, dataType cql.DataType) *CreateTableSpecification {
	return s.column(name, dataType, RegularColumn, Ascending)
}

// StaticColumn adds a column shared by all rows of a partition.
func (s *CreateTableSpecification) StaticColumn(name string, dataType cql.DataType) *CreateTableSpecification {
	return s.column(name, dataType, StaticColumn, Ascending)
}

func (s *CreateTableSpecification) column(name string, dataType cql.DataType, keyType KeyType, ordering Ordering) *CreateTableSpecification {
	s.columns = append(s.columns, Column{
		Name:     s.identifier(name),
		Type:     dataType,
		KeyType:  keyType,
		Ordering: ordering,
	})
	return s
}

// With sets a table option such as gc_grace_seconds. Setting the same
// option again replaces its value. Names outside [a-z][a-z0-9_]* are
// recorded as an error.
func (s *CreateTableSpecification) With(option string, value any) *CreateTableSpecification {
	s.record(s.set(option, value))
	return s
}

// Comment sets the comment option.
func (s *CreateTableSpecification) Comment(comment string) *CreateTableSpecification {
	return s.With("comment", comment)
}

// DefaultTTL sets default_time_to_live in seconds.
func (s *CreateTableSpecification) DefaultTTL(seconds int) *CreateTableSpecification {
	return s.With("default_time_to_live", seconds)
}

// Compaction sets the compaction options, including the class.
func (s *CreateTableSpecification) Compaction(options map[string]string) *CreateTableSpecification {
	return s.With("compaction", lo.Assign(options))
}

// HasIfNotExists reports whether IF NOT EXISTS is set.
func (s *CreateTableSpecification) HasIfNotExists() bool { return s.ifNotExists }

// Columns returns a copy of the columns in declaration order.
func (s *CreateTableSpecification) Columns() []Column {
	return append([]Column(nil), s.columns...)
}

// PartitionKeyColumns returns the partition key columns in declaration order.
func (s *CreateTableSpecification) PartitionKeyColumns() []Column {
	return s.columnsOf(PartitionKeyColumn)
}

// ClusteringColumns returns the clustering columns in declaration order.
func (s *CreateTableSpecification) ClusteringColumns() []Column {
	return s.columnsOf(ClusteringColumn)
}

func (s *CreateTableSpecification) columnsOf(keyType KeyType) []Column {
	var columns []Column
	for _, c := range s.columns {
		if c.KeyType == keyType {
			columns = append(columns, c)
		}
	}
	return columns
}

// AlterTableSpecification describes ALTER TABLE.
type AlterTableSpecification struct {
	alterSpecification
	tableOptions
}

// AlterTable starts an ALTER TABLE specification.
func AlterTable(name string) *AlterTableSpecification {
	s := &AlterTableSpecification{}
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *AlterTableSpecification) InKeyspace(keyspace string) *AlterTableSpecification {
	s.setKeyspace(keyspace)
	return s
}

// Add adds a column.
func (s *AlterTableSpecification) Add(column string, dataType cql.DataType) *AlterTableSpecification {
	s.add(column, dataType)
	return s
}

// Alter changes the type of a column.
func (s *AlterTableSpecification) Alter(column string, dataType cql.DataType) *AlterTableSpecification {
	s.alter(column, dataType)
	return s
}

// Drop drops a column.
func (s *AlterTableSpecification) Drop(column string) *AlterTableSpecification {
	s.drop(column)
	return s
}

// Rename renames a column. Consecutive renames share one RENAME.
func (s *AlterTableSpecification) Rename(from, to string) *AlterTableSpecification {
	s.rename(from, to)
	return s
}

// Change appends a prepared column change.
func (s *AlterTableSpecification) Change(change ColumnChange) *AlterTableSpecification {
	s.change(change)
	return s
}

// With sets a table option, as CreateTableSpecification.With does.
func (s *AlterTableSpecification) With(option string, value any) *AlterTableSpecification {
	s.record(s.set(option, value))
	return s
}

// DropTableSpecification describes DROP TABLE.
type DropTableSpecification struct {
	nameSpecification
	ifExists bool
}

// DropTable starts a DROP TABLE specification.
func DropTable(name string) *DropTableSpecification {
	s := &DropTableSpecification{}
	s.setName(name)
	return s
}

// InKeyspace qualifies the name with a keyspace.
func (s *DropTableSpecification) InKeyspace(keyspace string) *DropTableSpecification {
	s.setKeyspace(keyspace)
	return s
}

// IfExists adds IF EXISTS.
func (s *DropTableSpecification) IfExists() *DropTableSpecification {
	s.ifExists = true
	return s
}

// HasIfExists reports whether IF EXISTS is set.
func (s *DropTableSpecification) HasIfExists() bool { return s.ifExists }
