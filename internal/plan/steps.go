package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

func (s Step) specification(defaultKeyspace string) (keyspace.Specification, error) {
	ks := s.Keyspace
	if ks == "" {
		ks = defaultKeyspace
	}

	switch s.Kind {
	case KindCreateType:
		return s.createType(ks)
	case KindAlterType:
		return s.alterType(ks)
	case KindDropType:
		spec := keyspace.DropType(s.Name)
		if ks != "" {
			spec.InKeyspace(ks)
		}
		if s.IfExists {
			spec.IfExists()
		}
		return spec, nil
	case KindCreateIndex:
		return s.createIndex(ks), nil
	case KindDropIndex:
		spec := keyspace.DropIndex(s.Name)
		if ks != "" {
			spec.InKeyspace(ks)
		}
		if s.IfExists {
			spec.IfExists()
		}
		return spec, nil
	case KindCreateTable:
		return s.createTable(ks)
	case KindAlterTable:
		return s.alterTable(ks)
	case KindDropTable:
		spec := keyspace.DropTable(s.Name)
		if ks != "" {
			spec.InKeyspace(ks)
		}
		if s.IfExists {
			spec.IfExists()
		}
		return spec, nil
	case KindCreateKeyspace:
		return s.createKeyspace(), nil
	case KindAlterKeyspace:
		return s.alterKeyspace(), nil
	case KindDropKeyspace:
		spec := keyspace.DropKeyspace(s.Name)
		if s.IfExists {
			spec.IfExists()
		}
		return spec, nil
	case "":
		return nil, fmt.Errorf("%w: step kind must not be empty", cql.ErrInvalidSpecification)
	default:
		return nil, fmt.Errorf("%w: unknown step kind %q", cql.ErrInvalidSpecification, s.Kind)
	}
}

func (s Step) createType(ks string) (keyspace.Specification, error) {
	spec := keyspace.CreateType(s.Name)
	if ks != "" {
		spec.InKeyspace(ks)
	}
	if s.IfNotExists {
		spec.IfNotExists()
	}
	for _, f := range s.Fields {
		dataType, err := cql.ParseDataType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		spec.Field(f.Name, dataType)
	}
	return spec, nil
}

func (s Step) alterType(ks string) (keyspace.Specification, error) {
	spec := keyspace.AlterType(s.Name)
	if ks != "" {
		spec.InKeyspace(ks)
	}
	for i, c := range s.Changes {
		change, err := c.columnChange()
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i+1, err)
		}
		spec.Change(change)
	}
	return spec, nil
}

func (s Step) createIndex(ks string) keyspace.Specification {
	spec := keyspace.CreateIndexUnnamed()
	if s.Name != "" {
		spec.Named(s.Name)
	}
	if ks != "" {
		spec.InKeyspace(ks)
	}
	if s.IfNotExists {
		spec.IfNotExists()
	}
	spec.Table(s.Table).Column(s.Column).Using(s.Using)
	for k, v := range s.Options {
		spec.Option(k, v)
	}
	return spec
}

func (s Step) createTable(ks string) (keyspace.Specification, error) {
	spec := keyspace.CreateTable(s.Name)
	if ks != "" {
		spec.InKeyspace(ks)
	}
	if s.IfNotExists {
		spec.IfNotExists()
	}

	for _, f := range s.PartitionKey {
		dataType, err := cql.ParseDataType(f.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", f.Name, err)
		}
		spec.PartitionKey(f.Name, dataType)
	}

	for _, c := range s.Clustering {
		dataType, err := cql.ParseDataType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		ordering, err := parseOrdering(c.Order)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", c.Name, err)
		}
		spec.ClusteredKey(c.Name, dataType, ordering)
	}

	columns := []struct {
		fields []Field
		add    func(name string, dataType cql.DataType) *keyspace.CreateTableSpecification
	}{
		{s.Static, spec.StaticColumn},
		{s.Columns, spec.Column},
	}
	for _, group := range columns {
		for _, f := range group.fields {
			dataType, err := cql.ParseDataType(f.Type)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", f.Name, err)
			}
			group.add(f.Name, dataType)
		}
	}

	for _, name := range sortedKeys(s.With) {
		spec.With(name, s.With[name])
	}
	return spec, nil
}

func (s Step) alterTable(ks string) (keyspace.Specification, error) {
	spec := keyspace.AlterTable(s.Name)
	if ks != "" {
		spec.InKeyspace(ks)
	}
	for i, c := range s.Changes {
		change, err := c.columnChange()
		if err != nil {
			return nil, fmt.Errorf("change %d: %w", i+1, err)
		}
		spec.Change(change)
	}
	for _, name := range sortedKeys(s.With) {
		spec.With(name, s.With[name])
	}
	return spec, nil
}

func (s Step) createKeyspace() keyspace.Specification {
	spec := keyspace.CreateKeyspace(s.Name)
	if s.IfNotExists {
		spec.IfNotExists()
	}
	switch {
	case len(s.Datacenters) > 0:
		spec.NetworkTopologyStrategy(s.Datacenters)
	case s.ReplicationFactor > 0:
		spec.SimpleStrategy(s.ReplicationFactor)
	}
	for _, k := range sortedKeys(s.Replication) {
		spec.ReplicationOption(k, s.Replication[k])
	}
	if s.DurableWrites != nil {
		spec.WithDurableWrites(*s.DurableWrites)
	}
	return spec
}

func (s Step) alterKeyspace() keyspace.Specification {
	spec := keyspace.AlterKeyspace(s.Name)
	switch {
	case len(s.Datacenters) > 0:
		spec.NetworkTopologyStrategy(s.Datacenters)
	case s.ReplicationFactor > 0:
		spec.SimpleStrategy(s.ReplicationFactor)
	}
	for _, k := range sortedKeys(s.Replication) {
		spec.ReplicationOption(k, s.Replication[k])
	}
	if s.DurableWrites != nil {
		spec.WithDurableWrites(*s.DurableWrites)
	}
	return spec
}

func (c Change) columnChange() (keyspace.ColumnChange, error) {
	set := lo.Compact([]string{
		lo.Ternary(c.Add != nil, "add", ""),
		lo.Ternary(c.Alter != nil, "alter", ""),
		lo.Ternary(c.Rename != nil, "rename", ""),
		lo.Ternary(c.Drop != "", "drop", ""),
	})
	if len(set) != 1 {
		return nil, fmt.Errorf("%w: change must set exactly one of add, alter, rename or drop (got %d)", cql.ErrInvalidSpecification, len(set))
	}

	switch {
	case c.Add != nil:
		name, dataType, err := c.Add.parse()
		if err != nil {
			return nil, err
		}
		return keyspace.AddColumn{Name: name, Type: dataType}, nil
	case c.Alter != nil:
		name, dataType, err := c.Alter.parse()
		if err != nil {
			return nil, err
		}
		return keyspace.AlterColumn{Name: name, Type: dataType}, nil
	case c.Rename != nil:
		from, err := cql.ParseIdentifier(c.Rename.From)
		if err != nil {
			return nil, err
		}
		to, err := cql.ParseIdentifier(c.Rename.To)
		if err != nil {
			return nil, err
		}
		return keyspace.RenameColumn{From: from, To: to}, nil
	default:
		name, err := cql.ParseIdentifier(c.Drop)
		if err != nil {
			return nil, err
		}
		return keyspace.DropColumn{Name: name}, nil
	}
}

func (f Field) parse() (cql.Identifier, cql.DataType, error) {
	name, err := cql.ParseIdentifier(f.Name)
	if err != nil {
		return cql.Identifier{}, cql.DataType{}, err
	}
	dataType, err := cql.ParseDataType(f.Type)
	if err != nil {
		return cql.Identifier{}, cql.DataType{}, err
	}
	return name, dataType, nil
}

func parseOrdering(order string) (keyspace.Ordering, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "asc":
		return keyspace.Ascending, nil
	case "desc":
		return keyspace.Descending, nil
	default:
		return keyspace.Ascending, fmt.Errorf("%w: unknown clustering order %q", cql.ErrInvalidSpecification, order)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return keys
}
