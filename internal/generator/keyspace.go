package generator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

// CreateKeyspace renders
//
//	CREATE KEYSPACE [IF NOT EXISTS ]name WITH replication = {...}[ AND durable_writes = bool];
func CreateKeyspace(spec *keyspace.CreateKeyspaceSpecification) (string, error) {
	if err := validate(spec, "keyspace"); err != nil {
		return "", err
	}

	replication := spec.Replication()
	if _, ok := replication["class"]; !ok {
		return "", fmt.Errorf("%w: keyspace [%s] has no replication class", cql.ErrInvalidSpecification, spec.Name().CQL())
	}

	var sb strings.Builder
	sb.WriteString("CREATE KEYSPACE ")
	if spec.HasIfNotExists() {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(spec.Name().CQL())
	sb.WriteString(" WITH replication = ")
	sb.WriteString(replicationLiteral(replication))
	if durable, set := spec.DurableWrites(); set {
		fmt.Fprintf(&sb, " AND durable_writes = %t", durable)
	}
	sb.WriteByte(';')

	return sb.String(), nil
}

// AlterKeyspace renders ALTER KEYSPACE name WITH ...; at least one of
// replication or durable_writes must be set.
func AlterKeyspace(spec *keyspace.AlterKeyspaceSpecification) (string, error) {
	if err := validate(spec, "keyspace"); err != nil {
		return "", err
	}

	var options []string
	if replication := spec.Replication(); len(replication) > 0 {
		options = append(options, "replication = "+replicationLiteral(replication))
	}
	if durable, set := spec.DurableWrites(); set {
		options = append(options, fmt.Sprintf("durable_writes = %t", durable))
	}
	if len(options) == 0 {
		return "", fmt.Errorf("%w: keyspace [%s] has no changes", cql.ErrInvalidSpecification, spec.Name().CQL())
	}

	return fmt.Sprintf("ALTER KEYSPACE %s WITH %s;", spec.Name().CQL(), strings.Join(options, " AND ")), nil
}

// DropKeyspace renders DROP KEYSPACE [IF EXISTS] name;
func DropKeyspace(spec *keyspace.DropKeyspaceSpecification) (string, error) {
	if err := validate(spec, "keyspace"); err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("DROP KEYSPACE ")
	if spec.HasIfExists() {
		sb.WriteString("IF EXISTS ")
	}
	sb.WriteString(spec.Name().CQL())
	sb.WriteByte(';')
	return sb.String(), nil
}

// replicationLiteral renders the replication map with the class first and
// the remaining keys sorted.
func replicationLiteral(replication map[string]string) string {
	keys := lo.Without(lo.Keys(replication), "class")
	sort.Strings(keys)
	if _, ok := replication["class"]; ok {
		keys = append([]string{"class"}, keys...)
	}

	var repParts []string
	for _, k := range keys {
		repParts = append(repParts, fmt.Sprintf("'%s': '%s'", escapeString(k), escapeString(replication[k])))
	}
	return "{" + strings.Join(repParts, ", ") + "}"
}
