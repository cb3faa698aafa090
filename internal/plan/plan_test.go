package plan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/keyspace"
)

const shopPlan = `
keyspace: shop
steps:
  - kind: create_keyspace
    name: shop
    if_not_exists: true
    datacenters: {dc1: 3}
  - kind: create_type
    name: address
    if_not_exists: true
    fields:
      - {name: street, type: text}
      - {name: zip, type: int}
  - kind: alter_type
    name: address
    changes:
      - rename: {from: street, to: road}
      - rename: {from: zip, to: postcode}
      - add: {name: tags, type: "set<text>"}
  - kind: create_table
    name: orders
    partition_key:
      - {name: customer, type: uuid}
    clustering:
      - {name: placed, type: timestamp, order: desc}
    columns:
      - {name: ship_to, type: "frozen<address>"}
    with:
      comment: customer orders
      gc_grace_seconds: 3600
  - kind: create_index
    name: by_ship_to
    table: orders
    column: ship_to
  - kind: alter_table
    name: orders
    changes:
      - drop: ship_to
  - kind: drop_index
    name: by_ship_to
    if_exists: true
  - kind: drop_type
    name: address
    keyspace: other
    if_exists: true
`

func TestLoadAndRender(t *testing.T) {
	p, err := Load(strings.NewReader(shopPlan))
	require.NoError(t, err)
	assert.Equal(t, "shop", p.Keyspace)
	require.Len(t, p.Steps, 8)

	statements, err := p.Render()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE KEYSPACE IF NOT EXISTS shop WITH replication = {'class': 'NetworkTopologyStrategy', 'dc1': '3'};",
		"CREATE TYPE IF NOT EXISTS shop.address (street text, zip int);",
		"ALTER TYPE shop.address RENAME street TO road AND zip TO postcode ADD tags set<text>;",
		"CREATE TABLE shop.orders (customer uuid, placed timestamp, ship_to frozen<address>, PRIMARY KEY (customer, placed)) " +
			"WITH CLUSTERING ORDER BY (placed DESC) AND comment = 'customer orders' AND gc_grace_seconds = 3600;",
		"CREATE INDEX by_ship_to ON shop.orders (ship_to);",
		"ALTER TABLE shop.orders DROP ship_to;",
		"DROP INDEX IF EXISTS shop.by_ship_to;",
		"DROP TYPE IF EXISTS other.address;",
	}, statements)
}

func TestSpecifications(t *testing.T) {
	p, err := Load(strings.NewReader(shopPlan))
	require.NoError(t, err)

	specs, err := p.Specifications()
	require.NoError(t, err)
	require.Len(t, specs, 8)

	alter, ok := specs[2].(*keyspace.AlterUserTypeSpecification)
	require.True(t, ok)
	assert.Len(t, alter.Changes(), 3)
	assert.Equal(t, "shop", alter.Keyspace().CQL())
}

func TestLoadErrors(t *testing.T) {
	t.Run("empty document", func(t *testing.T) {
		_, err := Load(strings.NewReader(""))
		assert.ErrorIs(t, err, ErrEmptyPlan)
	})

	t.Run("no steps", func(t *testing.T) {
		_, err := Load(strings.NewReader("keyspace: shop\n"))
		assert.ErrorIs(t, err, ErrEmptyPlan)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(strings.NewReader("steps:\n  - kind: drop_type\n    nme: t\n"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := Load(strings.NewReader("steps: [\n"))
		assert.Error(t, err)
	})
}

func TestStepErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr error
		message string
	}{
		{
			name:    "unknown kind",
			doc:     "steps:\n  - kind: drop_type\n    name: t\n  - kind: truncate\n    name: t\n",
			wantErr: cql.ErrInvalidSpecification,
			message: "step 2 (truncate)",
		},
		{
			name:    "bad data type",
			doc:     "steps:\n  - kind: create_type\n    name: t\n    fields:\n      - {name: a, type: \"list<\"}\n",
			wantErr: cql.ErrInvalidDataType,
			message: "step 1 (create_type)",
		},
		{
			name:    "ambiguous change",
			doc:     "steps:\n  - kind: alter_type\n    name: t\n    changes:\n      - {drop: a, add: {name: b, type: int}}\n",
			wantErr: cql.ErrInvalidSpecification,
			message: "change 1",
		},
		{
			name:    "option name with statement text",
			doc:     "steps:\n  - kind: alter_table\n    name: t\n    with: {\"gc grace; DROP TABLE x\": 5}\n",
			wantErr: cql.ErrInvalidSpecification,
			message: "table option [gc grace; DROP TABLE x]",
		},
		{
			name:    "bad clustering order",
			doc:     "steps:\n  - kind: create_table\n    name: t\n    partition_key: [{name: a, type: int}]\n    clustering: [{name: b, type: int, order: up}]\n",
			wantErr: cql.ErrInvalidSpecification,
			message: "column b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Load(strings.NewReader(tt.doc))
			require.NoError(t, err)

			_, err = p.Render()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestRenderReportsGeneratorFailures(t *testing.T) {
	p, err := Load(strings.NewReader("steps:\n  - kind: drop_type\n    name: a\n  - kind: alter_type\n    name: t\n"))
	require.NoError(t, err)

	_, err = p.Render()
	require.Error(t, err)
	assert.ErrorIs(t, err, cql.ErrInvalidSpecification)
	assert.Contains(t, err.Error(), "step 2 (alter_type)")
	assert.Contains(t, err.Error(), "user type [t] does not contain fields")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shopPlan), 0600))

	p, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, p.Steps, 8)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
