// Package plan decodes YAML schema-change plans into keyspace
// specifications.
//
// A plan lists steps in the order they are applied:
//
//	keyspace: shop
//	steps:
//	  - kind: create_type
//	    name: address
//	    fields:
//	      - {name: street, type: text}
//	  - kind: alter_type
//	    name: address
//	    changes:
//	      - rename: {from: street, to: road}
//	      - add: {name: zip, type: int}
//
// The top-level keyspace qualifies every non-keyspace step that does not
// name its own.
package plan

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/axonops/cqlspec/internal/generator"
	"github.com/axonops/cqlspec/internal/keyspace"
	"github.com/axonops/cqlspec/internal/logger"
)

// Step kinds.
const (
	KindCreateType     = "create_type"
	KindAlterType      = "alter_type"
	KindDropType       = "drop_type"
	KindCreateIndex    = "create_index"
	KindDropIndex      = "drop_index"
	KindCreateTable    = "create_table"
	KindAlterTable     = "alter_table"
	KindDropTable      = "drop_table"
	KindCreateKeyspace = "create_keyspace"
	KindAlterKeyspace  = "alter_keyspace"
	KindDropKeyspace   = "drop_keyspace"
)

// ErrEmptyPlan is returned when a plan document has no steps.
var ErrEmptyPlan = errors.New("plan has no steps")

// Plan is a decoded plan document.
type Plan struct {
	Keyspace string `yaml:"keyspace"`
	Steps    []Step `yaml:"steps"`
}

// Step is one schema change. Which fields apply depends on Kind.
type Step struct {
	Kind        string `yaml:"kind"`
	Name        string `yaml:"name"`
	Keyspace    string `yaml:"keyspace"`
	IfExists    bool   `yaml:"if_exists"`
	IfNotExists bool   `yaml:"if_not_exists"`

	// create_type
	Fields []Field `yaml:"fields"`

	// alter_type, alter_table
	Changes []Change `yaml:"changes"`

	// create_index
	Table   string            `yaml:"table"`
	Column  string            `yaml:"column"`
	Using   string            `yaml:"using"`
	Options map[string]string `yaml:"options"`

	// create_table
	PartitionKey []Field           `yaml:"partition_key"`
	Clustering   []ClusteringField `yaml:"clustering"`
	Columns      []Field           `yaml:"columns"`
	Static       []Field           `yaml:"static"`

	// create_table, alter_table
	With map[string]any `yaml:"with"`

	// create_keyspace, alter_keyspace
	ReplicationFactor int               `yaml:"replication_factor"`
	Datacenters       map[string]int    `yaml:"datacenters"`
	Replication       map[string]string `yaml:"replication"`
	DurableWrites     *bool             `yaml:"durable_writes"`
}

// Field is a name and a CQL type string.
type Field struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// ClusteringField is a clustering column with an optional order (asc|desc).
type ClusteringField struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Order string `yaml:"order"`
}

// Change holds exactly one of Add, Alter, Rename or Drop.
type Change struct {
	Add    *Field  `yaml:"add"`
	Alter  *Field  `yaml:"alter"`
	Rename *Rename `yaml:"rename"`
	Drop   string  `yaml:"drop"`
}

// Rename renames a field or column.
type Rename struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Load decodes a plan document. Unknown keys are rejected.
func Load(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyPlan
		}
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	if len(p.Steps) == 0 {
		return nil, ErrEmptyPlan
	}

	logger.DebugfToFile("plan.Load", "decoded %d steps (default keyspace %q)", len(p.Steps), p.Keyspace)
	return &p, nil
}

// LoadFile opens and decodes a plan file.
func LoadFile(path string) (*Plan, error) {
	f, err := os.Open(path) // #nosec G304: plan path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open plan: %w", err)
	}
	defer f.Close()

	return Load(f)
}

// Specifications converts every step, failing on the first invalid one.
func (p *Plan) Specifications() ([]keyspace.Specification, error) {
	specs := make([]keyspace.Specification, 0, len(p.Steps))
	for i, step := range p.Steps {
		spec, err := step.specification(p.Keyspace)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Kind, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Render converts and renders every step to CQL.
func (p *Plan) Render() ([]string, error) {
	specs, err := p.Specifications()
	if err != nil {
		return nil, err
	}

	statements := make([]string, 0, len(specs))
	for i, spec := range specs {
		stmt, err := generator.ToCQL(spec)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, p.Steps[i].Kind, err)
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}
