package keyspace

import (
	"strconv"

	"github.com/samber/lo"
)

const (
	SimpleStrategyClass          = "SimpleStrategy"
	NetworkTopologyStrategyClass = "NetworkTopologyStrategy"
)

// keyspaceAttributes carries the replication settings shared by CREATE and
// ALTER KEYSPACE.
type keyspaceAttributes struct {
	replication   map[string]string
	durableWrites *bool
}

func (a *keyspaceAttributes) simpleStrategy(replicationFactor int) {
	a.replication = map[string]string{
		"class":              SimpleStrategyClass,
		"replication_factor": strconv.Itoa(replicationFactor),
	}
}

func (a *keyspaceAttributes) networkTopologyStrategy(datacenters map[string]int) {
	a.replication = lo.MapValues(datacenters, func(rf int, _ string) string { return strconv.Itoa(rf) })
	a.replication["class"] = NetworkTopologyStrategyClass
}

func (a *keyspaceAttributes) replicationOption(key, value string) {
	if a.replication == nil {
		a.replication = make(map[string]string)
	}
	a.replication[key] = value
}

// Replication returns a copy of the replication map.
func (a *keyspaceAttributes) Replication() map[string]string {
	return lo.Assign(a.replication)
}

// DurableWrites reports the durable_writes setting and whether it was set.
func (a *keyspaceAttributes) DurableWrites() (durable bool, set bool) {
	if a.durableWrites == nil {
		return true, false
	}
	return *a.durableWrites, true
}

// CreateKeyspaceSpecification describes CREATE KEYSPACE.
type CreateKeyspaceSpecification struct {
	nameSpecification
	keyspaceAttributes
	ifNotExists bool
}

// CreateKeyspace starts a CREATE KEYSPACE specification. Without a
// replication setter it uses SimpleStrategy with a factor of 1.
func CreateKeyspace(name string) *CreateKeyspaceSpecification {
	s := &CreateKeyspaceSpecification{}
	s.setName(name)
	s.simpleStrategy(1)
	return s
}

// IfNotExists adds IF NOT EXISTS.
func (s *CreateKeyspaceSpecification) IfNotExists() *CreateKeyspaceSpecification {
	s.ifNotExists = true
	return s
}

// SimpleStrategy replaces the replication with SimpleStrategy and the given factor.
func (s *CreateKeyspaceSpecification) SimpleStrategy(replicationFactor int) *CreateKeyspaceSpecification {
	s.simpleStrategy(replicationFactor)
	return s
}

// NetworkTopologyStrategy replicates per datacenter.
func (s *CreateKeyspaceSpecification) NetworkTopologyStrategy(datacenters map[string]int) *CreateKeyspaceSpecification {
	s.networkTopologyStrategy(datacenters)
	return s
}

// ReplicationOption sets a raw replication map entry, e.g. a custom class.
func (s *CreateKeyspaceSpecification) ReplicationOption(key, value string) *CreateKeyspaceSpecification {
	s.replicationOption(key, value)
	return s
}

// WithDurableWrites sets durable_writes.
func (s *CreateKeyspaceSpecification) WithDurableWrites(durable bool) *CreateKeyspaceSpecification {
	s.durableWrites = &durable
	return s
}

// HasIfNotExists reports whether IF NOT EXISTS is set.
func (s *CreateKeyspaceSpecification) HasIfNotExists() bool { return s.ifNotExists }

// AlterKeyspaceSpecification describes ALTER KEYSPACE.
type AlterKeyspaceSpecification struct {
	nameSpecification
	keyspaceAttributes
}

// AlterKeyspace starts an ALTER KEYSPACE specification.
func AlterKeyspace(name string) *AlterKeyspaceSpecification {
	s := &AlterKeyspaceSpecification{}
	s.setName(name)
	return s
}

// SimpleStrategy replaces the replication with SimpleStrategy and the given factor.
func (s *AlterKeyspaceSpecification) SimpleStrategy(replicationFactor int) *AlterKeyspaceSpecification {
	s.simpleStrategy(replicationFactor)
	return s
}

// NetworkTopologyStrategy replaces the replication with per-datacenter factors.
func (s *AlterKeyspaceSpecification) NetworkTopologyStrategy(datacenters map[string]int) *AlterKeyspaceSpecification {
	s.networkTopologyStrategy(datacenters)
	return s
}

// ReplicationOption sets one entry of the replication map.
func (s *AlterKeyspaceSpecification) ReplicationOption(key, value string) *AlterKeyspaceSpecification {
	s.replicationOption(key, value)
	return s
}

// WithDurableWrites sets durable_writes.
func (s *AlterKeyspaceSpecification) WithDurableWrites(durable bool) *AlterKeyspaceSpecification {
	s.durableWrites = &durable
	return s
}

// DropKeyspaceSpecification describes DROP KEYSPACE.
type DropKeyspaceSpecification struct {
	nameSpecification
	ifExists bool
}

// DropKeyspace starts a DROP KEYSPACE specification.
func DropKeyspace(name string) *DropKeyspaceSpecification {
	s := &DropKeyspaceSpecification{}
	s.setName(name)
	return s
}

// IfExists adds IF EXISTS.
func (s *DropKeyspaceSpecification) IfExists() *DropKeyspaceSpecification {
	s.ifExists = true
	return s
}

// HasIfExists reports whether IF EXISTS is set.
func (s *DropKeyspaceSpecification) HasIfExists() bool { return s.ifExists }
