// Package db connects to Cassandra and executes generated schema statements.
package db

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"

	"github.com/axonops/cqlspec/internal/config"
	"github.com/axonops/cqlspec/internal/logger"
)

// ErrConnectionLost is returned when a statement fails because no node could be reached.
var ErrConnectionLost = errors.New("connection lost to Cassandra - please check if the server is running")

// Session is a wrapper around the gocql.Session.
type Session struct {
	*gocql.Session
	cluster          *gocql.ClusterConfig
	consistency      gocql.Consistency
	cassandraVersion string
}

// quietLogger suppresses gocql log output; driver errors surface as returned errors.
type quietLogger struct{}

func (quietLogger) Error(msg string, fields ...gocql.LogField)   {}
func (quietLogger) Warning(msg string, fields ...gocql.LogField) {}
func (quietLogger) Info(msg string, fields ...gocql.LogField)    {}
func (quietLogger) Debug(msg string, fields ...gocql.LogField)   {}

// Protocol v5: Cassandra 4.0+, v4: 3.0+, v3: 2.1+
var protocolVersions = []int{5, 4, 3}

// NewSession creates a new Cassandra session from cfg, trying progressively
// lower protocol versions.
func NewSession(cfg *config.Config) (*Session, error) {
	log.SetOutput(io.Discard)

	cluster, consistency, err := newClusterConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.DebugfToFile("Session", "Connecting to %s:%d, username=%s, keyspace=%s, hasPassword=%v",
		cfg.Host, cfg.Port, cfg.Username, cfg.Keyspace, cfg.Password != "")

	var session *gocql.Session
	for _, protoVer := range protocolVersions {
		cluster.ProtoVersion = protoVer
		session, err = cluster.CreateSession()
		if err == nil {
			logger.DebugfToFile("Session", "Connected with protocol version %d", protoVer)
			break
		}
		logger.DebugfToFile("Session", "Failed to connect with protocol version %d: %v", protoVer, err)
	}

	if session == nil {
		return nil, fmt.Errorf("failed to connect to Cassandra with any supported protocol version: %w", err)
	}

	var releaseVersion string
	iter := session.Query("SELECT release_version FROM system.local").Iter()
	iter.Scan(&releaseVersion)
	_ = iter.Close()
	logger.DebugfToFile("Session", "Cassandra release %s", releaseVersion)

	return &Session{
		Session:          session,
		cluster:          cluster,
		consistency:      consistency,
		cassandraVersion: releaseVersion,
	}, nil
}

// newClusterConfig builds the driver configuration without connecting.
func newClusterConfig(cfg *config.Config) (*gocql.ClusterConfig, gocql.Consistency, error) {
	consistency := gocql.LocalOne
	if cfg.Consistency != "" {
		c, err := ParseConsistency(cfg.Consistency)
		if err != nil {
			return nil, 0, err
		}
		consistency = c
	}

	cluster := gocql.NewCluster(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	cluster.Logger = quietLogger{}
	cluster.Consistency = consistency
	cluster.Timeout = secondsOr(cfg.RequestTimeout, config.DefaultRequestTimeout)
	cluster.ConnectTimeout = secondsOr(cfg.ConnectTimeout, config.DefaultConnectTimeout)
	cluster.DisableInitialHostLookup = true

	if cfg.Keyspace != "" {
		cluster.Keyspace = cfg.Keyspace
	}

	if cfg.Username != "" && cfg.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	if cfg.SSL != nil && cfg.SSL.Enabled {
		tlsConfig, err := createTLSConfig(cfg.SSL, cfg.Host)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create TLS configuration: %w", err)
		}
		cluster.SslOpts = &gocql.SslOptions{
			Config: tlsConfig,
		}
	}

	return cluster, consistency, nil
}

func secondsOr(seconds, fallback int) time.Duration {
	if seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return time.Duration(fallback) * time.Second
}

// Query creates a new query with session defaults applied
func (s *Session) Query(stmt string, values ...interface{}) *gocql.Query {
	return s.Session.Query(stmt, values...).Consistency(s.consistency)
}

// ExecContext executes a single statement with opts applied on top of the
// session defaults. opts may be nil.
func (s *Session) ExecContext(ctx context.Context, stmt string, opts *QueryOptions) error {
	if s == nil || s.Session == nil {
		return fmt.Errorf("not connected to database")
	}

	ctx, cancel := opts.Context(ctx)
	defer cancel()

	consistency := s.consistency
	if c, ok := opts.Consistency(); ok {
		consistency = c
	}
	q := opts.Apply(s.Query(stmt))
	logger.DebugfToFile("ExecContext", "Executing at %s: %s", ConsistencyName(consistency), stmt)
	if err := q.ExecContext(ctx); err != nil {
		if isConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrConnectionLost, err)
		}
		return err
	}
	return nil
}

func isConnectionError(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no connections") ||
		strings.Contains(errStr, "unable to connect")
}

// Keyspace returns the keyspace the session was opened with
func (s *Session) Keyspace() string {
	if s.cluster != nil {
		return s.cluster.Keyspace
	}
	return ""
}

// CassandraVersion returns the Cassandra version
func (s *Session) CassandraVersion() string {
	if s.cassandraVersion == "" {
		return "unknown"
	}
	return s.cassandraVersion
}
