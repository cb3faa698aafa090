package db

import (
	"context"
	"crypto/tls"
	"path/filepath"
	"testing"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonops/cqlspec/internal/config"
)

func TestNewClusterConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cluster, consistency, err := newClusterConfig(&config.Config{Host: "db1", Port: 9042})
		require.NoError(t, err)

		assert.Equal(t, []string{"db1:9042"}, cluster.Hosts)
		assert.Equal(t, gocql.LocalOne, consistency)
		assert.Equal(t, gocql.LocalOne, cluster.Consistency)
		assert.Equal(t, 10*time.Second, cluster.Timeout)
		assert.Equal(t, 10*time.Second, cluster.ConnectTimeout)
		assert.True(t, cluster.DisableInitialHostLookup)
		assert.Nil(t, cluster.Authenticator)
		assert.Nil(t, cluster.SslOpts)
	})

	t.Run("overrides", func(t *testing.T) {
		cluster, consistency, err := newClusterConfig(&config.Config{
			Host:           "db1",
			Port:           9142,
			Keyspace:       "shop",
			Username:       "cassandra",
			Password:       "secret",
			Consistency:    "quorum",
			ConnectTimeout: 3,
			RequestTimeout: 30,
		})
		require.NoError(t, err)

		assert.Equal(t, []string{"db1:9142"}, cluster.Hosts)
		assert.Equal(t, "shop", cluster.Keyspace)
		assert.Equal(t, gocql.Quorum, consistency)
		assert.Equal(t, 30*time.Second, cluster.Timeout)
		assert.Equal(t, 3*time.Second, cluster.ConnectTimeout)
		assert.Equal(t, gocql.PasswordAuthenticator{Username: "cassandra", Password: "secret"}, cluster.Authenticator)
	})

	t.Run("username without password", func(t *testing.T) {
		cluster, _, err := newClusterConfig(&config.Config{Host: "db1", Port: 9042, Username: "u"})
		require.NoError(t, err)
		assert.Nil(t, cluster.Authenticator)
	})

	t.Run("invalid consistency", func(t *testing.T) {
		_, _, err := newClusterConfig(&config.Config{Host: "db1", Port: 9042, Consistency: "MOST"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid consistency level: MOST")
	})

	t.Run("ssl", func(t *testing.T) {
		cluster, _, err := newClusterConfig(&config.Config{
			Host: "db1",
			Port: 9042,
			SSL:  &config.SSLConfig{Enabled: true, HostVerification: true},
		})
		require.NoError(t, err)
		require.NotNil(t, cluster.SslOpts)
		assert.Equal(t, "db1", cluster.SslOpts.Config.ServerName)
	})

	t.Run("ssl with missing CA", func(t *testing.T) {
		_, _, err := newClusterConfig(&config.Config{
			Host: "db1",
			Port: 9042,
			SSL:  &config.SSLConfig{Enabled: true, CAPath: filepath.Join(t.TempDir(), "ca.pem")},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read CA certificate")
	})
}

func TestCreateTLSConfig(t *testing.T) {
	t.Run("host verification", func(t *testing.T) {
		cfg, err := createTLSConfig(&config.SSLConfig{HostVerification: true}, "db.example.com:9042")
		require.NoError(t, err)
		assert.Equal(t, "db.example.com", cfg.ServerName)
		assert.False(t, cfg.InsecureSkipVerify)
		assert.Nil(t, cfg.VerifyConnection)
	})

	t.Run("explicit server name", func(t *testing.T) {
		cfg, err := createTLSConfig(&config.SSLConfig{HostVerification: true, ServerName: "sni.example.com"}, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, "sni.example.com", cfg.ServerName)
	})

	t.Run("legacy CN", func(t *testing.T) {
		cfg, err := createTLSConfig(&config.SSLConfig{HostVerification: true, AllowLegacyCN: true}, "db.example.com")
		require.NoError(t, err)
		assert.Empty(t, cfg.ServerName)
		assert.True(t, cfg.InsecureSkipVerify)
		require.NotNil(t, cfg.VerifyConnection)

		err = cfg.VerifyConnection(tls.ConnectionState{})
		assert.EqualError(t, err, "no peer certificates")
	})

	t.Run("insecure", func(t *testing.T) {
		cfg, err := createTLSConfig(&config.SSLConfig{InsecureSkipVerify: true}, "db")
		require.NoError(t, err)
		assert.True(t, cfg.InsecureSkipVerify)
		assert.Empty(t, cfg.ServerName)
	})

	t.Run("missing client certificate", func(t *testing.T) {
		dir := t.TempDir()
		_, err := createTLSConfig(&config.SSLConfig{
			CertPath: filepath.Join(dir, "client.crt"),
			KeyPath:  filepath.Join(dir, "client.key"),
		}, "db")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load client certificate")
	})
}

func TestSessionWithoutConnection(t *testing.T) {
	var s *Session
	err := s.ExecContext(context.Background(), "DROP TYPE a;", nil)
	assert.EqualError(t, err, "not connected to database")

	s = &Session{}
	assert.Equal(t, "unknown", s.CassandraVersion())
	assert.Empty(t, s.Keyspace())

	cluster, _, err := newClusterConfig(&config.Config{Host: "db1", Port: 9042, Keyspace: "shop"})
	require.NoError(t, err)
	s = &Session{cluster: cluster, cassandraVersion: "4.1.3"}
	assert.Equal(t, "shop", s.Keyspace())
	assert.Equal(t, "4.1.3", s.CassandraVersion())
}
