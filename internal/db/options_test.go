package db

import (
	"context"
	"testing"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConsistency(t *testing.T) {
	tests := []struct {
		input    string
		expected gocql.Consistency
	}{
		{"ANY", gocql.Any},
		{"one", gocql.One},
		{"Two", gocql.Two},
		{"THREE", gocql.Three},
		{"QUORUM", gocql.Quorum},
		{"ALL", gocql.All},
		{"local_quorum", gocql.LocalQuorum},
		{"EACH_QUORUM", gocql.EachQuorum},
		{" LOCAL_ONE ", gocql.LocalOne},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseConsistency(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, mustParse(t, ConsistencyName(got)))
		})
	}

	for _, bad := range []string{"", "SERIAL", "LOCAL_SERIAL", "MOST"} {
		_, err := ParseConsistency(bad)
		assert.Error(t, err, bad)
	}
}

func mustParse(t *testing.T, level string) gocql.Consistency {
	t.Helper()
	c, err := ParseConsistency(level)
	require.NoError(t, err)
	return c
}

func TestQueryOptionsZeroValue(t *testing.T) {
	for name, o := range map[string]*QueryOptions{"nil": nil, "empty": NewQueryOptions()} {
		t.Run(name, func(t *testing.T) {
			_, ok := o.Consistency()
			assert.False(t, ok)
			_, ok = o.Idempotent()
			assert.False(t, ok)
			assert.Empty(t, o.SerialConsistency())
			assert.Nil(t, o.RetryPolicy())
			assert.Zero(t, o.FetchSize())
			assert.False(t, o.Tracing())
			assert.Zero(t, o.ReadTimeout())
			assert.Empty(t, o.LastTraceID())
			assert.NoError(t, o.Validate())

			ctx, cancel := o.Context(context.Background())
			defer cancel()
			_, hasDeadline := ctx.Deadline()
			assert.False(t, hasDeadline)
		})
	}
}

func TestQueryOptionsSetters(t *testing.T) {
	o := NewQueryOptions().
		WithConsistency(gocql.One).
		WithConsistency(gocql.Quorum).
		WithSerialConsistency("local_serial").
		WithRetries(3).
		WithFetchSize(500).
		WithTracing(true).
		WithReadTimeout(2 * time.Second).
		WithIdempotent(true)

	c, ok := o.Consistency()
	require.True(t, ok)
	assert.Equal(t, gocql.Quorum, c, "last write wins")
	assert.Equal(t, "LOCAL_SERIAL", o.SerialConsistency())
	assert.Equal(t, &gocql.SimpleRetryPolicy{NumRetries: 3}, o.RetryPolicy())
	assert.Equal(t, 500, o.FetchSize())
	assert.True(t, o.Tracing())
	assert.Equal(t, 2*time.Second, o.ReadTimeout())
	idempotent, ok := o.Idempotent()
	assert.True(t, ok)
	assert.True(t, idempotent)
	assert.NoError(t, o.Validate())

	o.WithRetries(0)
	assert.Nil(t, o.RetryPolicy())

	policy := &gocql.ExponentialBackoffRetryPolicy{NumRetries: 2, Min: time.Millisecond, Max: time.Second}
	o.WithRetryPolicy(policy)
	assert.Same(t, policy, o.RetryPolicy())

	o.WithBackoffRetries(3, 100*time.Millisecond)
	assert.Equal(t, &gocql.ExponentialBackoffRetryPolicy{NumRetries: 3, Min: 100 * time.Millisecond, Max: time.Second}, o.RetryPolicy())
	o.WithBackoffRetries(0, time.Second)
	assert.Nil(t, o.RetryPolicy())

	ctx, cancel := o.Context(context.Background())
	defer cancel()
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestQueryOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    *QueryOptions
		wantErr string
	}{
		{"serial", NewQueryOptions().WithSerialConsistency("SERIAL"), ""},
		{"bad serial", NewQueryOptions().WithSerialConsistency("QUORUM"), "invalid serial consistency level: QUORUM"},
		{"negative fetch size", NewQueryOptions().WithFetchSize(-1), "invalid fetch size"},
		{"negative timeout", NewQueryOptions().WithReadTimeout(-time.Second), "invalid read timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCaptureTracer(t *testing.T) {
	o := NewQueryOptions()
	o.tracer = &captureTracer{}
	o.tracer.Trace([]byte{0xca, 0xfe})
	assert.Equal(t, "cafe", o.LastTraceID())
}
