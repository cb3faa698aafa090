package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/db"
)

const addressPlan = `
keyspace: shop
steps:
  - kind: create_type
    name: address
    fields:
      - {name: street, type: text}
      - {name: '"ZipCode"', type: int}
  - kind: drop_type
    name: address
    if_exists: true
`

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRenderCommand(t *testing.T) {
	path := writeTemp(t, "plan.yaml", addressPlan)

	out, err := runCommand(t, "render", path)
	require.NoError(t, err)
	assert.Equal(t,
		"CREATE TYPE shop.address (street text, \"ZipCode\" int);\n"+
			"DROP TYPE IF EXISTS shop.address;\n",
		out)
}

func TestRenderCommandErrors(t *testing.T) {
	_, err := runCommand(t, "render")
	assert.Error(t, err)

	_, err = runCommand(t, "render", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyDryRun(t *testing.T) {
	t.Run("plan", func(t *testing.T) {
		path := writeTemp(t, "plan.yaml", addressPlan)

		out, err := runCommand(t, "apply", path, "--dry-run")
		require.NoError(t, err)
		assert.Equal(t, []string{
			`CREATE TYPE shop.address (street text, "ZipCode" int);`,
			"DROP TYPE IF EXISTS shop.address;",
		}, strings.Split(strings.TrimSpace(out), "\n"))
	})

	t.Run("script", func(t *testing.T) {
		path := writeTemp(t, "fixes.cql", "CREATE TABLE shop.t (id int PRIMARY KEY);\nDROP TABLE shop.t;\n")

		out, err := runCommand(t, "apply", "--file", path, "--dry-run")
		require.NoError(t, err)
		assert.Equal(t, "CREATE TABLE shop.t (id int PRIMARY KEY);\nDROP TABLE shop.t;\n", out)
	})

	t.Run("incomplete script", func(t *testing.T) {
		path := writeTemp(t, "broken.cql", "INSERT INTO shop.t (id, name) VALUES (1, 'open")

		_, err := runCommand(t, "apply", "--file", path, "--dry-run")
		assert.Error(t, err)
	})
}

func TestApplyArguments(t *testing.T) {
	path := writeTemp(t, "plan.yaml", addressPlan)

	_, err := runCommand(t, "apply", "--dry-run")
	assert.EqualError(t, err, "specify exactly one of a plan file or --file")

	_, err = runCommand(t, "apply", path, "--file", path, "--dry-run")
	assert.EqualError(t, err, "specify exactly one of a plan file or --file")
}

func TestApplyInvalidOptions(t *testing.T) {
	path := writeTemp(t, "plan.yaml", addressPlan)

	_, err := runCommand(t, "apply", path, "--dry-run", "--serial-consistency", "QUORUM")
	assert.EqualError(t, err, "invalid serial consistency level: QUORUM")

	_, err = runCommand(t, "apply", path, "--dry-run", "--statement-consistency", "MOSTLY")
	assert.EqualError(t, err, "invalid consistency level: MOSTLY")

	out, err := runCommand(t, "apply", path, "--dry-run", "--statement-consistency", "quorum", "--retries", "2", "--retry-backoff", "100ms")
	require.NoError(t, err)
	assert.Contains(t, out, "DROP TYPE IF EXISTS shop.address;")
}

func TestApplyQueryOptions(t *testing.T) {
	cmd := newApplyCommand(nil)
	require.NoError(t, cmd.ParseFlags([]string{"--idempotent"}))

	opts := &applyOptions{
		consistency:  "local_quorum",
		retries:      3,
		retryBackoff: time.Second,
		idempotent:   true,
	}

	queryOpts, err := opts.queryOptions(cmd)
	require.NoError(t, err)
	consistency, ok := queryOpts.Consistency()
	require.True(t, ok)
	assert.Equal(t, "LOCAL_QUORUM", db.ConsistencyName(consistency))
	assert.NotNil(t, queryOpts.RetryPolicy())
	idempotent, set := queryOpts.Idempotent()
	assert.True(t, set)
	assert.True(t, idempotent)
}

func TestDescribeTarget(t *testing.T) {
	ks, name, err := describeTarget([]string{"shop", "address"}, "other")
	require.NoError(t, err)
	assert.Equal(t, "shop", ks)
	assert.Equal(t, "address", name)

	ks, name, err = describeTarget([]string{`"GeoPoint"`}, "shop")
	require.NoError(t, err)
	assert.Equal(t, "shop", ks)
	assert.Equal(t, `"GeoPoint"`, name)

	_, _, err = describeTarget([]string{"address"}, "")
	assert.Error(t, err)
}

func TestQuoteCommand(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"lower-cases plain names", []string{"quote", "Users"}, "users\n"},
		{"quotes keywords", []string{"quote", "order", "Select"}, "\"order\"\n\"Select\"\n"},
		{"keeps quoted names", []string{"quote", `"MixedCase"`}, "\"MixedCase\"\n"},
		{"force", []string{"quote", "--force", "Users"}, "\"Users\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestQuoteCommandInvalid(t *testing.T) {
	_, err := runCommand(t, "quote", "two words")
	assert.ErrorIs(t, err, cql.ErrInvalidIdentifier)

	_, err = runCommand(t, "quote", "--force", `"already"`)
	assert.ErrorIs(t, err, cql.ErrInvalidIdentifier)
}

func TestKeywordsCommand(t *testing.T) {
	out, err := runCommand(t, "keywords")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 48)
	assert.Contains(t, lines, "SELECT")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cqlspec v"+Version+" ("+GitCommit+")\n", out)
}
