package batch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty",
			input:    "  \n ",
			expected: []string{},
		},
		{
			name:     "two statements",
			input:    "CREATE TYPE a (x int);\nDROP TYPE b;",
			expected: []string{"CREATE TYPE a (x int);", "DROP TYPE b;"},
		},
		{
			name:     "semicolon inside string",
			input:    "ALTER TABLE t WITH comment = 'a;b';",
			expected: []string{"ALTER TABLE t WITH comment = 'a;b';"},
		},
		{
			name:     "semicolon inside quoted name",
			input:    `CREATE TYPE "a;b" (x int); DROP TYPE c;`,
			expected: []string{`CREATE TYPE "a;b" (x int);`, "DROP TYPE c;"},
		},
		{
			name:     "comments are skipped between statements",
			input:    "-- create\nCREATE TYPE a (x int);\n/* drop ; it */\nDROP TYPE a;\n// done",
			expected: []string{"CREATE TYPE a (x int);", "DROP TYPE a;"},
		},
		{
			name:     "dollar body",
			input:    "CREATE FUNCTION f(a int) RETURNS NULL ON NULL INPUT RETURNS int LANGUAGE java AS $$ return a; $$;",
			expected: []string{"CREATE FUNCTION f(a int) RETURNS NULL ON NULL INPUT RETURNS int LANGUAGE java AS $$ return a; $$;"},
		},
		{
			name:  "batch kept together",
			input: "BEGIN BATCH\n  INSERT INTO t (a) VALUES (1);\n  INSERT INTO t (a) VALUES (2);\nAPPLY BATCH;\nDROP TABLE t;",
			expected: []string{
				"BEGIN BATCH\n  INSERT INTO t (a) VALUES (1);\n  INSERT INTO t (a) VALUES (2);\nAPPLY BATCH;",
				"DROP TABLE t;",
			},
		},
		{
			name:     "missing final semicolon",
			input:    "DROP TYPE a; DROP TYPE b",
			expected: []string{"DROP TYPE a;", "DROP TYPE b"},
		},
		{
			name:     "stray semicolons",
			input:    ";; DROP TYPE a;;",
			expected: []string{"DROP TYPE a;"},
		},
		{
			name:     "uuid and blob literals",
			input:    "INSERT INTO t (id, b) VALUES (550e8400-e29b-41d4-a716-446655440000, 0xCAFE);",
			expected: []string{"INSERT INTO t (id, b) VALUES (550e8400-e29b-41d4-a716-446655440000, 0xCAFE);"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SplitStatements(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSplitStatementsIncomplete(t *testing.T) {
	inputs := []string{
		"ALTER TABLE t WITH comment = 'open;",
		`CREATE TYPE "open (x int);`,
		"DROP TYPE a; /* never closed",
		"CREATE FUNCTION f() AS $$ return 1;",
		"BEGIN BATCH INSERT INTO t (a) VALUES (1);",
	}

	for _, input := range inputs {
		_, err := SplitStatements(input)
		assert.ErrorIs(t, err, ErrIncompleteScript, input)
	}
}

func TestLexRejectsUnknownCharacters(t *testing.T) {
	_, err := Lex("DROP TYPE a # b;")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot lex at position 12")
}

func TestLexTokenTypes(t *testing.T) {
	tokens, err := Lex(`SELECT "Name", 'x' FROM t WHERE a >= 1.5;`)
	require.NoError(t, err)

	types := make([]TokenType, 0, len(tokens))
	for _, tok := range tokens {
		types = append(types, tok.Type)
	}
	assert.Equal(t, []TokenType{
		TokenIdentifier, TokenQuotedName, TokenPunctuation, TokenQuotedStringLiteral,
		TokenIdentifier, TokenIdentifier, TokenIdentifier, TokenIdentifier,
		TokenPunctuation, TokenNumber, TokenEndtoken,
	}, types)
}
