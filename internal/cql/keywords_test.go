package cql

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsReservedKeyword(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"select", true},
		{"SELECT", true},
		{"SeLeCt", true},
		{"each_quorum", true},
		{"columnfamily", true},
		{"keyspace", true},
		{"selects", false},
		{"sel", false},
		{"users", false},
		{"", false},
		{"   ", false},
		{" select", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsReservedKeyword(tt.input), "%q", tt.input)
	}
}

func TestReservedKeywords(t *testing.T) {
	keywords := ReservedKeywords()
	assert.Len(t, keywords, 48)
	assert.True(t, sort.StringsAreSorted(keywords))
	assert.Contains(t, keywords, "NORECURSIVE")

	keywords[0] = "MUTATED"
	assert.Equal(t, "ADD", ReservedKeywords()[0])
}

func TestEveryReservedKeywordIsReserved(t *testing.T) {
	for _, keyword := range ReservedKeywords() {
		assert.True(t, IsReservedKeyword(keyword), keyword)
		assert.True(t, IsReservedKeyword(strings.ToLower(keyword)), keyword)
		assert.False(t, IsReservedKeyword(keyword+"_x"), keyword)
	}
}
