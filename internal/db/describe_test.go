package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonops/cqlspec/internal/cql"
	"github.com/axonops/cqlspec/internal/generator"
)

func TestUserTypeSpecification(t *testing.T) {
	spec, err := userTypeSpecification(
		cql.MustIdentifier("shop"),
		cql.MustIdentifier("address"),
		[]string{"street", "ZipCode", "order", "tags", "home"},
		[]string{"text", "int", "bigint", "frozen<set<text>>", "frozen<\"GeoPoint\">"},
	)
	require.NoError(t, err)

	got, err := generator.ToCQL(spec)
	require.NoError(t, err)
	assert.Equal(t,
		`CREATE TYPE shop.address (street text, "ZipCode" int, "order" bigint, tags frozen<set<text>>, home frozen<"GeoPoint">);`,
		got)
}

func TestUserTypeSpecificationQuotedName(t *testing.T) {
	spec, err := userTypeSpecification(
		cql.MustQuotedIdentifier("Shop"),
		cql.MustQuotedIdentifier("Address"),
		[]string{"a"},
		[]string{"int"},
	)
	require.NoError(t, err)
	assert.Equal(t, `"Shop"."Address"`, spec.QualifiedName())
}

func TestUserTypeSpecificationErrors(t *testing.T) {
	ks, name := cql.MustIdentifier("shop"), cql.MustIdentifier("address")

	_, err := userTypeSpecification(ks, name, []string{"a", "b"}, []string{"int"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 field names but 1 field types")

	_, err = userTypeSpecification(ks, name, []string{"a"}, []string{"list<"})
	require.Error(t, err)
	assert.ErrorIs(t, err, cql.ErrInvalidDataType)
	assert.Contains(t, err.Error(), "field a")
}

func TestStoredName(t *testing.T) {
	tests := map[string]string{
		"street":   "street",
		"ZipCode":  `"ZipCode"`,
		"order":    `"order"`,
		"two word": `"two word"`,
		`say"hi`:   `"say""hi"`,
		"_hidden":  `"_hidden"`,
	}

	for stored, expected := range tests {
		t.Run(stored, func(t *testing.T) {
			assert.Equal(t, expected, storedName(stored))

			id, err := cql.ParseIdentifier(storedName(stored))
			require.NoError(t, err)
			assert.Equal(t, stored, id.Normalized())
		})
	}
}
