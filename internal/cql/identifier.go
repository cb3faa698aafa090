// Package cql models the lexical building blocks of CQL schema statements:
// identifiers with their quoting rule, reserved keywords, and data types.
package cql

import (
	"fmt"
	"strings"
)

// Identifier is the name of a keyspace, table, column, user type, field or
// index. The zero value is not a valid identifier.
type Identifier struct {
	text   string
	quoted bool
}

// NewIdentifier creates an identifier from unquoted text. Text must match
// [A-Za-z][A-Za-z0-9_]*. The identifier is rendered quoted when forceQuote is
// set or when text is a reserved keyword.
func NewIdentifier(text string, forceQuote bool) (Identifier, error) {
	if text == "" {
		return Identifier{}, fmt.Errorf("%w: identifier must not be empty", ErrInvalidIdentifier)
	}
	if !isUnquotedIdentifier(text) {
		return Identifier{}, fmt.Errorf("%w: [%s] must start with a letter and contain only letters, digits and underscores", ErrInvalidIdentifier, text)
	}
	return Identifier{
		text:   text,
		quoted: forceQuote || IsReservedKeyword(text),
	}, nil
}

// ParseIdentifier accepts either unquoted text (see NewIdentifier) or a
// pre-quoted token such as "MyTable" or "say ""hi""". A quoted token keeps
// its case and may contain any character; embedded quotes must be doubled.
func ParseIdentifier(text string) (Identifier, error) {
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		body, err := unescapeQuoted(text[1 : len(text)-1])
		if err != nil {
			return Identifier{}, fmt.Errorf("%w: [%s] %v", ErrInvalidIdentifier, text, err)
		}
		return Identifier{text: body, quoted: true}, nil
	}
	return NewIdentifier(text, false)
}

// MustIdentifier is like ParseIdentifier but panics on error.
func MustIdentifier(text string) Identifier {
	id, err := ParseIdentifier(text)
	if err != nil {
		panic(err)
	}
	return id
}

// MustQuotedIdentifier is like NewIdentifier with forceQuote set but panics on error.
func MustQuotedIdentifier(text string) Identifier {
	id, err := NewIdentifier(text, true)
	if err != nil {
		panic(err)
	}
	return id
}

// Text returns the identifier as given, without quotes.
func (i Identifier) Text() string {
	return i.text
}

// IsQuoted reports whether the identifier renders in double quotes.
func (i Identifier) IsQuoted() bool {
	return i.quoted
}

// IsZero reports whether the identifier was never set.
func (i Identifier) IsZero() bool {
	return i.text == ""
}

// Normalized returns the name as the server stores it: lower-cased for
// unquoted identifiers, verbatim for quoted ones.
func (i Identifier) Normalized() string {
	if i.quoted {
		return i.text
	}
	return strings.ToLower(i.text)
}

// Equal reports whether both identifiers name the same schema object.
func (i Identifier) Equal(other Identifier) bool {
	return i.Normalized() == other.Normalized()
}

// CQL renders the identifier for inclusion in a statement.
func (i Identifier) CQL() string {
	if i.quoted {
		return `"` + strings.ReplaceAll(i.text, `"`, `""`) + `"`
	}
	return strings.ToLower(i.text)
}

// String implements fmt.Stringer and returns CQL().
func (i Identifier) String() string {
	return i.CQL()
}

func isUnquotedIdentifier(text string) bool {
	for pos := 0; pos < len(text); pos++ {
		ch := text[pos]
		switch {
		case (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z'):
		case pos > 0 && ((ch >= '0' && ch <= '9') || ch == '_'):
		default:
			return false
		}
	}
	return text != ""
}

func unescapeQuoted(body string) (string, error) {
	if body == "" {
		return "", fmt.Errorf("quoted identifier must not be empty")
	}
	var sb strings.Builder
	for pos := 0; pos < len(body); pos++ {
		if body[pos] == '"' {
			if pos+1 >= len(body) || body[pos+1] != '"' {
				return "", fmt.Errorf("unescaped double quote at position %d", pos+1)
			}
			pos++
		}
		sb.WriteByte(body[pos])
	}
	return sb.String(), nil
}
