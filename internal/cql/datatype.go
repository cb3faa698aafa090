package cql

import (
	"fmt"
	"strings"
)

// DataType is a CQL column or field type such as text, list<int> or
// frozen<address>. DataType values are immutable.
type DataType struct {
	name     string     // "text", "int", "list", "map", "udt", etc.
	frozen   bool       // Whether the type is frozen
	params   []DataType // For collections/tuples - element types
	keyspace Identifier // For UDT types - optional keyspace qualifier
	udt      Identifier // For UDT types - the name of the UDT
}

// Native returns a native (non-parameterised) type by name, e.g. "text".
// Unknown names are kept and rejected by Validate.
func Native(name string) DataType { return DataType{name: strings.ToLower(name)} }

func Ascii() DataType     { return Native("ascii") }
func BigInt() DataType    { return Native("bigint") }
func Blob() DataType      { return Native("blob") }
func Boolean() DataType   { return Native("boolean") }
func Counter() DataType   { return Native("counter") }
func Date() DataType      { return Native("date") }
func Decimal() DataType   { return Native("decimal") }
func Double() DataType    { return Native("double") }
func Float() DataType     { return Native("float") }
func Inet() DataType      { return Native("inet") }
func Int() DataType       { return Native("int") }
func Text() DataType      { return Native("text") }
func Timestamp() DataType { return Native("timestamp") }
func TimeUUID() DataType  { return Native("timeuuid") }
func UUID() DataType      { return Native("uuid") }
func Varchar() DataType   { return Native("varchar") }
func Varint() DataType    { return Native("varint") }

// ListOf returns list<elem>.
func ListOf(elem DataType) DataType {
	return DataType{name: "list", params: []DataType{elem}}
}

// SetOf returns set<elem>.
func SetOf(elem DataType) DataType {
	return DataType{name: "set", params: []DataType{elem}}
}

// MapOf returns map<key, value>.
func MapOf(key, value DataType) DataType {
	return DataType{name: "map", params: []DataType{key, value}}
}

// TupleOf returns tuple<elems...>.
func TupleOf(elems ...DataType) DataType {
	return DataType{name: "tuple", params: append([]DataType(nil), elems...)}
}

// Frozen returns t wrapped in frozen<...>.
func Frozen(t DataType) DataType {
	t.frozen = true
	return t
}

// UserType returns a reference to a user-defined type. keyspace may be the
// zero Identifier for an unqualified reference.
func UserType(keyspace, name Identifier) DataType {
	return DataType{name: "udt", keyspace: keyspace, udt: name}
}

// Name returns the lower-case base type name; user types report "udt".
func (t DataType) Name() string { return t.name }

// IsFrozen reports whether the type is wrapped in frozen<...>.
func (t DataType) IsFrozen() bool { return t.frozen }

// IsZero reports whether the type was never set.
func (t DataType) IsZero() bool { return t.name == "" }

// IsUserType reports whether t references a user-defined type.
func (t DataType) IsUserType() bool { return t.name == "udt" }

// UserTypeName returns the referenced UDT name for user types.
func (t DataType) UserTypeName() Identifier { return t.udt }

// Parameters returns a copy of the element types of a collection or tuple.
func (t DataType) Parameters() []DataType {
	return append([]DataType(nil), t.params...)
}

// Validate checks that t and its element types can be rendered: native
// names must be known CQL types, collections need their element types and
// user types need a name.
func (t DataType) Validate() error {
	switch t.name {
	case "":
		return fmt.Errorf("%w: type is not set", ErrInvalidDataType)
	case "list", "set":
		if len(t.params) != 1 {
			return fmt.Errorf("%w: %s takes one element type", ErrInvalidDataType, t.name)
		}
	case "map":
		if len(t.params) != 2 {
			return fmt.Errorf("%w: map takes a key and a value type", ErrInvalidDataType)
		}
	case "tuple":
		if len(t.params) == 0 {
			return fmt.Errorf("%w: tuple needs at least one element type", ErrInvalidDataType)
		}
	case "udt":
		if t.udt.IsZero() {
			return fmt.Errorf("%w: user type reference has no name", ErrInvalidDataType)
		}
		return nil
	default:
		if !isNativeType(t.name) {
			return fmt.Errorf("%w: unknown type %q", ErrInvalidDataType, t.name)
		}
		return nil
	}
	for _, param := range t.params {
		if err := param.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// String returns CQL().
func (t DataType) String() string { return t.CQL() }

// CQL renders the type as it appears in a statement.
func (t DataType) CQL() string {
	var result strings.Builder

	if t.frozen {
		result.WriteString("frozen<")
	}

	switch t.name {
	case "list", "set":
		result.WriteString(t.name)
		result.WriteString("<")
		if len(t.params) > 0 {
			result.WriteString(t.params[0].CQL())
		}
		result.WriteString(">")
	case "map":
		result.WriteString("map<")
		if len(t.params) > 1 {
			result.WriteString(t.params[0].CQL())
			result.WriteString(", ")
			result.WriteString(t.params[1].CQL())
		}
		result.WriteString(">")
	case "tuple":
		result.WriteString("tuple<")
		for i, param := range t.params {
			if i > 0 {
				result.WriteString(", ")
			}
			result.WriteString(param.CQL())
		}
		result.WriteString(">")
	case "udt":
		if !t.keyspace.IsZero() {
			result.WriteString(t.keyspace.CQL())
			result.WriteString(".")
		}
		result.WriteString(t.udt.CQL())
	default:
		result.WriteString(t.name)
	}

	if t.frozen {
		result.WriteString(">")
	}

	return result.String()
}

// ParseDataType parses a CQL type string. Names that are not native types
// are read as user-defined types, optionally keyspace-qualified.
func ParseDataType(typeStr string) (DataType, error) {
	typeStr = strings.TrimSpace(typeStr)
	if typeStr == "" {
		return DataType{}, fmt.Errorf("%w: empty type string", ErrInvalidDataType)
	}

	p := &typeParser{input: typeStr}
	t, err := p.parseType()
	if err != nil {
		return DataType{}, fmt.Errorf("%w: %q: %v", ErrInvalidDataType, typeStr, err)
	}
	p.skipWhitespace()
	if p.pos != len(p.input) {
		return DataType{}, fmt.Errorf("%w: %q: unexpected input at position %d", ErrInvalidDataType, typeStr, p.pos)
	}
	return t, nil
}

// MustParseDataType is like ParseDataType but panics on error.
func MustParseDataType(typeStr string) DataType {
	t, err := ParseDataType(typeStr)
	if err != nil {
		panic(err)
	}
	return t
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) parseType() (DataType, error) {
	if p.consumeKeyword("frozen") {
		if !p.consume('<') {
			return DataType{}, fmt.Errorf("expected '<' after 'frozen' at position %d", p.pos)
		}
		inner, err := p.parseType()
		if err != nil {
			return DataType{}, err
		}
		if !p.consume('>') {
			return DataType{}, fmt.Errorf("expected '>' to close 'frozen' at position %d", p.pos)
		}
		return Frozen(inner), nil
	}

	p.skipWhitespace()
	preQuoted := p.pos < len(p.input) && p.input[p.pos] == '"'
	first, err := p.parseName()
	if err != nil {
		return DataType{}, err
	}
	base := strings.ToLower(first.Text())
	if preQuoted {
		base = ""
	}

	switch base {
	case "list", "set":
		if !p.consume('<') {
			return DataType{}, fmt.Errorf("expected '<' after '%s' at position %d", base, p.pos)
		}
		elem, err := p.parseType()
		if err != nil {
			return DataType{}, fmt.Errorf("failed to parse %s element type: %w", base, err)
		}
		if !p.consume('>') {
			return DataType{}, fmt.Errorf("expected '>' to close '%s' at position %d", base, p.pos)
		}
		return DataType{name: base, params: []DataType{elem}}, nil

	case "map":
		if !p.consume('<') {
			return DataType{}, fmt.Errorf("expected '<' after 'map' at position %d", p.pos)
		}
		key, err := p.parseType()
		if err != nil {
			return DataType{}, fmt.Errorf("failed to parse map key type: %w", err)
		}
		if !p.consume(',') {
			return DataType{}, fmt.Errorf("expected ',' between map key and value types at position %d", p.pos)
		}
		value, err := p.parseType()
		if err != nil {
			return DataType{}, fmt.Errorf("failed to parse map value type: %w", err)
		}
		if !p.consume('>') {
			return DataType{}, fmt.Errorf("expected '>' to close 'map' at position %d", p.pos)
		}
		return MapOf(key, value), nil

	case "tuple":
		if !p.consume('<') {
			return DataType{}, fmt.Errorf("expected '<' after 'tuple' at position %d", p.pos)
		}
		var elems []DataType
		for {
			elem, err := p.parseType()
			if err != nil {
				return DataType{}, fmt.Errorf("failed to parse tuple element: %w", err)
			}
			elems = append(elems, elem)

			if p.consume('>') {
				break
			}
			if !p.consume(',') {
				return DataType{}, fmt.Errorf("expected ',' or '>' in tuple at position %d", p.pos)
			}
		}
		return DataType{name: "tuple", params: elems}, nil
	}

	if p.consume('.') {
		udt, err := p.parseName()
		if err != nil {
			return DataType{}, fmt.Errorf("expected UDT name after keyspace at position %d", p.pos)
		}
		return UserType(first, udt), nil
	}
	if base != "" && isNativeType(base) {
		return Native(base), nil
	}
	return UserType(Identifier{}, first), nil
}

// parseName reads an unquoted or double-quoted name.
func (p *typeParser) parseName() (Identifier, error) {
	p.skipWhitespace()
	start := p.pos
	if p.pos < len(p.input) && p.input[p.pos] == '"' {
		p.pos++
		for p.pos < len(p.input) {
			if p.input[p.pos] == '"' {
				if p.pos+1 < len(p.input) && p.input[p.pos+1] == '"' {
					p.pos += 2
					continue
				}
				p.pos++
				return ParseIdentifier(p.input[start:p.pos])
			}
			p.pos++
		}
		return Identifier{}, fmt.Errorf("unterminated quoted name at position %d", start)
	}
	for p.pos < len(p.input) {
		ch := p.input[p.pos]
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
			(ch >= '0' && ch <= '9') || ch == '_' {
			p.pos++
		} else {
			break
		}
	}
	if start == p.pos {
		return Identifier{}, fmt.Errorf("expected type name at position %d", p.pos)
	}
	name := p.input[start:p.pos]
	id, err := NewIdentifier(name, false)
	if err != nil {
		return Identifier{}, fmt.Errorf("invalid type name %q at position %d", name, start)
	}
	return id, nil
}

func (p *typeParser) consume(ch byte) bool {
	p.skipWhitespace()
	if p.pos < len(p.input) && p.input[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

func (p *typeParser) consumeKeyword(keyword string) bool {
	p.skipWhitespace()
	if p.pos+len(keyword) <= len(p.input) {
		if strings.EqualFold(p.input[p.pos:p.pos+len(keyword)], keyword) {
			// Make sure it's not part of a larger identifier
			if p.pos+len(keyword) < len(p.input) {
				next := p.input[p.pos+len(keyword)]
				if (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z') ||
					(next >= '0' && next <= '9') || next == '_' {
					return false
				}
			}
			p.pos += len(keyword)
			return true
		}
	}
	return false
}

func (p *typeParser) skipWhitespace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' ||
		p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

var nativeTypes = map[string]bool{
	"ascii":     true,
	"bigint":    true,
	"blob":      true,
	"boolean":   true,
	"counter":   true,
	"date":      true,
	"decimal":   true,
	"double":    true,
	"duration":  true,
	"float":     true,
	"inet":      true,
	"int":       true,
	"smallint":  true,
	"text":      true,
	"time":      true,
	"timestamp": true,
	"timeuuid":  true,
	"tinyint":   true,
	"uuid":      true,
	"varchar":   true,
	"varint":    true,
}

// isNativeType checks if a type is a known CQL native type
func isNativeType(typeName string) bool {
	return nativeTypes[typeName]
}
