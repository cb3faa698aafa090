package cql

import "errors"

var (
	// ErrInvalidIdentifier is returned for empty or malformed identifier text.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidSpecification is returned when a specification is missing a
	// required name or collection, or carries a change the statement cannot express.
	ErrInvalidSpecification = errors.New("invalid specification")

	// ErrInvalidDataType is returned when a CQL type string cannot be parsed.
	ErrInvalidDataType = errors.New("invalid data type")
)
