// Package batch splits CQL scripts into individual statements so they can be
// executed one at a time.
package batch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrIncompleteScript is returned when a script ends inside a string, quoted
// name, comment, $$ body or BEGIN BATCH block.
var ErrIncompleteScript = errors.New("incomplete CQL script")

// TokenType represents the type of a CQL token
type TokenType int

const (
	TokenEndtoken TokenType = iota
	TokenIdentifier
	TokenQuotedStringLiteral
	TokenQuotedName
	TokenPgStringLiteral
	TokenUnclosedString
	TokenUnclosedName
	TokenUnclosedPgString
	TokenUnclosedComment
	TokenNumber
	TokenPunctuation
	TokenJunk // whitespace and comments, never emitted
)

// Token represents a lexed CQL token
type Token struct {
	Type  TokenType
	Value string
	Start int
	End   int
}

type terminalPattern struct {
	tokenType TokenType
	pattern   *regexp.Regexp
}

// Terminal patterns, most specific first. $$ bodies are handled in Lex since
// Go's regexp has no negative lookahead.
var terminalPatterns = []terminalPattern{
	{TokenJunk, regexp.MustCompile(`^[ \t\r\n\f\v]+`)},
	{TokenJunk, regexp.MustCompile(`^(--|//)[^\n\r]*`)},
	{TokenJunk, regexp.MustCompile(`^/\*[\s\S]*?\*/`)},

	{TokenQuotedStringLiteral, regexp.MustCompile(`^'([^']|'')*'`)},
	{TokenQuotedName, regexp.MustCompile(`^"([^"]|"")*"`)},

	{TokenUnclosedString, regexp.MustCompile(`^'([^']|'')*$`)},
	{TokenUnclosedName, regexp.MustCompile(`^"([^"]|"")*$`)},
	{TokenUnclosedComment, regexp.MustCompile(`^/\*[\s\S]*$`)},

	{TokenNumber, regexp.MustCompile(`(?i)^(0x[0-9a-f]+|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}|-?[0-9]+(\.[0-9]+)?)`)},
	{TokenIdentifier, regexp.MustCompile(`(?i)^[a-z][a-z0-9_]*`)},

	{TokenEndtoken, regexp.MustCompile(`^;`)},
	{TokenPunctuation, regexp.MustCompile(`^([<>!]=?|[-+=%/,().:*\[\]{}?])`)},
}

// Lex tokenizes CQL input text
func Lex(text string) ([]Token, error) {
	var tokens []Token
	pos := 0

	for pos < len(text) {
		if strings.HasPrefix(text[pos:], "$$") {
			tokenType := TokenUnclosedPgString
			end := len(text)
			if closeIdx := strings.Index(text[pos+2:], "$$"); closeIdx >= 0 {
				tokenType = TokenPgStringLiteral
				end = pos + 2 + closeIdx + 2
			}
			tokens = append(tokens, Token{Type: tokenType, Value: text[pos:end], Start: pos, End: end})
			pos = end
			continue
		}

		matched := false
		for _, tp := range terminalPatterns {
			loc := tp.pattern.FindStringIndex(text[pos:])
			if loc == nil || loc[0] != 0 || loc[1] == 0 {
				continue
			}
			value := text[pos : pos+loc[1]]
			if tp.tokenType != TokenJunk {
				tokens = append(tokens, Token{
					Type:  tp.tokenType,
					Value: value,
					Start: pos,
					End:   pos + len(value),
				})
			}
			pos += len(value)
			matched = true
			break
		}

		if !matched {
			end := pos + 20
			if end > len(text) {
				end = len(text)
			}
			return nil, fmt.Errorf("cannot lex at position %d: %q", pos, text[pos:end])
		}
	}

	return tokens, nil
}

func isUnclosed(t Token) bool {
	switch t.Type {
	case TokenUnclosedString, TokenUnclosedName, TokenUnclosedPgString, TokenUnclosedComment:
		return true
	}
	return false
}

// SplitStatements splits a CQL script into statements. Each statement keeps
// its source text, including the terminating semicolon when present.
// BEGIN BATCH ... APPLY BATCH blocks are returned as one statement.
func SplitStatements(text string) ([]string, error) {
	tokens, err := Lex(text)
	if err != nil {
		return nil, err
	}

	var stmts [][]Token
	var current []Token
	for _, t := range tokens {
		if isUnclosed(t) {
			return nil, fmt.Errorf("%w: unterminated token at position %d", ErrIncompleteScript, t.Start)
		}
		current = append(current, t)
		if t.Type == TokenEndtoken {
			stmts = append(stmts, current)
			current = nil
		}
	}
	if len(current) > 0 {
		stmts = append(stmts, current)
	}

	// Group BATCH blocks
	var output [][]Token
	inBatch := false

	for _, stmt := range stmts {
		if len(stmt) == 1 && stmt[0].Type == TokenEndtoken {
			if inBatch {
				output[len(output)-1] = append(output[len(output)-1], stmt...)
			}
			continue
		}

		if inBatch {
			output[len(output)-1] = append(output[len(output)-1], stmt...)
		} else {
			output = append(output, stmt)
		}

		if endsWithApplyBatch(stmt) {
			inBatch = false
		} else if strings.EqualFold(stmt[0].Value, "BEGIN") {
			inBatch = true
		}
	}

	if inBatch {
		return nil, fmt.Errorf("%w: BEGIN BATCH without APPLY BATCH", ErrIncompleteScript)
	}

	statements := make([]string, 0, len(output))
	for _, stmt := range output {
		statements = append(statements, strings.TrimSpace(text[stmt[0].Start:stmt[len(stmt)-1].End]))
	}
	return statements, nil
}

// endsWithApplyBatch reports whether stmt ends in APPLY BATCH, with or without
// the semicolon.
func endsWithApplyBatch(stmt []Token) bool {
	n := len(stmt)
	if n > 0 && stmt[n-1].Type == TokenEndtoken {
		n--
	}
	return n >= 2 &&
		strings.EqualFold(stmt[n-2].Value, "APPLY") &&
		strings.EqualFold(stmt[n-1].Value, "BATCH")
}
