package cql

import (
	"sort"
	"strings"
)

// reservedKeywords are the CQL keywords that cannot be used as unquoted
// identifiers. Consistency level names are included because older servers
// reject them unquoted.
var reservedKeywords = map[string]struct{}{
	"ADD":          {},
	"ALTER":        {},
	"AND":          {},
	"ANY":          {},
	"APPLY":        {},
	"ASC":          {},
	"AUTHORIZE":    {},
	"BATCH":        {},
	"BEGIN":        {},
	"BY":           {},
	"COLUMNFAMILY": {},
	"CREATE":       {},
	"DELETE":       {},
	"DESC":         {},
	"DROP":         {},
	"EACH_QUORUM":  {},
	"FROM":         {},
	"GRANT":        {},
	"IN":           {},
	"INDEX":        {},
	"INSERT":       {},
	"INTO":         {},
	"KEYSPACE":     {},
	"LIMIT":        {},
	"LOCAL_ONE":    {},
	"LOCAL_QUORUM": {},
	"MODIFY":       {},
	"NORECURSIVE":  {},
	"OF":           {},
	"ON":           {},
	"ONE":          {},
	"ORDER":        {},
	"PRIMARY":      {},
	"QUORUM":       {},
	"REVOKE":       {},
	"SCHEMA":       {},
	"SELECT":       {},
	"SET":          {},
	"TABLE":        {},
	"THREE":        {},
	"TOKEN":        {},
	"TRUNCATE":     {},
	"TWO":          {},
	"UPDATE":       {},
	"USE":          {},
	"USING":        {},
	"WHERE":        {},
	"WITH":         {},
}

// IsReservedKeyword reports whether candidate is a reserved CQL keyword,
// regardless of case. Blank input is never reserved.
func IsReservedKeyword(candidate string) bool {
	if strings.TrimSpace(candidate) == "" {
		return false
	}
	_, ok := reservedKeywords[strings.ToUpper(candidate)]
	return ok
}

// ReservedKeywords returns the reserved keywords in alphabetical order.
func ReservedKeywords() []string {
	keywords := make([]string, 0, len(reservedKeywords))
	for k := range reservedKeywords {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)
	return keywords
}
