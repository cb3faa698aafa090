package generator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/axonops/cqlspec/internal/keyspace"
)

// escapeString doubles single quotes for use inside a CQL string literal.
func escapeString(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func quoteString(s string) string {
	return "'" + escapeString(s) + "'"
}

// mapLiteral renders {'k': 'v', ...} with keys sorted.
func mapLiteral(m map[string]string) string {
	keys := lo.Keys(m)
	sort.Strings(keys)
	return "{" + strings.Join(lo.Map(keys, func(k string, _ int) string {
		return quoteString(k) + ": " + quoteString(m[k])
	}), ", ") + "}"
}

// optionValue renders a table option value.
func optionValue(value any) string {
	switch v := value.(type) {
	case string:
		return quoteString(v)
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case map[string]string:
		return mapLiteral(v)
	case map[string]any:
		keys := lo.Keys(v)
		sort.Strings(keys)
		return "{" + strings.Join(lo.Map(keys, func(k string, _ int) string {
			return quoteString(k) + ": " + optionValue(v[k])
		}), ", ") + "}"
	case fmt.Stringer:
		return quoteString(v.String())
	default:
		return quoteString(fmt.Sprint(v))
	}
}

// tableOptions renders "name = value" entries in the order they were set.
func tableOptions(options []keyspace.TableOption) []string {
	return lo.Map(options, func(o keyspace.TableOption, _ int) string {
		return o.Name + " = " + optionValue(o.Value)
	})
}
