package records

import (
	"slices"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// inferType guesses a field type from a decoded JSON value.
func inferType(v any) types.FieldType {
	switch v.(type) {
	case bool:
		return types.FieldBoolean
	case float64, int, int64:
		return types.FieldNumber
	case []any:
		return types.FieldMultiSelect
	default:
		return types.FieldText
	}
}

func sortedKeys(rec types.Record) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
