package types

// ColumnDescriptor is a resolved, defaulted column. Flags already combine
// the column's own config with the global feature toggles.
type ColumnDescriptor struct {
	Field       string
	Label       string
	Type        FieldType
	Options     []string
	Placeholder string
	Width       int
	Hidden      bool

	Editable   bool
	Sortable   bool
	Filterable bool
	Searchable bool

	Filter  FilterFunc
	Compare CompareFunc
	Search  StringFunc
	Export  StringFunc
}

// ColumnIndex looks descriptors up by field key.
type ColumnIndex map[string]ColumnDescriptor

// IndexColumns builds a ColumnIndex; the first descriptor for a key wins.
func IndexColumns(cols []ColumnDescriptor) ColumnIndex {
	idx := make(ColumnIndex, len(cols))
	for _, c := range cols {
		if _, ok := idx[c.Field]; !ok {
			idx[c.Field] = c
		}
	}
	return idx
}

// FieldKeys returns the field keys of cols in order.
func FieldKeys(cols []ColumnDescriptor) []string {
	keys := make([]string, len(cols))
	for i, c := range cols {
		keys[i] = c.Field
	}
	return keys
}
