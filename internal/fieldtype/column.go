package fieldtype

import "github.com/mesh-intelligence/datagrid/pkg/types"

// Column binds a descriptor to its strategy. Hooks on the descriptor take
// precedence over the strategy's defaults.
type Column struct {
	Desc     types.ColumnDescriptor
	strategy Strategy
}

// Bind resolves the strategy for a descriptor.
func Bind(desc types.ColumnDescriptor) Column {
	return Column{Desc: desc, strategy: Lookup(desc.Type)}
}

// Value returns the record's raw cell for this column.
func (c Column) Value(rec types.Record) any {
	if rec == nil {
		return nil
	}
	return rec[c.Desc.Field]
}

// Match applies the column filter to rec. An "all" filter always matches.
func (c Column) Match(rec types.Record, f types.FilterValue) bool {
	if f.IsAll() {
		return true
	}
	v := c.Value(rec)
	if c.Desc.Filter != nil {
		return c.Desc.Filter(v, f, rec)
	}
	return c.strategy.Match(v, f)
}

// Compare orders two records by this column.
func (c Column) Compare(a, b types.Record) int {
	va, vb := c.Value(a), c.Value(b)
	if c.Desc.Compare != nil {
		return c.Desc.Compare(va, vb)
	}
	return c.strategy.Compare(va, vb)
}

// Search returns the text global search inspects for rec.
func (c Column) Search(rec types.Record) string {
	v := c.Value(rec)
	if c.Desc.Search != nil {
		return c.Desc.Search(v, rec)
	}
	return c.strategy.Search(v)
}

// Export returns the formatted export cell for rec. Empty values export as
// the empty string regardless of type.
func (c Column) Export(rec types.Record, f Format) string {
	v := c.Value(rec)
	if c.Desc.Export != nil {
		return c.Desc.Export(v, rec)
	}
	if v == nil {
		return ""
	}
	return c.strategy.Export(v, f)
}
