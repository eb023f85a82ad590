// Package shape turns a caller's column shape into resolved column
// descriptors and manages column order and visibility on top of them.
package shape

import (
	"strings"
	"unicode"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Resolve normalizes a shape into ordered column descriptors. Fields with a
// nil config are excluded entirely; duplicate keys keep their first
// declaration. Column flags default to true and are cleared when the
// matching global feature is disabled.
func Resolve(s types.Shape, features types.Features) []types.ColumnDescriptor {
	cols := make([]types.ColumnDescriptor, 0, len(s.Fields))
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Config == nil || f.Key == "" || seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		cols = append(cols, describe(f.Key, f.Config, features))
	}
	return cols
}

func describe(key string, cfg *types.ColumnConfig, features types.Features) types.ColumnDescriptor {
	ft := cfg.Type
	if ft == "" {
		ft = types.FieldText
	}
	label := cfg.Label
	if label == "" {
		label = Label(key)
	}
	d := types.ColumnDescriptor{
		Field:       key,
		Label:       label,
		Type:        ft,
		Placeholder: cfg.Placeholder,
		Width:       cfg.Width,
		Hidden:      cfg.Hidden,
		Editable:    features.Editing && flag(cfg.Editable),
		Sortable:    features.Sorting && flag(cfg.Sortable),
		Filterable:  features.Filtering && flag(cfg.Filterable),
		Searchable:  features.GlobalSearch && flag(cfg.Searchable),
		Filter:      cfg.Filter,
		Compare:     cfg.Compare,
		Search:      cfg.Search,
		Export:      cfg.Export,
	}
	if ft.IsChoice() && len(cfg.Options) > 0 {
		d.Options = append([]string(nil), cfg.Options...)
	}
	return d
}

func flag(p *bool) bool {
	return p == nil || *p
}

// Label derives a display label from a field key: separators become spaces,
// camelCase is split and every word is capitalized ("firstName" becomes
// "First Name", "created_at" becomes "Created At").
func Label(key string) string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(key)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '.' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	for i, w := range words {
		rs := []rune(w)
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}
