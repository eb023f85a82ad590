package types

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Hook signatures a column may supply to override its field type's default
// behavior. Rendering and editing hooks live outside the core.
type (
	// FilterFunc decides whether value satisfies the column filter.
	FilterFunc func(value any, filter FilterValue, rec Record) bool
	// CompareFunc orders two cell values; negative when a sorts first.
	CompareFunc func(a, b any) int
	// StringFunc renders a cell value for search or export.
	StringFunc func(value any, rec Record) string
)

// ColumnConfig is the caller's declaration for one field of the shape.
// Nil flag pointers default to true.
type ColumnConfig struct {
	Label       string    `json:"label,omitempty" yaml:"label,omitempty"`
	Type        FieldType `json:"type,omitempty" yaml:"type,omitempty"`
	Options     []string  `json:"options,omitempty" yaml:"options,omitempty"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Editable    *bool     `json:"editable,omitempty" yaml:"editable,omitempty"`
	Sortable    *bool     `json:"sortable,omitempty" yaml:"sortable,omitempty"`
	Filterable  *bool     `json:"filterable,omitempty" yaml:"filterable,omitempty"`
	Searchable  *bool     `json:"searchable,omitempty" yaml:"searchable,omitempty"`
	Hidden      bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Width       int       `json:"width,omitempty" yaml:"width,omitempty"`

	Filter  FilterFunc  `json:"-" yaml:"-"`
	Compare CompareFunc `json:"-" yaml:"-"`
	Search  StringFunc  `json:"-" yaml:"-"`
	Export  StringFunc  `json:"-" yaml:"-"`
}

// Bool returns a pointer to b, for ColumnConfig flags.
func Bool(b bool) *bool { return &b }

// ShapeField is one declared entry of a Shape. A nil Config is falsy: the
// field is excluded from every column operation.
type ShapeField struct {
	Key    string
	Config *ColumnConfig
}

// Shape is the ordered, declarative column configuration supplied by the
// caller. Declaration order is the natural column order.
type Shape struct {
	Fields []ShapeField
}

// NewShape builds a Shape from fields kept in the given order.
func NewShape(fields ...ShapeField) Shape {
	return Shape{Fields: fields}
}

// Field is a convenience constructor for a ShapeField.
func Field(key string, cfg *ColumnConfig) ShapeField {
	return ShapeField{Key: key, Config: cfg}
}

// Keys returns the keys of every truthy field in declaration order.
func (s Shape) Keys() []string {
	keys := make([]string, 0, len(s.Fields))
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Config == nil || f.Key == "" || seen[f.Key] {
			continue
		}
		seen[f.Key] = true
		keys = append(keys, f.Key)
	}
	return keys
}

// UnmarshalYAML decodes a mapping of field key to column config while
// keeping declaration order. A value of false, null or an empty scalar is
// falsy; true declares a text column with defaults and a bare string is a
// type shorthand. JSON documents decode through the same path.
func (s *Shape) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: expected a mapping of field to config", ErrInvalidShape)
	}
	s.Fields = make([]ShapeField, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]

		if val.Kind == yaml.ScalarNode {
			if val.Tag == "!!str" && val.Value != "" {
				s.Fields = append(s.Fields, ShapeField{Key: key, Config: &ColumnConfig{Type: ParseFieldType(val.Value)}})
				continue
			}
			var truthy bool
			if val.Tag == "!!bool" {
				if err := val.Decode(&truthy); err != nil {
					return fmt.Errorf("%w: field %q: %v", ErrInvalidShape, key, err)
				}
			}
			if !truthy {
				s.Fields = append(s.Fields, ShapeField{Key: key})
				continue
			}
			s.Fields = append(s.Fields, ShapeField{Key: key, Config: &ColumnConfig{}})
			continue
		}

		var cfg ColumnConfig
		if err := val.Decode(&cfg); err != nil {
			return fmt.Errorf("%w: field %q: %v", ErrInvalidShape, key, err)
		}
		s.Fields = append(s.Fields, ShapeField{Key: key, Config: &cfg})
	}
	return nil
}
