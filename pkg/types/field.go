package types

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldType tags a column with the behavior used to filter, sort, search,
// export and diff its values.
type FieldType string

// Field types. Unknown tags behave like FieldText downstream.
const (
	FieldText        FieldType = "text"
	FieldNumber      FieldType = "number"
	FieldBoolean     FieldType = "boolean"
	FieldDate        FieldType = "date"
	FieldSelect      FieldType = "select"
	FieldMultiSelect FieldType = "multiselect"
	FieldImage       FieldType = "image"
	FieldLink        FieldType = "link"
	FieldCustom      FieldType = "custom"
)

// fieldTypeAliases maps accepted spellings onto the canonical tags.
var fieldTypeAliases = map[string]FieldType{
	"text":          FieldText,
	"string":        FieldText,
	"number":        FieldNumber,
	"numeric":       FieldNumber,
	"boolean":       FieldBoolean,
	"bool":          FieldBoolean,
	"date":          FieldDate,
	"datetime":      FieldDate,
	"select":        FieldSelect,
	"single-choice": FieldSelect,
	"multiselect":   FieldMultiSelect,
	"multi-select":  FieldMultiSelect,
	"multi-choice":  FieldMultiSelect,
	"image":         FieldImage,
	"link":          FieldLink,
	"url":           FieldLink,
	"custom":        FieldCustom,
}

// ParseFieldType normalizes a type tag. Empty input yields FieldText; an
// unrecognized tag is kept verbatim so callers can still see it.
func ParseFieldType(s string) FieldType {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return FieldText
	}
	if ft, ok := fieldTypeAliases[s]; ok {
		return ft
	}
	return FieldType(s)
}

// IsKnown reports whether ft is one of the canonical field types.
func (ft FieldType) IsKnown() bool {
	switch ft {
	case FieldText, FieldNumber, FieldBoolean, FieldDate, FieldSelect,
		FieldMultiSelect, FieldImage, FieldLink, FieldCustom:
		return true
	}
	return false
}

// IsChoice reports whether ft carries an option set.
func (ft FieldType) IsChoice() bool {
	return ft == FieldSelect || ft == FieldMultiSelect
}

// UnmarshalYAML accepts any alias spelling.
func (ft *FieldType) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*ft = ParseFieldType(s)
	return nil
}
