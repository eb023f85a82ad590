// Package fieldtype holds one behavior strategy per column field type:
// filter predicate, comparator, search string, export formatter and
// emptiness check. Strategies are registered in a fixed lookup table;
// unknown types resolve to the text strategy.
package fieldtype

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// Format carries the settings export formatting depends on.
type Format struct {
	Location   *time.Location
	DateLayout string
}

// DefaultFormat formats dates in local time with the default layout.
func DefaultFormat() Format {
	return Format{Location: time.Local, DateLayout: types.DefaultDateLayout}
}

// Strategy is the per-type behavior used by the view pipeline and export.
type Strategy interface {
	// Match reports whether value satisfies an active (non-"all") filter.
	Match(value any, filter types.FilterValue) bool
	// Compare orders two values; empty values sort before real ones.
	Compare(a, b any) int
	// Search returns the text global search looks into.
	Search(value any) string
	// Export returns the formatted cell for the export grid.
	Export(value any, f Format) string
}

// registry maps each canonical field type to its strategy.
var registry = map[types.FieldType]Strategy{
	types.FieldText:        textStrategy{},
	types.FieldNumber:      numberStrategy{},
	types.FieldBoolean:     booleanStrategy{},
	types.FieldDate:        dateStrategy{},
	types.FieldSelect:      selectStrategy{},
	types.FieldMultiSelect: multiSelectStrategy{},
	types.FieldImage:       textStrategy{},
	types.FieldLink:        textStrategy{},
	types.FieldCustom:      textStrategy{},
}

// Lookup returns the strategy registered for ft, falling back to text.
func Lookup(ft types.FieldType) Strategy {
	if s, ok := registry[ft]; ok {
		return s
	}
	return textStrategy{}
}

// containsFold reports whether needle occurs in haystack ignoring case.
func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// compareEmpty orders values when at least one side is empty. done is
// false when both sides hold real values.
func compareEmpty(aEmpty, bEmpty bool) (int, bool) {
	switch {
	case aEmpty && bEmpty:
		return 0, true
	case aEmpty:
		return -1, true
	case bEmpty:
		return 1, true
	}
	return 0, false
}

// compareText orders case-insensitively, breaking ties on the raw text so
// the order stays total.
func compareText(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// textStrategy covers text, image, link, custom and unknown types.
type textStrategy struct{}

func (textStrategy) Match(value any, f types.FilterValue) bool {
	cell := Stringify(value)
	for _, want := range f.Set() {
		if containsFold(cell, want) {
			return true
		}
	}
	return false
}

func (textStrategy) Compare(a, b any) int {
	if c, done := compareEmpty(IsEmpty(a), IsEmpty(b)); done {
		return c
	}
	return compareText(Stringify(a), Stringify(b))
}

func (textStrategy) Search(value any) string { return Stringify(value) }

func (textStrategy) Export(value any, _ Format) string { return Stringify(value) }

type numberStrategy struct{}

func (numberStrategy) Match(value any, f types.FilterValue) bool {
	return textStrategy{}.Match(value, f)
}

func (numberStrategy) Compare(a, b any) int {
	x, okA := Number(a)
	y, okB := Number(b)
	if c, done := compareEmpty(!okA, !okB); done {
		return c
	}
	return cmp.Compare(x, y)
}

func (numberStrategy) Search(value any) string { return Stringify(value) }

func (numberStrategy) Export(value any, _ Format) string { return Stringify(value) }

type booleanStrategy struct{}

// Match compares the stringified cell against "true"/"false".
func (booleanStrategy) Match(value any, f types.FilterValue) bool {
	cell := Stringify(value)
	if b, ok := Bool(value); ok {
		cell = Stringify(b)
	}
	for _, want := range f.Set() {
		if strings.EqualFold(cell, strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

func (booleanStrategy) Compare(a, b any) int {
	x, okA := Bool(a)
	y, okB := Bool(b)
	if c, done := compareEmpty(!okA, !okB); done {
		return c
	}
	switch {
	case x == y:
		return 0
	case !x:
		return -1
	}
	return 1
}

func (booleanStrategy) Search(value any) string { return Stringify(value) }

func (booleanStrategy) Export(value any, _ Format) string {
	b, ok := Bool(value)
	if !ok {
		return ""
	}
	if b {
		return "Yes"
	}
	return "No"
}

type dateStrategy struct{}

func (dateStrategy) Match(value any, f types.FilterValue) bool {
	return textStrategy{}.Match(value, f)
}

func (dateStrategy) Compare(a, b any) int {
	x, okA := Time(a, time.UTC)
	y, okB := Time(b, time.UTC)
	if c, done := compareEmpty(!okA, !okB); done {
		return c
	}
	return x.Compare(y)
}

func (dateStrategy) Search(value any) string { return Stringify(value) }

func (dateStrategy) Export(value any, f Format) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	t, ok := Time(value, loc)
	if !ok {
		return Stringify(value)
	}
	layout := f.DateLayout
	if layout == "" {
		layout = types.DefaultDateLayout
	}
	return t.In(loc).Format(layout)
}

type selectStrategy struct{}

// Match requires exact equality with one of the wanted options.
func (selectStrategy) Match(value any, f types.FilterValue) bool {
	return slices.Contains(f.Set(), Stringify(value))
}

func (selectStrategy) Compare(a, b any) int { return textStrategy{}.Compare(a, b) }

func (selectStrategy) Search(value any) string { return Stringify(value) }

func (selectStrategy) Export(value any, _ Format) string { return Stringify(value) }

type multiSelectStrategy struct{}

// Match is any-of: the cell's values must intersect the wanted set.
func (multiSelectStrategy) Match(value any, f types.FilterValue) bool {
	want := f.Set()
	for _, v := range Strings(value) {
		if slices.Contains(want, v) {
			return true
		}
	}
	return false
}

func (multiSelectStrategy) Compare(a, b any) int {
	x, y := Strings(a), Strings(b)
	if c, done := compareEmpty(len(x) == 0, len(y) == 0); done {
		return c
	}
	return compareText(strings.Join(x, ", "), strings.Join(y, ", "))
}

func (multiSelectStrategy) Search(value any) string {
	return strings.Join(Strings(value), ", ")
}

func (multiSelectStrategy) Export(value any, _ Format) string {
	return strings.Join(Strings(value), ", ")
}
