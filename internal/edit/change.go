// Package edit implements the single-row edit transaction: a draft copy of
// one record, field mutations on the draft, and a commit that only writes
// through when something actually changed.
package edit

import (
	"reflect"
	"strings"
	"time"

	"github.com/mesh-intelligence/datagrid/internal/fieldtype"
)

// HasValueChanged reports whether an edited value differs from the
// original.
//
//   - nil or "" on either side: changed iff exactly one side is blank.
//     Whitespace and empty lists are values, not blanks.
//   - lists: changed iff lengths differ or any position differs. Order
//     matters, so reordering a multi-choice value is a change.
//   - times and epoch numbers compared with a time: changed iff the
//     instants differ.
//   - two strings that both parse as dates compare as dates, so different
//     spellings of the same instant are not a change.
//   - anything else: strict inequality.
func HasValueChanged(original, edited any) bool {
	oe, ee := blank(original), blank(edited)
	if oe || ee {
		return oe != ee
	}

	if ol, ok := list(original); ok {
		el, ok := list(edited)
		if !ok || len(ol) != len(el) {
			return true
		}
		for i := range ol {
			if HasValueChanged(ol[i], el[i]) {
				return true
			}
		}
		return false
	}
	if _, ok := list(edited); ok {
		return true
	}

	if ot, ok := asTime(original); ok {
		if et, ok := timeLike(edited); ok {
			return !ot.Equal(et)
		}
		return true
	}
	if et, ok := asTime(edited); ok {
		if ot, ok := timeLike(original); ok {
			return !ot.Equal(et)
		}
		return true
	}

	if o, ok := original.(string); ok {
		if e, ok := edited.(string); ok {
			if o == e {
				return false
			}
			ot, okO := dateString(o)
			et, okE := dateString(e)
			if okO && okE {
				return !ot.Equal(et)
			}
			return true
		}
	}

	return !equalScalar(original, edited)
}

// blank reports a missing value: nil, the empty string or a nil time.
func blank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case *time.Time:
		return x == nil
	}
	return false
}

// list returns v as a slice of elements when it is a list.
func list(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out, true
	}
	return nil, false
}

// asTime only accepts real time values.
func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case *time.Time:
		if x != nil {
			return *x, true
		}
	}
	return time.Time{}, false
}

// timeLike accepts a time, an epoch-millisecond number or a date string.
func timeLike(v any) (time.Time, bool) {
	if t, ok := asTime(v); ok {
		return t, true
	}
	if s, ok := v.(string); ok {
		return dateString(s)
	}
	return fieldtype.Time(v, time.UTC)
}

// dateString parses s as a date. Plain numbers are not treated as dates so
// that numeric text such as "42" keeps string semantics.
func dateString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if _, ok := fieldtype.Number(s); ok {
		return time.Time{}, false
	}
	return fieldtype.Time(s, time.UTC)
}

// equalScalar compares two non-list values. Numbers of different Go types
// compare by value so an int draft equals a float64 decoded from JSON.
func equalScalar(a, b any) bool {
	if isNumber(a) && isNumber(b) {
		x, _ := fieldtype.Number(a)
		y, _ := fieldtype.Number(b)
		return x == y
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}
