package fieldtype

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// Stringify renders any cell value as text. Nil is the empty string,
// booleans are "true"/"false", lists are comma-joined and times use
// RFC 3339.
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(time.RFC3339)
	case *time.Time:
		if x == nil {
			return ""
		}
		return Stringify(*x)
	case []string:
		return strings.Join(x, ", ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, Stringify(e))
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(b)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// IsEmpty reports whether v counts as "no value": nil, a blank string or
// an empty list.
func IsEmpty(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []string:
		return len(x) == 0
	case []any:
		return len(x) == 0
	case *time.Time:
		return x == nil
	}
	return false
}

// Strings converts a multi-choice cell to its list of values. Anything
// that is not a list degrades to nil.
func Strings(v any) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, Stringify(e))
		}
		return out
	}
	return nil
}

// Number converts v to a float64. Booleans, blank strings and unparseable
// text report ok=false.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case nil, bool:
		return 0, false
	case string:
		if strings.TrimSpace(x) == "" {
			return 0, false
		}
		v = strings.TrimSpace(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Bool converts v to a boolean. Only real booleans and their textual
// forms are accepted.
func Bool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := cast.ToBoolE(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Time converts v to a time. Numbers are epoch milliseconds; strings are
// parsed in loc using the common date layouts. Anything else, including
// unparseable text, reports ok=false.
func Time(v any, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	switch x := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return time.Time{}, false
		}
		t, err := cast.ToTimeInDefaultLocationE(s, loc)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	case bool:
		return time.Time{}, false
	}
	ms, ok := Number(v)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).In(loc), true
}
