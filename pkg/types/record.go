package types

import (
	"strings"

	"github.com/spf13/cast"
)

// DefaultRowID is the identity field used when Options.RowID is empty.
const DefaultRowID = "id"

// Record is one application-defined row keyed by field name.
type Record map[string]any

// Identity returns the record's identity under field as a normalized string
// key. Records with a missing, nil, empty or non-scalar identity report
// ok=false and are never selectable or editable.
func (r Record) Identity(field string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[field]
	if !ok || v == nil {
		return "", false
	}
	switch v.(type) {
	case []any, []string, map[string]any:
		return "", false
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Identities returns the identities of rows in order, skipping rows without
// a usable identity.
func Identities(rows []Record, field string) []string {
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if id, ok := r.Identity(field); ok {
			ids = append(ids, id)
		}
	}
	return ids
}
