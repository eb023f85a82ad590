package edit

import (
	"slices"

	"github.com/mesh-intelligence/datagrid/pkg/types"
)

// ChangeResult reports the outcome of a commit. Fields lists the keys whose
// values changed, sorted.
type ChangeResult struct {
	Changed bool
	Record  types.Record
	Fields  []string
}

// SaveFunc receives the updated record on a real change.
type SaveFunc func(types.Record) error

// Draft is the in-progress copy of one record.
type Draft struct {
	id       string
	rowID    string
	original types.Record
	values   types.Record
}

// ID returns the identity of the record being edited.
func (d *Draft) ID() string { return d.id }

// Get returns the draft value of key.
func (d *Draft) Get(key string) any { return d.values[key] }

// Values returns a copy of the draft record.
func (d *Draft) Values() types.Record { return d.values.Clone() }

// Set writes value into the draft. Writes to the identity field are
// ignored and reported as false.
func (d *Draft) Set(key string, value any) bool {
	if key == d.rowID {
		return false
	}
	d.values[key] = value
	return true
}

// Changes diffs the draft against the original record.
func (d *Draft) Changes() ChangeResult {
	var fields []string
	for k, v := range d.values {
		if HasValueChanged(d.original[k], v) {
			fields = append(fields, k)
		}
	}
	for k, v := range d.original {
		if _, ok := d.values[k]; !ok && HasValueChanged(v, nil) {
			fields = append(fields, k)
		}
	}
	slices.Sort(fields)
	return ChangeResult{
		Changed: len(fields) > 0,
		Record:  d.values.Clone(),
		Fields:  fields,
	}
}

// Session serializes edits: at most one draft is active at a time.
type Session struct {
	rowID  string
	active *Draft
}

// NewSession returns a session for records identified by rowID.
func NewSession(rowID string) *Session {
	if rowID == "" {
		rowID = types.DefaultRowID
	}
	return &Session{rowID: rowID}
}

// Active returns the current draft, or nil.
func (s *Session) Active() *Draft { return s.active }

// Begin starts editing rec. It returns false without touching the current
// draft when another edit is already active or rec has no identity.
func (s *Session) Begin(rec types.Record) (*Draft, bool) {
	if s.active != nil {
		return s.active, false
	}
	id, ok := rec.Identity(s.rowID)
	if !ok {
		return nil, false
	}
	s.active = &Draft{
		id:       id,
		rowID:    s.rowID,
		original: rec.Clone(),
		values:   rec.Clone(),
	}
	return s.active, true
}

// Commit ends the edit. save is called only when the draft differs from
// the original; a no-op edit closes the draft silently. When save fails
// the draft stays open and the error is returned.
func (s *Session) Commit(save SaveFunc) (ChangeResult, error) {
	if s.active == nil {
		return ChangeResult{}, types.ErrNoActiveEdit
	}
	res := s.active.Changes()
	if res.Changed && save != nil {
		if err := save(res.Record.Clone()); err != nil {
			return res, err
		}
	}
	s.active = nil
	return res, nil
}

// Cancel discards the draft unconditionally.
func (s *Session) Cancel() {
	s.active = nil
}
