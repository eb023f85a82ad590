package types

import (
	"regexp"
	"time"
)

// Defaults applied by Options.WithDefaults.
const (
	DefaultPageSize       = 10
	DefaultSearchDebounce = 300 * time.Millisecond
	DefaultDateLayout     = "Mon, 02 Jan 2006 15:04:05 MST"
)

// Features are the global feature toggles. A disabled feature also disables
// the matching per-column flag.
type Features struct {
	Sorting          bool `json:"sorting" yaml:"sorting" mapstructure:"sorting"`
	MultiSort        bool `json:"multi_sort" yaml:"multi_sort" mapstructure:"multi_sort"`
	Filtering        bool `json:"filtering" yaml:"filtering" mapstructure:"filtering"`
	GlobalSearch     bool `json:"global_search" yaml:"global_search" mapstructure:"global_search"`
	Editing          bool `json:"editing" yaml:"editing" mapstructure:"editing"`
	Pagination       bool `json:"pagination" yaml:"pagination" mapstructure:"pagination"`
	Selection        bool `json:"selection" yaml:"selection" mapstructure:"selection"`
	ColumnVisibility bool `json:"column_visibility" yaml:"column_visibility" mapstructure:"column_visibility"`
	ColumnOrdering   bool `json:"column_ordering" yaml:"column_ordering" mapstructure:"column_ordering"`
	Export           bool `json:"export" yaml:"export" mapstructure:"export"`
}

// AllFeatures returns every feature enabled.
func AllFeatures() Features {
	return Features{
		Sorting:          true,
		MultiSort:        true,
		Filtering:        true,
		GlobalSearch:     true,
		Editing:          true,
		Pagination:       true,
		Selection:        true,
		ColumnVisibility: true,
		ColumnOrdering:   true,
		Export:           true,
	}
}

// Options configure a table instance.
type Options struct {
	RowID          string
	TableName      string
	PageSize       int
	SearchDebounce time.Duration
	Location       *time.Location
	DateLayout     string
	Features       Features
}

// DefaultOptions returns options with every feature enabled and the
// standard defaults filled in.
func DefaultOptions() Options {
	return Options{Features: AllFeatures()}.WithDefaults()
}

// WithDefaults fills zero fields with their defaults. Features are left
// untouched since false is a meaningful setting.
func (o Options) WithDefaults() Options {
	if o.RowID == "" {
		o.RowID = DefaultRowID
	}
	if o.PageSize <= 0 {
		o.PageSize = DefaultPageSize
	}
	if o.SearchDebounce <= 0 {
		o.SearchDebounce = DefaultSearchDebounce
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	return o
}

// tableNamePattern restricts table names to values safe as file names and
// storage keys.
var tableNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidTableName reports whether name can key persisted state.
func ValidTableName(name string) bool {
	return tableNamePattern.MatchString(name)
}

// Validate checks that the options are well-formed. The table name is only
// required when state is persisted, so an empty one is accepted here.
func (o Options) Validate() error {
	if o.TableName != "" && !ValidTableName(o.TableName) {
		return ErrInvalidTableName
	}
	if o.PageSize < 0 {
		return ErrInvalidPageSize
	}
	return nil
}
