package types

import "errors"

// Configuration errors.
var (
	ErrInvalidShape     = errors.New("invalid shape")
	ErrInvalidTableName = errors.New("invalid table name")
	ErrInvalidPageSize  = errors.New("page size must be positive")
)

// Export errors.
var (
	ErrNoVisibleColumns = errors.New("no visible columns to export")
	ErrNoExportRows     = errors.New("no rows to export")
	ErrExportDisabled   = errors.New("export is disabled")
)

// Edit errors.
var (
	ErrNoActiveEdit   = errors.New("no row is being edited")
	ErrRecordNotFound = errors.New("record not found")
)

// Persistence errors.
var (
	ErrStoreClosed    = errors.New("state store is closed")
	ErrStoreUnknown   = errors.New("unknown state store backend")
	ErrInvalidRecords = errors.New("invalid records document")
)
