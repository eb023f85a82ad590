// Package types defines the data model shared by every datagrid component:
// records, column shapes and descriptors, view state, export grids, the
// persistence and export collaborator interfaces, and standard errors.
package types
