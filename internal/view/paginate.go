package view

import "github.com/mesh-intelligence/datagrid/pkg/types"

// Page is one slice of the filtered and sorted rows.
type Page struct {
	Rows      []types.Record
	Index     int // effective page index used for slicing
	Count     int // number of pages, at least 1
	Size      int
	TotalRows int
}

// PageCount returns max(1, ceil(rows/size)). A non-positive size means a
// single page.
func PageCount(rows, size int) int {
	if size <= 0 || rows <= 0 {
		return 1
	}
	return (rows-1)/size + 1
}

// ClampPage returns index clamped into [0, PageCount(rows, size)-1].
func ClampPage(index, rows, size int) int {
	last := PageCount(rows, size) - 1
	if index > last {
		return last
	}
	if index < 0 {
		return 0
	}
	return index
}

// Paginate slices rows into the page at index. An index past the end
// yields the last page rather than an empty one. A non-positive size
// returns every row on a single page.
func Paginate(rows []types.Record, index, size int) Page {
	n := len(rows)
	if size <= 0 {
		return Page{Rows: rows, Index: 0, Count: 1, Size: size, TotalRows: n}
	}
	idx := ClampPage(index, n, size)
	start := idx * size
	end := start + min(size, n-start)
	return Page{
		Rows:      rows[start:end],
		Index:     idx,
		Count:     PageCount(n, size),
		Size:      size,
		TotalRows: n,
	}
}
