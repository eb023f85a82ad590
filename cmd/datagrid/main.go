// Command datagrid filters, sorts, pages, edits and exports record files
// from the terminal, keeping per-table state between runs.
package main

import "github.com/mesh-intelligence/datagrid/internal/cli"

func main() {
	cli.Execute()
}
