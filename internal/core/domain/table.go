package domain

import (
	"fmt"
	"sort"
)

// Table is a parsed delimited file.
// Columns are looked up by header name; Headers keeps the file's order.
type Table struct {
	Name    string
	Headers []string

	columns map[string][]string
	rows    int
}

// NewTable builds a table from a header row and data records.
// Short records are padded with empty cells. Headers must already be unique.
func NewTable(name string, headers []string, records [][]string) (*Table, error) {
	columns := make(map[string][]string, len(headers))
	for _, h := range headers {
		if _, dup := columns[h]; dup {
			return nil, fmt.Errorf("duplicate column %q", h)
		}
		columns[h] = make([]string, len(records))
	}

	for r, record := range records {
		if len(record) > len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", r+1, len(record), len(headers))
		}
		for c, cell := range record {
			columns[headers[c]][r] = cell
		}
	}

	hdrs := make([]string, len(headers))
	copy(hdrs, headers)

	return &Table{
		Name:    name,
		Headers: hdrs,
		columns: columns,
		rows:    len(records),
	}, nil
}

// HasColumn reports whether the table has a column with this exact name
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the raw cells of a column and whether it exists
func (t *Table) Column(name string) ([]string, bool) {
	col, ok := t.columns[name]
	return col, ok
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnUniverse is the sorted set of column names across loaded tables
type ColumnUniverse []string

// NewColumnUniverse collects the distinct column names of all tables
func NewColumnUniverse(tables []*Table) ColumnUniverse {
	seen := make(map[string]bool)
	var names []string
	for _, t := range tables {
		for _, h := range t.Headers {
			if !seen[h] {
				seen[h] = true
				names = append(names, h)
			}
		}
	}
	sort.Strings(names)
	return ColumnUniverse(names)
}

// Contains reports whether name is in the universe
func (u ColumnUniverse) Contains(name string) bool {
	i := sort.SearchStrings(u, name)
	return i < len(u) && u[i] == name
}
