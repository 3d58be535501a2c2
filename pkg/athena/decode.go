package athena

import "fmt"

// Decode transforms the engine's columnar wire format into a uniform
// ResultTable. It is a pure function: decoding the same raw result set
// twice yields structurally identical tables.
//
// Column names come from engine metadata when present. When metadata is
// absent the first row's cells are treated as the column names rather
// than data; the engine historically embeds a header row this way.
// Cells pass through in their wire string form with no type inference,
// and row order is preserved as received.
func Decode(raw *RawResultSet) *ResultTable {
	table := &ResultTable{
		Columns: []string{},
		Rows:    []map[string]string{},
	}
	if raw == nil {
		return table
	}

	hadMetadata := len(raw.Columns) > 0
	for _, col := range raw.Columns {
		table.Columns = append(table.Columns, col.Name)
	}

	for i, row := range raw.Rows {
		if i == 0 && !hadMetadata {
			table.Columns = headerColumns(row)
			continue
		}
		table.Rows = append(table.Rows, decodeRow(row, table.Columns))
	}

	return table
}

// headerColumns synthesizes column names from a header row. Missing
// cells get positional names.
func headerColumns(row []*string) []string {
	columns := make([]string, len(row))
	for j, cell := range row {
		if cell != nil && *cell != "" {
			columns[j] = *cell
		} else {
			columns[j] = positionalName(j)
		}
	}
	return columns
}

// decodeRow maps one wire row onto the known columns. Cells beyond the
// known columns and cells missing from a short row are keyed by a
// positional name so every column index stays lookup-able.
func decodeRow(row []*string, columns []string) map[string]string {
	data := make(map[string]string, len(columns))
	for j, cell := range row {
		name := positionalName(j)
		if j < len(columns) {
			name = columns[j]
		}
		if cell != nil {
			data[name] = *cell
		} else {
			data[name] = ""
		}
	}
	for j := len(row); j < len(columns); j++ {
		data[positionalName(j)] = ""
	}
	return data
}

func positionalName(index int) string {
	return fmt.Sprintf("col_%d", index)
}
