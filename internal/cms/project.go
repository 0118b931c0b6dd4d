package cms

// Project turns a page of sparse entries into a dense table with one value
// per column, in column order. A column with no matching field on an entry
// yields "" with Present false. Fields whose key is not a column are dropped.
func Project(entries []Entry, columns []FieldDefinition, page PageInfo) *Table {
	table := &Table{
		Columns: columns,
		Rows:    make([]Row, 0, len(entries)),
		HasNext: page.HasNextPage,
	}
	if page.HasNextPage {
		table.NextCursor = page.EndCursor
	}

	for _, entry := range entries {
		byKey := make(map[string]string, len(entry.Fields))
		for _, f := range entry.Fields {
			if _, seen := byKey[f.Key]; seen {
				continue // first match wins
			}
			byKey[f.Key] = f.Value
		}

		row := Row{
			ID:      entry.ID,
			Handle:  entry.Handle,
			Values:  make([]string, len(columns)),
			Present: make([]bool, len(columns)),
		}
		for i, col := range columns {
			row.Values[i], row.Present[i] = byKey[col.Key]
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}

// Flatten converts detail fields into display records, keeping their order.
func Flatten(fields []DetailField) []DisplayField {
	out := make([]DisplayField, len(fields))
	for i, f := range fields {
		out[i] = DisplayField{
			Key:          f.Key,
			Label:        f.Definition.Name,
			DeclaredType: f.Definition.Type,
			Value:        f.Value,
		}
	}
	return out
}
