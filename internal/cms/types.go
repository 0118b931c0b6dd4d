// Package cms holds the metaobject read model and the transforms that turn
// upstream query results into table rows and detail field lists.
package cms

import "time"

// PageSize is the number of entries requested per list page.
const PageSize = 10

// FieldDefinition declares one column of a metaobject type.
type FieldDefinition struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Field is a single value on an entry. Entries only carry fields that have a value.
type Field struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	Type  string `json:"type"`
}

// Entry is a metaobject as returned by the list query.
type Entry struct {
	ID     string  `json:"id"`
	Handle string  `json:"handle"`
	Type   string  `json:"type"`
	Fields []Field `json:"fields"`
}

// PageInfo carries the upstream pagination state.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// ListResult is one page of entries plus the type's column schema.
type ListResult struct {
	Entries          []Entry           `json:"metaobjects"`
	FieldDefinitions []FieldDefinition `json:"fieldDefinitions"`
	PageInfo         PageInfo          `json:"pageInfo"`
}

// Definition is the schema metadata joined onto a detail field.
type Definition struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// DetailField is a field as returned by the detail query.
type DetailField struct {
	Key        string     `json:"key"`
	Value      string     `json:"value"`
	Type       string     `json:"type"`
	Definition Definition `json:"definition"`
}

// DetailEntry is a metaobject as returned by the detail query.
type DetailEntry struct {
	ID        string        `json:"id"`
	Handle    string        `json:"handle"`
	Type      string        `json:"type"`
	Fields    []DetailField `json:"fields"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DisplayField is a detail field ready for rendering.
type DisplayField struct {
	Key          string `json:"key"`
	Label        string `json:"label"`
	DeclaredType string `json:"declaredType"`
	Value        string `json:"value"`
}

// Row is one projected entry. Values and Present are parallel to Table.Columns.
type Row struct {
	ID      string   `json:"id"`
	Handle  string   `json:"handle"`
	Values  []string `json:"values"`
	Present []bool   `json:"present"`
}

// Table is a dense projection of one page of entries.
type Table struct {
	Type       string            `json:"type"`
	Columns    []FieldDefinition `json:"columns"`
	Rows       []Row             `json:"rows"`
	HasNext    bool              `json:"hasNext"`
	NextCursor string            `json:"nextCursor,omitempty"`
}

// Values returns the rows as a plain string matrix.
func (t *Table) Values() [][]string {
	out := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row.Values
	}
	return out
}

// Headings returns the display names of the columns in order.
func (t *Table) Headings() []string {
	out := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		out[i] = col.Name
	}
	return out
}

// DetailView is a single entry with its fields flattened for display.
type DetailView struct {
	Entry  *DetailEntry   `json:"metaobject"`
	Fields []DisplayField `json:"fields"`
}
