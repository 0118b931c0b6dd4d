package metaobjects

import "github.com/metaview-labs/metaview/internal/cms"

// ListResponse is the JSON body of a list request.
type ListResponse struct {
	Type             string                `json:"type"`
	FieldDefinitions []cms.FieldDefinition `json:"fieldDefinitions"`
	Rows             []cms.Row             `json:"rows"`
	PageInfo         cms.PageInfo          `json:"pageInfo"`
}

// DetailResponse is the JSON body of a detail request.
type DetailResponse struct {
	Metaobject *cms.DetailEntry   `json:"metaobject"`
	Fields     []cms.DisplayField `json:"fields"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newListResponse(table *cms.Table) ListResponse {
	rows := table.Rows
	if rows == nil {
		rows = []cms.Row{}
	}
	columns := table.Columns
	if columns == nil {
		columns = []cms.FieldDefinition{}
	}
	return ListResponse{
		Type:             table.Type,
		FieldDefinitions: columns,
		Rows:             rows,
		PageInfo: cms.PageInfo{
			HasNextPage: table.HasNext,
			EndCursor:   table.NextCursor,
		},
	}
}
