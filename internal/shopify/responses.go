package shopify

import (
	"fmt"
	"time"

	"github.com/metaview-labs/metaview/internal/cms"
)

// Response shapes mirror the queries exactly. Pointers mark values the API
// may return as null so that required ones can be rejected explicitly.

type listResponse struct {
	Metaobjects *struct {
		Nodes    []metaobjectNode `json:"nodes"`
		PageInfo *pageInfoNode    `json:"pageInfo"`
	} `json:"metaobjects"`
	MetaobjectDefinitionByType *struct {
		FieldDefinitions []fieldDefinitionNode `json:"fieldDefinitions"`
	} `json:"metaobjectDefinitionByType"`
}

type metaobjectNode struct {
	ID     *string     `json:"id"`
	Handle *string     `json:"handle"`
	Type   *string     `json:"type"`
	Fields []fieldNode `json:"fields"`
}

type fieldNode struct {
	Key   *string `json:"key"`
	Value *string `json:"value"`
	Type  *string `json:"type"`
}

type pageInfoNode struct {
	HasNextPage *bool   `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type fieldDefinitionNode struct {
	Key  *string `json:"key"`
	Name *string `json:"name"`
}

type detailResponse struct {
	Metaobject *detailNode `json:"metaobject"`
}

type detailNode struct {
	ID        *string           `json:"id"`
	Handle    *string           `json:"handle"`
	Type      *string           `json:"type"`
	Fields    []detailFieldNode `json:"fields"`
	CreatedAt *time.Time        `json:"createdAt"`
	UpdatedAt *time.Time        `json:"updatedAt"`
}

type detailFieldNode struct {
	Key        *string `json:"key"`
	Value      *string `json:"value"`
	Type       *string `json:"type"`
	Definition *struct {
		Name *string `json:"name"`
		Type *string `json:"type"`
	} `json:"definition"`
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toListResult validates the list response and converts it to the read model.
func (r *listResponse) toListResult() (*cms.ListResult, error) {
	if r.Metaobjects == nil {
		return nil, cms.Malformed("metaobjects")
	}
	if r.Metaobjects.PageInfo == nil || r.Metaobjects.PageInfo.HasNextPage == nil {
		return nil, cms.Malformed("metaobjects.pageInfo.hasNextPage")
	}
	if r.MetaobjectDefinitionByType == nil {
		return nil, cms.Malformed("metaobjectDefinitionByType")
	}

	res := &cms.ListResult{
		Entries:          make([]cms.Entry, 0, len(r.Metaobjects.Nodes)),
		FieldDefinitions: make([]cms.FieldDefinition, 0, len(r.MetaobjectDefinitionByType.FieldDefinitions)),
		PageInfo: cms.PageInfo{
			HasNextPage: *r.Metaobjects.PageInfo.HasNextPage,
			EndCursor:   str(r.Metaobjects.PageInfo.EndCursor),
		},
	}

	for i, def := range r.MetaobjectDefinitionByType.FieldDefinitions {
		if def.Key == nil {
			return nil, cms.Malformed(fmt.Sprintf("fieldDefinitions[%d].key", i))
		}
		res.FieldDefinitions = append(res.FieldDefinitions, cms.FieldDefinition{
			Key:  *def.Key,
			Name: str(def.Name),
		})
	}

	for i, node := range r.Metaobjects.Nodes {
		entry := cms.Entry{
			ID:     str(node.ID),
			Handle: str(node.Handle),
			Type:   str(node.Type),
			Fields: make([]cms.Field, 0, len(node.Fields)),
		}
		for j, f := range node.Fields {
			if f.Key == nil {
				return nil, cms.Malformed(fmt.Sprintf("metaobjects.nodes[%d].fields[%d].key", i, j))
			}
			entry.Fields = append(entry.Fields, cms.Field{
				Key:   *f.Key,
				Value: str(f.Value),
				Type:  str(f.Type),
			})
		}
		res.Entries = append(res.Entries, entry)
	}

	return res, nil
}

// toDetailEntry validates the detail response and converts it to the read model.
func (r *detailResponse) toDetailEntry() (*cms.DetailEntry, error) {
	node := r.Metaobject
	if node == nil {
		return nil, cms.ErrNotFound
	}
	if node.ID == nil {
		return nil, cms.Malformed("metaobject.id")
	}
	if node.CreatedAt == nil || node.UpdatedAt == nil {
		return nil, cms.Malformed("metaobject.createdAt/updatedAt")
	}

	entry := &cms.DetailEntry{
		ID:        *node.ID,
		Handle:    str(node.Handle),
		Type:      str(node.Type),
		CreatedAt: *node.CreatedAt,
		UpdatedAt: *node.UpdatedAt,
		Fields:    make([]cms.DetailField, 0, len(node.Fields)),
	}

	for i, f := range node.Fields {
		if f.Key == nil {
			return nil, cms.Malformed(fmt.Sprintf("metaobject.fields[%d].key", i))
		}
		if f.Definition == nil {
			return nil, cms.Malformed(fmt.Sprintf("metaobject.fields[%d].definition", i))
		}
		entry.Fields = append(entry.Fields, cms.DetailField{
			Key:   *f.Key,
			Value: str(f.Value),
			Type:  str(f.Type),
			Definition: cms.Definition{
				Name: str(f.Definition.Name),
				Type: str(f.Definition.Type),
			},
		})
	}

	return entry, nil
}
