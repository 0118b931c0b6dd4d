package cms

import (
	"context"
	"strings"
)

// Querier is an authorized upstream query client. Callers pass one into
// each load; loaders never resolve it on their own.
type Querier interface {
	ListMetaobjects(ctx context.Context, typ, cursor string, first int) (*ListResult, error)
	GetMetaobject(ctx context.Context, gid string) (*DetailEntry, error)
}

// LoadList fetches one page of entries of the given type and projects it
// onto the type's columns. An empty cursor requests the first page.
func LoadList(ctx context.Context, q Querier, typ, cursor string) (*Table, error) {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return nil, &LoadError{Target: "metaobjects", Err: ErrInvalidType}
	}

	res, err := q.ListMetaobjects(ctx, typ, cursor, PageSize)
	if err != nil {
		return nil, &LoadError{Target: "metaobjects", Err: err}
	}
	if res == nil {
		return nil, &LoadError{Target: "metaobjects", Err: Malformed("metaobjects")}
	}

	table := Project(res.Entries, res.FieldDefinitions, res.PageInfo)
	table.Type = typ
	return table, nil
}

// LoadDetail fetches a single entry by route id and flattens its fields.
func LoadDetail(ctx context.Context, q Querier, id string) (*DetailView, error) {
	gid, err := MetaobjectGID(id)
	if err != nil {
		return nil, &LoadError{Target: "metaobject", Err: err}
	}

	entry, err := q.GetMetaobject(ctx, gid)
	if err != nil {
		return nil, &LoadError{Target: "metaobject", Err: err}
	}
	if entry == nil {
		return nil, &LoadError{Target: "metaobject", Err: ErrNotFound}
	}

	return &DetailView{
		Entry:  entry,
		Fields: Flatten(entry.Fields),
	}, nil
}
