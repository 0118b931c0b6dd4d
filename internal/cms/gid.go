package cms

import (
	"fmt"
	"strings"
)

// GIDPrefix is the global id prefix for metaobjects.
const GIDPrefix = "gid://shopify/Metaobject/"

// MetaobjectGID builds the global id for a route id segment. A value that is
// already a gid is returned unchanged.
func MetaobjectGID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "gid://") {
		if len(id) == len(GIDPrefix) || !strings.HasPrefix(id, GIDPrefix) {
			return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
		return id, nil
	}
	if id == "" || strings.ContainsAny(id, "/?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return GIDPrefix + id, nil
}

// RouteID returns the trailing segment of a gid, used in detail page URLs.
func RouteID(gid string) string {
	if i := strings.LastIndexByte(gid, '/'); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
