// Package session stores shop sessions: the access tokens the admin UI uses
// to query the Shopify Admin API on a shop's behalf.
package session

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no session exists for an id.
var ErrNotFound = errors.New("session not found")

// Session is one stored authorization for a shop.
type Session struct {
	ID          string
	Shop        string
	State       string
	IsOnline    bool
	Scope       string
	Expires     *time.Time
	AccessToken string
	UserID      *int64
	UpdatedAt   time.Time
}

// OfflineID returns the id of a shop's offline session.
func OfflineID(shop string) string {
	return "offline_" + shop
}

// Scopes returns the granted scopes.
func (s *Session) Scopes() []string {
	return SplitScopes(s.Scope)
}

// IsExpired reports whether the session has an expiry at or before now.
func (s *Session) IsExpired(now time.Time) bool {
	return s.Expires != nil && !s.Expires.After(now)
}

// IsActive reports whether the session can be used for requests needing the
// given scopes. A granted write_x scope also covers read_x.
func (s *Session) IsActive(required []string, now time.Time) bool {
	if s.AccessToken == "" || s.IsExpired(now) {
		return false
	}

	granted := make(map[string]struct{})
	for _, sc := range s.Scopes() {
		granted[sc] = struct{}{}
		if rest, ok := strings.CutPrefix(sc, "write_"); ok {
			granted["read_"+rest] = struct{}{}
		}
	}
	for _, sc := range required {
		if _, ok := granted[sc]; !ok {
			return false
		}
	}
	return true
}

// SplitScopes splits a comma-separated scope string, trimming blanks.
func SplitScopes(scope string) []string {
	var out []string
	for _, sc := range strings.Split(scope, ",") {
		if sc = strings.TrimSpace(sc); sc != "" {
			out = append(out, sc)
		}
	}
	return out
}

// Store persists sessions. Lookups by shop, access token and scope are
// backed by secondary indexes.
type Store interface {
	Store(ctx context.Context, s *Session) error
	Load(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	DeleteMany(ctx context.Context, ids []string) error
	FindByShop(ctx context.Context, shop string) ([]*Session, error)
	FindByAccessToken(ctx context.Context, token string) ([]*Session, error)
	FindByScope(ctx context.Context, scope string) ([]*Session, error)
	List(ctx context.Context) ([]*Session, error)
	Migrate(ctx context.Context) error
	Close() error
}
