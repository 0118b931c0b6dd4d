// Package auth resolves the shop behind an admin request and hands out an
// Admin API client authorized with that shop's stored session.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gorilla/sessions"
	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/metaview-labs/metaview/internal/session"
	"github.com/metaview-labs/metaview/internal/shopify"
)

const (
	cookieName = "metaview"
	shopKey    = "shop"
)

var (
	// ErrNoShop is returned when neither the query string nor the cookie names a shop.
	ErrNoShop = errors.New("no shop in request")

	// ErrInvalidShop is returned for a shop parameter that is not a myshopify.com domain.
	ErrInvalidShop = errors.New("invalid shop domain")

	// ErrNotInstalled is returned when the shop has no usable offline session.
	ErrNotInstalled = errors.New("app is not installed for shop")
)

var shopPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]*\.myshopify\.com$`)

// ValidShop reports whether shop is a well-formed myshopify.com domain.
func ValidShop(shop string) bool {
	return shopPattern.MatchString(shop)
}

// ClientFactory builds a query client for a shop and access token.
type ClientFactory func(shop, accessToken string) (cms.Querier, error)

// Config holds the dependencies of an Authenticator.
type Config struct {
	Sessions   session.Store
	Cookies    sessions.Store
	Scopes     []string
	APIVersion string
	Logger     *slog.Logger
	// NewClient defaults to a Shopify Admin GraphQL client.
	NewClient ClientFactory
}

// Authenticator resolves admin requests to authorized clients.
type Authenticator struct {
	sessions  session.Store
	cookies   sessions.Store
	scopes    []string
	newClient ClientFactory
	logger    *slog.Logger
	now       func() time.Time
}

// Admin is an authenticated request context: the shop, its session, and a
// client to query on its behalf.
type Admin struct {
	Shop    string
	Session *session.Session
	Client  cms.Querier
}

// New creates an Authenticator.
func New(cfg Config) *Authenticator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	newClient := cfg.NewClient
	if newClient == nil {
		apiVersion := cfg.APIVersion
		newClient = func(shop, token string) (cms.Querier, error) {
			return shopify.NewClient(shopify.Config{
				Shop:        shop,
				AccessToken: token,
				APIVersion:  apiVersion,
				Logger:      logger,
			})
		}
	}

	return &Authenticator{
		sessions:  cfg.Sessions,
		cookies:   cfg.Cookies,
		scopes:    cfg.Scopes,
		newClient: newClient,
		logger:    logger,
		now:       time.Now,
	}
}

// Admin authenticates r. A valid shop query parameter is remembered in the
// cookie so later navigation within the app keeps working without it.
func (a *Authenticator) Admin(w http.ResponseWriter, r *http.Request) (*Admin, error) {
	shop, err := a.resolveShop(w, r)
	if err != nil {
		return nil, err
	}
	return a.AdminForShop(r.Context(), shop)
}

// AdminForShop returns an Admin for a known shop, without touching cookies.
func (a *Authenticator) AdminForShop(ctx context.Context, shop string) (*Admin, error) {
	sess, err := a.sessions.Load(ctx, session.OfflineID(shop))
	if errors.Is(err, session.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotInstalled, shop)
	}
	if err != nil {
		return nil, err
	}
	if !sess.IsActive(a.scopes, a.now()) {
		a.logger.Warn("session is not active", "shop", shop, "scope", sess.Scope)
		return nil, fmt.Errorf("%w: %s (session expired or missing scopes)", ErrNotInstalled, shop)
	}

	client, err := a.newClient(shop, sess.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin client: %w", err)
	}

	return &Admin{Shop: shop, Session: sess, Client: client}, nil
}

func (a *Authenticator) resolveShop(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode still yields a usable empty session.
	cookie, err := a.cookies.Get(r, cookieName)
	if err != nil {
		a.logger.Debug("discarding unreadable session cookie", "error", err)
	}

	if shop := strings.TrimSpace(r.URL.Query().Get(shopKey)); shop != "" {
		shop = strings.ToLower(shop)
		if !ValidShop(shop) {
			return "", fmt.Errorf("%w: %q", ErrInvalidShop, shop)
		}
		if cookie != nil && cookie.Values[shopKey] != shop {
			cookie.Values[shopKey] = shop
			if err := cookie.Save(r, w); err != nil {
				a.logger.Warn("failed to save session cookie", "error", err)
			}
		}
		return shop, nil
	}

	if cookie != nil {
		if shop, ok := cookie.Values[shopKey].(string); ok && shop != "" {
			return shop, nil
		}
	}
	return "", ErrNoShop
}

// StatusCode maps an authentication error to an HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidShop):
		return http.StatusBadRequest
	case errors.Is(err, ErrNoShop), errors.Is(err, ErrNotInstalled):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
