// Package shopify provides a Shopify Admin GraphQL client for metaobject reads.
package shopify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"github.com/metaview-labs/metaview/internal/cms"
)

// DefaultAPIVersion is the Admin API version used when none is configured.
const DefaultAPIVersion = "2024-10"

const accessTokenHeader = "X-Shopify-Access-Token"

var (
	// ErrMissingShop is returned when a client is built without a shop domain.
	ErrMissingShop = errors.New("shop domain is required")

	// ErrMissingToken is returned when a client is built without an access token.
	ErrMissingToken = errors.New("access token is required")
)

// Config holds the settings for an Admin API client.
type Config struct {
	Shop        string
	AccessToken string
	APIVersion  string
	// Endpoint overrides the URL derived from Shop and APIVersion.
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client issues authorized Admin API queries for a single shop.
type Client struct {
	gql      *graphql.Client
	shop     string
	token    string
	endpoint string
	logger   *slog.Logger
}

var _ cms.Querier = (*Client)(nil)

// Endpoint returns the Admin GraphQL URL for a shop and API version.
func Endpoint(shop, apiVersion string) string {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return fmt.Sprintf("https://%s/admin/api/%s/graphql.json", shop, apiVersion)
}

// NewClient creates a client bound to one shop and access token.
func NewClient(cfg Config) (*Client, error) {
	shop := strings.TrimSpace(cfg.Shop)
	if shop == "" {
		return nil, ErrMissingShop
	}
	if cfg.AccessToken == "" {
		return nil, ErrMissingToken
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = Endpoint(shop, cfg.APIVersion)
	}

	gql := graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient))
	gql.Log = func(s string) { logger.Debug(s, "shop", shop) }

	return &Client{
		gql:      gql,
		shop:     shop,
		token:    cfg.AccessToken,
		endpoint: endpoint,
		logger:   logger,
	}, nil
}

// Shop returns the shop domain the client is bound to.
func (c *Client) Shop() string {
	return c.shop
}

func (c *Client) run(ctx context.Context, op string, req *graphql.Request, resp any) error {
	req.Header.Set(accessTokenHeader, c.token)

	start := time.Now()
	err := c.gql.Run(ctx, req, resp)
	c.logger.Debug("admin query",
		slog.String("op", op),
		slog.String("shop", c.shop),
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("ok", err == nil),
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListMetaobjects fetches up to first entries of a type after cursor,
// together with the type's field definitions.
func (c *Client) ListMetaobjects(ctx context.Context, typ, cursor string, first int) (*cms.ListResult, error) {
	req := graphql.NewRequest(listMetaobjectsQuery)
	req.Var("type", typ)
	req.Var("first", first)
	if cursor != "" {
		req.Var("cursor", cursor)
	} else {
		req.Var("cursor", nil)
	}

	var resp listResponse
	if err := c.run(ctx, "GetMetaobjects", req, &resp); err != nil {
		return nil, err
	}
	return resp.toListResult()
}

// GetMetaobject fetches a single entry by global id.
func (c *Client) GetMetaobject(ctx context.Context, gid string) (*cms.DetailEntry, error) {
	req := graphql.NewRequest(getMetaobjectQuery)
	req.Var("id", gid)

	var resp detailResponse
	if err := c.run(ctx, "GetMetaobject", req, &resp); err != nil {
		return nil, err
	}
	return resp.toDetailEntry()
}
