// Package ui serves the metaobject admin web interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/metaview-labs/metaview/internal/auth"
	"github.com/metaview-labs/metaview/internal/session"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
	"github.com/metaview-labs/metaview/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

// Server is the admin UI server.
type Server struct {
	authenticator *auth.Authenticator
	webhookSecret string
	port          int
	dev           bool
	logger        *slog.Logger
	notifier      *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Sessions      session.Store
	Port          int
	SessionSecret string
	// AppURL is the public URL the Shopify admin embeds. An https URL
	// switches the shop cookie to SameSite=None so it survives the iframe.
	AppURL string
	// APISecret signs incoming webhooks.
	APISecret  string
	Scopes     []string
	APIVersion string
	Dev        bool
	Logger     *slog.Logger
	// NewClient overrides the Admin API client, mainly for tests.
	NewClient auth.ClientFactory
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cookieStore := newCookieStore(cfg.SessionSecret, cfg.AppURL)

	authn := auth.New(auth.Config{
		Sessions:   cfg.Sessions,
		Cookies:    cookieStore,
		Scopes:     cfg.Scopes,
		APIVersion: cfg.APIVersion,
		Logger:     logger,
		NewClient:  cfg.NewClient,
	})

	return &Server{
		authenticator: authn,
		webhookSecret: cfg.APISecret,
		port:          cfg.Port,
		dev:           cfg.Dev,
		logger:        logger,
		notifier:      notifier.New(),
	}
}

// newCookieStore builds the shop cookie store. Browsers only send cookies
// inside the admin iframe when they are SameSite=None and Secure, which
// requires https; plain http keeps Lax.
func newCookieStore(secret, appURL string) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.MaxAge(86400 * 30) // 30 days
	store.Options.Path = "/"
	store.Options.HttpOnly = true
	store.Options.SameSite = http.SameSiteLaxMode

	if u, err := url.Parse(appURL); err == nil && u.Scheme == "https" {
		store.Options.SameSite = http.SameSiteNoneMode
		store.Options.Secure = true
	}
	return store
}

// Handler builds the routed HTTP handler.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Authenticator: s.authenticator,
		Notifier:      s.notifier,
		WebhookSecret: s.webhookSecret,
		Logger:        s.logger,
		IsDev:         s.dev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	handler, err := s.Handler()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", s.port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.serve(ctx, lis, handler)
}

func (s *Server) serve(ctx context.Context, lis net.Listener, handler http.Handler) error {
	s.logger.Info("starting UI server", "addr", "http://"+lis.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev reports whether dev-only routes such as hot reload are enabled.
func (s *Server) IsDev() bool {
	return s.dev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}
