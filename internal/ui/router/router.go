// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/metaview-labs/metaview/internal/auth"
	homeFeature "github.com/metaview-labs/metaview/internal/ui/features/home"
	metaobjectsFeature "github.com/metaview-labs/metaview/internal/ui/features/metaobjects"
	webhooksFeature "github.com/metaview-labs/metaview/internal/ui/features/webhooks"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
	"github.com/metaview-labs/metaview/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// Deps are the shared dependencies handed to feature routes.
type Deps struct {
	Authenticator *auth.Authenticator
	Notifier      *notifier.Notifier
	WebhookSecret string
	Logger        *slog.Logger
	IsDev         bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router)
	}

	router.Handle("/static/*", resources.Handler())

	if err := homeFeature.SetupRoutes(router, deps.IsDev); err != nil {
		return err
	}

	if err := metaobjectsFeature.SetupRoutes(router, deps.Authenticator, deps.Notifier, deps.Logger, deps.IsDev); err != nil {
		return err
	}

	if err := webhooksFeature.SetupRoutes(router, deps.WebhookSecret, deps.Notifier, deps.Logger); err != nil {
		return err
	}

	return nil
}

func setupReload(router chi.Router) {
	reloadChan := make(chan struct{}, 1)
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		select {
		case reloadChan <- struct{}{}:
		default:
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
