// Package metaobjects provides the metaobject list and detail pages.
package metaobjects

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
)

// SetupRoutes configures routes for the metaobjects feature.
func SetupRoutes(
	router chi.Router,
	admins AdminResolver,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(admins, notify, logger, isDev)

	router.Route("/app/cms/{handle}", func(r chi.Router) {
		r.Get("/", handlers.ListPage)
		r.Get("/rows", handlers.ListRows)
		r.Get("/updates", handlers.ListUpdates)
		r.Get("/{id}", handlers.DetailPage)
	})

	return nil
}
