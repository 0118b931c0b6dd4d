// Package webhooks receives Shopify metaobject webhooks and pushes live
// refreshes to open list pages.
package webhooks

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
)

// SetupRoutes configures routes for the webhooks feature.
func SetupRoutes(router chi.Router, secret string, notify *notifier.Notifier, logger *slog.Logger) error {
	handlers := NewHandlers(secret, notify, logger)

	router.Post("/webhooks/metaobjects", handlers.Metaobjects)

	return nil
}
