package home

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the home feature.
func SetupRoutes(router chi.Router, isDev bool) error {
	handlers := NewHandlers(isDev)

	router.Get("/", handlers.Root)
	router.Get("/app", handlers.LandingPage)
	router.Get("/app/cms", handlers.OpenType)

	return nil
}
