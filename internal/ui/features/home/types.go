// Package home provides the landing page and the type picker.
package home

// LandingData holds what the landing page needs to render.
type LandingData struct {
	Shop string
	Type string
}
