package metaobjects

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/metaview-labs/metaview/internal/auth"
	"github.com/metaview-labs/metaview/internal/cms"
	"github.com/metaview-labs/metaview/internal/ui/features/metaobjects/components"
	common "github.com/metaview-labs/metaview/internal/ui/features/common/components"
	"github.com/metaview-labs/metaview/internal/ui/notifier"
	"github.com/starfederation/datastar-go/datastar"
)

// AdminResolver authenticates a request and returns its shop's client.
type AdminResolver interface {
	Admin(w http.ResponseWriter, r *http.Request) (*auth.Admin, error)
}

// Handlers provides HTTP handlers for the metaobjects feature.
type Handlers struct {
	admins   AdminResolver
	notifier *notifier.Notifier
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(admins AdminResolver, notify *notifier.Notifier, logger *slog.Logger, isDev bool) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		admins:   admins,
		notifier: notify,
		logger:   logger,
		isDev:    isDev,
	}
}

// ListPage renders one page of entries of a type.
func (h *Handlers) ListPage(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	cursor := r.URL.Query().Get("cursor")

	admin, err := h.admins.Admin(w, r)
	if err != nil {
		h.fail(w, r, auth.StatusCode(err), err)
		return
	}

	table, err := cms.LoadList(r.Context(), admin.Client, handle, cursor)
	if err != nil {
		h.logger.Error("list load failed", "shop", admin.Shop, "type", handle, "error", err)
		h.fail(w, r, statusCode(err), err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, newListResponse(table))
		return
	}
	if err := components.ListPage(table, cursor, h.isDev).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// DetailPage renders a single entry.
func (h *Handlers) DetailPage(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	id := chi.URLParam(r, "id")

	admin, err := h.admins.Admin(w, r)
	if err != nil {
		h.fail(w, r, auth.StatusCode(err), err)
		return
	}

	view, err := cms.LoadDetail(r.Context(), admin.Client, id)
	if err != nil {
		h.logger.Error("detail load failed", "shop", admin.Shop, "id", id, "error", err)
		h.fail(w, r, statusCode(err), err)
		return
	}

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, DetailResponse{Metaobject: view.Entry, Fields: view.Fields})
		return
	}
	if err := components.DetailPage(handle, view, h.isDev).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListRows swaps in the page at the given cursor. The whole live wrapper is
// patched so its update stream follows the page now shown.
func (h *Handlers) ListRows(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	cursor := r.URL.Query().Get("cursor")

	// Authenticate before the SSE headers go out so the cookie can still be set.
	admin, authErr := h.admins.Admin(w, r)

	sse := datastar.NewSSE(w, r)
	if authErr != nil {
		_ = sse.PatchElementTempl(common.Banner(authErr.Error()))
		return
	}

	table, err := cms.LoadList(r.Context(), admin.Client, handle, cursor)
	if err != nil {
		h.logger.Error("list rows load failed", "shop", admin.Shop, "type", handle, "error", err)
		_ = sse.PatchElementTempl(common.Banner(err.Error()))
		return
	}

	if err := sse.PatchElementTempl(components.LiveList(table, cursor)); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ListUpdates is the long-lived SSE endpoint for the list page. It reloads
// the view whenever a webhook reports a change to this shop and type. It
// does not send an initial view; the page is already rendered by ListPage.
func (h *Handlers) ListUpdates(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	cursor := r.URL.Query().Get("cursor")

	admin, authErr := h.admins.Admin(w, r)

	sse := datastar.NewSSE(w, r)
	if authErr != nil {
		_ = sse.ConsoleError(authErr)
		return
	}

	updates := h.notifier.Subscribe(admin.Shop, handle)
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			table, err := cms.LoadList(ctx, admin.Client, handle, cursor)
			if err != nil {
				h.logger.Warn("list refresh failed", "shop", admin.Shop, "type", handle, "error", err)
				_ = sse.PatchElementTempl(common.Banner(err.Error()))
				continue
			}
			if err := sse.PatchElementTempl(components.ListView(table)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	if wantsJSON(r) {
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if rerr := common.ErrorPage(status, err.Error(), h.isDev).Render(r.Context(), w); rerr != nil {
		h.logger.Error("failed to render error page", "error", rerr)
	}
}

// statusCode maps a loader error to an HTTP status. Anything the loader
// could not attribute to the request itself is a server error.
func statusCode(err error) int {
	switch {
	case errors.Is(err, cms.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, cms.ErrInvalidID), errors.Is(err, cms.ErrInvalidType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func wantsJSON(r *http.Request) bool {
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && mediaType == "application/json" {
			return true
		}
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
