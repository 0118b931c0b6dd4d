package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/metaview-labs/metaview/internal/ui/notifier"
)

// Webhook request headers set by Shopify.
const (
	HeaderHMAC  = "X-Shopify-Hmac-Sha256"
	HeaderTopic = "X-Shopify-Topic"
	HeaderShop  = "X-Shopify-Shop-Domain"
)

const maxBodyBytes = 1 << 20

// Handlers provides HTTP handlers for the webhooks feature.
type Handlers struct {
	secret   []byte
	notifier *notifier.Notifier
	logger   *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(secret string, notify *notifier.Notifier, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		secret:   []byte(secret),
		notifier: notify,
		logger:   logger,
	}
}

// payload is the part of a metaobjects/* webhook body used for routing.
type payload struct {
	Type string `json:"type"`
}

// Metaobjects accepts metaobjects/* topics and refreshes the list pages
// showing the changed shop and type.
func (h *Handlers) Metaobjects(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	if len(h.secret) == 0 || !Verify(h.secret, body, r.Header.Get(HeaderHMAC)) {
		h.logger.Warn("rejected webhook with bad signature", "shop", r.Header.Get(HeaderShop))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	topic := r.Header.Get(HeaderTopic)
	if !strings.HasPrefix(topic, "metaobjects/") {
		h.logger.Debug("ignoring webhook topic", "topic", topic)
		w.WriteHeader(http.StatusOK)
		return
	}

	shop := strings.ToLower(strings.TrimSpace(r.Header.Get(HeaderShop)))
	if shop == "" {
		http.Error(w, "missing shop domain", http.StatusBadRequest)
		return
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		// Still signed by Shopify; refresh every type of the shop.
		h.logger.Warn("unparseable webhook payload", "topic", topic, "shop", shop, "error", err)
	}

	matched := h.notifier.Broadcast(notifier.Change{Shop: shop, Type: p.Type})
	h.logger.Info("metaobject webhook", "topic", topic, "shop", shop, "type", p.Type, "listeners", matched)
	w.WriteHeader(http.StatusOK)
}

// Sign returns the base64 HMAC-SHA256 of body, as sent in HeaderHMAC.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature is the HMAC of body under secret.
func Verify(secret, body []byte, signature string) bool {
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
