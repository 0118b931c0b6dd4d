// Package notifier fans out "metaobjects changed" pings to open list pages.
package notifier

import "sync"

// Change describes what a webhook touched. An empty Type means the payload
// did not name one, so every type of the shop is considered stale.
type Change struct {
	Shop string
	Type string
}

// Notifier delivers refresh signals to the SSE streams showing the changed
// shop and metaobject type. A ping carries no payload.
type Notifier struct {
	mu        sync.RWMutex
	listeners map[chan struct{}]Change
}

// New creates a new Notifier instance.
func New() *Notifier {
	return &Notifier{
		listeners: make(map[chan struct{}]Change),
	}
}

// Subscribe returns a channel that is pinged on every Broadcast matching
// shop and typ. The caller must call Unsubscribe when its stream ends.
func (n *Notifier) Subscribe(shop, typ string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.listeners[ch] = Change{Shop: shop, Type: typ}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	if _, ok := n.listeners[ch]; ok {
		delete(n.listeners, ch)
		close(ch)
	}
	n.mu.Unlock()
}

// Listeners returns the number of open subscriptions.
func (n *Notifier) Listeners() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.listeners)
}

// Broadcast pings the listeners interested in c without blocking and
// returns how many were matched. A listener that already has a ping pending
// is skipped; it reloads once for both.
func (n *Notifier) Broadcast(c Change) int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	matched := 0
	for ch, sub := range n.listeners {
		if !sub.matches(c) {
			continue
		}
		matched++
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return matched
}

func (sub Change) matches(c Change) bool {
	if sub.Shop != c.Shop {
		return false
	}
	return c.Type == "" || sub.Type == c.Type
}
