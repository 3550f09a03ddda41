package services

import (
	"sync"
	"time"

	"github.com/MegaGrindStone/doc-chat-ui/internal/models"
)

// DefaultNotificationTTL is how long a notification stays up before clearing itself.
const DefaultNotificationTTL = 3 * time.Second

// Notifier keeps at most one live notification. A new Notify replaces the current one and
// restarts the expiry clock; there is no queue of pending notifications. The onChange hook
// fires with the new slot content, or nil when the slot empties.
type Notifier struct {
	ttl time.Duration

	mu       sync.Mutex
	current  *models.Notification
	timer    *time.Timer
	onChange func(*models.Notification)
}

// NewNotifier creates a Notifier with the given time-to-live per notification. A non-positive
// ttl falls back to the default.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl}
}

// OnChange registers the hook invoked whenever the slot content changes.
func (n *Notifier) OnChange(fn func(*models.Notification)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onChange = fn
}

// Notify replaces the live notification and arms a fresh expiry timer. The previous
// notification and its timer are discarded, so the new one gets the full ttl.
func (n *Notifier) Notify(message string, level models.NotificationLevel) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	cur := &models.Notification{Message: message, Level: level}
	n.current = cur
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(cur) })
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(cur)
	}
}

// Dismiss clears the live notification ahead of its expiry. It is a no-op when the slot is
// already empty.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	if n.current == nil {
		n.mu.Unlock()
		return
	}
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(nil)
	}
}

// Current returns the live notification, or nil when the slot is empty.
func (n *Notifier) Current() *models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Stop releases the expiry timer so it cannot fire against torn-down state. The onChange
// hook is not invoked.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.current = nil
}

func (n *Notifier) expire(cur *models.Notification) {
	n.mu.Lock()
	// A newer notification may have taken the slot after this timer was armed.
	if n.current != cur {
		n.mu.Unlock()
		return
	}
	n.current = nil
	n.timer = nil
	onChange := n.onChange
	n.mu.Unlock()

	if onChange != nil {
		onChange(nil)
	}
}
