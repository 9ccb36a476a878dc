// Package notify holds the ephemeral queue of user-facing status messages.
// Entries auto-expire after their display duration plus a fixed animation
// grace period; nothing here is persisted and the queue is empty at every
// process start.
package notify

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/kimhsiao/promptvault/internal/uuid"
)

// Kind classifies a notification for the UI.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// DefaultDuration is the display time used when callers pass zero.
const DefaultDuration = 3 * time.Second

// animationGrace is added to the display duration before removal so the
// UI's exit animation can finish while the entry still exists.
const animationGrace = 300 * time.Millisecond

// Notification is a single queued status message.
type Notification struct {
	ID       string
	Message  string
	Kind     Kind
	Duration time.Duration
}

// notificationJSON is the wire shape. Duration crosses as integer
// milliseconds, the unit the UI's toast timings are written in.
type notificationJSON struct {
	ID         string `json:"id"`
	Message    string `json:"message"`
	Kind       Kind   `json:"kind"`
	DurationMs int64  `json:"durationMs"`
}

// MarshalJSON implements json.Marshaler.
func (n Notification) MarshalJSON() ([]byte, error) {
	return json.Marshal(notificationJSON{
		ID:         n.ID,
		Message:    n.Message,
		Kind:       n.Kind,
		DurationMs: n.Duration.Milliseconds(),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Notification) UnmarshalJSON(data []byte) error {
	var raw notificationJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = Notification{
		ID:       raw.ID,
		Message:  raw.Message,
		Kind:     raw.Kind,
		Duration: time.Duration(raw.DurationMs) * time.Millisecond,
	}
	return nil
}

// Queue is an auto-expiring notification list.
type Queue struct {
	mu       sync.Mutex
	entries  []Notification
	timers   map[string]*time.Timer
	grace    time.Duration
	onChange func([]Notification)
}

// NewQueue creates an empty queue. onChange, if non-nil, receives the
// current entries after every mutation.
func NewQueue(onChange func([]Notification)) *Queue {
	return &Queue{
		timers:   make(map[string]*time.Timer),
		grace:    animationGrace,
		onChange: onChange,
	}
}

// SetGrace overrides the animation grace period. Tests only.
func (q *Queue) SetGrace(d time.Duration) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.grace = d
}

// Post appends a notification and schedules its expiry when duration is
// positive. A non-positive duration pins the entry until dismissed.
// Returns the entry id so a caller may dismiss it early.
func (q *Queue) Post(message string, kind Kind, duration time.Duration) string {
	q.mu.Lock()

	n := Notification{
		ID:       uuid.NewShort(),
		Message:  message,
		Kind:     kind,
		Duration: duration,
	}
	q.entries = append(q.entries, n)

	if duration > 0 {
		id := n.ID
		q.timers[id] = time.AfterFunc(duration+q.grace, func() {
			q.Dismiss(id)
		})
	}

	entries := q.snapshot()
	callback := q.onChange
	q.mu.Unlock()

	if callback != nil {
		callback(entries)
	}
	return n.ID
}

// Success posts a success notification with the default duration.
func (q *Queue) Success(message string) string {
	return q.Post(message, KindSuccess, DefaultDuration)
}

// Error posts an error notification with the default duration.
func (q *Queue) Error(message string) string {
	return q.Post(message, KindError, DefaultDuration)
}

// Warning posts a warning notification with the default duration.
func (q *Queue) Warning(message string) string {
	return q.Post(message, KindWarning, DefaultDuration)
}

// Info posts an info notification with the default duration.
func (q *Queue) Info(message string) string {
	return q.Post(message, KindInfo, DefaultDuration)
}

// Dismiss removes the entry immediately, regardless of its scheduled
// expiry. Unknown ids are ignored.
func (q *Queue) Dismiss(id string) {
	q.mu.Lock()

	if timer, ok := q.timers[id]; ok {
		timer.Stop()
		delete(q.timers, id)
	}

	kept := q.entries[:0:0]
	for _, n := range q.entries {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	q.entries = kept

	entries := q.snapshot()
	callback := q.onChange
	q.mu.Unlock()

	if callback != nil {
		callback(entries)
	}
}

// Clear removes all entries and cancels their expiry timers.
func (q *Queue) Clear() {
	q.mu.Lock()

	for id, timer := range q.timers {
		timer.Stop()
		delete(q.timers, id)
	}
	q.entries = nil

	callback := q.onChange
	q.mu.Unlock()

	if callback != nil {
		callback([]Notification{})
	}
}

// Entries returns the current notifications, oldest first.
func (q *Queue) Entries() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshot()
}

// snapshot copies the entry list. The caller holds q.mu.
func (q *Queue) snapshot() []Notification {
	out := make([]Notification, len(q.entries))
	copy(out, q.entries)
	return out
}
