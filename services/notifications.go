package services

import (
	"sync"
	"time"
)

type NotificationKind string

const (
	NotifyRegistration NotificationKind = "registration"
	NotifyEnrollment   NotificationKind = "enrollment"
	NotifyBadge        NotificationKind = "badge"
	NotifyApproval     NotificationKind = "approval"
	NotifyPlan         NotificationKind = "plan"
	NotifyPayment      NotificationKind = "payment"
)

// Notification is a message shown to one user, e.g. a badge unlock.
type Notification struct {
	Seq       int64            `json:"seq"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Level     string           `json:"level"`
	Message   string           `json:"message"`
	CreatedAt time.Time        `json:"created_at"`
}

const defaultNotificationBacklog = 50

// NotificationHub keeps a bounded per-user backlog that readers page through
// with a sequence cursor.
type NotificationHub struct {
	mu      sync.RWMutex
	byUser  map[string][]Notification
	seq     int64
	backlog int
}

func NewNotificationHub(backlog int) *NotificationHub {
	if backlog <= 0 {
		backlog = defaultNotificationBacklog
	}
	return &NotificationHub{byUser: make(map[string][]Notification), backlog: backlog}
}

func (h *NotificationHub) Publish(userID string, kind NotificationKind, level, message string) Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seq++
	n := Notification{
		Seq:       h.seq,
		UserID:    userID,
		Kind:      kind,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	}
	list := append(h.byUser[userID], n)
	if len(list) > h.backlog {
		list = list[len(list)-h.backlog:]
	}
	h.byUser[userID] = list
	return n
}

// Since returns the user's notifications with Seq greater than after, oldest first.
func (h *NotificationHub) Since(userID string, after int64) []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()
	var out []Notification
	for _, n := range h.byUser[userID] {
		if n.Seq > after {
			out = append(out, n)
		}
	}
	return out
}

// Latest returns the newest sequence number delivered to the user, or 0.
func (h *NotificationHub) Latest(userID string) int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	list := h.byUser[userID]
	if len(list) == 0 {
		return 0
	}
	return list[len(list)-1].Seq
}
