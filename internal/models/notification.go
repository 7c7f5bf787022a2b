package models

// Notification types as emitted by the server.
const (
	NotificationShare  = "SHARE"
	NotificationSystem = "SYSTEM"
	NotificationAlert  = "ALERT"
)

// Notification is one entry of the polled notification feed.
type Notification struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Message    string `json:"message"`
	Type       string `json:"type"`
	IsRead     bool   `json:"isRead"`
	ActionLink string `json:"actionLink,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// UnreadCount is the response of the unread-count endpoint.
type UnreadCount struct {
	Count int `json:"count"`
}
