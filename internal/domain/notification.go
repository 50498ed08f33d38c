package domain

import "time"

type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userID"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	IsRead    bool      `json:"isRead"`
	Link      string    `json:"link"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationEvent is the message published to the notification queue when
// the server creates a notification; the notifier worker turns it into mail.
type NotificationEvent struct {
	Notification Notification `json:"notification"`
	Email        string       `json:"email"`
	FullName     string       `json:"fullName"`
}
