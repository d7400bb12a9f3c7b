package domain

import "time"

// NotificationType is the severity of a notification.
type NotificationType string

const (
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
)

// Notification is a user-facing message held in process memory only.
type Notification struct {
	ID      string           `json:"id"`
	Type    NotificationType `json:"type"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
	Read    bool             `json:"read"`
}

// User is the profile kept in local session state.
type User struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Avatar     string `json:"avatar,omitempty"`
	Currency   string `json:"currency"`
	JoinedDate string `json:"joinedDate"`
}
