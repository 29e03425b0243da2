package domain

import "time"

// NotificationType identifies what happened to an account.
type NotificationType string

// Notification types
const (
	NotificationEntryAdded       NotificationType = "entry.added"
	NotificationEntryRemoved     NotificationType = "entry.removed"
	NotificationEntryCorrected   NotificationType = "entry.corrected"
	NotificationDocumentReversed NotificationType = "document.reversed"
	NotificationRoleGranted      NotificationType = "role.granted"
	NotificationRoleRevoked      NotificationType = "role.revoked"
)

// Notification is a structured account event emitted after a committed ledger change.
// It is rendered to text in the holder's locale before delivery.
type Notification struct {
	Type           NotificationType
	AccountID      string
	ChatID         int64
	Locale         string
	Kind           Kind
	Amount         int64
	PreviousAmount int64
	Balance        int64
	DocumentID     string
	Description    string
	Role           Role
	CreatedAt      time.Time
}

// Message is a rendered notification ready for a transport.
type Message struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	AccountID string    `json:"account_id"`
	ChatID    int64     `json:"chat_id"`
	Locale    string    `json:"locale"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
