package chat

import "time"

// Turn roles. The log only ever holds these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message persists a single turn of an attendee's exchange with the
// assistant. Messages are append-only; nothing updates or deletes them.
type Message struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
