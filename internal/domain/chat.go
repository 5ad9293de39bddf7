package domain

import "time"

// Sender identifies which side of the conversation produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// ChatMessage is one append-only transcript row.
type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Text      string    `json:"message"`
	Sender    Sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}
