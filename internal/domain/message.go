// Package domain contains entity without logic, just meta-data
package domain

import (
	"time"

	"github.com/google/uuid"
)

type MessageID string

// Message is a single chat line in a room's history.
// Immutable once appended; the server stamps id and timestamp.
type Message struct {
	ID         MessageID `json:"id"`
	Content    string    `json:"content"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewMessage avoids ad-hoc struct literals in adapters. Content is opaque,
// no size or content validation here.
func NewMessage(content, senderID, senderName string) Message {
	return Message{
		ID:         MessageID(uuid.NewString()),
		Content:    content,
		SenderID:   senderID,
		SenderName: senderName,
		Timestamp:  time.Now(),
	}
}
