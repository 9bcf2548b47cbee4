package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageSender identifies which side of a coaching thread sent a message
type MessageSender string

// Valid message senders
const (
	SenderMember MessageSender = "member"
	SenderCoach  MessageSender = "coach"
)

// IsValid reports whether s is a known sender value
func (s MessageSender) IsValid() bool {
	return s == SenderMember || s == SenderCoach
}

// Message is one entry in the coaching thread between a member and their
// coach. The thread is keyed by the member's profile ID.
type Message struct {
	ID        uuid.UUID     `json:"id"`
	ProfileID uuid.UUID     `json:"profile_id"`
	Sender    MessageSender `json:"sender"`
	Body      string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}
