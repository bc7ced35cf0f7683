package entity

import "time"

type AttachmentKind string

const (
	AttachmentImage AttachmentKind = "image"
	AttachmentLink  AttachmentKind = "link"
)

func (k AttachmentKind) Valid() bool {
	return k == AttachmentImage || k == AttachmentLink
}

type Attachment struct {
	Type AttachmentKind `json:"type"`
	URL  string         `json:"url"`
}

// ChatMessage belongs to one event and is authored by one identity.
// The log is append-only.
type ChatMessage struct {
	ID          string       `json:"id"`
	EventID     string       `json:"eventId"`
	UserID      string       `json:"userId"`
	Content     string       `json:"content"`
	Timestamp   time.Time    `json:"timestamp"`
	Attachments []Attachment `json:"attachments,omitempty"`
}
