package model

import (
	"time"
)

// isoLayout matches the millisecond UTC form browsers produce for toISOString.
const isoLayout = "2006-01-02T15:04:05.000Z07:00"

// Message is one captured submission. Empty strings mean the field was not sent.
type Message struct {
	ID              string    `json:"id"`
	ReceivedAt      time.Time `json:"received_at"`
	From            string    `json:"from,omitempty"`
	To              string    `json:"to,omitempty"`
	Cc              string    `json:"cc,omitempty"`
	Bcc             string    `json:"bcc,omitempty"`
	Subject         string    `json:"subject,omitempty"`
	TextBody        string    `json:"text,omitempty"`
	HTMLBody        string    `json:"html,omitempty"`
	AttachmentNames []string  `json:"attachment_names"`
}

func NewMessage(id string, receivedAt time.Time) *Message {
	return &Message{
		ID:              id,
		ReceivedAt:      receivedAt,
		AttachmentNames: []string{},
	}
}

// Timestamp returns ReceivedAt as an ISO-8601 string in UTC.
func (m *Message) Timestamp() string {
	return m.ReceivedAt.UTC().Format(isoLayout)
}

// Clone returns a copy that shares no mutable state with m.
func (m *Message) Clone() Message {
	c := *m
	c.AttachmentNames = append([]string{}, m.AttachmentNames...)
	return c
}
