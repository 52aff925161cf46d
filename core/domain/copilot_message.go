package domain

import (
	"strings"
	"time"

	"copilot_server/pkg/apperr"
)

// IncomingMessage is one customer communication to triage. Immutable input.
type IncomingMessage struct {
	From       string    `json:"from"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
	ReceivedAt time.Time `json:"received_at"`
}

// Validate checks that the message carries analyzable content.
func (m *IncomingMessage) Validate() error {
	if m == nil {
		return apperr.MissingField("message")
	}
	if strings.TrimSpace(m.Body) == "" {
		return apperr.InvalidInput("body", "message body is empty")
	}
	return nil
}
