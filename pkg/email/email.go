package email

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
)

type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// Validate checks that the message has a sender, at least one recipient and
// that every address can be parsed.
func (m *Message) Validate() error {
	if _, err := mail.ParseAddress(m.From); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.From, err)
	}

	if len(m.To) == 0 {
		return fmt.Errorf("no recipient")
	}

	for _, to := range m.To {
		if _, err := mail.ParseAddress(to); err != nil {
			return fmt.Errorf("invalid recipient %q: %w", to, err)
		}
	}

	if strings.TrimSpace(m.Subject) == "" {
		return fmt.Errorf("empty subject")
	}

	return nil
}
