package email

import (
	"context"
	"strings"

	"github.com/klede-lab/waitlist/pkg/xcontext"
)

// logSender only writes the message to the logger. It is the development
// transport.
type logSender struct{}

func NewLogSender() *logSender {
	return &logSender{}
}

func (s *logSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	xcontext.Logger(ctx).Infof("Email from %s to %s: %s",
		msg.From, strings.Join(msg.To, ","), msg.Subject)
	return nil
}
