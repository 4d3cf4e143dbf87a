package mail

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/klede-lab/waitlist/pkg/email"
	"github.com/klede-lab/waitlist/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestNotifier_SendWelcomeEmail(t *testing.T) {
	sender := &testutil.MockSender{}
	n, err := NewNotifier(sender, "")
	require.NoError(t, err)

	require.NoError(t, n.SendWelcomeEmail(context.Background(), "user@example.com"))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, DefaultFrom, sent[0].From)
	require.Equal(t, []string{"user@example.com"}, sent[0].To)
	require.Equal(t, "Welcome to the Klede Waitlist!", sent[0].Subject)
	require.True(t, strings.Contains(sent[0].HTML, "<strong>user@example.com</strong>"))
}

func TestNotifier_SendPromotionalEmail_EscapesMessage(t *testing.T) {
	sender := &testutil.MockSender{}
	n, err := NewNotifier(sender, "Klede <hello@klede.com>")
	require.NoError(t, err)

	require.NoError(t, n.SendPromotionalEmail(context.Background(), "user@example.com", "<b>50% off</b>"))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, "Special Announcement from Klede", sent[0].Subject)
	require.True(t, strings.Contains(sent[0].HTML, "&lt;b&gt;50% off&lt;/b&gt;"))
}

func TestNotifier_SendLaunchEmail(t *testing.T) {
	sender := &testutil.MockSender{}
	n, err := NewNotifier(sender, "")
	require.NoError(t, err)

	require.NoError(t, n.SendLaunchEmail(context.Background(), "user@example.com"))
	require.True(t, strings.Contains(sender.Sent()[0].HTML, ShopURL))
}

func TestNotifier_SenderError(t *testing.T) {
	sender := &testutil.MockSender{
		SendFunc: func(context.Context, *email.Message) error { return errors.New("smtp down") },
	}
	n, err := NewNotifier(sender, "")
	require.NoError(t, err)

	require.Error(t, n.SendWelcomeEmail(context.Background(), "user@example.com"))
	require.Empty(t, sender.Sent())
}
