package email

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/klede-lab/waitlist/pkg/api"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

const (
	DefaultResendEndpoint = "https://api.resend.com"

	resendUserAgent = "klede-waitlist"
	resendTimeout   = 10 * time.Second
)

// resendSender delivers messages through a Resend compatible HTTP API.
type resendSender struct {
	apiKey    string
	generator api.Generator
	client    *http.Client
}

func NewResendSender(endpoint, apiKey string) *resendSender {
	if endpoint == "" {
		endpoint = DefaultResendEndpoint
	}

	return &resendSender{
		apiKey:    apiKey,
		generator: api.NewGenerator(endpoint),
		client:    &http.Client{Timeout: resendTimeout},
	}
}

func (s *resendSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	to := []any{}
	for _, addr := range msg.To {
		to = append(to, addr)
	}

	body := api.JSON{
		"from":    msg.From,
		"to":      to,
		"subject": msg.Subject,
	}

	if msg.HTML != "" {
		body["html"] = msg.HTML
	}

	if msg.Text != "" {
		body["text"] = msg.Text
	}

	ctx = xcontext.WithHTTPClient(ctx, s.client)
	resp, err := s.generator.New("/emails").
		Header("User-Agent", resendUserAgent).
		Body(body).
		POST(ctx, api.BearerAuth(s.apiKey))
	if err != nil {
		return err
	}

	result, err := resp.JSON()
	if err != nil {
		return err
	}

	if resp.Code != http.StatusOK && resp.Code != http.StatusCreated {
		reason, err := result.GetString("message")
		if err != nil || reason == "" {
			reason = string(resp.RawBody)
		}

		return fmt.Errorf("resend responded %d: %s", resp.Code, reason)
	}

	id, err := result.GetString("id")
	if err != nil {
		return fmt.Errorf("resend response has no email id: %w", err)
	}

	xcontext.Logger(ctx).Debugf("Email %s accepted by resend", id)
	return nil
}
