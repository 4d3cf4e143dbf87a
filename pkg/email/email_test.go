package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func testMessage() *Message {
	return &Message{
		From:    `"Klede Waitlist" <no-reply@klede.com>`,
		To:      []string{"user@example.com"},
		Subject: "Welcome to the Klede Waitlist!",
		HTML:    "<p>hello</p>",
	}
}

func TestMessage_Validate(t *testing.T) {
	require.NoError(t, testMessage().Validate())

	msg := testMessage()
	msg.To = nil
	require.Error(t, msg.Validate())

	msg = testMessage()
	msg.To = []string{"not an address"}
	require.Error(t, msg.Validate())

	msg = testMessage()
	msg.Subject = " "
	require.Error(t, msg.Validate())
}

func TestSMTPSender_Send(t *testing.T) {
	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte

	sender := NewSMTPSender("smtp.example.com", "587", "user", "pass")
	sender.sendMail = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, sender.Send(context.Background(), testMessage()))
	require.Equal(t, "smtp.example.com:587", gotAddr)
	require.Equal(t, "no-reply@klede.com", gotFrom)
	require.Equal(t, []string{"user@example.com"}, gotTo)
	require.True(t, strings.Contains(string(gotMsg), "Content-Type: text/html"))
	require.True(t, strings.Contains(string(gotMsg), "<p>hello</p>"))
}

func TestResendSender_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/emails" || r.Header.Get("Authorization") != "Bearer re_123" ||
			r.Header.Get("User-Agent") != "klede-waitlist" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"unauthorized"}`))
			return
		}

		var body struct {
			From    string   `json:"from"`
			To      []string `json:"to"`
			Subject string   `json:"subject"`
			HTML    string   `json:"html"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.To) != 1 {
			w.WriteHeader(http.StatusUnprocessableEntity)
			w.Write([]byte(`{"message":"invalid"}`))
			return
		}

		w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer server.Close()

	require.NoError(t, NewResendSender(server.URL, "re_123").Send(context.Background(), testMessage()))

	err := NewResendSender(server.URL, "wrong").Send(context.Background(), testMessage())
	require.EqualError(t, err, "resend responded 401: unauthorized")
}

func TestResendSender_Send_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	require.Error(t, NewResendSender(server.URL, "re_123").Send(context.Background(), testMessage()))
}

func TestLogSender_Send(t *testing.T) {
	require.NoError(t, NewLogSender().Send(context.Background(), testMessage()))
}
