package email

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"
)

type smtpSender struct {
	addr string
	host string
	auth smtp.Auth

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(host, port, user, password string) *smtpSender {
	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, password, host)
	}

	return &smtpSender{
		addr:     net.JoinHostPort(host, port),
		host:     host,
		auth:     auth,
		sendMail: smtp.SendMail,
	}
}

func (s *smtpSender) Send(ctx context.Context, msg *Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	from, err := mail.ParseAddress(msg.From)
	if err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return s.sendMail(s.addr, s.auth, from.Address, msg.To, buildMIME(msg))
}

func buildMIME(msg *Message) []byte {
	boundary := fmt.Sprintf("waitlist-%d", time.Now().UnixNano())

	buf := bytes.NewBuffer(nil)
	fmt.Fprintf(buf, "From: %s\r\n", msg.From)
	fmt.Fprintf(buf, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(buf, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)

	if msg.Text != "" {
		fmt.Fprintf(buf, "--%s\r\n", boundary)
		fmt.Fprintf(buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n", msg.Text)
	}

	if msg.HTML != "" {
		fmt.Fprintf(buf, "--%s\r\n", boundary)
		fmt.Fprintf(buf, "Content-Type: text/html; charset=utf-8\r\n\r\n%s\r\n", msg.HTML)
	}

	fmt.Fprintf(buf, "--%s--\r\n", boundary)
	return buf.Bytes()
}
