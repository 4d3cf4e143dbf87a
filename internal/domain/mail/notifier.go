package mail

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/klede-lab/waitlist/internal/common"
	"github.com/klede-lab/waitlist/pkg/email"
	"github.com/klede-lab/waitlist/pkg/xcontext"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	DefaultFrom = `"Klede Waitlist" <no-reply@klede.com>`
	ShopURL     = "https://klede.com/shop"

	KindWelcome     = "welcome"
	KindPromotional = "promotional"
	KindLaunch      = "launch"
)

var subjects = map[string]string{
	KindWelcome:     "Welcome to the Klede Waitlist!",
	KindPromotional: "Special Announcement from Klede",
	KindLaunch:      "We're Live! Klede Collection Now Available",
}

type Notifier interface {
	SendWelcomeEmail(ctx context.Context, to string) error
	SendPromotionalEmail(ctx context.Context, to, message string) error
	SendLaunchEmail(ctx context.Context, to string) error
}

type templateData struct {
	Title   string
	Email   string
	Message string
	ShopURL string
	Year    int
}

type notifier struct {
	sender    email.Sender
	from      string
	templates map[string]*template.Template
}

func NewNotifier(sender email.Sender, from string) (*notifier, error) {
	if from == "" {
		from = DefaultFrom
	}

	templates := map[string]*template.Template{}
	for kind := range subjects {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+kind+".html")
		if err != nil {
			return nil, err
		}

		templates[kind] = tmpl
	}

	return &notifier{sender: sender, from: from, templates: templates}, nil
}

func (n *notifier) SendWelcomeEmail(ctx context.Context, to string) error {
	return n.send(ctx, KindWelcome, to, templateData{})
}

func (n *notifier) SendPromotionalEmail(ctx context.Context, to, message string) error {
	return n.send(ctx, KindPromotional, to, templateData{Message: message})
}

func (n *notifier) SendLaunchEmail(ctx context.Context, to string) error {
	return n.send(ctx, KindLaunch, to, templateData{ShopURL: ShopURL})
}

func (n *notifier) send(ctx context.Context, kind, to string, data templateData) error {
	data.Title = subjects[kind]
	data.Email = to
	data.Year = time.Now().Year()

	buf := bytes.NewBuffer(nil)
	if err := n.templates[kind].ExecuteTemplate(buf, "layout", data); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot render %s email: %v", kind, err)
		common.IncCounter(common.EmailsTotal, kind, "failure")
		return err
	}

	err := n.sender.Send(ctx, &email.Message{
		From:    n.from,
		To:      []string{to},
		Subject: subjects[kind],
		HTML:    buf.String(),
	})
	if err != nil {
		common.IncCounter(common.EmailsTotal, kind, "failure")
		return err
	}

	common.IncCounter(common.EmailsTotal, kind, "success")
	return nil
}
