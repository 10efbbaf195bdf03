// Package mailer sends the dataset generation run report. Generation
// runs take hours and usually run unattended, so the summary goes out
// by mail instead of scrolling past in a log.
package mailer

import (
	"bytes"
	"context"
	"text/template"
	"time"

	"github.com/wneessen/go-mail"
)

const reportTemplate = `Verse dataset generation finished.

Language:        {{.Lang}}
Started:         {{.StartedAt.Format "2006-01-02 15:04:05 MST"}}
Duration:        {{.Duration}}
Books processed: {{.BooksProcessed}}
Chapters:        {{.ChaptersFetched}} fetched, {{.ChaptersSkipped}} already present
Verses written:  {{.VersesWritten}}
{{if .Failures}}
Failures:
{{range .Failures}}  - {{.}}
{{end}}{{end}}`

// RunReport summarises one generation run.
type RunReport struct {
	Lang            string
	StartedAt       time.Time
	Duration        time.Duration
	BooksProcessed  int
	ChaptersFetched int
	ChaptersSkipped int
	VersesWritten   int
	Failures        []string
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Sender   string
}

type Mailer struct {
	client *mail.Client
	sender string
	tmpl   *template.Template
}

func New(cfg Config) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(10*time.Second),
	)
	if err != nil {
		return nil, newNetworkError("client setup", err)
	}

	tmpl := template.Must(template.New("report").Parse(reportTemplate))

	return &Mailer{client: client, sender: cfg.Sender, tmpl: tmpl}, nil
}

// SendRunReport mails the report to the recipient.
func (m *Mailer) SendRunReport(ctx context.Context, recipient string, report RunReport) error {
	var body bytes.Buffer
	if err := m.tmpl.Execute(&body, report); err != nil {
		return newTemplateError("report", err)
	}

	msg := mail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return newRecipientError(m.sender, err)
	}
	if err := msg.To(recipient); err != nil {
		return newRecipientError(recipient, err)
	}
	msg.Subject("Verse dataset generation report: " + report.Lang)
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return newNetworkError("send", err)
	}
	return nil
}
