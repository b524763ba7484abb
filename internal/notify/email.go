package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v2"
)

var newLeadEmail = template.Must(template.New("new-lead").Parse(`<h2>New Quote Request</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Phone:</strong> {{.Phone}}</p>
<p><strong>Address:</strong> {{.Address}}</p>
{{- if .Message}}
<p><strong>Message:</strong></p>
<p>{{.Message}}</p>
{{- end}}
{{- if .ImageURLs}}
<p><strong>Photos ({{.ImageCount}}):</strong></p>
{{- range .ImageURLs}}
<p><a href="{{.}}"><img src="{{.}}" alt="Quote photo" style="max-width:400px"></a></p>
{{- end}}
{{- end}}
`))

// EmailEmitter sends new-lead alerts through the Resend API.
type EmailEmitter struct {
	client *resend.Client
	from   string
	to     string
}

// NewEmailEmitter creates an EmailEmitter sending from from to to.
func NewEmailEmitter(apiKey, from, to string) *EmailEmitter {
	return &EmailEmitter{client: resend.NewClient(apiKey), from: from, to: to}
}

func (e *EmailEmitter) NotifyNewLead(ctx context.Context, lead NewLead) error {
	html, err := renderNewLeadEmail(lead)
	if err != nil {
		return err
	}
	_, err = e.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    e.from,
		To:      []string{e.to},
		Subject: newLeadSubject(lead),
		Html:    html,
		ReplyTo: lead.Email,
	})
	if err != nil {
		return fmt.Errorf("send new lead email: %w", err)
	}
	return nil
}

func newLeadSubject(lead NewLead) string {
	return "New Quote Request from " + lead.Name
}

func renderNewLeadEmail(lead NewLead) (string, error) {
	var buf bytes.Buffer
	if err := newLeadEmail.Execute(&buf, lead); err != nil {
		return "", fmt.Errorf("render new lead email: %w", err)
	}
	return buf.String(), nil
}
