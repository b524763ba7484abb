package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSEmitter texts new-lead alerts through Twilio.
type SMSEmitter struct {
	client *twilio.RestClient
	from   string
	to     string
}

// NewSMSEmitter creates an SMSEmitter for the given Twilio account.
func NewSMSEmitter(accountSID, authToken, from, to string) *SMSEmitter {
	return &SMSEmitter{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
		to:   to,
	}
}

// NotifyNewLead sends the alert. The Twilio client takes no context, so ctx
// is only checked before the request.
func (e *SMSEmitter) NotifyNewLead(ctx context.Context, lead NewLead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(e.to)
	params.SetFrom(e.from)
	params.SetBody(newLeadSMS(lead))

	if _, err := e.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send new lead sms: %w", err)
	}
	return nil
}

func newLeadSMS(lead NewLead) string {
	body := fmt.Sprintf("New quote request: %s, %s, %s", lead.Name, lead.Phone, lead.Address)
	if lead.ImageCount > 0 {
		body += fmt.Sprintf(" (%d photos)", lead.ImageCount)
	}
	return body
}
