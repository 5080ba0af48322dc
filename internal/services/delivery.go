package services

import (
	"fmt"
	"html"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/kinnetikdevelopers-hub/almubarak/internal/models"
	"github.com/kinnetikdevelopers-hub/almubarak/internal/utils"
)

// EmailSender is satisfied by *sendgrid.Client.
type EmailSender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// SMSSender is satisfied by the Api field of *twilio.RestClient.
type SMSSender interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Delivery sends reminder copies outside the app. A nil sender or an unset
// sender address disables that channel.
type Delivery struct {
	Email     EmailSender
	SMS       SMSSender
	FromEmail string
	FromPhone string
	OrgName   string
	Sandbox   bool
}

const reminderEmailHTML = `<!DOCTYPE html>
<html>
<body style="font-family:Arial,sans-serif;color:#1f2937;">
  <h2 style="color:#0f766e;">%s</h2>
  <p>%s</p>
  <p style="font-size:12px;color:#6b7280;">Sent %s</p>
</body>
</html>`

func (d *Delivery) emailEnabled() bool { return d != nil && d.Email != nil && d.FromEmail != "" }
func (d *Delivery) smsEnabled() bool   { return d != nil && d.SMS != nil && d.FromPhone != "" }

func (d *Delivery) sendEmail(to *models.Profile, subject, body string) error {
	from := mail.NewEmail(d.OrgName, d.FromEmail)
	recipient := mail.NewEmail(to.FullName(), to.Email)
	htmlBody := fmt.Sprintf(reminderEmailHTML,
		html.EscapeString(subject), html.EscapeString(body), time.Now().UTC().Format(time.RFC1123Z))

	msg := mail.NewSingleEmail(from, subject, recipient, body, htmlBody)
	msg.TrackingSettings = &mail.TrackingSettings{
		ClickTracking: &mail.ClickTrackingSetting{Enable: utils.Ptr(false)},
	}
	if d.Sandbox {
		ms := mail.NewMailSettings()
		ms.SetSandboxMode(mail.NewSetting(true))
		msg.MailSettings = ms
	}

	resp, err := d.Email.Send(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err)
	}
	if resp != nil && resp.StatusCode >= 400 {
		return fmt.Errorf("%w: sendgrid status %d", utils.ErrExternalServiceFailure, resp.StatusCode)
	}
	return nil
}

func (d *Delivery) sendSMS(to string, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(d.FromPhone)
	params.SetBody(body)
	if _, err := d.SMS.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: %v", utils.ErrExternalServiceFailure, err)
	}
	return nil
}
