package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"cadence-support/config"

	"gopkg.in/gomail.v2"
)

// Embedded alert templates
var alertTemplates = map[string]string{
	"service_down": `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { color: #c0392b; border-bottom: 1px solid #eee; padding-bottom: 10px; }
        .content { margin: 20px 0; }
        .detail { font-family: monospace; background: #f8f8f8; padding: 10px; border-radius: 4px; }
        .footer { margin-top: 30px; font-size: 12px; color: #7f8c8d; text-align: center; }
    </style>
</head>
<body>
    <div class="header">
        <h2>Service Down: {{.ServiceName}}</h2>
    </div>

    <div class="content">
        <p>The health worker could not reach <strong>{{.ServiceName}}</strong> after {{.Attempts}} attempts.</p>

        <div class="detail">
            URL: {{.URL}}<br>
            Last error: {{.LastError}}<br>
            Checked at: {{.CheckedAt}}
        </div>

        <p>Please investigate before customers notice.</p>
    </div>

    <div class="footer">
        <p>© {{.Year}} Cadence Support. Automated alert, do not reply.</p>
    </div>
</body>
</html>`,
}

// AlertMailer sends operational alert mail to the on-call list
type AlertMailer struct {
	dialer     *gomail.Dialer
	from       string
	recipients []string
}

func NewAlertMailer(cfg *config.Config) *AlertMailer {
	return &AlertMailer{
		dialer:     gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:       cfg.FromEmail,
		recipients: cfg.AlertEmails,
	}
}

// SendServiceDownAlert mails the on-call list that a watched service failed
// its health checks. It is a no-op when no recipients are configured.
func (am *AlertMailer) SendServiceDownAlert(serviceName, url string, attempts int, lastErr error) error {
	if len(am.recipients) == 0 {
		return nil
	}

	tmpl, err := template.New("alert").Parse(alertTemplates["service_down"])
	if err != nil {
		return fmt.Errorf("error parsing template: %v", err)
	}

	lastError := "no response"
	if lastErr != nil {
		lastError = lastErr.Error()
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, map[string]interface{}{
		"Subject":     fmt.Sprintf("Service Down: %s", serviceName),
		"ServiceName": serviceName,
		"URL":         url,
		"Attempts":    attempts,
		"LastError":   lastError,
		"CheckedAt":   time.Now().UTC().Format(time.RFC3339),
		"Year":        time.Now().Year(),
	}); err != nil {
		return fmt.Errorf("error executing template: %v", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", am.from)
	m.SetHeader("To", am.recipients...)
	m.SetHeader("Subject", fmt.Sprintf("[cadence-support] %s is down", serviceName))
	m.SetBody("text/html", body.String())

	if err := am.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending alert email: %v", err)
	}
	return nil
}
