// Package email delivers OTP codes through Amazon SES or a plain SMTP relay.
package email

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

// Rendered is a ready-to-send OTP message.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

const textBody = `{{.Mode}}

{{.Code}}

Please note that this code will expire in {{.Minutes}} minutes from the time it was sent.
The code was sent from: {{.Device}} on {{.Date}}
`

const htmlBody = `<html>
  <body>
    <h1>{{.Mode}}</h1>
    <p style="font-size:24px;letter-spacing:4px"><strong>{{.Code}}</strong></p>
    <p>Please note that this code will expire in {{.Minutes}} minutes from the time it was sent.
    The code was sent from: {{.Device}} on {{.Date}}</p>
  </body>
</html>
`

var (
	textTmpl = texttemplate.Must(texttemplate.New("otp.txt").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("otp.html").Parse(htmlBody))
)

type view struct {
	Mode    string
	Code    string
	Device  string
	Date    string
	Minutes int
}

// Render builds the subject and both bodies of an OTP email.
func Render(msg domain.OTPMessage) (*Rendered, error) {
	v := view{
		Mode:    msg.Mode,
		Code:    msg.Code,
		Device:  strings.Trim(msg.Device, ", "),
		Date:    msg.Date.UTC().Format(time.RFC3339),
		Minutes: int(domain.OTPTTL / time.Minute),
	}
	if v.Device == "" {
		v.Device = "an unknown device"
	}
	var txt, html bytes.Buffer
	if err := textTmpl.Execute(&txt, v); err != nil {
		return nil, err
	}
	if err := htmlTmpl.Execute(&html, v); err != nil {
		return nil, err
	}
	return &Rendered{
		Subject: subject(msg.Mode),
		Text:    txt.String(),
		HTML:    html.String(),
	}, nil
}

func subject(mode string) string {
	switch mode {
	case domain.OTPModeSignup:
		return "Confirm your Bibliobay account"
	case domain.OTPModeLogin:
		return "Your Bibliobay login code"
	default:
		return "Your Bibliobay verification code"
	}
}
