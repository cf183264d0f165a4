package email

import (
	"context"
	"crypto/tls"
	"fmt"

	"github.com/go-mail/mail"
	"github.com/hurby24/Bibliobay-backend/internal/domain"
)

// SMTPSender sends OTP emails through an SMTP relay (MailHog or similar in development).
type SMTPSender struct {
	host     string
	port     int
	from     string
	username string
	password string
}

func NewSMTPSender(host string, port int, from, username, password string) *SMTPSender {
	return &SMTPSender{host: host, port: port, from: from, username: username, password: password}
}

func (s *SMTPSender) message(to string, r *Rendered) *mail.Message {
	m := mail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", r.Subject)
	m.SetBody("text/plain", r.Text)
	m.AddAlternative("text/html", r.HTML)
	return m
}

// SendOTP dials the relay for each message. go-mail has no context support, so ctx is
// only checked before dialing.
func (s *SMTPSender) SendOTP(ctx context.Context, to string, msg domain.OTPMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r, err := Render(msg)
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	d := mail.NewDialer(s.host, s.port, s.username, s.password)
	d.TLSConfig = &tls.Config{ServerName: s.host}
	if err := d.DialAndSend(s.message(to, r)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
