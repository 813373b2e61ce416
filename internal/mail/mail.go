// Package mail delivers contact form submissions over SMTP.
package mail

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/Zachkp/kussetech/internal/config"
)

// ErrDisabled is returned when no mail server is configured or sending is
// suppressed.
var ErrDisabled = errors.New("mail delivery disabled")

// Message is a contact form submission.
type Message struct {
	Name    string
	Email   string
	Message string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends messages to a single recipient.
type SMTPSender struct {
	cfg     config.Mail
	to      string
	timeout time.Duration
}

// NewSender returns an SMTPSender, or a sender that always fails with
// ErrDisabled when cfg cannot deliver mail.
func NewSender(cfg config.Config) Sender {
	if !cfg.MailEnabled() {
		return disabled{}
	}
	return &SMTPSender{cfg: cfg.Mail, to: cfg.ContactEmail, timeout: cfg.OutboundTimeout}
}

func (s *SMTPSender) from() string {
	if s.cfg.Sender != "" {
		return s.cfg.Sender
	}
	if s.cfg.Username != "" {
		return s.cfg.Username
	}
	return s.to
}

// Send delivers msg, upgrading with STARTTLS when UseTLS is set and
// authenticating when a username is configured.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.Addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if s.cfg.UseTLS {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}
	if s.cfg.Username != "" {
		auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	from := s.from()
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := c.Rcpt(s.to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write(Compose(from, s.to, msg)); err != nil {
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp data close: %w", err)
	}
	return c.Quit()
}

// Compose renders the notification email for msg.
func Compose(from, to string, msg Message) []byte {
	subject := fmt.Sprintf("Portfolio Contact: %s", oneLine(msg.Name))
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, msg.Name, msg.Email, msg.Message)

	return []byte("To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + from + "\r\n" +
		"Reply-To: " + oneLine(msg.Email) + "\r\n" +
		"Content-Type: text/plain; charset=\"UTF-8\"\r\n" +
		"\r\n" +
		body + "\r\n")
}

// oneLine strips line breaks so user input cannot inject headers.
func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}

type disabled struct{}

func (disabled) Send(context.Context, Message) error {
	return ErrDisabled
}
