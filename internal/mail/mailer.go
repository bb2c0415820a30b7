// Package mail delivers transactional email over SMTP.
package mail

import (
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// Config holds SMTP connection and sender settings.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// Mailer sends HTML mail through a single SMTP relay.
type Mailer struct {
	cfg Config
}

// New constructs a Mailer.
func New(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// Send delivers one HTML message. STARTTLS is negotiated when the relay
// advertises it.
func (m *Mailer) Send(to, subject, htmlBody string) error {
	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))

	var auth smtp.Auth
	if m.cfg.User != "" {
		auth = smtp.PlainAuth("", m.cfg.User, m.cfg.Password, m.cfg.Host)
	}

	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}
