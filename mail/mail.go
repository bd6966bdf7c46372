package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/diskwatch-io/diskwatch/config"
	"github.com/diskwatch-io/diskwatch/types"
)

// Notifier delivers alert payloads over an authenticated, TLS-upgraded SMTP
// session. Delivery failures surface as Transport faults; the caller reports
// them locally and never retries.
type Notifier struct {
	cfg    config.Mail
	logger types.Logger
}

var _ types.Notifier = &Notifier{}

func New(cfg config.Mail, logger types.Logger) *Notifier {
	return &Notifier{cfg: cfg, logger: logger}
}

func (n *Notifier) Notify(subject, body string) *types.Fault {
	addr := fmt.Sprintf("%s:%d", n.cfg.Server, n.cfg.Port)
	n.logger.Logger.Debug().Str("server", addr).Str("to", n.cfg.To).Msg("Sending alert mail")

	c, err := smtp.Dial(addr)
	if err != nil {
		return types.NewFault(types.FaultTransport, "dial "+addr, err)
	}
	defer c.Close()

	if err := c.StartTLS(&tls.Config{ServerName: n.cfg.Server}); err != nil {
		return types.NewFault(types.FaultTransport, "starttls", err)
	}
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Server)
	if err := c.Auth(auth); err != nil {
		return types.NewFault(types.FaultTransport, "auth", err)
	}
	if err := c.Mail(n.cfg.From); err != nil {
		return types.NewFault(types.FaultTransport, "mail from", err)
	}
	if err := c.Rcpt(n.cfg.To); err != nil {
		return types.NewFault(types.FaultTransport, "rcpt to", err)
	}

	w, err := c.Data()
	if err != nil {
		return types.NewFault(types.FaultTransport, "data", err)
	}
	if _, err := w.Write([]byte(Message(n.cfg.From, n.cfg.To, subject, body))); err != nil {
		return types.NewFault(types.FaultTransport, "write body", err)
	}
	if err := w.Close(); err != nil {
		return types.NewFault(types.FaultTransport, "close body", err)
	}
	if err := c.Quit(); err != nil {
		return types.NewFault(types.FaultTransport, "quit", err)
	}

	n.logger.Logger.Info().Str("to", n.cfg.To).Msg("Alert mail sent")
	return nil
}

// Message renders a plain-text RFC 5322 message. CRLF line endings matter to
// some relays, so the body is normalized.
func Message(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
