package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wneessen/go-mail"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPMailer sends mail through one SMTP relay. Sends are serialized.
type SMTPMailer struct {
	from   string
	mu     sync.Mutex
	client *mail.Client
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp: host and sender are required")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp: new client: %w", err)
	}
	return &SMTPMailer{from: cfg.From, client: client}, nil
}

func (m *SMTPMailer) SendMail(ctx context.Context, msg Mail) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("smtp: sender %q: %w", m.from, err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("smtp: recipient %q: %w", msg.To, err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("smtp: send to %s: %w", msg.To, err)
	}
	return nil
}
