package notification

import (
	"context"
	"crypto/tls"
	"fmt"
	"html"
	"net"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"

	"github.com/inazon/ai-task-notify/internal/message"
)

// EmailConfig holds the SMTP settings of the email channel.
type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	UseSSL   bool
	From     string
	To       []string
	Timeout  time.Duration
}

// dialFunc opens the raw connection to the SMTP server.
type dialFunc func(ctx context.Context, network, addr string) (net.Conn, error)

// EmailSender delivers a multipart plain/HTML email over SMTP, using
// implicit TLS or mandatory STARTTLS.
type EmailSender struct {
	cfg     EmailConfig
	dial    dialFunc
	deliver func(ctx context.Context, client *mail.Client, msg *mail.Msg) error
	now     func() time.Time
}

// NewEmailSender returns an email sender for cfg.
func NewEmailSender(cfg EmailConfig) *EmailSender {
	s := &EmailSender{cfg: cfg, now: time.Now, deliver: deliverMail}
	s.dial = s.dialSMTP
	return s
}

func (s *EmailSender) Name() string { return ChannelEmail }

// Configured requires host, credentials, sender and at least one recipient.
func (s *EmailSender) Configured() bool {
	c := s.cfg
	return c.Host != "" && c.User != "" && c.Password != "" && c.From != "" && len(c.To) > 0
}

// Send authenticates with PLAIN auth and submits one message addressed to
// every recipient. Cancelling ctx closes the connection mid-conversation.
func (s *EmailSender) Send(ctx context.Context, msg message.Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}

	m, err := s.buildMessage(msg)
	if err != nil {
		return fmt.Errorf("build email: %w", err)
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := s.deliver(ctx, client, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func deliverMail(ctx context.Context, client *mail.Client, msg *mail.Msg) error {
	return client.DialAndSendWithContext(ctx, msg)
}

// newClient configures the go-mail client. With UseSSL the connection is
// already TLS when dialed, so STARTTLS is switched off; otherwise it is
// mandatory and credentials never travel in clear text.
func (s *EmailSender) newClient(ctx context.Context) (*mail.Client, error) {
	policy := mail.TLSMandatory
	if s.cfg.UseSSL {
		policy = mail.NoTLS
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(policy),
		mail.WithDialContextFunc(s.cancellableDial(ctx)),
	}
	if s.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(s.cfg.Timeout))
	}
	return mail.NewClient(s.cfg.Host, opts...)
}

// cancellableDial wraps s.dial so the connection is closed as soon as ctx
// is done. go-mail only passes a dial-scoped context to the dialer.
func (s *EmailSender) cancellableDial(ctx context.Context) func(context.Context, string, string) (net.Conn, error) {
	return func(dialCtx context.Context, network, addr string) (net.Conn, error) {
		conn, err := s.dial(dialCtx, network, addr)
		if err != nil {
			return nil, err
		}
		context.AfterFunc(ctx, func() { _ = conn.Close() })
		return conn, nil
	}
}

// dialSMTP opens the connection, wrapping it in TLS first when UseSSL is set.
func (s *EmailSender) dialSMTP(ctx context.Context, network, addr string) (net.Conn, error) {
	netDialer := &net.Dialer{Timeout: s.cfg.Timeout}
	if s.cfg.UseSSL {
		tlsDialer := &tls.Dialer{
			NetDialer: netDialer,
			Config:    &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12},
		}
		return tlsDialer.DialContext(ctx, network, addr)
	}
	return netDialer.DialContext(ctx, network, addr)
}

// htmlTemplate wraps the escaped title and content.
const htmlTemplate = `<html>
<body>
    <h2>%s</h2>
    <pre style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">
%s
    </pre>
</body>
</html>
`

// buildMessage composes a multipart/alternative message with plain and
// HTML parts. A missing message ID gets a fresh UUID.
func (s *EmailSender) buildMessage(msg message.Message) (*mail.Msg, error) {
	id := msg.ID
	if id == "" {
		id = uuid.NewString()
	}

	m := mail.NewMsg()
	if err := m.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := m.To(s.cfg.To...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	m.Subject(msg.Title)
	m.SetDateWithValue(s.now())
	m.SetMessageIDWithValue(id + "@ai-task-notify")
	m.SetUserAgent("ai-task-notify")

	m.SetBodyString(mail.TypeTextPlain, msg.Content)
	m.AddAlternativeString(mail.TypeTextHTML,
		fmt.Sprintf(htmlTemplate, html.EscapeString(msg.Title), html.EscapeString(msg.Content)))
	return m, nil
}
