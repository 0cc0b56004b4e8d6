package notification

import (
	"context"
	"fmt"
	"net/http"

	tele "gopkg.in/telebot.v4"

	"github.com/inazon/ai-task-notify/internal/message"
)

// TelegramSender posts plain-text messages through the Telegram Bot API.
type TelegramSender struct {
	token  string
	chatID string
	apiURL string
	client *http.Client
}

// NewTelegramSender returns a sender for the bot token and chat. chatID may
// be a numeric id or an @channel username. An empty apiURL selects the
// public Bot API.
func NewTelegramSender(token, chatID, apiURL string, client *http.Client) *TelegramSender {
	return &TelegramSender{token: token, chatID: chatID, apiURL: apiURL, client: client}
}

func (s *TelegramSender) Name() string     { return ChannelTelegram }
func (s *TelegramSender) Configured() bool { return s.token != "" && s.chatID != "" }

// chatRecipient addresses a chat by its raw id or @username.
type chatRecipient string

func (c chatRecipient) Recipient() string { return string(c) }

// Send delivers msg as "<title>\n\n<content>". The message is sent as plain
// text since the body uses CommonMark bold markers Telegram does not parse.
func (s *TelegramSender) Send(ctx context.Context, msg message.Message) error {
	if !s.Configured() {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	bot, err := tele.NewBot(tele.Settings{
		URL:     s.apiURL,
		Token:   s.token,
		Client:  withContext(ctx, s.client),
		Offline: true,
	})
	if err != nil {
		return fmt.Errorf("telegram bot: %w", err)
	}

	text := msg.Title + "\n\n" + msg.Content
	if _, err := bot.Send(chatRecipient(s.chatID), text, &tele.SendOptions{DisableWebPagePreview: true}); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

// contextTransport attaches ctx to every request. telebot builds its
// requests without a context, so cancellation would otherwise only be
// bounded by the client timeout.
type contextTransport struct {
	ctx  context.Context
	base http.RoundTripper
}

func (t contextTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.base.RoundTrip(req.WithContext(t.ctx))
}

// withContext returns a copy of client whose requests are cancelled with ctx.
func withContext(ctx context.Context, client *http.Client) *http.Client {
	c := &http.Client{}
	if client != nil {
		*c = *client
	}
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	c.Transport = contextTransport{ctx: ctx, base: base}
	return c
}
