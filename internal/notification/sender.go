// Package notification delivers a rendered message to chat webhooks, a
// Telegram bot and email.
//
// Every channel gets at most one best-effort attempt per run. Failures are
// reported back to the caller and never stop the remaining channels.
package notification

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/inazon/ai-task-notify/internal/config"
	"github.com/inazon/ai-task-notify/internal/message"
)

// Channel names accepted in NOTIFY_CHANNELS.
const (
	ChannelWeCom    = "wecom"
	ChannelFeishu   = "feishu"
	ChannelDingTalk = "dingtalk"
	ChannelEmail    = "email"
	ChannelTelegram = "telegram"
)

// ErrNotConfigured marks a channel that is enabled but lacks the settings
// it needs. No request is made for it.
var ErrNotConfigured = errors.New("not configured")

// Sender delivers a message over one channel.
type Sender interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, msg message.Message) error
}

// Result is the outcome of one channel attempt.
type Result struct {
	Channel string
	Err     error
}

// OK reports whether the channel accepted the message.
func (r Result) OK() bool {
	return r.Err == nil
}

// HTTPError is returned when a webhook answers with a non-200 status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// APIError is returned when a platform answers 200 but reports failure in
// its response body.
type APIError struct {
	Channel string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s rejected message: code %d: %s", e.Channel, e.Code, e.Message)
}

// NewSenders builds every supported sender from cfg, in a stable order.
// Senders whose settings are missing are still returned; they report
// Configured() == false.
func NewSenders(cfg *config.Config) []Sender {
	client := &http.Client{Timeout: cfg.TimeoutDuration()}
	return []Sender{
		NewWeComSender(cfg.WeComWebhookURL, client),
		NewFeishuSender(cfg.FeishuWebhookURL, cfg.FeishuSecret, client),
		NewDingTalkSender(cfg.DingTalkWebhookURL, cfg.DingTalkSecret, client),
		NewEmailSender(EmailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			UseSSL:   cfg.SMTPUseSSL,
			From:     cfg.EmailFrom,
			To:       cfg.EmailRecipients(),
			Timeout:  cfg.TimeoutDuration(),
		}),
		NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID, cfg.TelegramAPIURL, client),
	}
}
