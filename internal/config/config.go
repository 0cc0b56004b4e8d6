// Package config defines the ai-task-notify configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < .env next to the executable < explicit env file
// < process environment < CLI flag overrides.
package config

import (
	"net/url"
	"strings"
	"time"
)

// WhitelistedVars lists every configuration variable name that may appear in
// env files or the process environment. Anything else is ignored.
var WhitelistedVars = [19]string{
	"NOTIFY_CHANNELS",
	"NOTIFY_TIMEOUT",
	"NOTIFY_VERBOSE",
	"WECOM_WEBHOOK_URL",
	"FEISHU_WEBHOOK_URL",
	"FEISHU_SECRET",
	"DINGTALK_WEBHOOK_URL",
	"DINGTALK_SECRET",
	"SMTP_HOST",
	"SMTP_PORT",
	"SMTP_USER",
	"SMTP_PASSWORD",
	"SMTP_USE_SSL",
	"EMAIL_FROM",
	"EMAIL_TO",
	"TELEGRAM_BOT_TOKEN",
	"TELEGRAM_CHAT_ID",
	"TELEGRAM_API_URL",
	"NOTIFY_DRY_RUN",
}

// DefaultTelegramAPIURL is the public Telegram Bot API endpoint.
const DefaultTelegramAPIURL = "https://api.telegram.org"

// Config holds every configuration field for ai-task-notify.
// YAML keys mirror the environment variable names so the output of the
// config subcommand can be pasted back into a .env file.
type Config struct {
	// Dispatch settings.
	NotifyChannels string `yaml:"NOTIFY_CHANNELS"`
	Timeout        int    `yaml:"NOTIFY_TIMEOUT"`
	Verbose        bool   `yaml:"NOTIFY_VERBOSE"`
	DryRun         bool   `yaml:"NOTIFY_DRY_RUN"`

	// WeCom group robot.
	WeComWebhookURL string `yaml:"WECOM_WEBHOOK_URL"`

	// Feishu custom bot.
	FeishuWebhookURL string `yaml:"FEISHU_WEBHOOK_URL"`
	FeishuSecret     string `yaml:"FEISHU_SECRET"`

	// DingTalk custom robot.
	DingTalkWebhookURL string `yaml:"DINGTALK_WEBHOOK_URL"`
	DingTalkSecret     string `yaml:"DINGTALK_SECRET"`

	// Email over SMTP.
	SMTPHost     string `yaml:"SMTP_HOST"`
	SMTPPort     int    `yaml:"SMTP_PORT"`
	SMTPUser     string `yaml:"SMTP_USER"`
	SMTPPassword string `yaml:"SMTP_PASSWORD"`
	SMTPUseSSL   bool   `yaml:"SMTP_USE_SSL"`
	EmailFrom    string `yaml:"EMAIL_FROM"`
	EmailTo      string `yaml:"EMAIL_TO"`

	// Telegram bot.
	TelegramBotToken string `yaml:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `yaml:"TELEGRAM_CHAT_ID"`
	TelegramAPIURL   string `yaml:"TELEGRAM_API_URL"`

	// EnvFile is an explicit env file given on the command line.
	// It must exist when set.
	EnvFile string `yaml:"-"`
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Timeout:        10,
		SMTPPort:       465,
		SMTPUseSSL:     true,
		TelegramAPIURL: DefaultTelegramAPIURL,
	}
}

// EnabledChannels splits NotifyChannels on commas, trimming and lowercasing
// each entry and dropping blanks. Order is preserved.
func (c *Config) EnabledChannels() []string {
	return splitList(c.NotifyChannels, true)
}

// EmailRecipients returns the trimmed, non-empty addresses in EmailTo.
func (c *Config) EmailRecipients() []string {
	return splitList(c.EmailTo, false)
}

// TimeoutDuration converts Timeout to a duration. Non-positive values fall
// back to the default of 10 seconds.
func (c *Config) TimeoutDuration() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Timeout) * time.Second
}

// Redacted returns a copy of c with credentials masked. Webhook URLs keep
// their scheme and host only, since their tokens live in the path or query.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.WeComWebhookURL = maskURL(cp.WeComWebhookURL)
	cp.FeishuWebhookURL = maskURL(cp.FeishuWebhookURL)
	cp.DingTalkWebhookURL = maskURL(cp.DingTalkWebhookURL)
	cp.FeishuSecret = maskSecret(cp.FeishuSecret)
	cp.DingTalkSecret = maskSecret(cp.DingTalkSecret)
	cp.SMTPPassword = maskSecret(cp.SMTPPassword)
	cp.TelegramBotToken = maskSecret(cp.TelegramBotToken)
	return &cp
}

const mask = "********"

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	return mask
}

func maskURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return mask
	}
	return u.Scheme + "://" + u.Host + "/" + mask
}

func splitList(s string, lower bool) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if lower {
			part = strings.ToLower(part)
		}
		out = append(out, part)
	}
	return out
}
