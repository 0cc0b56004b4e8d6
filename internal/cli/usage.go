package cli

import (
	"github.com/spf13/cobra"
)

const helpTemplate = `ai-task-notify - Task completion notifications for Claude Code and Codex

USAGE
  ai-task-notify [payload-json] [flags]
  ai-task-notify test [flags]
  ai-task-notify config [flags]

  Codex passes its notification payload as the first argument. Claude Code
  hooks write the payload to stdin.

COMMANDS
  test                         Send a sample notification to every enabled channel
  config                       Print the effective configuration as YAML (secrets masked)

FLAGS
    --env-file <path>          Extra .env file, read after the one next to the binary
    --channels <list>          Comma-separated channels (overrides NOTIFY_CHANNELS)
    --timeout <seconds>        Per-channel timeout (default: 10)
    -v, --verbose              Log debug output to stderr
    --dry-run                  Print the formatted message, send nothing
    -h, --help                 Show this help text
    --version                  Show version, commit, build date

CONFIGURATION
  Read from .env next to the binary, then --env-file, then the process
  environment, then flags. Later sources win.

    NOTIFY_CHANNELS            wecom,feishu,dingtalk,email,telegram
    NOTIFY_TIMEOUT             Per-channel timeout in seconds
    NOTIFY_VERBOSE             true/false
    NOTIFY_DRY_RUN             true/false
    WECOM_WEBHOOK_URL          WeCom group robot webhook
    FEISHU_WEBHOOK_URL         Feishu custom bot webhook
    FEISHU_SECRET              Feishu signing secret (optional)
    DINGTALK_WEBHOOK_URL       DingTalk robot webhook
    DINGTALK_SECRET            DingTalk signing secret (optional)
    SMTP_HOST, SMTP_PORT       Mail server (port default: 465)
    SMTP_USER, SMTP_PASSWORD   Mail credentials
    SMTP_USE_SSL               Implicit TLS, otherwise STARTTLS (default: true)
    EMAIL_FROM                 Sender address
    EMAIL_TO                   Comma-separated recipients
    TELEGRAM_BOT_TOKEN         Telegram bot token
    TELEGRAM_CHAT_ID           Telegram chat ID
    TELEGRAM_API_URL           Bot API base URL (default: https://api.telegram.org)

EXIT CODES
  0   Success              A channel delivered, no channels enabled, or event ignored
  1   Failure              No valid input, bad configuration, or every channel failed

EXAMPLES
  # Codex (~/.codex/config.toml)
  notify = ["ai-task-notify"]

  # Claude Code Stop hook
  ai-task-notify < payload.json

  # Check the WeCom webhook only
  ai-task-notify test --channels wecom -v
`

// SetCustomHelp configures the cobra command to use our custom help template.
func SetCustomHelp(cmd *cobra.Command) {
	cmd.SetHelpTemplate(helpTemplate)
}
