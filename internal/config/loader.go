package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultEnvFileName is the env file looked up next to the executable.
const DefaultEnvFileName = ".env"

// whitelistSet is a precomputed lookup table for fast whitelist membership checks.
var whitelistSet map[string]bool

func init() {
	whitelistSet = make(map[string]bool, len(WhitelistedVars))
	for _, v := range WhitelistedVars {
		whitelistSet[v] = true
	}
}

// LookupFunc resolves a process environment variable. os.LookupEnv
// satisfies it.
type LookupFunc func(key string) (string, bool)

// LoadFile parses a KEY=VALUE env file at the given path.
//
// Lines are processed according to these rules:
//   - Empty lines and lines starting with # are skipped.
//   - Lines without an = sign are skipped.
//   - Leading and trailing whitespace is trimmed from both key and value.
//   - Keys not present in WhitelistedVars are silently ignored.
//
// Returns a map of whitelisted key-value pairs, or an error if the file
// cannot be opened.
func LoadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open env file: %w", err)
	}
	defer f.Close()

	result := make(map[string]string)
	scanner := bufio.NewScanner(f)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first '=' only.
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}

		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])

		if !whitelistSet[key] {
			continue
		}

		result[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}

	return result, nil
}

// DefaultEnvPath returns the .env path next to the running executable, or
// "" when the executable cannot be located.
func DefaultEnvPath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultEnvFileName)
}

// LoadWithPrecedence assembles a Config by merging sources in order of
// increasing priority:
//
//  1. Built-in defaults
//  2. Default env file (defaultPath), skipped when missing
//  3. Explicit env file (explicitPath), which must exist
//  4. Process environment (lookup), including variables set to ""
//  5. CLI overrides (cliOverrides map)
//
// Empty paths and a nil lookup are skipped.
func LoadWithPrecedence(defaultPath, explicitPath string, lookup LookupFunc, cliOverrides map[string]string) (*Config, error) {
	cfg := NewDefaultConfig()

	// Layer 2: env file next to the executable.
	if defaultPath != "" {
		m, err := LoadFile(defaultPath)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("default env file: %w", err)
			}
		} else {
			ApplyMapToConfig(cfg, m)
		}
	}

	// Layer 3: explicit env file (must exist if specified).
	if explicitPath != "" {
		m, err := LoadFile(explicitPath)
		if err != nil {
			return nil, fmt.Errorf("explicit env file: %w", err)
		}
		ApplyMapToConfig(cfg, m)
		cfg.EnvFile = explicitPath
	}

	// Layer 4: process environment.
	if lookup != nil {
		ApplyMapToConfig(cfg, EnvironMap(lookup))
	}

	// Layer 5: CLI overrides (highest priority).
	if len(cliOverrides) > 0 {
		ApplyMapToConfig(cfg, cliOverrides)
	}

	return cfg, nil
}

// EnvironMap collects every whitelisted variable that lookup reports as set.
func EnvironMap(lookup LookupFunc) map[string]string {
	m := make(map[string]string)
	for _, key := range WhitelistedVars {
		if v, ok := lookup(key); ok {
			m[key] = v
		}
	}
	return m
}

// ApplyMapToConfig sets fields on cfg from the key-value pairs in m.
// Unknown keys are silently ignored. Integer fields that fail to parse
// are silently ignored (the previous value is preserved).
func ApplyMapToConfig(cfg *Config, m map[string]string) {
	for key, value := range m {
		switch key {
		case "NOTIFY_CHANNELS":
			cfg.NotifyChannels = value
		case "NOTIFY_TIMEOUT":
			if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				cfg.Timeout = v
			}
		case "NOTIFY_VERBOSE":
			cfg.Verbose = parseBool(value)
		case "NOTIFY_DRY_RUN":
			cfg.DryRun = parseBool(value)
		case "WECOM_WEBHOOK_URL":
			cfg.WeComWebhookURL = value
		case "FEISHU_WEBHOOK_URL":
			cfg.FeishuWebhookURL = value
		case "FEISHU_SECRET":
			cfg.FeishuSecret = value
		case "DINGTALK_WEBHOOK_URL":
			cfg.DingTalkWebhookURL = value
		case "DINGTALK_SECRET":
			cfg.DingTalkSecret = value
		case "SMTP_HOST":
			cfg.SMTPHost = value
		case "SMTP_PORT":
			if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				cfg.SMTPPort = v
			}
		case "SMTP_USER":
			cfg.SMTPUser = value
		case "SMTP_PASSWORD":
			cfg.SMTPPassword = value
		case "SMTP_USE_SSL":
			cfg.SMTPUseSSL = parseBool(value)
		case "EMAIL_FROM":
			cfg.EmailFrom = value
		case "EMAIL_TO":
			cfg.EmailTo = value
		case "TELEGRAM_BOT_TOKEN":
			cfg.TelegramBotToken = value
		case "TELEGRAM_CHAT_ID":
			cfg.TelegramChatID = value
		case "TELEGRAM_API_URL":
			if value != "" {
				cfg.TelegramAPIURL = value
			}
		}
	}
}

// parseBool interprets common boolean representations.
// "true", "1", "yes" (case-insensitive) return true; everything else returns false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		return true
	default:
		return false
	}
}
