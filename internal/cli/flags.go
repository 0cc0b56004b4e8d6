// Package cli provides flag binding, validation and help text for the
// ai-task-notify command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/inazon/ai-task-notify/internal/config"
)

// BindFlags registers the persistent CLI flags on the given cobra command,
// so subcommands inherit them. The flags write into cfg; call Overrides
// after parsing to turn the explicitly set ones into config keys.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	flags.StringVar(&cfg.EnvFile, "env-file", "", "Path to an extra .env file (overrides the one next to the binary)")
	flags.StringVar(&cfg.NotifyChannels, "channels", "", "Comma-separated channels, overrides NOTIFY_CHANNELS")
	flags.IntVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-channel timeout in seconds")
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Log debug output to stderr")
	flags.BoolVar(&cfg.DryRun, "dry-run", false, "Format and print the message without sending it")
}

// ValidateFlags checks flag values after parsing.
func ValidateFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("timeout") && cfg.Timeout <= 0 {
		return fmt.Errorf("--timeout must be a positive number of seconds, got: %d", cfg.Timeout)
	}

	// --env-file must exist if provided
	if cfg.EnvFile != "" {
		if _, err := os.Stat(cfg.EnvFile); err != nil {
			return fmt.Errorf("--env-file: %w", err)
		}
	}

	return nil
}

// flagKeys maps flags that mirror a config key to that key.
// --env-file is not a config key; it selects a file instead.
var flagKeys = map[string]string{
	"channels": "NOTIFY_CHANNELS",
	"timeout":  "NOTIFY_TIMEOUT",
	"verbose":  "NOTIFY_VERBOSE",
	"dry-run":  "NOTIFY_DRY_RUN",
}

// Overrides returns the config keys for flags explicitly set by the user.
// Only visited (changed) flags are included, so flag defaults never mask
// values from env files or the process environment.
func Overrides(cmd *cobra.Command) map[string]string {
	overrides := make(map[string]string)
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			overrides[key] = f.Value.String()
		}
	})
	return overrides
}
