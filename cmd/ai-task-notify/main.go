package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/inazon/ai-task-notify/internal/cli"
	"github.com/inazon/ai-task-notify/internal/config"
	"github.com/inazon/ai-task-notify/internal/event"
	"github.com/inazon/ai-task-notify/internal/exitcode"
	"github.com/inazon/ai-task-notify/internal/logging"
	"github.com/inazon/ai-task-notify/internal/phases"
	sighandler "github.com/inazon/ai-task-notify/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	flagCfg := config.NewDefaultConfig()
	exitCode := exitcode.Success

	rootCmd := &cobra.Command{
		Use:     "ai-task-notify [payload-json]",
		Short:   "Task completion notifications for Claude Code and Codex",
		Long:    "ai-task-notify forwards agent completion events to WeCom, Feishu, DingTalk, email and Telegram.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flagCfg)
			if err != nil {
				return err
			}
			orch := phases.NewOrchestrator(cfg)
			orch.Args = args
			orch.StdinIsTerminal = stdinIsTerminal()
			exitCode = runOrchestrator(orch)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	testCmd := &cobra.Command{
		Use:   "test",
		Short: "Send a sample notification to every enabled channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flagCfg)
			if err != nil {
				return err
			}
			cwd, _ := os.Getwd()
			orch := phases.NewOrchestrator(cfg)
			orch.Event = event.Synthetic(cwd)
			exitCode = runOrchestrator(orch)
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML (secrets masked)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flagCfg)
			if err != nil {
				return err
			}
			if cfg.EnvFile != "" {
				logging.Info(fmt.Sprintf("Using env file %s", cfg.EnvFile))
			}
			return cli.WriteConfigYAML(cmd.OutOrStdout(), cfg)
		},
	}

	rootCmd.AddCommand(testCmd, configCmd)

	// Bind all CLI flags to the config
	cli.BindFlags(rootCmd, flagCfg)

	// Set custom help template
	cli.SetCustomHelp(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		logging.Error(err.Error())
		os.Exit(exitcode.Failure)
	}
	os.Exit(exitCode)
}

// loadConfig validates the parsed flags and resolves the full precedence
// chain: defaults, .env next to the binary, --env-file, process
// environment, then explicitly set flags.
func loadConfig(cmd *cobra.Command, flagCfg *config.Config) (*config.Config, error) {
	if err := cli.ValidateFlags(cmd, flagCfg); err != nil {
		return nil, err
	}

	cfg, err := config.LoadWithPrecedence(config.DefaultEnvPath(), flagCfg.EnvFile, os.LookupEnv, cli.Overrides(cmd))
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.SetVerbose(cfg.Verbose)
	return cfg, nil
}

func runOrchestrator(orch *phases.Orchestrator) int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := sighandler.SetupSignalHandler(ctx, cancel, func() {
		logging.Warn("Interrupted, cancelling notification delivery...")
	})
	defer stop()

	return orch.Run(ctx)
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
