package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/roomchat-server/internal/app"
	"github.com/vovakirdan/roomchat-server/internal/config"
	applog "github.com/vovakirdan/roomchat-server/internal/log"
)

type flags struct {
	configPath      string
	addr            string
	logLevel        string
	logFormat       string
	shutdownTimeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "roomchat-server",
		Short:         "Real-time room chat server",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "path to config file (default ./config.yaml)")
	pf.StringVar(&f.addr, "addr", "", "HTTP listen address")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFormat, "log-format", "", "log format: console or json")
	pf.DurationVar(&f.shutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")

	root.AddCommand(&cobra.Command{
		Use:   "print-config",
		Short: "Print the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(f)
			if err != nil {
				return err
			}
			out, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	return root
}

// loadConfig resolves file and env configuration, then applies flag overrides.
func loadConfig(f flags) (config.Config, string, error) {
	bootstrap := applog.NewWithWriter(os.Stderr, "info", "console")

	cfg, path, err := config.Load(bootstrap, f.configPath)
	if err != nil {
		return cfg, path, err
	}
	cfg.UpdateFrom(config.Config{
		Addr:            f.addr,
		LogLevel:        f.logLevel,
		LogFormat:       f.logFormat,
		ShutdownTimeout: f.shutdownTimeout,
	})
	return cfg, path, nil
}

func run(ctx context.Context, f flags) error {
	cfg, path, err := loadConfig(f)
	if err != nil {
		return err
	}

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info().Str("config", path).Msg("configuration loaded")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize application")
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Msg("starting roomchat server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
