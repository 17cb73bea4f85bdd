// Package main provides the menu-bar app and CLI entrypoint for MuteBar.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yok-tottii/MuteBar/internal/config"
	"github.com/yok-tottii/MuteBar/internal/device"
	"github.com/yok-tottii/MuteBar/internal/logger"
)

// Build-time variables (set via ldflags)
var version = "dev"

// Global configuration and state
var (
	cfg        *config.Config
	appLogger  *logger.Logger
	globalOpts struct {
		configPath string
		logLevel   string
		logDir     string
	}

	// newDriver builds the device backend; replaced in tests
	newDriver = device.NewDriver
)

// rootCmd runs the menu-bar app when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mutebar",
	Short: "Mute every microphone from the menu bar",
	Long: `MuteBar keeps every audio input device muted or unmuted together.

Running mutebar without a subcommand starts the menu-bar app. Toggle with
the menu item or the global shortcut (default ⇧⌘A). Quitting always leaves
every microphone muted.

The subcommands act on the devices once and exit, without any UI.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if globalOpts.configPath == "" {
			globalOpts.configPath = config.GetConfigPath()
		}

		var err error
		cfg, err = config.Load(globalOpts.configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return setupLogger(cmd != cmd.Root())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appLogger != nil {
			return appLogger.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return newApp(cfg, globalOpts.configPath, appLogger).Run()
	},
}

// Execute adds all child commands to the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "mutebar: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalOpts.configPath, "config", "",
		"Path to config file, .json or .yaml (default: ~/Library/Application Support/MuteBar/config.json)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error (default: log_level from config)")
	rootCmd.PersistentFlags().StringVar(&globalOpts.logDir, "log-dir", "",
		"Directory for daily log files (default: ~/Library/Logs/MuteBar)")
}

// setupLogger creates the file logger. One-shot commands also log to stderr.
func setupLogger(stderr bool) error {
	levelName := cfg.LogLevel
	if globalOpts.logLevel != "" {
		levelName = globalOpts.logLevel
	}
	level, err := logger.ParseLevel(levelName)
	if err != nil {
		return err
	}

	loggerConfig := logger.DefaultConfig()
	loggerConfig.Level = level
	loggerConfig.Stderr = stderr
	if globalOpts.logDir != "" {
		loggerConfig.LogDir = filepath.Clean(globalOpts.logDir)
	}

	appLogger, err = logger.New(loggerConfig)
	if err != nil {
		return fmt.Errorf("ロガーの初期化に失敗: %w", err)
	}
	return nil
}
