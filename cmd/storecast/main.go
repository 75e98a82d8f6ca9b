package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Veraticus/storecast/internal/cli"
	"github.com/Veraticus/storecast/internal/common"
	"github.com/Veraticus/storecast/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	logCloser io.Closer
	version   = "dev"
	rootCmd   = newRootCmd()
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storecast",
		Short: "📈 Retail sales prediction from a trained regression model",
		Long: `storecast: load a trained sales regression model, describe an item and
the outlet selling it, and get the predicted sales amount.

Run "storecast form" for the interactive form.`,
		PersistentPreRunE: initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.config/storecast/config.yaml)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	cmd.PersistentFlags().String("log-file", "", "write logs to a rotating file instead of stderr")
	cmd.PersistentFlags().String("model", "", "path to the trained model file")

	// Bind flags to viper
	_ = viper.BindPFlag(config.KeyLogLevel, cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag(config.KeyLogFormat, cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag(config.KeyLogFile, cmd.PersistentFlags().Lookup("log-file"))
	_ = viper.BindPFlag(config.KeyModelPath, cmd.PersistentFlags().Lookup("model"))

	cmd.AddCommand(formCmd())
	cmd.AddCommand(predictCmd())
	cmd.AddCommand(batchCmd())
	cmd.AddCommand(schemaCmd())
	cmd.AddCommand(historyCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

func main() {
	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := rootCmd.ExecuteContext(ctx)
	cancel() // Always cleanup

	if logCloser != nil {
		_ = logCloser.Close()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(common.UserMessage(err)))
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	config.SetDefaults(viper.GetViper())

	// Set up config file
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		// Search for config in standard locations
		viper.AddConfigPath(fmt.Sprintf("%s/.config/storecast", home))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("STORECAST")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	if err := setupLogging(); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	return nil
}

func setupLogging() error {
	if logCloser != nil {
		_ = logCloser.Close()
	}
	closer, err := common.SetupLogger(common.LogOptions{
		Level:      viper.GetString(config.KeyLogLevel),
		Format:     viper.GetString(config.KeyLogFormat),
		File:       config.ExpandPath(viper.GetString(config.KeyLogFile)),
		MaxSizeMB:  viper.GetInt(config.KeyLogMaxSizeMB),
		MaxBackups: viper.GetInt(config.KeyLogMaxBackups),
	})
	if err != nil {
		return err
	}
	logCloser = closer
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "storecast version %s\n", version)
		},
	}
}
