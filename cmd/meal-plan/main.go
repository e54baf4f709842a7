// Command meal-plan manages the weekly meal plan, the grocery list and the
// recipe book from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mesayaaa/Meal-Plan/internal/app"
	"github.com/Mesayaaa/Meal-Plan/internal/config"
	"github.com/Mesayaaa/Meal-Plan/internal/logging"
)

var (
	configPath string
	logLevel   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "meal-plan",
	Short: "Plan the week's meals and keep the grocery list",
	Long: `meal-plan manages a weekly meal plan (7 days x breakfast, lunch, dinner),
derives the grocery list from the planned recipes, and keeps dietary and
cuisine preferences used for AI recipe suggestions.

State is shared with the Telegram bot when both point at the same storage.

Examples:
  # Show the week
  meal-plan plan show

  # Plan a recipe
  meal-plan plan add Monday Dinner "Classic Spaghetti Carbonara"

  # Check something off the grocery list
  meal-plan grocery toggle eggs`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
}

// openApp loads the configuration and builds the application. The returned
// func closes it and flushes the logger.
func openApp(cmd *cobra.Command) (*app.App, func(), error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logLevel, "console")
	if err != nil {
		return nil, nil, err
	}

	a, err := app.New(commandContext(cmd), cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, nil, fmt.Errorf("failed to initialize app: %w", err)
	}

	return a, func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close app", zap.Error(err))
		}
		_ = logger.Sync()
	}, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
