package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ykres/ai-salon-assistant/internal/transport/telegram"
)

func newBotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		RunE:  runBot,
	}
}

func runBot(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(true)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, cfg.BotThreadsPath)
	if err != nil {
		return err
	}
	defer a.Close()

	bot, err := telegram.NewBot(cfg.TelegramToken, a.service, logger)
	if err != nil {
		return err
	}
	return bot.Run(ctx)
}
