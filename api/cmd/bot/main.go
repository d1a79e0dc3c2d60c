package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-tutor/api/internal/client"
	"math-tutor/api/internal/config"
	"math-tutor/api/internal/telegram"
)

func main() {
	cfg := config.Load()
	config.MustHave(cfg.TelegramBotToken, "TELEGRAM_BOT_TOKEN")
	config.MustHave(cfg.TutorAPIURL, "TUTOR_API_URL")

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		log.Fatal(err)
	}
	bot.Debug = false

	api := client.New(cfg.TutorAPIURL, cfg.APIKey)
	r := telegram.NewRouter(bot, api)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r.Run(ctx)
	log.Print("bot stopped")
}
