// Package telegram is the bot front-end of the tutor backend. It consumes
// the service client, so it degrades to the same offline fallbacks as the
// browser UI.
package telegram

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"math-tutor/api/internal/client"
)

type Router struct {
	Bot    *tgbotapi.BotAPI
	API    *client.Client
	States *StateStore
}

func NewRouter(bot *tgbotapi.BotAPI, api *client.Client) *Router {
	return &Router{
		Bot:    bot,
		API:    api,
		States: NewStateStore(),
	}
}

// Run long-polls updates until ctx is cancelled.
func (r *Router) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := r.Bot.GetUpdatesChan(u)
	log.Printf("bot @%s polling", r.Bot.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			r.Bot.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			r.handleUpdate(ctx, upd)
		}
	}
}

func (r *Router) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	cid := msg.Chat.ID

	switch {
	case msg.IsCommand():
		r.onCommand(ctx, cid, msg.Command())
	case len(msg.Photo) > 0:
		r.onPhoto(ctx, cid, msg)
	case msg.Text != "":
		r.onText(ctx, cid, msg.Text)
	}
}

func (r *Router) send(chatID int64, text string) {
	if _, err := r.Bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		log.Printf("send to %d: %v", chatID, err)
	}
}
