package bot

import (
	"bytes"
	"context"
	"log"
	"time"

	tele "gopkg.in/telebot.v3"
)

const commandTimeout = 30 * time.Second

func StartTelegramBot(token string, dispatcher *Dispatcher) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	for _, command := range Commands() {
		b.Handle("/"+command, telegramHandler(dispatcher, command))
	}

	log.Println("Telegram bot started")
	go b.Start()
}

func telegramHandler(dispatcher *Dispatcher, command string) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()

		var chatID, authorID int64
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if sender := c.Sender(); sender != nil {
			authorID = sender.ID
		}

		for _, reply := range dispatcher.Handle(ctx, chatID, authorID, command, c.Args()) {
			if err := sendReply(c, reply); err != nil {
				return err
			}
		}
		return nil
	}
}

func sendReply(c tele.Context, reply Reply) error {
	if len(reply.Image) > 0 {
		return c.Send(&tele.Photo{
			File:    tele.FromReader(bytes.NewReader(reply.Image)),
			Caption: reply.Text,
		})
	}
	if reply.Text == "" {
		return nil
	}
	return c.Send(reply.Text)
}
