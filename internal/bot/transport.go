package bot

import (
	"context"

	"github.com/mymmrac/telego"

	"tg-relay/internal/relay"
)

// TelegramTransport implements relay.Transport over the telego client. All
// outbound text uses HTML parse mode, matching the sender annotation format.
type TelegramTransport struct {
	bot *telego.Bot
}

// NewTelegramTransport wraps a telego bot as a relay transport.
func NewTelegramTransport(bot *telego.Bot) *TelegramTransport {
	return &TelegramTransport{bot: bot}
}

var _ relay.Transport = (*TelegramTransport)(nil)

// Deliver sends one payload to the destination chat, choosing the API call by
// content kind. Failures are wrapped as *relay.DeliveryError.
func (t *TelegramTransport) Deliver(ctx context.Context, chatID int64, p relay.Payload) error {
	var err error
	switch p.Kind {
	case relay.ContentPhoto:
		_, err = t.bot.SendPhoto(ctx, &telego.SendPhotoParams{
			ChatID:    telego.ChatID{ID: chatID},
			Photo:     telego.InputFile{FileID: p.FileID},
			Caption:   p.Text,
			ParseMode: "HTML",
		})
	case relay.ContentVideo:
		_, err = t.bot.SendVideo(ctx, &telego.SendVideoParams{
			ChatID:    telego.ChatID{ID: chatID},
			Video:     telego.InputFile{FileID: p.FileID},
			Caption:   p.Text,
			ParseMode: "HTML",
		})
	case relay.ContentDocument:
		_, err = t.bot.SendDocument(ctx, &telego.SendDocumentParams{
			ChatID:    telego.ChatID{ID: chatID},
			Document:  telego.InputFile{FileID: p.FileID},
			Caption:   p.Text,
			ParseMode: "HTML",
		})
	default:
		_, err = t.bot.SendMessage(ctx, &telego.SendMessageParams{
			ChatID:    telego.ChatID{ID: chatID},
			Text:      p.Text,
			ParseMode: "HTML",
		})
	}

	if err != nil {
		return &relay.DeliveryError{Kind: p.Kind, Err: err}
	}
	return nil
}

// Reply answers the originating user in their private chat with the bot.
func (t *TelegramTransport) Reply(ctx context.Context, in relay.Inbound, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: in.ChatID},
		Text:      text,
		ParseMode: "HTML",
	})
	return err
}
