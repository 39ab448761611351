// Package handler maps Telegram updates onto the command surface and the
// relay pipeline. All dependencies are injected at setup; the package keeps
// no global state.
package handler

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-relay/internal/crash"
	"tg-relay/internal/moderation"
	"tg-relay/internal/relay"
	"tg-relay/internal/storage"
)

// Handler bundles everything update processing needs.
type Handler struct {
	policy      *moderation.Policy
	pipeline    *relay.Pipeline
	users       *storage.UserRepository
	transport   relay.Transport
	destination int64
}

// New creates a Handler with its collaborators. destination is the moderated
// chat; events originating there never get command replies.
func New(policy *moderation.Policy, pipeline *relay.Pipeline, users *storage.UserRepository, transport relay.Transport, destination int64) *Handler {
	return &Handler{
		policy:      policy,
		pipeline:    pipeline,
		users:       users,
		transport:   transport,
		destination: destination,
	}
}

// SetupMessageHandlers registers the update handlers on the bot handler:
// slash commands first, everything else goes through the relay pipeline.
func (h *Handler) SetupMessageHandlers(bh *th.BotHandler, bot *telego.Bot) {
	botID := bot.ID()

	bh.HandleMessage(func(ctx *th.Context, message telego.Message) error {
		defer crash.RecoverWithStack("message-handler")

		// Skip messages without sender info or from bots (ourselves included).
		if message.From == nil || message.From.IsBot || message.From.ID == botID {
			return nil
		}

		in := inboundFromMessage(message)

		cmd := moderation.ParseCommand(message.Text)
		switch cmd.Kind {
		case moderation.CommandStart:
			return h.handleStart(ctx.Context(), in)
		case moderation.CommandBan:
			return h.handleBan(ctx.Context(), in, cmd)
		case moderation.CommandUnban:
			return h.handleUnban(ctx.Context(), in, cmd)
		case moderation.CommandUnknown:
			if in.ChatID == h.destination {
				return nil
			}
			return h.reply(ctx.Context(), in, replyUnknownCommand)
		}

		return h.pipeline.Process(ctx.Context(), in)
	})
}

// inboundFromMessage maps a telego message onto the transport-neutral event.
// Telegram sends photos as a size ladder; the last entry is the largest.
func inboundFromMessage(message telego.Message) relay.Inbound {
	in := relay.Inbound{
		UserID:    message.From.ID,
		ChatID:    message.Chat.ID,
		FirstName: message.From.FirstName,
		LastName:  message.From.LastName,
		Username:  message.From.Username,
		Text:      message.Text,
		Caption:   message.Caption,
	}

	if len(message.Photo) > 0 {
		in.PhotoID = message.Photo[len(message.Photo)-1].FileID
	}
	if message.Video != nil {
		in.VideoID = message.Video.FileID
	}
	if message.Document != nil {
		in.DocumentID = message.Document.FileID
	}

	return in
}
