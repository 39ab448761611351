package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"tg-relay/internal/config"
	"tg-relay/internal/logger"
)

// BotService represents the Telegram bot service
type BotService struct {
	Bot     *telego.Bot
	Handler *th.BotHandler
	// Server is non-nil only in webhook mode.
	Server *WebhookServer
}

// Start starts the bot handler. Blocks until Stop is called.
func (b *BotService) Start() {
	b.Handler.Start()
}

// Stop stops the bot handler
func (b *BotService) Stop() {
	b.Handler.Stop()
}

// Initialize creates the bot, registers its command menu and wires the update
// source: long polling by default, webhook when an endpoint is configured.
func Initialize(ctx context.Context, cfg *config.Config) (*BotService, error) {
	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	bot, err := telego.NewBot(cfg.Bot.Token, telego.WithDefaultDebugLogger())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	botUser, err := bot.GetMe(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bot info: %w", err)
	}
	logger.Infof("Authorized on account %s", botUser.Username)

	setCommands(ctx, bot)

	if cfg.Bot.Webhook.Endpoint != "" {
		// Fixed secret derived from the token tail, same lifecycle as the token.
		secretToken := "relay_webhook_token_" + cfg.Bot.Token[len(cfg.Bot.Token)-6:]
		bh, server, err := SetupWebhook(ctx, bot, cfg.Bot.Webhook, secretToken)
		if err != nil {
			return nil, fmt.Errorf("failed to setup webhook: %w", err)
		}
		return &BotService{Bot: bot, Handler: bh, Server: server}, nil
	}

	// Long polling: drop any webhook a previous deployment may have left.
	if err := bot.DeleteWebhook(ctx, &telego.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
		return nil, fmt.Errorf("failed to delete existing webhook: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start long polling: %w", err)
	}

	bh, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	logger.Infof("Receiving updates via long polling")
	return &BotService{Bot: bot, Handler: bh}, nil
}

// setCommands publishes the bot command menu. Failures are logged, not fatal:
// the bot works without a menu.
func setCommands(ctx context.Context, bot *telego.Bot) {
	commands := []telego.BotCommand{
		{Command: "start", Description: "Register and get started"},
		{Command: "ban", Description: "Ban a user: /ban <user_id> [days]"},
		{Command: "unban", Description: "Unban a user: /unban <user_id>"},
	}

	err := bot.SetMyCommands(ctx, &telego.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		logger.Warningf("Failed to set bot commands: %v", err)
	}
}
