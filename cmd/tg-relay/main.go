package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tg-relay/internal/bot"
	"tg-relay/internal/config"
	"tg-relay/internal/crash"
	"tg-relay/internal/handler"
	"tg-relay/internal/logger"
	"tg-relay/internal/moderation"
	"tg-relay/internal/relay"
	"tg-relay/internal/service"
	"tg-relay/internal/storage"
)

func main() {
	defer crash.RecoverWithStackAndExit("main")

	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	flag.Parse()

	// .env is optional; environment overrides the config file either way.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Setup(cfg); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	if err := storage.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	botService, err := bot.Initialize(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}

	// Wire the core: repositories → policy → pipeline → handlers.
	users := storage.NewUserRepository(storage.GetDB())
	bans := storage.NewBanRepository(storage.GetDB())
	policy := moderation.NewPolicy(bans, users, cfg.Bot.AdminIDs, cfg.Moderation.RateLimit)
	transport := bot.NewTelegramTransport(botService.Bot)
	pipeline := relay.NewPipeline(policy, users, transport, cfg.Bot.DestinationChatID)

	h := handler.New(policy, pipeline, users, transport, cfg.Bot.DestinationChatID)
	h.SetupMessageHandlers(botService.Handler, botService.Bot)

	janitor := service.NewJanitor(bans, cfg.Moderation.JanitorSchedule)
	if err := janitor.Start(); err != nil {
		log.Fatalf("Failed to start ban janitor: %v", err)
	}

	if botService.Server != nil {
		crash.SafeGoroutine("webhook-server", func() {
			if err := botService.Server.Start(); err != nil {
				logger.Errorf("HTTP server error: %v", err)
			}
		})
	}

	crash.SafeGoroutine("bot-handler", botService.Start)
	logger.Infof("Relay bot is running (destination chat %d)", cfg.Bot.DestinationChatID)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	logger.Infof("Received signal: %v, shutting down...", sig)

	janitor.Stop()
	botService.Stop()

	if botService.Server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := botService.Server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("HTTP server shutdown error: %v", err)
		}
	}

	logger.Infof("Relay bot gracefully stopped")
}
