package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/plutobets/pluto/internal/bot"
	"github.com/plutobets/pluto/internal/khronos"
	"github.com/plutobets/pluto/internal/pkg/cache"
	"github.com/plutobets/pluto/internal/pkg/config"
	"github.com/plutobets/pluto/internal/pkg/logging"
	"github.com/plutobets/pluto/internal/pkg/retry"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to config file")
	flag.Parse()

	// Optional .env for local development; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.Logging, "pluto")

	var store cache.Service
	if cfg.Redis.Addr != "" {
		redisStore, err := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		store = redisStore
	} else {
		logger.Warn("no Redis address configured, using in-process cache")
		store = cache.NewMemory()
	}
	defer store.Close()

	executor := retry.NewExecutor(cfg.Retry, logger)
	client := khronos.NewClient(khronos.Options{
		BaseURL:     cfg.Khronos.BaseURL,
		APIKey:      cfg.Khronos.APIKey,
		ServiceName: cfg.Khronos.ServiceName,
		UserAgent:   cfg.Khronos.UserAgent,
		Timeout:     cfg.Khronos.Timeout,
	}, executor, logger)

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		logger.Error("failed to create Discord session", "error", err)
		os.Exit(1)
	}

	manager := bot.NewBetslipManager(
		khronos.NewBetslipService(client),
		khronos.NewMatchService(client),
		store,
		cfg.Cache.PendingBetTTL,
		logger,
	)
	footer := bot.NewFooterProvider(khronos.NewFooterService(client), store, cfg.Cache.FooterTTL, logger)
	leaderboard := bot.NewLeaderboardProvider(khronos.NewLeaderboardService(client), store, cfg.Cache.LeaderboardTTL, logger)

	b := bot.New(session, bot.Deps{
		Manager:        manager,
		Leaderboard:    leaderboard,
		Matches:        khronos.NewMatchService(client),
		Accounts:       khronos.NewAccountService(client),
		Props:          khronos.NewPropsService(client),
		Footer:         footer,
		Limiter:        bot.NewDMLimiter(),
		WelcomeMessage: cfg.Discord.WelcomeMessage,
		Logger:         logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := b.Start(ctx); err != nil {
		logger.Error("failed to start bot", "error", err)
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	logger.Info("received shutdown signal, stopping bot")
	cancel()

	if err := b.Close(); err != nil {
		logger.Error("failed to close Discord session", "error", err)
	}
	logger.Info("bot stopped")
}
