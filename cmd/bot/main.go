package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/xaenox/guard-bot/internal/bot"
	"github.com/xaenox/guard-bot/internal/classifier"
	"github.com/xaenox/guard-bot/internal/corpus"
	"github.com/xaenox/guard-bot/internal/metrics"
	"github.com/xaenox/guard-bot/internal/platform"
	"github.com/xaenox/guard-bot/internal/store"
	"github.com/xaenox/guard-bot/pkg/config"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err), zap.String("path", "config.yaml"))
	}

	// Initialize corpus
	var corp corpus.Corpus
	switch cfg.Corpus.Backend {
	case "postgres":
		logger.Info("Using PostgreSQL corpus")
		corp, err = corpus.NewPostgresCorpus(corpus.DatabaseConfig{
			Host:     cfg.Corpus.Database.Host,
			Port:     cfg.Corpus.Database.Port,
			User:     cfg.Corpus.Database.User,
			Password: cfg.Corpus.Database.Password,
			DBName:   cfg.Corpus.Database.DBName,
			SSLMode:  cfg.Corpus.Database.SSLMode,
		})
		if err != nil {
			logger.Fatal("Failed to initialize corpus", zap.Error(err))
		}
	default:
		logger.Info("Using file corpus", zap.String("path", cfg.Corpus.Path))
		corp = corpus.NewFileCorpus(cfg.Corpus.Path)
	}
	defer corp.Close()

	// Initialize classifier
	var clf classifier.Classifier
	switch cfg.Classifier.Backend {
	case "openai":
		clf = classifier.NewGPT(
			cfg.OpenAI.APIKey,
			cfg.OpenAI.Model,
			cfg.OpenAI.MaxTokens,
			cfg.OpenAI.Temperature,
			corp,
			cfg.Classifier.EvalSample,
			logger,
		)
	default:
		clf = classifier.NewBayes(corp, cfg.Classifier.HoldoutFraction, logger)
	}

	// Load the model from the existing corpus before serving
	accuracy, err := clf.Train(context.Background(), classifier.ModeInit)
	if err != nil {
		logger.Fatal("Failed to train classifier", zap.Error(err))
	}
	logger.Info("Classifier ready", zap.Float64("accuracy", accuracy))

	// Initialize gateway
	tg, err := platform.NewTelegram(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	// Ephemeral stores and their periodic cleanup
	sessions := store.NewSessionStore()
	pending := store.NewPendingStore()
	janitor := store.NewJanitor(cfg.Moderation.CleanupInterval, logger, sessions, pending)
	janitor.Start()
	defer janitor.Stop()

	// Metrics endpoint
	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("Metrics server stopped", zap.Error(err))
			}
		}()
	}

	b := bot.New(bot.Options{
		Gateway:          tg,
		Classifier:       clf,
		Corpus:           corp,
		Sessions:         sessions,
		Pending:          pending,
		Logger:           logger,
		ModeratedChats:   cfg.Moderation.ChatIDs,
		JournalChatID:    cfg.Moderation.JournalChatID,
		AllowedForwards:  []int64{cfg.Moderation.ChannelID},
		AnonymousAdminID: cfg.Moderation.AnonymousAdminID,
		WarningTTL:       cfg.Moderation.WarningTTL,
	})

	// Stop polling on SIGINT/SIGTERM; Run returns when the channel closes.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		tg.Stop()
	}()

	logger.Info("Bot started")
	b.Run(tg.UpdatesChan())
}
