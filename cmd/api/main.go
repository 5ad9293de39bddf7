package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"utilhub/internal/catalog"
	"utilhub/internal/chat"
	httpapi "utilhub/internal/http"
	"utilhub/internal/http/handlers"
	"utilhub/internal/infra"
	"utilhub/internal/infra/credentials"
	"utilhub/internal/infra/geoip"
	"utilhub/internal/middleware"
	"utilhub/internal/payment"
	"utilhub/internal/todo"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()
	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
	} else if resolver != nil {
		defer func() {
			_ = resolver.Close()
		}()
	}
	var countryLookup middleware.CountryLookup
	if resolver != nil {
		countryLookup = resolver.CountryCode
	}

	localStore, err := todo.NewLocalStore(cfg.LocalStorePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open local task store")
	}

	catalogStore := catalog.NewStore(sqlRunner)
	hub := chat.NewHub()

	// Keys come from the environment first, then from the database store
	// the apikey command writes to.
	creds := credentials.NewStore(sqlRunner)
	openAIKey := cfg.OpenAIAPIKey
	if openAIKey == "" {
		if openAIKey, err = creds.Token(ctx, credentials.ProviderOpenAI); err != nil {
			logger.Warn().Err(err).Msg("failed to read stored openai key")
		}
	}
	tossKey := cfg.TossSecretKey
	if tossKey == "" {
		if tossKey, err = creds.Token(ctx, credentials.ProviderToss); err != nil {
			logger.Warn().Err(err).Msg("failed to read stored toss key")
		}
	}

	var completionClient chat.CompletionClient
	if openAIKey != "" {
		client, err := chat.NewOpenAIClient(chat.OpenAIOptions{
			APIKey:  openAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build openai client")
		}
		completionClient = client
	} else {
		logger.Warn().Msg("no openai key configured, the assistant answers with its fallback reply")
	}
	chatService := chat.NewService(completionClient, sqlRunner, chat.NewDispatcher(catalogStore), hub, logger)

	var tossClient *payment.Client
	if tossKey != "" {
		tossClient, err = payment.NewClient(payment.Options{
			SecretKey: tossKey,
			BaseURL:   cfg.TossBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build payments client")
		}
	} else {
		logger.Warn().Msg("no toss secret key configured, payment confirmation is disabled")
	}

	app := &handlers.App{
		SQL:     sqlRunner,
		Logger:  logger,
		Cfg:     *cfg,
		Catalog: catalogStore,
		Chat:    chatService,
		Hub:     hub,
		Toss:    tossClient,
		Todos:   todo.NewRegistry(),
		Remote:  todo.NewRemoteStore(sqlRunner),
		Local:   localStore,
	}

	router := httpapi.NewRouter(app, countryLookup)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
