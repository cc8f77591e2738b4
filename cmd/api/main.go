package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ivinfotech/iv-studio/internal/http/handlers"
	"github.com/ivinfotech/iv-studio/internal/http/httpapi"
	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/infra/geoip"
	"github.com/ivinfotech/iv-studio/internal/pipeline"
	"github.com/ivinfotech/iv-studio/internal/providers/cloudinary"
	"github.com/ivinfotech/iv-studio/internal/providers/openai"
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

	countries, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, country logging disabled")
	}

	llm, err := openai.NewClient(openai.Options{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		BaseURL: cfg.OpenAIBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure llm client")
	}
	uploader := cloudinary.NewUploader(cloudinary.Options{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
	})
	if !uploader.HasCredentials() {
		logger.Warn().Msg("cloudinary credentials missing, custom asset uploads will fail")
	}

	prompts := pipeline.New(llm, uploader, pipeline.Config{
		Company:             cfg.Company,
		DefaultLogoURL:      cfg.DefaultLogoURL,
		DefaultCharacterURL: cfg.DefaultCharacterURL,
	}, logger)

	app := &handlers.App{
		SQL:      infra.NewSQLRunner(dbpool, logger),
		Logger:   logger,
		Config:   cfg,
		Pipeline: prompts,
		Uploader: uploader,
	}

	router := httpapi.NewRouter(app, countries)
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
