package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"wanderai/internal/http/handlers"
	"wanderai/internal/http/httpapi"
	"wanderai/internal/infra"
	"wanderai/internal/infra/geoip"
	"wanderai/internal/travelphoto"
	"wanderai/internal/volcengine"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if !cfg.HasUpstreamCredentials() {
		logger.Warn().Msg("VOLCANO_ACCESS_KEY or VOLCANO_SECRET_KEY not set; generation requests will fail until configured")
	}

	client, err := volcengine.NewClient(volcengine.Options{
		AccessKey:      cfg.VolcAccessKey,
		SecretKey:      cfg.VolcSecretKey,
		Region:         cfg.VolcRegion,
		Endpoint:       cfg.VolcEndpoint,
		ReqKey:         cfg.VolcReqKey,
		RequestTimeout: cfg.UpstreamTimeout,
		Logger:         &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure upstream client")
	}

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
		resolver = &geoip.Resolver{}
	}
	defer resolver.Close()

	app := handlers.NewApp(travelphoto.NewService(client, &logger), &logger)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:          logger,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		RateLimitPerMin: cfg.RateLimitPerMin,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   resolver.Lookup(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().
			Str("addr", server.Addr()).
			Str("region", cfg.VolcRegion).
			Bool("geoip", resolver.Enabled()).
			Msg("API listening")
		if err := server.Start(); err != nil {
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
