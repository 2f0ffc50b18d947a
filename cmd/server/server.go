package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/zelican/chat-api/internal/config"
	"github.com/zelican/chat-api/internal/domain/chat"
	"github.com/zelican/chat-api/internal/infrastructure/authclient"
	"github.com/zelican/chat-api/internal/infrastructure/crontab"
	"github.com/zelican/chat-api/internal/infrastructure/database"
	"github.com/zelican/chat-api/internal/infrastructure/database/repository/conversationrepo"
	"github.com/zelican/chat-api/internal/infrastructure/logger"
	"github.com/zelican/chat-api/internal/infrastructure/observability"
	"github.com/zelican/chat-api/internal/interfaces/httpserver"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/handlers/apikeyhandler"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/handlers/authhandler"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/zelican/chat-api/internal/interfaces/httpserver/routes"
	"github.com/zelican/chat-api/internal/utils/httpclients"
)

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	mongoClient, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnect database")
		}
	}()

	conversationRepo := conversationrepo.NewMongoConversationRepository(mongoClient.Database(cfg.MongoDatabase))
	if err := conversationRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("ensure indexes")
	}

	chatService := chat.NewService(conversationRepo)
	authClient := authclient.New(
		httpclients.NewClient("auth-service", cfg.AuthTimeout),
		cfg.AuthServiceURL, cfg.AuthTimeout, cfg.AuthLogoutTimeout, log,
	)

	apiRoutes := routes.New(
		authhandler.New(authClient, cfg, log),
		chathandler.New(chatService, log),
		apikeyhandler.New(cfg),
		authClient,
		log,
	)
	httpServer := httpserver.New(cfg, log, apiRoutes)
	cron := crontab.New(cfg, chatService)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// If graceful shutdown stalls, go down hard.
	go func() {
		<-ctx.Done()
		time.Sleep(cfg.ShutdownTimeout + 5*time.Second)
		log.Error().Msg("shutdown deadline exceeded, forcing exit")
		os.Exit(1)
	}()

	var eg errgroup.Group
	eg.Go(func() error {
		if err := httpServer.Run(runCtx); err != nil {
			cancel()
			return err
		}
		return nil
	})
	eg.Go(func() error {
		if err := runMetricsServer(runCtx, cfg, log); err != nil {
			cancel()
			return err
		}
		return nil
	})
	eg.Go(func() error {
		if err := cron.Run(runCtx); err != nil {
			cancel()
			return err
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}
	log.Info().Msg("application exited cleanly")
}

// runMetricsServer serves Prometheus scrapes on a separate listener so
// the metrics port never has to be exposed alongside the API.
func runMetricsServer(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{
		Addr:    cfg.MetricsAddr(),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.MetricsAddr()).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
